package models

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/danielgtaylor/huma/v2"
)

// BallisticInput maps a ballistic parameter name to its numeric value.
// Values are Go numeric types or json.Number.
type BallisticInput map[string]any

// DropChartEntry represents the bullet drop at a single range
type DropChartEntry struct {
	RangeYd int     `json:"range_yd" doc:"Range in yards"`
	DropIn  float64 `json:"drop_in" doc:"Drop in inches"`
}

// DropChart is an ordered sequence of drop entries, in the order they were parsed
type DropChart []DropChartEntry


// Number is a numeric parameter kept exactly as it was written, so 70 stays 70 and 0.70 stays 0.70
type Number string

// Schema documents Number as a JSON number
func (n Number) Schema(r huma.Registry) *huma.Schema {
	return &huma.Schema{Type: huma.TypeNumber}
}

func (n *Number) UnmarshalJSON(data []byte) error {
	s := string(data)
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return fmt.Errorf("invalid number %s", s)
	}
	*n = Number(s)
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(n), nil
}

// JSONNumber returns n in the form the prompt encoder writes verbatim
func (n Number) JSONNumber() json.Number {
	return json.Number(n)
}
