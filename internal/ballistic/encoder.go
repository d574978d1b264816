package ballistic

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/RMahshie/balcal/pkg/models"
)

const (
	segmentSeparator = ", "
	pairSeparator    = ": "
)

// Encoder renders ballistic parameters as a model prompt
type Encoder struct {
	schema Schema
}

// NewEncoder creates an encoder bound to schema
func NewEncoder(schema Schema) *Encoder {
	return &Encoder{schema: schema}
}

// Schema returns the schema the encoder emits
func (e *Encoder) Schema() Schema {
	return e.schema
}

// Encode produces "field: value, field: value, ..." in schema order.
// Keys not in the schema are ignored.
func (e *Encoder) Encode(input models.BallisticInput) (string, error) {
	var b strings.Builder
	for i, field := range e.schema.Fields {
		value, ok := input[field]
		if !ok {
			return "", &MissingFieldError{Field: field}
		}
		if i > 0 {
			b.WriteString(segmentSeparator)
		}
		b.WriteString(field)
		b.WriteString(pairSeparator)
		b.WriteString(FormatValue(value))
	}
	return b.String(), nil
}

// Encode encodes input with the canonical schema
func Encode(input models.BallisticInput) (string, error) {
	return NewEncoder(Full).Encode(input)
}

// FormatValue renders a parameter value in its natural decimal form.
// Integral floats keep a trailing ".0" so 55 and 55.0 stay distinguishable.
func FormatValue(v any) string {
	switch n := v.(type) {
	case json.Number:
		return n.String()
	case float64:
		return formatFloat(n, 64)
	case float32:
		return formatFloat(float64(n), 32)
	default:
		return fmt.Sprint(v)
	}
}

func formatFloat(f float64, bitSize int) string {
	s := strconv.FormatFloat(f, 'f', -1, bitSize)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return s
	}
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
