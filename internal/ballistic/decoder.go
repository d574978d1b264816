package ballistic

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/RMahshie/balcal/pkg/models"
)

const (
	rangeSuffix = " yards"
	dropSuffix  = " inches"
)

// Decoder parses model responses of the form "100 yards: 2.5 inches, 200 yards: 9.8 inches".
//
// In lenient mode (the default) segments without a colon are skipped and unit
// suffixes are optional. Strict mode rejects both.
type Decoder struct {
	Strict bool
}

// Decode parses raw into a drop chart, preserving segment order.
// It either returns every entry or a *ParseError; partial charts are never returned.
func (d Decoder) Decode(raw string) (models.DropChart, error) {
	chart := models.DropChart{}
	for _, segment := range strings.Split(raw, segmentSeparator) {
		if !strings.Contains(segment, ":") {
			if d.Strict {
				return nil, &ParseError{Raw: raw, Segment: segment, Err: ErrMissingColon}
			}
			continue
		}

		entry, err := d.parseSegment(segment)
		if err != nil {
			return nil, &ParseError{Raw: raw, Segment: segment, Err: err}
		}
		chart = append(chart, entry)
	}
	return chart, nil
}

// Decode parses raw with the lenient decoder
func Decode(raw string) (models.DropChart, error) {
	return Decoder{}.Decode(raw)
}

func (d Decoder) parseSegment(segment string) (models.DropChartEntry, error) {
	tokens := strings.Split(segment, pairSeparator)
	if len(tokens) != 2 {
		return models.DropChartEntry{}, fmt.Errorf("%w: expected 2 tokens, got %d", ErrMalformedSegment, len(tokens))
	}

	rangeToken, err := d.trimUnit(tokens[0], rangeSuffix)
	if err != nil {
		return models.DropChartEntry{}, err
	}
	dropToken, err := d.trimUnit(tokens[1], dropSuffix)
	if err != nil {
		return models.DropChartEntry{}, err
	}

	rangeYd, err := strconv.Atoi(rangeToken)
	if err != nil {
		return models.DropChartEntry{}, fmt.Errorf("invalid range %q: %w", rangeToken, err)
	}
	dropIn, err := strconv.ParseFloat(dropToken, 64)
	if err != nil {
		return models.DropChartEntry{}, fmt.Errorf("invalid drop %q: %w", dropToken, err)
	}

	return models.DropChartEntry{RangeYd: rangeYd, DropIn: dropIn}, nil
}

func (d Decoder) trimUnit(token, suffix string) (string, error) {
	token = strings.TrimSpace(token)
	if trimmed, ok := strings.CutSuffix(token, suffix); ok {
		return strings.TrimSpace(trimmed), nil
	}
	if d.Strict {
		return "", fmt.Errorf("%w %q in %q", ErrMissingSuffix, strings.TrimSpace(suffix), token)
	}
	return token, nil
}
