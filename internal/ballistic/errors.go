package ballistic

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingColon is returned in strict mode for a segment without a colon
	ErrMissingColon = errors.New("segment has no colon")
	// ErrMalformedSegment is returned when a segment does not split into exactly one range and one drop
	ErrMalformedSegment = errors.New("malformed segment")
	// ErrMissingSuffix is returned in strict mode when a token lacks its unit suffix
	ErrMissingSuffix = errors.New("missing unit suffix")
)

// MissingFieldError reports a required prompt field absent from the input
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

// ParseError reports a model response that could not be read as a drop chart.
// Raw is the complete response text.
type ParseError struct {
	Raw     string
	Segment string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse drop chart segment %q: %v", e.Segment, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
