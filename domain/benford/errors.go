package benford

import "fmt"

// Causes carried by ParseError.
const (
	CauseMissingValue = "missing value"
	CauseNotInteger   = "not an integer"
	CauseLineTooLong  = "line too long"
)

// ParseError reports a malformed row. Line is 1-based with the header as
// line 1.
type ParseError struct {
	Line  int
	Cause string
	Value string
}

func (e *ParseError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("line %d: %s: %q", e.Line, e.Cause, e.Value)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Cause)
}

// DivisionError is returned when frequencies are requested for zero
// observations.
type DivisionError struct{}

func (e *DivisionError) Error() string {
	return "cannot compute frequencies from zero observations"
}

// PlotError reports series that cannot be drawn side by side.
type PlotError struct {
	Reason string
}

func (e *PlotError) Error() string {
	return "plot: " + e.Reason
}
