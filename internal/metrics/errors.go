package metrics

import "fmt"

// ProcessingError reports malformed column data found while normalizing a table.
// Row is the 1-based sheet row (the header is row 1).
type ProcessingError struct {
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *ProcessingError) Error() string {
	if e == nil {
		return "processing failed"
	}
	msg := fmt.Sprintf("processing failed at row %d, column %q", e.Row, e.Column)
	if e.Value != "" {
		msg += fmt.Sprintf(" (value %q)", e.Value)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ProcessingError) Unwrap() error { return e.Err }
