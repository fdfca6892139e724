package dataset

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupported indicates the payload is not a readable spreadsheet.
var ErrUnsupported = errors.New("unsupported spreadsheet format")

// LoadError reports a payload that could not be turned into a table: an invalid
// workbook, a missing sheet, an oversized upload, or absent required columns.
type LoadError struct {
	Source  string
	Reason  string
	Missing []string
	Err     error
}

func (e *LoadError) Error() string {
	if e == nil {
		return "load failed"
	}
	var b strings.Builder
	b.WriteString("load ")
	if e.Source != "" {
		b.WriteString(fmt.Sprintf("%q", e.Source))
	} else {
		b.WriteString("spreadsheet")
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	if len(e.Missing) > 0 {
		b.WriteString(": missing columns ")
		b.WriteString(strings.Join(e.Missing, ", "))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *LoadError) Unwrap() error { return e.Err }

func loadErr(source, reason string, err error) *LoadError {
	return &LoadError{Source: source, Reason: reason, Err: err}
}
