package features

import (
	"fmt"
	"strings"
)

// SchemaMismatchError means a frame does not carry the columns a fitted
// stage expects. It indicates a wiring or artifact defect, not bad input.
type SchemaMismatchError struct {
	Stage    string
	Expected []string
	Got      []string
	Reason   string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("%s: schema mismatch: %s (expected [%s], got [%s])",
		e.Stage, e.Reason, strings.Join(e.Expected, ", "), strings.Join(e.Got, ", "))
}

func mismatch(stage string, expected []string, in Frame, format string, args ...interface{}) error {
	return &SchemaMismatchError{
		Stage:    stage,
		Expected: append([]string(nil), expected...),
		Got:      in.Columns(),
		Reason:   fmt.Sprintf(format, args...),
	}
}

// InvalidValueError means a column holds a value no stage can use, such as
// an infinity. Missing values are NaN and are not errors.
type InvalidValueError struct {
	Stage  string
	Column string
	Value  float64
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("%s: column %q holds unusable value %v", e.Stage, e.Column, e.Value)
}
