package clinical

import (
	"fmt"
	"strings"
)

// FieldRangeError reports a value that is not a number of the expected type,
// lies outside its domain, or is not one of the enumerated codes.
type FieldRangeError struct {
	Field  string
	Value  string
	Reason string
}

func (e *FieldRangeError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// IncompleteSelectionError reports categorical selections left blank.
// Fields lists every blank selection in form order.
type IncompleteSelectionError struct {
	Fields []string
}

func (e *IncompleteSelectionError) Error() string {
	return "incomplete form: missing selection for " + strings.Join(e.Fields, ", ")
}
