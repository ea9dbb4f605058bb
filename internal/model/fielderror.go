package model

import "fmt"

// FieldError reports a field whose supplied value failed its range or
// required-ness constraint. It is produced during diff construction and
// converted to an INVALID_VALUE result before anything is written.
type FieldError struct {
	Field string
	Raw   string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid value %q for field %s", e.Raw, e.Field)
}
