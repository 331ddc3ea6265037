package contact

import (
	"errors"
	"fmt"
)

// FieldError reports a single schema violation attributed to exactly one
// field: the first invalid field in declared order.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid field %q: %s", e.Field, e.Message)
}

func IsFieldError(err error) (*FieldError, bool) {
	var fieldErr *FieldError
	ok := errors.As(err, &fieldErr)
	return fieldErr, ok
}
