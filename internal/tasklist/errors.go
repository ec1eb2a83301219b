package tasklist

import (
	"errors"
	"fmt"
)

var ErrUnknownIDGenerator = errors.New("unknown id generator")

// ValidationError reports input the store refused. State is left unchanged.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func IsValidationError(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

func newEmptyTextError() *ValidationError {
	return &ValidationError{
		Field:  "text",
		Reason: "task cannot be empty",
	}
}
