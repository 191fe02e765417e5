package errs

import "fmt"

type ModelError struct {
	message string
}

func (e *ModelError) Error() string {
	return e.message
}

func (e *ModelError) Kind() string {
	return KindModelError
}

func ModelErrorf(format string, args ...any) *ModelError {
	return &ModelError{
		message: fmt.Sprintf(format, args...),
	}
}

var _ error = &ModelError{}
