package errs

import "fmt"

type EditNotFoundError struct {
	message string
}

func (e *EditNotFoundError) Error() string {
	return e.message
}

func (e *EditNotFoundError) Kind() string {
	return KindEditNotFound
}

func EditNotFoundErrorf(format string, args ...any) *EditNotFoundError {
	return &EditNotFoundError{
		message: fmt.Sprintf(format, args...),
	}
}

var _ error = &EditNotFoundError{}
