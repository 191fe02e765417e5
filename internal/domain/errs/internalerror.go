package errs

import "fmt"

type InternalError struct {
	message string
}

func (e *InternalError) Error() string {
	return e.message
}

func (e *InternalError) Kind() string {
	return KindInternal
}

func InternalErrorf(format string, args ...any) *InternalError {
	return &InternalError{
		message: fmt.Sprintf(format, args...),
	}
}

var _ error = &InternalError{}
