package errs

import "fmt"

type CanceledError struct {
	message string
}

func (e *CanceledError) Error() string {
	return e.message
}

func (e *CanceledError) Kind() string {
	return KindCanceled
}

func CanceledErrorf(format string, args ...any) *CanceledError {
	return &CanceledError{
		message: fmt.Sprintf(format, args...),
	}
}

var _ error = &CanceledError{}
