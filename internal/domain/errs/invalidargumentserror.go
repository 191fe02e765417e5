package errs

import "fmt"

type InvalidArgumentsError struct {
	message string
}

func (e *InvalidArgumentsError) Error() string {
	return e.message
}

func (e *InvalidArgumentsError) Kind() string {
	return KindInvalidArguments
}

func InvalidArgumentsErrorf(format string, args ...any) *InvalidArgumentsError {
	return &InvalidArgumentsError{
		message: fmt.Sprintf(format, args...),
	}
}

var _ error = &InvalidArgumentsError{}
