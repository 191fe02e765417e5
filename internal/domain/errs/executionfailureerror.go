package errs

import "fmt"

type ExecutionFailureError struct {
	message string
}

func (e *ExecutionFailureError) Error() string {
	return e.message
}

func (e *ExecutionFailureError) Kind() string {
	return KindExecutionFailure
}

func ExecutionFailureErrorf(format string, args ...any) *ExecutionFailureError {
	return &ExecutionFailureError{
		message: fmt.Sprintf(format, args...),
	}
}

var _ error = &ExecutionFailureError{}
