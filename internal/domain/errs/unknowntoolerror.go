package errs

import "fmt"

type UnknownToolError struct {
	message string
}

func (e *UnknownToolError) Error() string {
	return e.message
}

func (e *UnknownToolError) Kind() string {
	return KindUnknownTool
}

func UnknownToolErrorf(format string, args ...any) *UnknownToolError {
	return &UnknownToolError{
		message: fmt.Sprintf(format, args...),
	}
}

var _ error = &UnknownToolError{}
