package errs

import "fmt"

type BinaryRejectedError struct {
	message string
}

func (e *BinaryRejectedError) Error() string {
	return e.message
}

func (e *BinaryRejectedError) Kind() string {
	return KindBinaryRejected
}

func BinaryRejectedErrorf(format string, args ...any) *BinaryRejectedError {
	return &BinaryRejectedError{
		message: fmt.Sprintf(format, args...),
	}
}

var _ error = &BinaryRejectedError{}
