package errs

import "fmt"

type OversizedFileError struct {
	message string
}

func (e *OversizedFileError) Error() string {
	return e.message
}

func (e *OversizedFileError) Kind() string {
	return KindOversizedFile
}

func OversizedFileErrorf(format string, args ...any) *OversizedFileError {
	return &OversizedFileError{
		message: fmt.Sprintf(format, args...),
	}
}

var _ error = &OversizedFileError{}
