package errs

import "fmt"

type EditAmbiguousError struct {
	message string
}

func (e *EditAmbiguousError) Error() string {
	return e.message
}

func (e *EditAmbiguousError) Kind() string {
	return KindEditAmbiguous
}

func EditAmbiguousErrorf(format string, args ...any) *EditAmbiguousError {
	return &EditAmbiguousError{
		message: fmt.Sprintf(format, args...),
	}
}

var _ error = &EditAmbiguousError{}
