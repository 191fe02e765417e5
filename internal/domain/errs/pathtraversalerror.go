package errs

import "fmt"

type PathTraversalError struct {
	message string
}

func (e *PathTraversalError) Error() string {
	return e.message
}

func (e *PathTraversalError) Kind() string {
	return KindPathTraversal
}

func PathTraversalErrorf(format string, args ...any) *PathTraversalError {
	return &PathTraversalError{
		message: fmt.Sprintf(format, args...),
	}
}

var _ error = &PathTraversalError{}
