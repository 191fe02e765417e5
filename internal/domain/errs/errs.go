// Package errs defines the error taxonomy shared by the tool executors and
// the dispatcher. Every type carries a stable machine-readable kind string
// that survives into tool results handed back to the model.
package errs

import "errors"

const (
	KindPathTraversal    = "path_traversal"
	KindOversizedFile    = "oversized_file"
	KindBinaryRejected   = "binary_rejected"
	KindUnknownTool      = "unknown_tool"
	KindInvalidArguments = "invalid_arguments"
	KindEditNotFound     = "edit_not_found"
	KindEditAmbiguous    = "edit_ambiguous"
	KindExecutionFailure = "execution_failure"
	KindModelError       = "model_error"
	KindCanceled         = "canceled"
	KindNotFound         = "not_found"
	KindInternal         = "internal"
)

type Kinder interface {
	Kind() string
}

// KindOf returns the stable kind for err, falling back to
// KindExecutionFailure for untyped errors.
func KindOf(err error) string {
	var kinder Kinder
	if errors.As(err, &kinder) {
		return kinder.Kind()
	}
	return KindExecutionFailure
}
