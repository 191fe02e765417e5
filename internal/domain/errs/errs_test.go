package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		err  error
		kind string
	}{
		{PathTraversalErrorf("escape"), KindPathTraversal},
		{OversizedFileErrorf("too big"), KindOversizedFile},
		{BinaryRejectedErrorf("binary"), KindBinaryRejected},
		{UnknownToolErrorf("who"), KindUnknownTool},
		{InvalidArgumentsErrorf("bad"), KindInvalidArguments},
		{EditNotFoundErrorf("missing"), KindEditNotFound},
		{EditAmbiguousErrorf("twice"), KindEditAmbiguous},
		{ModelErrorf("upstream"), KindModelError},
		{CanceledErrorf("stopped"), KindCanceled},
		{NotFoundErrorf("gone"), KindNotFound},
		{InternalErrorf("bug"), KindInternal},
		{errors.New("plain"), KindExecutionFailure},
		{fmt.Errorf("wrapped: %w", EditAmbiguousErrorf("twice")), KindEditAmbiguous},
	}

	for _, tc := range cases {
		if got := KindOf(tc.err); got != tc.kind {
			t.Errorf("KindOf(%v) = %s, want %s", tc.err, got, tc.kind)
		}
	}
}
