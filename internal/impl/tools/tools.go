package tools

import (
	"os"
	"strconv"

	"github.com/pmezard/go-difflib/difflib"
	"go.uber.org/zap"
)

const defaultMaxFileSize = 1048576

// newGuard builds a PathGuard from a tool's configuration map. The guard is
// rebuilt on each use so UpdateConfiguration takes effect immediately.
func newGuard(configuration map[string]string, logger *zap.Logger) *PathGuard {
	workspace := configuration["workspace"]
	if workspace == "" {
		workspace, _ = os.Getwd()
	}
	maxFileSize := int64(defaultMaxFileSize)
	if raw := configuration["max_file_size"]; raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil && parsed > 0 {
			maxFileSize = parsed
		}
	}
	return NewPathGuard(workspace, maxFileSize, logger)
}

func unifiedDiff(displayPath, original, modified string) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(modified),
		FromFile: displayPath,
		ToFile:   displayPath,
		Context:  3,
	}
	return difflib.GetUnifiedDiffString(diff)
}
