package tools

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/drujensen/engineer/internal/domain/errs"
	"github.com/drujensen/engineer/internal/domain/interfaces"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

const binaryProbeSize = 1024

// PathGuard validates every tool path before any filesystem side effect.
// Checks run in a fixed order and the first violation is reported.
type PathGuard struct {
	root        string
	maxFileSize int64
	logger      *zap.Logger
}

func NewPathGuard(root string, maxFileSize int64, logger *zap.Logger) *PathGuard {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = filepath.Clean(root)
	}
	return &PathGuard{
		root:        abs,
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

func (g *PathGuard) Root() string {
	return g.root
}

func (g *PathGuard) MaxFileSize() int64 {
	return g.maxFileSize
}

// Resolve normalizes path against the working root and rejects anything that
// escapes it. Relative paths resolve against the root; absolute paths must
// already be inside it.
func (g *PathGuard) Resolve(path string) (string, error) {
	if strings.ContainsRune(path, 0) {
		return "", errs.PathTraversalErrorf("path contains a NUL byte")
	}

	fullPath := path
	if !filepath.IsAbs(fullPath) {
		fullPath = filepath.Join(g.root, fullPath)
	}
	fullPath = filepath.Clean(fullPath)

	rel, err := filepath.Rel(g.root, fullPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		g.logger.Warn("Path escapes working root", zap.String("path", path))
		return "", errs.PathTraversalErrorf("path %q is outside the working directory", path)
	}
	return fullPath, nil
}

// ResolveRead runs the full read-side validation: confinement, existence,
// size cap, binary probe. Nothing is created or modified.
func (g *PathGuard) ResolveRead(path string) (string, error) {
	fullPath, err := g.Resolve(path)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(fullPath)
	if os.IsNotExist(err) {
		return "", errs.ExecutionFailureErrorf("file not found: %s", g.Display(fullPath))
	}
	if err != nil {
		return "", errs.ExecutionFailureErrorf("cannot stat %s: %v", g.Display(fullPath), err)
	}
	if info.IsDir() {
		return "", errs.ExecutionFailureErrorf("%s is a directory, not a file", g.Display(fullPath))
	}

	if info.Size() > g.maxFileSize {
		return "", errs.OversizedFileErrorf("file %s is %s, exceeding the %s limit",
			g.Display(fullPath), humanize.Bytes(uint64(info.Size())), humanize.Bytes(uint64(g.maxFileSize)))
	}

	binary, err := g.isBinary(fullPath)
	if err != nil {
		return "", errs.ExecutionFailureErrorf("cannot read %s: %v", g.Display(fullPath), err)
	}
	if binary {
		return "", errs.BinaryRejectedErrorf("file %s appears to be binary", g.Display(fullPath))
	}

	return fullPath, nil
}

// ResolveWrite validates a write target and creates missing parent
// directories. Reads never get this treatment.
func (g *PathGuard) ResolveWrite(path string) (string, error) {
	fullPath, err := g.Resolve(path)
	if err != nil {
		return "", err
	}

	if info, err := os.Stat(fullPath); err == nil && info.IsDir() {
		return "", errs.ExecutionFailureErrorf("%s is a directory, not a file", g.Display(fullPath))
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", errs.ExecutionFailureErrorf("cannot create parent directory for %s: %v", g.Display(fullPath), err)
	}
	return fullPath, nil
}

// Display returns the root-relative form of an absolute path for messages.
func (g *PathGuard) Display(fullPath string) string {
	rel, err := filepath.Rel(g.root, fullPath)
	if err != nil {
		return fullPath
	}
	return rel
}

// isBinary reports whether the first probe window contains a NUL byte.
func (g *PathGuard) isBinary(fullPath string) (bool, error) {
	file, err := os.Open(fullPath)
	if err != nil {
		return false, err
	}
	defer file.Close()

	buf := make([]byte, binaryProbeSize)
	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		return false, err
	}
	return bytes.IndexByte(buf[:n], 0) >= 0, nil
}

var _ interfaces.PathGuard = (*PathGuard)(nil)
