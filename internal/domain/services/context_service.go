package services

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/drujensen/engineer/internal/domain/entities"
	"github.com/drujensen/engineer/internal/domain/errs"
	"github.com/drujensen/engineer/internal/domain/interfaces"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

const maxFilesPerAdd = 1000

var excludedDirs = map[string]bool{
	".git":         true,
	".engineer":    true,
	".idea":        true,
	".vscode":      true,
	"node_modules": true,
	"__pycache__":  true,
	".venv":        true,
	"venv":         true,
	"dist":         true,
	"build":        true,
	"target":       true,
	".next":        true,
}

type SkippedFile struct {
	Path   string
	Reason string
	Kind   string
}

type AddResult struct {
	Added     []*entities.ContextFile
	Skipped   []SkippedFile
	Replaced  int
	TotalSize int64
}

func (r *AddResult) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Added %d file(s) (%s) to context.", len(r.Added), humanize.Bytes(uint64(r.TotalSize)))
	if r.Replaced > 0 {
		fmt.Fprintf(&b, " Replaced %d existing entr%s.", r.Replaced, pluralY(r.Replaced))
	}
	for _, skipped := range r.Skipped {
		fmt.Fprintf(&b, "\nSkipped %s: %s", skipped.Path, skipped.Reason)
	}
	return b.String()
}

func pluralY(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}

// ContextService handles the /add command: it captures guarded files into
// the model's context, deduplicated by normalized absolute path. Captured
// files survive /clear; only the conversation history is reset there.
type ContextService struct {
	guard  interfaces.PathGuard
	files  map[string]*entities.ContextFile
	order  []string
	logger *zap.Logger
}

func NewContextService(guard interfaces.PathGuard, logger *zap.Logger) *ContextService {
	return &ContextService{
		guard:  guard,
		files:  make(map[string]*entities.ContextFile),
		logger: logger,
	}
}

// Files returns the captured context files in the order they were first
// added. Re-added files keep their original position.
func (s *ContextService) Files() []*entities.ContextFile {
	listed := make([]*entities.ContextFile, 0, len(s.order))
	for _, path := range s.order {
		listed = append(listed, s.files[path])
	}
	return listed
}

func (s *ContextService) Count() int {
	return len(s.files)
}

// AddPath captures a single file, or every readable text file under a
// directory. Directory walks skip binary and oversized files and report
// them; a single-file add fails outright instead.
func (s *ContextService) AddPath(conversation *entities.Conversation, path string) (*AddResult, error) {
	fullPath, err := s.guard.Resolve(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(fullPath)
	if os.IsNotExist(err) {
		return nil, errs.ExecutionFailureErrorf("path not found: %s", path)
	}
	if err != nil {
		return nil, errs.ExecutionFailureErrorf("cannot stat %s: %v", path, err)
	}

	result := &AddResult{}
	if info.IsDir() {
		if err := s.addDirectory(conversation, fullPath, result); err != nil {
			return nil, err
		}
		conversation.Append(entities.NewMessage(entities.RoleSystem,
			directorySummary(s.guard.Display(fullPath), result)))
	} else {
		file, err := s.capture(conversation, fullPath)
		if err != nil {
			return nil, err
		}
		result.Added = append(result.Added, file.ContextFile)
		result.TotalSize += file.ContextFile.Size
		if file.Replaced {
			result.Replaced++
		}
	}

	s.logger.Info("Context updated",
		zap.Int("added", len(result.Added)),
		zap.Int("skipped", len(result.Skipped)),
		zap.Int("total_files", len(s.files)))
	return result, nil
}

func (s *ContextService) addDirectory(conversation *entities.Conversation, dirPath string, result *AddResult) error {
	captured := 0
	return filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			result.Skipped = append(result.Skipped, SkippedFile{
				Path:   path,
				Reason: err.Error(),
				Kind:   errs.KindExecutionFailure,
			})
			return nil
		}
		if d.IsDir() {
			if path != dirPath && (excludedDirs[d.Name()] || strings.HasPrefix(d.Name(), ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		if captured >= maxFilesPerAdd {
			return filepath.SkipAll
		}

		file, err := s.capture(conversation, path)
		if err != nil {
			result.Skipped = append(result.Skipped, SkippedFile{
				Path:   s.guard.Display(path),
				Reason: err.Error(),
				Kind:   errs.KindOf(err),
			})
			return nil
		}
		captured++
		result.Added = append(result.Added, file.ContextFile)
		result.TotalSize += file.ContextFile.Size
		if file.Replaced {
			result.Replaced++
		}
		return nil
	})
}

// directorySummary is appended to the conversation after a directory add so
// the model knows which files were captured and which were excluded.
func directorySummary(display string, result *AddResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Added %d file(s) from directory '%s' to context.", len(result.Added), display)
	if len(result.Added) > 0 {
		b.WriteString("\nIncluded:")
		for _, file := range result.Added {
			fmt.Fprintf(&b, "\n- %s", file.Display)
		}
	}
	if len(result.Skipped) > 0 {
		b.WriteString("\nSkipped:")
		for _, skipped := range result.Skipped {
			fmt.Fprintf(&b, "\n- %s: %s", skipped.Path, skipped.Reason)
		}
	}
	return b.String()
}

type capturedFile struct {
	ContextFile *entities.ContextFile
	Replaced    bool
}

// capture validates and reads one file, stores it (replacing any previous
// capture of the same path), and appends a fresh context message.
func (s *ContextService) capture(conversation *entities.Conversation, path string) (*capturedFile, error) {
	fullPath, err := s.guard.ResolveRead(path)
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, errs.ExecutionFailureErrorf("failed to read file: %v", err)
	}

	display := s.guard.Display(fullPath)
	file := entities.NewContextFile(fullPath, display, string(content))

	_, replaced := s.files[fullPath]
	if !replaced {
		s.order = append(s.order, fullPath)
	}
	s.files[fullPath] = file

	conversation.Append(entities.NewMessage(entities.RoleSystem,
		fmt.Sprintf("Content of file '%s':\n\n%s", display, string(content))))

	return &capturedFile{ContextFile: file, Replaced: replaced}, nil
}
