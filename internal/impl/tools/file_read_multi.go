package tools

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/drujensen/engineer/internal/domain/entities"
	"github.com/drujensen/engineer/internal/domain/errs"

	"go.uber.org/zap"
)

type ReadMultipleFilesTool struct {
	name          string
	description   string
	configuration map[string]string
	logger        *zap.Logger
}

func NewReadMultipleFilesTool(name, description string, configuration map[string]string, logger *zap.Logger) *ReadMultipleFilesTool {
	return &ReadMultipleFilesTool{
		name:          name,
		description:   description,
		configuration: configuration,
		logger:        logger,
	}
}

func (t *ReadMultipleFilesTool) Name() string {
	return t.name
}

func (t *ReadMultipleFilesTool) Description() string {
	return t.description
}

func (t *ReadMultipleFilesTool) Configuration() map[string]string {
	return t.configuration
}

func (t *ReadMultipleFilesTool) UpdateConfiguration(config map[string]string) {
	t.configuration = config
}

func (t *ReadMultipleFilesTool) FullDescription() string {
	var b strings.Builder
	b.WriteString(t.Description())
	b.WriteString("\n\n")
	b.WriteString("Each path is validated independently. Unreadable entries carry an error ")
	b.WriteString("marker while readable siblings still return their content.\n")
	b.WriteString("\n## Configuration\n")
	for key, value := range t.Configuration() {
		b.WriteString(fmt.Sprintf("- %s: %s\n", key, value))
	}
	return b.String()
}

func (t *ReadMultipleFilesTool) Parameters() []entities.Parameter {
	return []entities.Parameter{
		{
			Name:        "file_paths",
			Type:        "array",
			Items:       []entities.Item{{Type: "string"}},
			Description: "The paths of the files to read, relative to the working directory",
			Required:    true,
		},
	}
}

type multiReadEntry struct {
	Path    string `json:"path"`
	Content string `json:"content,omitempty"`
	Size    int    `json:"size,omitempty"`
	Error   string `json:"error,omitempty"`
	Kind    string `json:"kind,omitempty"`
}

func (t *ReadMultipleFilesTool) Execute(arguments string) (string, error) {
	t.logger.Debug("Executing read_multiple_files", zap.String("arguments", arguments))
	var args struct {
		FilePaths []string `json:"file_paths"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return "", errs.InvalidArgumentsErrorf("failed to parse arguments: %v", err)
	}
	if len(args.FilePaths) == 0 {
		return "", errs.InvalidArgumentsErrorf("file_paths is required and must not be empty")
	}

	guard := newGuard(t.configuration, t.logger)
	entries := make([]multiReadEntry, 0, len(args.FilePaths))
	succeeded := 0
	for _, path := range args.FilePaths {
		entry := multiReadEntry{Path: path}
		fullPath, err := guard.ResolveRead(path)
		if err == nil {
			var content []byte
			content, err = os.ReadFile(fullPath)
			if err == nil {
				entry.Path = guard.Display(fullPath)
				entry.Content = string(content)
				entry.Size = len(content)
				succeeded++
			}
		}
		if err != nil {
			t.logger.Warn("Skipping unreadable file", zap.String("path", path), zap.Error(err))
			entry.Error = err.Error()
			entry.Kind = errs.KindOf(err)
		}
		entries = append(entries, entry)
	}

	result := struct {
		Files     []multiReadEntry `json:"files"`
		Succeeded int              `json:"succeeded"`
		Failed    int              `json:"failed"`
	}{
		Files:     entries,
		Succeeded: succeeded,
		Failed:    len(entries) - succeeded,
	}
	jsonResponse, err := json.Marshal(result)
	if err != nil {
		return "", errs.ExecutionFailureErrorf("failed to marshal read results: %v", err)
	}
	return string(jsonResponse), nil
}

var _ entities.Tool = (*ReadMultipleFilesTool)(nil)
