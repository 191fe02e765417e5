package tools

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/drujensen/engineer/internal/domain/entities"
	"github.com/drujensen/engineer/internal/domain/errs"

	"go.uber.org/zap"
)

type CreateMultipleFilesTool struct {
	name          string
	description   string
	configuration map[string]string
	logger        *zap.Logger
}

func NewCreateMultipleFilesTool(name, description string, configuration map[string]string, logger *zap.Logger) *CreateMultipleFilesTool {
	return &CreateMultipleFilesTool{
		name:          name,
		description:   description,
		configuration: configuration,
		logger:        logger,
	}
}

func (t *CreateMultipleFilesTool) Name() string {
	return t.name
}

func (t *CreateMultipleFilesTool) Description() string {
	return t.description
}

func (t *CreateMultipleFilesTool) Configuration() map[string]string {
	return t.configuration
}

func (t *CreateMultipleFilesTool) UpdateConfiguration(config map[string]string) {
	t.configuration = config
}

func (t *CreateMultipleFilesTool) FullDescription() string {
	var b strings.Builder
	b.WriteString(t.Description())
	b.WriteString("\n\n")
	b.WriteString("Each file is written independently. A failing entry carries an error ")
	b.WriteString("marker and does not prevent the remaining files from being written.\n")
	b.WriteString("\n## Configuration\n")
	for key, value := range t.Configuration() {
		b.WriteString(fmt.Sprintf("- %s: %s\n", key, value))
	}
	return b.String()
}

func (t *CreateMultipleFilesTool) Parameters() []entities.Parameter {
	return []entities.Parameter{
		{
			Name:        "files",
			Type:        "array",
			Items:       []entities.Item{{Type: "object"}},
			Properties: []entities.Parameter{
				{Name: "path", Type: "string", Description: "The file path, relative to the working directory", Required: true},
				{Name: "content", Type: "string", Description: "The full content to write", Required: true},
			},
			Description: "The files to create, each with a path and content",
			Required:    true,
		},
	}
}

type multiCreateEntry struct {
	Path   string `json:"path"`
	Status string `json:"status,omitempty"`
	Size   int    `json:"size,omitempty"`
	Diff   string `json:"diff,omitempty"`
	Error  string `json:"error,omitempty"`
	Kind   string `json:"kind,omitempty"`
}

func (t *CreateMultipleFilesTool) Execute(arguments string) (string, error) {
	t.logger.Debug("Executing create_multiple_files", zap.String("arguments", arguments))
	var args struct {
		Files []struct {
			Path    string `json:"path"`
			Content string `json:"content"`
		} `json:"files"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return "", errs.InvalidArgumentsErrorf("failed to parse arguments: %v", err)
	}
	if len(args.Files) == 0 {
		return "", errs.InvalidArgumentsErrorf("files is required and must not be empty")
	}

	guard := newGuard(t.configuration, t.logger)
	entries := make([]multiCreateEntry, 0, len(args.Files))
	succeeded := 0
	for _, file := range args.Files {
		entry := multiCreateEntry{Path: file.Path}
		if file.Path == "" {
			entry.Error = "path is required"
			entry.Kind = errs.KindInvalidArguments
			entries = append(entries, entry)
			continue
		}
		result, err := createOneFile(guard, file.Path, file.Content, t.logger)
		if err != nil {
			t.logger.Warn("Skipping unwritable file", zap.String("path", file.Path), zap.Error(err))
			entry.Error = err.Error()
			entry.Kind = errs.KindOf(err)
		} else {
			entry.Path = result.Path
			entry.Status = result.Status
			entry.Size = result.Size
			entry.Diff = result.Diff
			succeeded++
		}
		entries = append(entries, entry)
	}

	result := struct {
		Files     []multiCreateEntry `json:"files"`
		Succeeded int                `json:"succeeded"`
		Failed    int                `json:"failed"`
	}{
		Files:     entries,
		Succeeded: succeeded,
		Failed:    len(entries) - succeeded,
	}
	jsonResponse, err := json.Marshal(result)
	if err != nil {
		return "", errs.ExecutionFailureErrorf("failed to marshal create results: %v", err)
	}
	return string(jsonResponse), nil
}

var _ entities.Tool = (*CreateMultipleFilesTool)(nil)
