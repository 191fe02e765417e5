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

type CreateFileTool struct {
	name          string
	description   string
	configuration map[string]string
	logger        *zap.Logger
}

func NewCreateFileTool(name, description string, configuration map[string]string, logger *zap.Logger) *CreateFileTool {
	return &CreateFileTool{
		name:          name,
		description:   description,
		configuration: configuration,
		logger:        logger,
	}
}

func (t *CreateFileTool) Name() string {
	return t.name
}

func (t *CreateFileTool) Description() string {
	return t.description
}

func (t *CreateFileTool) Configuration() map[string]string {
	return t.configuration
}

func (t *CreateFileTool) UpdateConfiguration(config map[string]string) {
	t.configuration = config
}

func (t *CreateFileTool) FullDescription() string {
	var b strings.Builder
	b.WriteString(t.Description())
	b.WriteString("\n\n")
	b.WriteString("Missing parent directories are created. Overwriting an existing file ")
	b.WriteString("reports a unified diff of the change.\n")
	b.WriteString("\n## Configuration\n")
	for key, value := range t.Configuration() {
		b.WriteString(fmt.Sprintf("- %s: %s\n", key, value))
	}
	return b.String()
}

func (t *CreateFileTool) Parameters() []entities.Parameter {
	return []entities.Parameter{
		{
			Name:        "file_path",
			Type:        "string",
			Description: "The path of the file to create or overwrite, relative to the working directory",
			Required:    true,
		},
		{
			Name:        "content",
			Type:        "string",
			Description: "The full content to write to the file",
			Required:    true,
		},
	}
}

type createResult struct {
	Path   string `json:"path"`
	Status string `json:"status"`
	Size   int    `json:"size"`
	Diff   string `json:"diff,omitempty"`
}

func (t *CreateFileTool) Execute(arguments string) (string, error) {
	t.logger.Debug("Executing create_file", zap.String("arguments", arguments))
	var args struct {
		FilePath string `json:"file_path"`
		Content  string `json:"content"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return "", errs.InvalidArgumentsErrorf("failed to parse arguments: %v", err)
	}
	if args.FilePath == "" {
		return "", errs.InvalidArgumentsErrorf("file_path is required")
	}

	guard := newGuard(t.configuration, t.logger)
	result, err := createOneFile(guard, args.FilePath, args.Content, t.logger)
	if err != nil {
		return "", err
	}

	jsonResponse, err := json.Marshal(result)
	if err != nil {
		return "", errs.ExecutionFailureErrorf("failed to marshal create results: %v", err)
	}
	return string(jsonResponse), nil
}

// createOneFile is shared with the multi-file variant.
func createOneFile(guard *PathGuard, path, content string, logger *zap.Logger) (*createResult, error) {
	fullPath, err := guard.ResolveWrite(path)
	if err != nil {
		return nil, err
	}

	status := "created"
	diffStr := ""
	if previous, err := os.ReadFile(fullPath); err == nil {
		status = "overwritten"
		diffStr, err = unifiedDiff(guard.Display(fullPath), string(previous), content)
		if err != nil {
			return nil, errs.ExecutionFailureErrorf("failed to generate diff: %v", err)
		}
	}

	if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
		logger.Error("Failed to write file", zap.String("path", fullPath), zap.Error(err))
		return nil, errs.ExecutionFailureErrorf("failed to write file: %v", err)
	}
	logger.Info("File written", zap.String("path", fullPath), zap.String("status", status))

	return &createResult{
		Path:   guard.Display(fullPath),
		Status: status,
		Size:   len(content),
		Diff:   diffStr,
	}, nil
}

var _ entities.Tool = (*CreateFileTool)(nil)
