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

type ReadFileTool struct {
	name          string
	description   string
	configuration map[string]string
	logger        *zap.Logger
}

func NewReadFileTool(name, description string, configuration map[string]string, logger *zap.Logger) *ReadFileTool {
	return &ReadFileTool{
		name:          name,
		description:   description,
		configuration: configuration,
		logger:        logger,
	}
}

func (t *ReadFileTool) Name() string {
	return t.name
}

func (t *ReadFileTool) Description() string {
	return t.description
}

func (t *ReadFileTool) Configuration() map[string]string {
	return t.configuration
}

func (t *ReadFileTool) UpdateConfiguration(config map[string]string) {
	t.configuration = config
}

func (t *ReadFileTool) FullDescription() string {
	var b strings.Builder
	b.WriteString(t.Description())
	b.WriteString("\n\n")
	b.WriteString("Paths resolve against the working directory and may not escape it. ")
	b.WriteString("Binary files and files over the configured size limit are rejected.\n")
	b.WriteString("\n## Configuration\n")
	for key, value := range t.Configuration() {
		b.WriteString(fmt.Sprintf("- %s: %s\n", key, value))
	}
	return b.String()
}

func (t *ReadFileTool) Parameters() []entities.Parameter {
	return []entities.Parameter{
		{
			Name:        "file_path",
			Type:        "string",
			Description: "The path to the file to read, relative to the working directory",
			Required:    true,
		},
	}
}

func (t *ReadFileTool) Execute(arguments string) (string, error) {
	t.logger.Debug("Executing read_file", zap.String("arguments", arguments))
	var args struct {
		FilePath string `json:"file_path"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return "", errs.InvalidArgumentsErrorf("failed to parse arguments: %v", err)
	}
	if args.FilePath == "" {
		return "", errs.InvalidArgumentsErrorf("file_path is required")
	}

	guard := newGuard(t.configuration, t.logger)
	fullPath, err := guard.ResolveRead(args.FilePath)
	if err != nil {
		return "", err
	}

	content, err := os.ReadFile(fullPath)
	if err != nil {
		t.logger.Error("Failed to read file", zap.String("path", fullPath), zap.Error(err))
		return "", errs.ExecutionFailureErrorf("failed to read file: %v", err)
	}

	result := struct {
		Path    string `json:"path"`
		Content string `json:"content"`
		Size    int    `json:"size"`
	}{
		Path:    guard.Display(fullPath),
		Content: string(content),
		Size:    len(content),
	}
	jsonResponse, err := json.Marshal(result)
	if err != nil {
		return "", errs.ExecutionFailureErrorf("failed to marshal read results: %v", err)
	}
	return string(jsonResponse), nil
}

var _ entities.Tool = (*ReadFileTool)(nil)
