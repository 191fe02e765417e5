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

type EditFileTool struct {
	name          string
	description   string
	configuration map[string]string
	logger        *zap.Logger
}

func NewEditFileTool(name, description string, configuration map[string]string, logger *zap.Logger) *EditFileTool {
	return &EditFileTool{
		name:          name,
		description:   description,
		configuration: configuration,
		logger:        logger,
	}
}

func (t *EditFileTool) Name() string {
	return t.name
}

func (t *EditFileTool) Description() string {
	return t.description
}

func (t *EditFileTool) Configuration() map[string]string {
	return t.configuration
}

func (t *EditFileTool) UpdateConfiguration(config map[string]string) {
	t.configuration = config
}

func (t *EditFileTool) FullDescription() string {
	var b strings.Builder
	b.WriteString(t.Description())
	b.WriteString("\n\n")
	b.WriteString("The original snippet must occur exactly once in the file. Use read_file ")
	b.WriteString("first and include enough surrounding lines to make the snippet unique. ")
	b.WriteString("Zero matches or multiple matches leave the file untouched and report an error.\n")
	b.WriteString("\n## Configuration\n")
	for key, value := range t.Configuration() {
		b.WriteString(fmt.Sprintf("- %s: %s\n", key, value))
	}
	return b.String()
}

func (t *EditFileTool) Parameters() []entities.Parameter {
	return []entities.Parameter{
		{
			Name:        "file_path",
			Type:        "string",
			Description: "The path of the file to edit, relative to the working directory",
			Required:    true,
		},
		{
			Name:        "original_snippet",
			Type:        "string",
			Description: "The exact text to replace; must occur exactly once in the file",
			Required:    true,
		},
		{
			Name:        "new_snippet",
			Type:        "string",
			Description: "The replacement text",
			Required:    true,
		},
	}
}

func (t *EditFileTool) Execute(arguments string) (string, error) {
	t.logger.Debug("Executing edit_file", zap.String("arguments", arguments))
	var args struct {
		FilePath        string `json:"file_path"`
		OriginalSnippet string `json:"original_snippet"`
		NewSnippet      string `json:"new_snippet"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return "", errs.InvalidArgumentsErrorf("failed to parse arguments: %v", err)
	}
	if args.FilePath == "" {
		return "", errs.InvalidArgumentsErrorf("file_path is required")
	}
	if args.OriginalSnippet == "" {
		return "", errs.InvalidArgumentsErrorf("original_snippet is required")
	}

	guard := newGuard(t.configuration, t.logger)
	fullPath, err := guard.ResolveRead(args.FilePath)
	if err != nil {
		return "", err
	}

	content, err := os.ReadFile(fullPath)
	if err != nil {
		return "", errs.ExecutionFailureErrorf("failed to read file: %v", err)
	}
	original := string(content)

	occurrences := strings.Count(original, args.OriginalSnippet)
	switch {
	case occurrences == 0:
		t.logger.Warn("Snippet not found", zap.String("path", fullPath))
		return "", errs.EditNotFoundErrorf("original snippet not found in %s", guard.Display(fullPath))
	case occurrences > 1:
		t.logger.Warn("Snippet is ambiguous", zap.String("path", fullPath), zap.Int("occurrences", occurrences))
		return "", errs.EditAmbiguousErrorf("original snippet occurs %d times in %s; include more surrounding context to make it unique", occurrences, guard.Display(fullPath))
	}

	modified := strings.Replace(original, args.OriginalSnippet, args.NewSnippet, 1)
	diffStr, err := unifiedDiff(guard.Display(fullPath), original, modified)
	if err != nil {
		return "", errs.ExecutionFailureErrorf("failed to generate diff: %v", err)
	}

	if err := os.WriteFile(fullPath, []byte(modified), 0644); err != nil {
		t.logger.Error("Failed to write edited file", zap.String("path", fullPath), zap.Error(err))
		return "", errs.ExecutionFailureErrorf("failed to write file: %v", err)
	}
	t.logger.Info("File edited", zap.String("path", fullPath))

	result := struct {
		Path string `json:"path"`
		Diff string `json:"diff"`
	}{
		Path: guard.Display(fullPath),
		Diff: diffStr,
	}
	jsonResponse, err := json.Marshal(result)
	if err != nil {
		return "", errs.ExecutionFailureErrorf("failed to marshal edit results: %v", err)
	}
	return string(jsonResponse), nil
}

var _ entities.Tool = (*EditFileTool)(nil)
