package tools

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/drujensen/engineer/internal/domain/entities"
	"github.com/drujensen/engineer/internal/domain/errs"

	"go.uber.org/zap"
)

type ListDirectoryTool struct {
	name          string
	description   string
	configuration map[string]string
	logger        *zap.Logger
}

func NewListDirectoryTool(name, description string, configuration map[string]string, logger *zap.Logger) *ListDirectoryTool {
	return &ListDirectoryTool{
		name:          name,
		description:   description,
		configuration: configuration,
		logger:        logger,
	}
}

func (t *ListDirectoryTool) Name() string {
	return t.name
}

func (t *ListDirectoryTool) Description() string {
	return t.description
}

func (t *ListDirectoryTool) Configuration() map[string]string {
	return t.configuration
}

func (t *ListDirectoryTool) UpdateConfiguration(config map[string]string) {
	t.configuration = config
}

func (t *ListDirectoryTool) FullDescription() string {
	var b strings.Builder
	b.WriteString(t.Description())
	b.WriteString("\n\n")
	b.WriteString("Lists the immediate children only; it does not recurse. An empty ")
	b.WriteString("dir_path lists the working directory itself.\n")
	b.WriteString("\n## Configuration\n")
	for key, value := range t.Configuration() {
		b.WriteString(fmt.Sprintf("- %s: %s\n", key, value))
	}
	return b.String()
}

func (t *ListDirectoryTool) Parameters() []entities.Parameter {
	return []entities.Parameter{
		{
			Name:        "dir_path",
			Type:        "string",
			Description: "The directory to list, relative to the working directory; empty for the working directory itself",
			Required:    false,
		},
	}
}

type directoryEntry struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

func (t *ListDirectoryTool) Execute(arguments string) (string, error) {
	t.logger.Debug("Executing list_directory", zap.String("arguments", arguments))
	var args struct {
		DirPath string `json:"dir_path"`
	}
	if arguments != "" {
		if err := json.Unmarshal([]byte(arguments), &args); err != nil {
			return "", errs.InvalidArgumentsErrorf("failed to parse arguments: %v", err)
		}
	}
	if args.DirPath == "" {
		args.DirPath = "."
	}

	guard := newGuard(t.configuration, t.logger)
	fullPath, err := guard.Resolve(args.DirPath)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(fullPath)
	if os.IsNotExist(err) {
		return "", errs.ExecutionFailureErrorf("directory not found: %s", guard.Display(fullPath))
	}
	if err != nil {
		return "", errs.ExecutionFailureErrorf("cannot stat %s: %v", guard.Display(fullPath), err)
	}
	if !info.IsDir() {
		return "", errs.ExecutionFailureErrorf("%s is not a directory", guard.Display(fullPath))
	}

	dirEntries, err := os.ReadDir(fullPath)
	if err != nil {
		return "", errs.ExecutionFailureErrorf("failed to list directory: %v", err)
	}

	entries := make([]directoryEntry, 0, len(dirEntries))
	for _, entry := range dirEntries {
		kind := "file"
		if entry.IsDir() {
			kind = "directory"
		}
		entries = append(entries, directoryEntry{Name: entry.Name(), Kind: kind})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	result := struct {
		Path    string           `json:"path"`
		Entries []directoryEntry `json:"entries"`
		Count   int              `json:"count"`
	}{
		Path:    guard.Display(fullPath),
		Entries: entries,
		Count:   len(entries),
	}
	jsonResponse, err := json.Marshal(result)
	if err != nil {
		return "", errs.ExecutionFailureErrorf("failed to marshal directory results: %v", err)
	}
	return string(jsonResponse), nil
}

var _ entities.Tool = (*ListDirectoryTool)(nil)
