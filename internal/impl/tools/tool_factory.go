package tools

import (
	"github.com/drujensen/engineer/internal/domain/entities"
	"github.com/drujensen/engineer/internal/domain/errs"

	"go.uber.org/zap"
)

type ToolFactoryEntry struct {
	Name        string
	Description string
	ConfigKeys  []string
	Factory     func(name, description string, configuration map[string]string, logger *zap.Logger) entities.Tool
}

type ToolFactory struct {
	toolFactories map[string]*ToolFactoryEntry
	order         []string
}

func NewToolFactory() (*ToolFactory, error) {
	toolFactory := &ToolFactory{}
	toolFactory.toolFactories = make(map[string]*ToolFactoryEntry)

	toolFactory.register(&ToolFactoryEntry{
		Name:        "read_file",
		Description: `Read the full content of a single text file inside the working directory`,
		ConfigKeys:  []string{"workspace", "max_file_size"},
		Factory: func(name, description string, configuration map[string]string, logger *zap.Logger) entities.Tool {
			return NewReadFileTool(name, description, configuration, logger)
		},
	})
	toolFactory.register(&ToolFactoryEntry{
		Name:        "read_multiple_files",
		Description: `Read several text files in one call; unreadable entries are reported individually without failing the rest`,
		ConfigKeys:  []string{"workspace", "max_file_size"},
		Factory: func(name, description string, configuration map[string]string, logger *zap.Logger) entities.Tool {
			return NewReadMultipleFilesTool(name, description, configuration, logger)
		},
	})
	toolFactory.register(&ToolFactoryEntry{
		Name:        "create_file",
		Description: `Create a new file or overwrite an existing one with the given content, creating parent directories as needed`,
		ConfigKeys:  []string{"workspace", "max_file_size"},
		Factory: func(name, description string, configuration map[string]string, logger *zap.Logger) entities.Tool {
			return NewCreateFileTool(name, description, configuration, logger)
		},
	})
	toolFactory.register(&ToolFactoryEntry{
		Name:        "create_multiple_files",
		Description: `Create several files in one call; each file is written independently and failures are reported per file`,
		ConfigKeys:  []string{"workspace", "max_file_size"},
		Factory: func(name, description string, configuration map[string]string, logger *zap.Logger) entities.Tool {
			return NewCreateMultipleFilesTool(name, description, configuration, logger)
		},
	})
	toolFactory.register(&ToolFactoryEntry{
		Name:        "edit_file",
		Description: `Replace a snippet that occurs exactly once in a file with new text and report a unified diff`,
		ConfigKeys:  []string{"workspace", "max_file_size"},
		Factory: func(name, description string, configuration map[string]string, logger *zap.Logger) entities.Tool {
			return NewEditFileTool(name, description, configuration, logger)
		},
	})
	toolFactory.register(&ToolFactoryEntry{
		Name:        "list_directory",
		Description: `List the immediate children of a directory inside the working directory with their kind`,
		ConfigKeys:  []string{"workspace", "max_file_size"},
		Factory: func(name, description string, configuration map[string]string, logger *zap.Logger) entities.Tool {
			return NewListDirectoryTool(name, description, configuration, logger)
		},
	})

	return toolFactory, nil
}

func (t *ToolFactory) register(entry *ToolFactoryEntry) {
	t.toolFactories[entry.Name] = entry
	t.order = append(t.order, entry.Name)
}

// ListFactories returns entries in registration order so the tool schemas
// advertised to the model are stable.
func (t *ToolFactory) ListFactories() ([]*ToolFactoryEntry, error) {
	factories := make([]*ToolFactoryEntry, 0, len(t.order))
	for _, name := range t.order {
		factories = append(factories, t.toolFactories[name])
	}
	return factories, nil
}

func (t *ToolFactory) GetFactoryByName(name string) (*ToolFactoryEntry, error) {
	factory, exists := t.toolFactories[name]
	if !exists {
		return nil, errs.NotFoundErrorf("Tool factory with name '%s' not found", name)
	}
	return factory, nil
}
