package repositories

import (
	"context"

	"github.com/drujensen/engineer/internal/domain/entities"
	"github.com/drujensen/engineer/internal/domain/errs"
	"github.com/drujensen/engineer/internal/domain/interfaces"
	"github.com/drujensen/engineer/internal/impl/tools"

	"go.uber.org/zap"
)

// ToolRegistry instantiates every factory entry once and serves lookups by
// the name the model uses in tool calls.
type ToolRegistry struct {
	tools  map[string]entities.Tool
	order  []string
	logger *zap.Logger
}

func NewToolRegistry(factory *tools.ToolFactory, configuration map[string]string, logger *zap.Logger) (*ToolRegistry, error) {
	entries, err := factory.ListFactories()
	if err != nil {
		return nil, err
	}

	registry := &ToolRegistry{
		tools:  make(map[string]entities.Tool, len(entries)),
		logger: logger,
	}
	for _, entry := range entries {
		toolConfig := make(map[string]string, len(entry.ConfigKeys))
		for _, key := range entry.ConfigKeys {
			toolConfig[key] = configuration[key]
		}
		tool := entry.Factory(entry.Name, entry.Description, toolConfig, logger)
		registry.tools[entry.Name] = tool
		registry.order = append(registry.order, entry.Name)
	}
	return registry, nil
}

func (r *ToolRegistry) GetToolByName(ctx context.Context, name string) (entities.Tool, error) {
	tool, exists := r.tools[name]
	if !exists {
		return nil, errs.UnknownToolErrorf("tool %q is not registered", name)
	}
	return tool, nil
}

func (r *ToolRegistry) ListTools(ctx context.Context) ([]entities.Tool, error) {
	listed := make([]entities.Tool, 0, len(r.order))
	for _, name := range r.order {
		listed = append(listed, r.tools[name])
	}
	return listed, nil
}

var _ interfaces.ToolRepository = (*ToolRegistry)(nil)
