package interfaces

import (
	"context"

	"github.com/drujensen/engineer/internal/domain/entities"
)

type ToolRepository interface {
	GetToolByName(ctx context.Context, name string) (entities.Tool, error)
	ListTools(ctx context.Context) ([]entities.Tool, error)
}
