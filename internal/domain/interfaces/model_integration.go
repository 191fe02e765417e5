package interfaces

import (
	"context"

	"github.com/drujensen/engineer/internal/domain/entities"
)

// ModelIntegration is the seam to the chat-completion provider. onText
// receives assistant text deltas as they stream in; the returned response is
// the fully assembled reply.
type ModelIntegration interface {
	ModelID() string
	GenerateResponse(ctx context.Context, messages []entities.Message, tools []entities.Tool, onText func(string)) (*entities.ModelResponse, error)
}
