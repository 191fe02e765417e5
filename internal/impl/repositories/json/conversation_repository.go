package repositories_json

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"time"

	"github.com/drujensen/engineer/internal/domain/entities"
	"github.com/drujensen/engineer/internal/domain/errs"
	"github.com/drujensen/engineer/internal/domain/interfaces"

	"github.com/google/uuid"
)

type JsonConversationRepository struct {
	filePath string
	data     []*entities.Conversation
}

func NewJSONConversationRepository(dataDir string) (interfaces.ConversationRepository, error) {
	filePath := filepath.Join(dataDir, ".engineer", "conversations.json")
	repo := &JsonConversationRepository{
		filePath: filePath,
		data:     []*entities.Conversation{},
	}

	if err := repo.load(); err != nil {
		return nil, err
	}

	return repo, nil
}

func (r *JsonConversationRepository) load() error {
	data, err := os.ReadFile(r.filePath)
	if os.IsNotExist(err) {
		return nil // File doesn't exist yet, start with empty data
	}
	if err != nil {
		return errs.InternalErrorf("failed to read conversations.json: %v", err)
	}

	var conversations []*entities.Conversation
	if err := json.Unmarshal(data, &conversations); err != nil {
		return errs.InternalErrorf("failed to unmarshal conversations.json: %v", err)
	}

	// Validate UUIDs
	for _, conversation := range conversations {
		if conversation.ID == "" {
			return errs.InternalErrorf("conversation is missing an ID")
		}
		if _, err := uuid.Parse(conversation.ID); err != nil {
			return errs.InternalErrorf("conversation has an invalid UUID: %v", err)
		}
	}

	r.data = conversations
	return nil
}

func (r *JsonConversationRepository) save() error {
	data, err := json.MarshalIndent(r.data, "", "  ")
	if err != nil {
		return errs.InternalErrorf("failed to marshal conversations: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(r.filePath), 0755); err != nil {
		return errs.InternalErrorf("failed to create directory: %v", err)
	}

	if err := os.WriteFile(r.filePath, data, 0644); err != nil {
		return errs.InternalErrorf("failed to write conversations.json: %v", err)
	}

	return nil
}

func copyConversation(c *entities.Conversation) *entities.Conversation {
	messagesCopy := make([]entities.Message, len(c.Messages))
	copy(messagesCopy, c.Messages)
	for i := range messagesCopy {
		if len(messagesCopy[i].ToolCalls) > 0 {
			calls := make([]entities.ToolCall, len(messagesCopy[i].ToolCalls))
			copy(calls, messagesCopy[i].ToolCalls)
			messagesCopy[i].ToolCalls = calls
		}
	}
	return &entities.Conversation{
		ID:        c.ID,
		Name:      c.Name,
		Messages:  messagesCopy,
		Usage:     c.Usage,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (r *JsonConversationRepository) ListConversations(ctx context.Context) ([]*entities.Conversation, error) {
	conversationsCopy := make([]*entities.Conversation, len(r.data))
	for i, c := range r.data {
		conversationsCopy[i] = copyConversation(c)
	}

	sort.Slice(conversationsCopy, func(i, j int) bool {
		return conversationsCopy[i].UpdatedAt.Before(conversationsCopy[j].UpdatedAt)
	})

	return conversationsCopy, nil
}

func (r *JsonConversationRepository) GetConversation(ctx context.Context, id string) (*entities.Conversation, error) {
	for _, conversation := range r.data {
		if conversation.ID == id {
			return copyConversation(conversation), nil
		}
	}
	return nil, errs.NotFoundErrorf("conversation not found: %s", id)
}

func (r *JsonConversationRepository) CreateConversation(ctx context.Context, conversation *entities.Conversation) error {
	if conversation.ID == "" {
		conversation.ID = uuid.New().String()
	}
	if conversation.CreatedAt.IsZero() {
		conversation.CreatedAt = time.Now()
		conversation.UpdatedAt = conversation.CreatedAt
	}

	r.data = append(r.data, copyConversation(conversation))
	return r.save()
}

func (r *JsonConversationRepository) UpdateConversation(ctx context.Context, conversation *entities.Conversation) error {
	for i, c := range r.data {
		if c.ID == conversation.ID {
			conversation.UpdatedAt = time.Now()
			r.data[i] = copyConversation(conversation)
			return r.save()
		}
	}
	return errs.NotFoundErrorf("conversation not found: %s", conversation.ID)
}

func (r *JsonConversationRepository) DeleteConversation(ctx context.Context, id string) error {
	for i, c := range r.data {
		if c.ID == id {
			r.data = slices.Delete(r.data, i, i+1)
			return r.save()
		}
	}
	return errs.NotFoundErrorf("conversation not found: %s", id)
}

var _ interfaces.ConversationRepository = (*JsonConversationRepository)(nil)
