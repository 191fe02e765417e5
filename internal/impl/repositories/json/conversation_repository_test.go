package repositories_json

import (
	"context"
	"testing"

	"github.com/drujensen/engineer/internal/domain/entities"
	"github.com/drujensen/engineer/internal/domain/errs"
)

func newTestConversation(name string) *entities.Conversation {
	conversation := entities.NewConversation(name, "be helpful")
	conversation.Append(entities.NewMessage(entities.RoleUser, "hello"))

	assistant := entities.NewMessage(entities.RoleAssistant, "")
	call := entities.ToolCall{ID: "call-1", Type: "function"}
	call.Function.Name = "read_file"
	call.Function.Arguments = `{"file_path":"go.mod"}`
	assistant.ToolCalls = []entities.ToolCall{call}
	conversation.Append(assistant)
	conversation.Append(entities.NewToolResultMessage("call-1", `{"content":"module x"}`))
	return conversation
}

func TestCreateAndGetConversation(t *testing.T) {
	ctx := context.Background()
	repo, err := NewJSONConversationRepository(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	conversation := newTestConversation("first")
	if err := repo.CreateConversation(ctx, conversation); err != nil {
		t.Fatal(err)
	}
	if conversation.ID == "" {
		t.Fatal("create must assign an ID")
	}

	loaded, err := repo.GetConversation(ctx, conversation.ID)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Name != "first" {
		t.Errorf("unexpected name: %s", loaded.Name)
	}
	if len(loaded.Messages) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(loaded.Messages))
	}
	if len(loaded.Messages[2].ToolCalls) != 1 || loaded.Messages[2].ToolCalls[0].ID != "call-1" {
		t.Errorf("tool calls did not survive the round trip: %+v", loaded.Messages[2].ToolCalls)
	}
	if loaded.Messages[3].ToolCallID != "call-1" {
		t.Errorf("tool result linkage lost: %+v", loaded.Messages[3])
	}

	// The returned copy must not alias the stored conversation.
	loaded.Messages[0].Content = "mutated"
	reloaded, err := repo.GetConversation(ctx, conversation.ID)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Messages[0].Content == "mutated" {
		t.Error("reads must return deep copies")
	}
}

func TestConversationsPersistAcrossInstances(t *testing.T) {
	ctx := context.Background()
	dataDir := t.TempDir()

	first, err := NewJSONConversationRepository(dataDir)
	if err != nil {
		t.Fatal(err)
	}
	conversation := newTestConversation("persisted")
	if err := first.CreateConversation(ctx, conversation); err != nil {
		t.Fatal(err)
	}

	second, err := NewJSONConversationRepository(dataDir)
	if err != nil {
		t.Fatal(err)
	}
	loaded, err := second.GetConversation(ctx, conversation.ID)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Name != "persisted" || len(loaded.Messages) != 4 {
		t.Errorf("conversation did not survive a reload: %+v", loaded)
	}
}

func TestUpdateConversation(t *testing.T) {
	ctx := context.Background()
	repo, err := NewJSONConversationRepository(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	conversation := newTestConversation("original")
	if err := repo.CreateConversation(ctx, conversation); err != nil {
		t.Fatal(err)
	}

	conversation.Append(entities.NewMessage(entities.RoleAssistant, "done"))
	if err := repo.UpdateConversation(ctx, conversation); err != nil {
		t.Fatal(err)
	}

	loaded, err := repo.GetConversation(ctx, conversation.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.Messages) != 5 {
		t.Errorf("expected 5 messages after update, got %d", len(loaded.Messages))
	}
}

func TestUpdateMissingConversation(t *testing.T) {
	ctx := context.Background()
	repo, err := NewJSONConversationRepository(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	missing := newTestConversation("ghost")
	missing.ID = "0f8fad5b-d9cb-469f-a165-70867728950e"
	err = repo.UpdateConversation(ctx, missing)
	if err == nil {
		t.Fatal("expected not found error")
	}
	if errs.KindOf(err) != errs.KindNotFound {
		t.Errorf("expected not_found kind, got %s", errs.KindOf(err))
	}
}

func TestDeleteConversation(t *testing.T) {
	ctx := context.Background()
	repo, err := NewJSONConversationRepository(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	conversation := newTestConversation("doomed")
	if err := repo.CreateConversation(ctx, conversation); err != nil {
		t.Fatal(err)
	}
	if err := repo.DeleteConversation(ctx, conversation.ID); err != nil {
		t.Fatal(err)
	}

	if _, err := repo.GetConversation(ctx, conversation.ID); errs.KindOf(err) != errs.KindNotFound {
		t.Errorf("expected not_found after delete, got %v", err)
	}
	if err := repo.DeleteConversation(ctx, conversation.ID); errs.KindOf(err) != errs.KindNotFound {
		t.Errorf("expected not_found for double delete, got %v", err)
	}
}

func TestListConversationsOrderedByUpdate(t *testing.T) {
	ctx := context.Background()
	repo, err := NewJSONConversationRepository(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	older := newTestConversation("older")
	newer := newTestConversation("newer")
	if err := repo.CreateConversation(ctx, older); err != nil {
		t.Fatal(err)
	}
	if err := repo.CreateConversation(ctx, newer); err != nil {
		t.Fatal(err)
	}
	if err := repo.UpdateConversation(ctx, newer); err != nil {
		t.Fatal(err)
	}

	listed, err := repo.ListConversations(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 conversations, got %d", len(listed))
	}
	if listed[len(listed)-1].Name != "newer" {
		t.Errorf("expected the most recently updated conversation last, got %s", listed[len(listed)-1].Name)
	}
}
