package entities

import (
	"time"

	"github.com/google/uuid"
)

// Conversation is the append-only message history for one session.
// Messages are never mutated in place; the only removals happen through
// Clear and RollbackToLastCompleteTurn.
type Conversation struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Messages  []Message `json:"messages"`
	Usage     Usage     `json:"usage"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewConversation(name, systemPrompt string) *Conversation {
	now := time.Now()
	conversation := &Conversation{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if systemPrompt != "" {
		conversation.Messages = append(conversation.Messages, *NewMessage(RoleSystem, systemPrompt))
	}
	return conversation
}

func (c *Conversation) Append(msg *Message) {
	c.Messages = append(c.Messages, *msg)
	c.UpdatedAt = time.Now()
}

// Snapshot returns a deep copy of the history, safe to hand to a model
// request while the conversation keeps growing.
func (c *Conversation) Snapshot() []Message {
	snapshot := make([]Message, len(c.Messages))
	copy(snapshot, c.Messages)
	for i := range snapshot {
		if len(snapshot[i].ToolCalls) > 0 {
			calls := make([]ToolCall, len(snapshot[i].ToolCalls))
			copy(calls, snapshot[i].ToolCalls)
			snapshot[i].ToolCalls = calls
		}
	}
	return snapshot
}

// Clear drops everything except the leading system prompt. Captured context
// files live outside the conversation and are not affected.
func (c *Conversation) Clear() {
	if len(c.Messages) > 0 && c.Messages[0].Role == RoleSystem {
		c.Messages = c.Messages[:1]
	} else {
		c.Messages = nil
	}
	c.UpdatedAt = time.Now()
}

func (c *Conversation) UpdateUsage(usage Usage) {
	c.Usage.PromptTokens += usage.PromptTokens
	c.Usage.CompletionTokens += usage.CompletionTokens
	c.Usage.TotalTokens += usage.TotalTokens
	c.UpdatedAt = time.Now()
}

// UnansweredToolCalls returns the IDs of assistant tool calls that have no
// matching tool-role result anywhere in the history.
func (c *Conversation) UnansweredToolCalls() []ToolCall {
	answered := make(map[string]bool)
	for _, msg := range c.Messages {
		if msg.Role == RoleTool && msg.ToolCallID != "" {
			answered[msg.ToolCallID] = true
		}
	}

	var unanswered []ToolCall
	for _, msg := range c.Messages {
		if msg.Role != RoleAssistant {
			continue
		}
		for _, call := range msg.ToolCalls {
			if !answered[call.ID] {
				unanswered = append(unanswered, call)
			}
		}
	}
	return unanswered
}

// IsBalanced reports whether every assistant tool call has a result.
func (c *Conversation) IsBalanced() bool {
	return len(c.UnansweredToolCalls()) == 0
}

// RollbackToLastCompleteTurn truncates trailing messages until the history
// ends at a finished turn: the last message is either the system prompt or
// an assistant reply with no tool calls. It returns how many messages were
// removed.
func (c *Conversation) RollbackToLastCompleteTurn() int {
	removed := 0
	for len(c.Messages) > 0 {
		last := c.Messages[len(c.Messages)-1]
		if last.Role == RoleSystem {
			break
		}
		if last.Role == RoleAssistant && len(last.ToolCalls) == 0 {
			break
		}
		c.Messages = c.Messages[:len(c.Messages)-1]
		removed++
	}
	if removed > 0 {
		c.UpdatedAt = time.Now()
	}
	return removed
}
