package entities

import (
	"time"

	"github.com/google/uuid"
)

// ToolCallEvent records one executed (or failed) tool call for UI rendering.
type ToolCallEvent struct {
	ID         string    `json:"id"`
	ToolCallID string    `json:"tool_call_id"`
	ToolName   string    `json:"tool_name"`
	Arguments  string    `json:"arguments"`
	Result     string    `json:"result"`
	Error      string    `json:"error,omitempty"`
	ErrorKind  string    `json:"error_kind,omitempty"`
	Diff       string    `json:"diff,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewToolCallEvent creates a new tool call event
func NewToolCallEvent(toolCallID, toolName, arguments, result, errorMsg, errorKind, diff string) *ToolCallEvent {
	return &ToolCallEvent{
		ID:         uuid.New().String(),
		ToolCallID: toolCallID,
		ToolName:   toolName,
		Arguments:  arguments,
		Result:     result,
		Error:      errorMsg,
		ErrorKind:  errorKind,
		Diff:       diff,
		Timestamp:  time.Now(),
	}
}
