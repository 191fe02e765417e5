package events

import (
	"github.com/drujensen/engineer/internal/domain/entities"

	"github.com/kelindar/event"
)

// Event types
const (
	ToolCallEventType      uint32 = 1
	TurnCompletedEventType uint32 = 2
)

// ToolCallEventData wraps the ToolCallEvent for publishing
type ToolCallEventData struct {
	Event *entities.ToolCallEvent
}

// TurnCompletedEventData signals that a full user turn finished.
type TurnCompletedEventData struct {
	ConversationID string
	Usage          entities.Usage
}

// Type implements the Event interface
func (t ToolCallEventData) Type() uint32 {
	return ToolCallEventType
}

// Type implements the Event interface
func (t TurnCompletedEventData) Type() uint32 {
	return TurnCompletedEventType
}

// PublishToolCallEvent publishes a tool call event
func PublishToolCallEvent(toolEvent *entities.ToolCallEvent) {
	event.Emit(ToolCallEventData{Event: toolEvent})
}

// SubscribeToToolCallEvents subscribes to tool call events
func SubscribeToToolCallEvents(handler func(data ToolCallEventData)) func() {
	return event.On(handler)
}

// PublishTurnCompletedEvent publishes a turn completion event
func PublishTurnCompletedEvent(conversationID string, usage entities.Usage) {
	event.Emit(TurnCompletedEventData{ConversationID: conversationID, Usage: usage})
}

// SubscribeToTurnCompletedEvents subscribes to turn completion events
func SubscribeToTurnCompletedEvents(handler func(data TurnCompletedEventData)) func() {
	return event.On(handler)
}
