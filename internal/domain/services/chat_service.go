package services

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/drujensen/engineer/internal/domain/entities"
	"github.com/drujensen/engineer/internal/domain/errs"
	"github.com/drujensen/engineer/internal/domain/events"
	"github.com/drujensen/engineer/internal/domain/interfaces"

	"github.com/pkoukk/tiktoken-go"
	"go.uber.org/zap"
)

const (
	maxToolIterations   = 25
	contextWarningRatio = 0.9
)

// ChatService runs one user turn at a time: it sends the history to the
// model, executes any requested tool calls strictly in emitted order, appends
// their results, and resumes the model until it answers with plain text.
type ChatService struct {
	conversationRepo interfaces.ConversationRepository
	toolRepo         interfaces.ToolRepository
	model            interfaces.ModelIntegration
	maxTokens        int
	logger           *zap.Logger
}

func NewChatService(conversationRepo interfaces.ConversationRepository, toolRepo interfaces.ToolRepository, model interfaces.ModelIntegration, maxTokens int, logger *zap.Logger) *ChatService {
	return &ChatService{
		conversationRepo: conversationRepo,
		toolRepo:         toolRepo,
		model:            model,
		maxTokens:        maxTokens,
		logger:           logger,
	}
}

// SendMessage drives a complete turn. onText receives assistant text deltas
// as they stream in. On model failure the conversation rolls back to the
// last complete turn; on cancellation mid-execution the already-produced
// results are kept and the remaining calls get synthesized error results so
// every call has exactly one result.
func (s *ChatService) SendMessage(ctx context.Context, conversation *entities.Conversation, input string, onText func(string)) error {
	if strings.TrimSpace(input) == "" {
		return errs.InvalidArgumentsErrorf("message is empty")
	}

	conversation.Append(entities.NewMessage(entities.RoleUser, input))

	tools, err := s.toolRepo.ListTools(ctx)
	if err != nil {
		conversation.RollbackToLastCompleteTurn()
		return errs.InternalErrorf("failed to list tools: %v", err)
	}

	for iteration := 0; iteration < maxToolIterations; iteration++ {
		s.warnIfNearContextLimit(conversation)

		response, err := s.model.GenerateResponse(ctx, conversation.Snapshot(), tools, onText)
		if err != nil {
			removed := conversation.RollbackToLastCompleteTurn()
			s.logger.Warn("Model call failed, rolled back incomplete turn",
				zap.Int("messages_removed", removed), zap.Error(err))
			s.persist(ctx, conversation)
			if _, ok := err.(*errs.CanceledError); ok {
				return err
			}
			if _, ok := err.(*errs.ModelError); ok {
				return err
			}
			return errs.ModelErrorf("model call failed: %v", err)
		}

		assistant := entities.NewMessage(entities.RoleAssistant, response.Content)
		assistant.ToolCalls = response.ToolCalls
		conversation.Append(assistant)
		conversation.UpdateUsage(response.Usage)

		if len(response.ToolCalls) == 0 {
			s.persist(ctx, conversation)
			events.PublishTurnCompletedEvent(conversation.ID, conversation.Usage)
			return nil
		}

		for _, call := range response.ToolCalls {
			if ctx.Err() != nil {
				break
			}
			result := s.executeToolCall(ctx, call)
			conversation.Append(entities.NewToolResultMessage(call.ID, result))
		}
		if ctx.Err() != nil {
			s.ensureToolCallResponses(conversation)
			s.persist(ctx, conversation)
			return errs.CanceledErrorf("turn interrupted during tool execution")
		}
		s.persist(ctx, conversation)
	}

	s.logger.Error("Tool iteration limit reached", zap.Int("limit", maxToolIterations))
	return errs.ModelErrorf("tool iteration limit reached after %d rounds", maxToolIterations)
}

// ClearConversation resets the history to the system prompt and persists
// the result. Captured context files are not touched.
func (s *ChatService) ClearConversation(ctx context.Context, conversation *entities.Conversation) {
	conversation.Clear()
	s.persist(ctx, conversation)
}

// executeToolCall resolves, validates, and runs one call. Failures become
// error payloads in the result; they never abort the surrounding turn.
func (s *ChatService) executeToolCall(ctx context.Context, call entities.ToolCall) string {
	name := call.Function.Name
	arguments := call.Function.Arguments

	tool, err := s.toolRepo.GetToolByName(ctx, name)
	if err != nil {
		s.logger.Warn("Model requested unknown tool", zap.String("tool", name))
		return s.failToolCall(call, err)
	}

	if err := validateArguments(tool.Parameters(), arguments); err != nil {
		s.logger.Warn("Tool call arguments rejected", zap.String("tool", name), zap.Error(err))
		return s.failToolCall(call, err)
	}

	result, err := tool.Execute(arguments)
	if err != nil {
		s.logger.Warn("Tool execution failed", zap.String("tool", name), zap.Error(err))
		return s.failToolCall(call, err)
	}

	events.PublishToolCallEvent(entities.NewToolCallEvent(call.ID, name, arguments, result, "", "", extractDiff(result)))
	return result
}

func (s *ChatService) failToolCall(call entities.ToolCall, err error) string {
	payload := errorPayload(errs.KindOf(err), err.Error())
	events.PublishToolCallEvent(entities.NewToolCallEvent(call.ID, call.Function.Name, call.Function.Arguments, "", err.Error(), errs.KindOf(err), ""))
	return payload
}

// ensureToolCallResponses appends synthesized error results for every
// assistant tool call that has none, keeping the history balanced.
func (s *ChatService) ensureToolCallResponses(conversation *entities.Conversation) {
	for _, call := range conversation.UnansweredToolCalls() {
		s.logger.Warn("Synthesizing result for unanswered tool call",
			zap.String("tool_call_id", call.ID), zap.String("tool", call.Function.Name))
		payload := errorPayload(errs.KindCanceled, "interrupted before execution")
		conversation.Append(entities.NewToolResultMessage(call.ID, payload))
	}
}

func (s *ChatService) persist(ctx context.Context, conversation *entities.Conversation) {
	if s.conversationRepo == nil {
		return
	}
	err := s.conversationRepo.UpdateConversation(ctx, conversation)
	if err != nil {
		if _, ok := err.(*errs.NotFoundError); ok {
			err = s.conversationRepo.CreateConversation(ctx, conversation)
		}
	}
	if err != nil {
		s.logger.Error("Failed to persist conversation", zap.String("conversation_id", conversation.ID), zap.Error(err))
	}
}

func (s *ChatService) warnIfNearContextLimit(conversation *entities.Conversation) {
	if s.maxTokens <= 0 {
		return
	}
	estimated := estimateTokens(conversation.Messages)
	if float64(estimated) >= float64(s.maxTokens)*contextWarningRatio {
		s.logger.Warn("Conversation is approaching the context budget",
			zap.Int("estimated_tokens", estimated), zap.Int("max_tokens", s.maxTokens))
	}
}

func estimateTokens(messages []entities.Message) int {
	encoding, err := tiktoken.EncodingForModel("gpt-4")
	if err != nil {
		encoding, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return 0
		}
	}
	total := 0
	for _, msg := range messages {
		total += len(encoding.Encode(msg.Content, nil, nil)) + 4
		for _, call := range msg.ToolCalls {
			total += len(encoding.Encode(call.Function.Arguments, nil, nil))
		}
	}
	return total
}

// validateArguments checks the call arguments against the tool's declared
// parameters before anything executes.
func validateArguments(parameters []entities.Parameter, arguments string) error {
	if strings.TrimSpace(arguments) == "" {
		arguments = "{}"
	}
	var parsed map[string]any
	if err := json.Unmarshal([]byte(arguments), &parsed); err != nil {
		return errs.InvalidArgumentsErrorf("arguments are not valid JSON: %v", err)
	}

	for _, param := range parameters {
		value, present := parsed[param.Name]
		if !present || value == nil {
			if param.Required {
				return errs.InvalidArgumentsErrorf("missing required parameter %q", param.Name)
			}
			continue
		}
		ok := true
		switch param.Type {
		case "string":
			_, ok = value.(string)
		case "integer", "number":
			_, ok = value.(float64)
		case "boolean":
			_, ok = value.(bool)
		case "array":
			_, ok = value.([]any)
		case "object":
			_, ok = value.(map[string]any)
		}
		if !ok {
			return errs.InvalidArgumentsErrorf("parameter %q must be of type %s", param.Name, param.Type)
		}
	}
	return nil
}

func errorPayload(kind, message string) string {
	payload := struct {
		Status  string `json:"status"`
		Kind    string `json:"kind"`
		Message string `json:"message"`
	}{
		Status:  "error",
		Kind:    kind,
		Message: message,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return `{"status":"error","kind":"internal","message":"failed to encode error"}`
	}
	return string(data)
}

// extractDiff pulls an optional diff field out of a tool result for display.
func extractDiff(result string) string {
	var parsed struct {
		Diff string `json:"diff"`
	}
	if err := json.Unmarshal([]byte(result), &parsed); err != nil {
		return ""
	}
	return parsed.Diff
}
