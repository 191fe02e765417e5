package integrations

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/drujensen/engineer/internal/domain/entities"
	"github.com/drujensen/engineer/internal/domain/errs"
	"github.com/drujensen/engineer/internal/domain/interfaces"

	"go.uber.org/zap"
)

const maxRetries = 3

// OpenAIIntegration talks to any OpenAI-compatible chat-completions endpoint
// over SSE streaming.
type OpenAIIntegration struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
	logger  *zap.Logger
}

func NewOpenAIIntegration(baseURL, apiKey, model string, logger *zap.Logger) *OpenAIIntegration {
	return &OpenAIIntegration{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{},
		logger:  logger,
	}
}

func (m *OpenAIIntegration) ModelID() string {
	return m.model
}

type chatMessage struct {
	Role       string              `json:"role"`
	Content    string              `json:"content"`
	ToolCalls  []entities.ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string              `json:"tool_call_id,omitempty"`
}

func (m *OpenAIIntegration) GenerateResponse(ctx context.Context, messages []entities.Message, tools []entities.Tool, onText func(string)) (*entities.ModelResponse, error) {
	payload := map[string]any{
		"model":          m.model,
		"messages":       toChatMessages(messages),
		"stream":         true,
		"stream_options": map[string]any{"include_usage": true},
	}
	if len(tools) > 0 {
		payload["tools"] = buildToolSchemas(tools)
		payload["tool_choice"] = "auto"
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errs.InternalErrorf("failed to encode request: %v", err)
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if attempt > 1 {
			m.logger.Warn("Retrying model request", zap.Int("attempt", attempt), zap.Error(lastErr))
			select {
			case <-ctx.Done():
				return nil, errs.CanceledErrorf("request canceled: %v", ctx.Err())
			case <-time.After(time.Duration(attempt-1) * time.Second):
			}
		}

		response, retriable, err := m.stream(ctx, body, onText)
		if err == nil {
			return response, nil
		}
		if ctx.Err() != nil {
			return nil, errs.CanceledErrorf("request canceled: %v", ctx.Err())
		}
		if !retriable {
			return nil, err
		}
		lastErr = err
	}
	return nil, errs.ModelErrorf("model request failed after %d attempts: %v", maxRetries, lastErr)
}

// stream performs one request attempt. The second return value reports
// whether the failure is worth retrying.
func (m *OpenAIIntegration) stream(ctx context.Context, body []byte, onText func(string)) (*entities.ModelResponse, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, false, errs.InternalErrorf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	if m.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+m.apiKey)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, true, errs.ModelErrorf("model request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
		io.Copy(io.Discard, resp.Body)
		return nil, true, errs.ModelErrorf("model endpoint returned status %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(resp.Body)
		return nil, false, errs.ModelErrorf("model endpoint returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	assembler := NewStreamAssembler(onText)
	streamErr := consumeSSE(ctx, resp.Body, func(_ string, data string) error {
		data = strings.TrimSpace(data)
		if data == "" {
			return nil
		}
		return assembler.Feed(data)
	})
	if streamErr != nil {
		if ctx.Err() != nil {
			return nil, false, streamErr
		}
		if _, ok := streamErr.(*errs.ModelError); ok {
			return nil, false, streamErr
		}
		return nil, false, errs.ModelErrorf("stream failed: %v", streamErr)
	}

	response, err := assembler.Finalize()
	if err != nil {
		return nil, false, err
	}
	m.logger.Debug("Model response assembled",
		zap.String("finish_reason", response.FinishReason),
		zap.Int("tool_calls", len(response.ToolCalls)),
		zap.Int("total_tokens", response.Usage.TotalTokens))
	return response, false, nil
}

func toChatMessages(messages []entities.Message) []chatMessage {
	converted := make([]chatMessage, 0, len(messages))
	for _, msg := range messages {
		converted = append(converted, chatMessage{
			Role:       msg.Role,
			Content:    msg.Content,
			ToolCalls:  msg.ToolCalls,
			ToolCallID: msg.ToolCallID,
		})
	}
	return converted
}

func buildToolSchemas(tools []entities.Tool) []map[string]any {
	schemas := make([]map[string]any, 0, len(tools))
	for _, tool := range tools {
		schemas = append(schemas, map[string]any{
			"type": "function",
			"function": map[string]any{
				"name":        tool.Name(),
				"description": tool.Description(),
				"parameters":  buildParametersSchema(tool.Parameters()),
			},
		})
	}
	return schemas
}

func buildParametersSchema(parameters []entities.Parameter) map[string]any {
	properties := make(map[string]any, len(parameters))
	var required []string
	for _, param := range parameters {
		prop := map[string]any{
			"type":        param.Type,
			"description": param.Description,
		}
		if len(param.Enum) > 0 {
			prop["enum"] = param.Enum
		}
		if param.Type == "array" && len(param.Items) > 0 {
			if param.Items[0].Type == "object" && len(param.Properties) > 0 {
				prop["items"] = buildParametersSchema(param.Properties)
			} else {
				prop["items"] = map[string]any{"type": param.Items[0].Type}
			}
		}
		properties[param.Name] = prop
		if param.Required {
			required = append(required, param.Name)
		}
	}
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

var _ interfaces.ModelIntegration = (*OpenAIIntegration)(nil)
