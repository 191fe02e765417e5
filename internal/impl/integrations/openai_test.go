package integrations

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/drujensen/engineer/internal/domain/entities"
	"github.com/drujensen/engineer/internal/domain/errs"

	"go.uber.org/zap"
)

func sseHandler(t *testing.T, lines []string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("unexpected authorization header: %s", auth)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		for _, line := range lines {
			fmt.Fprintf(w, "data: %s\n\n", line)
		}
	}
}

func TestGenerateResponseStreamsTextAndToolCalls(t *testing.T) {
	server := httptest.NewServer(sseHandler(t, []string{
		`{"choices":[{"delta":{"content":"Let me check."}}]}`,
		`{"choices":[{"delta":{"tool_calls":[{"index":0,"id":"call-1","type":"function","function":{"name":"read_file","arguments":"{\"file_path\":\"go.mod\"}"}}]}}]}`,
		`{"choices":[{"delta":{},"finish_reason":"tool_calls"}]}`,
		`[DONE]`,
	}))
	defer server.Close()

	integration := NewOpenAIIntegration(server.URL, "test-key", "test-model", zap.NewNop())

	var streamed strings.Builder
	response, err := integration.GenerateResponse(context.Background(),
		[]entities.Message{*entities.NewMessage(entities.RoleUser, "what deps do we have?")},
		nil,
		func(chunk string) { streamed.WriteString(chunk) })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if streamed.String() != "Let me check." {
		t.Errorf("unexpected streamed text: %q", streamed.String())
	}
	if response.Content != "Let me check." {
		t.Errorf("unexpected content: %q", response.Content)
	}
	if len(response.ToolCalls) != 1 || response.ToolCalls[0].Function.Name != "read_file" {
		t.Errorf("unexpected tool calls: %+v", response.ToolCalls)
	}
	if response.FinishReason != "tool_calls" {
		t.Errorf("unexpected finish reason: %q", response.FinishReason)
	}
}

func TestGenerateResponseSendsHistoryAndTools(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"ok\"},\"finish_reason\":\"stop\"}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	integration := NewOpenAIIntegration(server.URL, "test-key", "test-model", zap.NewNop())

	messages := []entities.Message{
		*entities.NewMessage(entities.RoleSystem, "be helpful"),
		*entities.NewMessage(entities.RoleUser, "hi"),
	}
	_, err := integration.GenerateResponse(context.Background(), messages, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if captured["model"] != "test-model" {
		t.Errorf("unexpected model: %v", captured["model"])
	}
	if captured["stream"] != true {
		t.Error("expected a streaming request")
	}
	sent, ok := captured["messages"].([]any)
	if !ok || len(sent) != 2 {
		t.Fatalf("unexpected messages payload: %v", captured["messages"])
	}
	first := sent[0].(map[string]any)
	if first["role"] != "system" || first["content"] != "be helpful" {
		t.Errorf("unexpected first message: %v", first)
	}
}

func TestGenerateResponseSurfacesAPIErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"invalid api key"}}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	integration := NewOpenAIIntegration(server.URL, "bad-key", "test-model", zap.NewNop())

	_, err := integration.GenerateResponse(context.Background(),
		[]entities.Message{*entities.NewMessage(entities.RoleUser, "hi")}, nil, nil)
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
	if errs.KindOf(err) != errs.KindModelError {
		t.Errorf("expected model_error kind, got %s", errs.KindOf(err))
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("expected status in error, got: %v", err)
	}
}

func TestGenerateResponseCanceledContext(t *testing.T) {
	server := httptest.NewServer(sseHandler(t, []string{
		`{"choices":[{"delta":{"content":"never seen"}}]}`,
	}))
	defer server.Close()

	integration := NewOpenAIIntegration(server.URL, "test-key", "test-model", zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := integration.GenerateResponse(ctx,
		[]entities.Message{*entities.NewMessage(entities.RoleUser, "hi")}, nil, nil)
	if err == nil {
		t.Fatal("expected error for canceled context")
	}
	if errs.KindOf(err) != errs.KindCanceled {
		t.Errorf("expected canceled kind, got %s", errs.KindOf(err))
	}
}

func TestBuildParametersSchema(t *testing.T) {
	schema := buildParametersSchema([]entities.Parameter{
		{Name: "file_path", Type: "string", Description: "the path", Required: true},
		{Name: "file_paths", Type: "array", Items: []entities.Item{{Type: "string"}}, Required: false},
	})

	if schema["type"] != "object" {
		t.Errorf("unexpected schema type: %v", schema["type"])
	}
	properties := schema["properties"].(map[string]any)
	pathProp := properties["file_path"].(map[string]any)
	if pathProp["type"] != "string" {
		t.Errorf("unexpected property type: %v", pathProp["type"])
	}
	arrayProp := properties["file_paths"].(map[string]any)
	items := arrayProp["items"].(map[string]any)
	if items["type"] != "string" {
		t.Errorf("unexpected items type: %v", items["type"])
	}
	required := schema["required"].([]string)
	if len(required) != 1 || required[0] != "file_path" {
		t.Errorf("unexpected required list: %v", required)
	}
}
