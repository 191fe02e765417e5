package integrations

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"sort"
	"strings"

	"github.com/drujensen/engineer/internal/domain/entities"
	"github.com/drujensen/engineer/internal/domain/errs"
)

// consumeSSE reads a text/event-stream body and invokes fn once per event
// with the accumulated data payload.
func consumeSSE(ctx context.Context, r io.Reader, fn func(event, data string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var event string
	var data strings.Builder

	flush := func() error {
		if event == "" && data.Len() == 0 {
			return nil
		}
		err := fn(event, data.String())
		event = ""
		data.Reset()
		return err
	}

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Text()
		switch {
		case line == "":
			if err := flush(); err != nil {
				return err
			}
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			if data.Len() > 0 {
				data.WriteByte('\n')
			}
			data.WriteString(strings.TrimSpace(strings.TrimPrefix(line, "data:")))
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return flush()
}

type completionChunk struct {
	Choices []struct {
		Delta struct {
			Content   string `json:"content"`
			ToolCalls []struct {
				Index    int    `json:"index"`
				ID       string `json:"id"`
				Type     string `json:"type"`
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"delta"`
		FinishReason *string `json:"finish_reason"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

type pendingCall struct {
	index     int
	id        string
	name      string
	arguments strings.Builder
}

// StreamAssembler reassembles one streamed chat completion. Text deltas are
// handed to onText as they arrive; tool-call fragments are buffered per call
// index and only released by Finalize once the finish marker has been seen.
// One assembler serves exactly one turn.
type StreamAssembler struct {
	onText       func(string)
	text         strings.Builder
	calls        map[int]*pendingCall
	finishReason string
	usage        entities.Usage
	done         bool
}

func NewStreamAssembler(onText func(string)) *StreamAssembler {
	return &StreamAssembler{
		onText: onText,
		calls:  make(map[int]*pendingCall),
	}
}

// Feed consumes one SSE data payload.
func (a *StreamAssembler) Feed(data string) error {
	if data == "[DONE]" {
		a.done = true
		return nil
	}

	var chunk completionChunk
	if err := json.Unmarshal([]byte(data), &chunk); err != nil {
		return errs.ModelErrorf("malformed stream chunk: %v", err)
	}

	if chunk.Usage != nil {
		a.usage = entities.Usage{
			PromptTokens:     chunk.Usage.PromptTokens,
			CompletionTokens: chunk.Usage.CompletionTokens,
			TotalTokens:      chunk.Usage.TotalTokens,
		}
	}
	if len(chunk.Choices) == 0 {
		return nil
	}
	choice := chunk.Choices[0]

	if choice.Delta.Content != "" {
		a.text.WriteString(choice.Delta.Content)
		if a.onText != nil {
			a.onText(choice.Delta.Content)
		}
	}

	for _, fragment := range choice.Delta.ToolCalls {
		call, exists := a.calls[fragment.Index]
		if !exists {
			call = &pendingCall{index: fragment.Index}
			a.calls[fragment.Index] = call
		}
		if fragment.ID != "" {
			call.id = fragment.ID
		}
		if fragment.Function.Name != "" {
			call.name += fragment.Function.Name
		}
		call.arguments.WriteString(fragment.Function.Arguments)
	}

	if choice.FinishReason != nil && *choice.FinishReason != "" {
		a.finishReason = *choice.FinishReason
	}
	return nil
}

// Finalize releases the assembled response. A stream that never produced a
// finish marker is treated as truncated.
func (a *StreamAssembler) Finalize() (*entities.ModelResponse, error) {
	if !a.done && a.finishReason == "" {
		return nil, errs.ModelErrorf("stream ended without a finish marker")
	}

	ordered := make([]*pendingCall, 0, len(a.calls))
	for _, call := range a.calls {
		ordered = append(ordered, call)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].index < ordered[j].index })

	response := &entities.ModelResponse{
		Content:      a.text.String(),
		FinishReason: a.finishReason,
		Usage:        a.usage,
	}
	for _, call := range ordered {
		if call.id == "" || call.name == "" {
			return nil, errs.ModelErrorf("stream produced an incomplete tool call at index %d", call.index)
		}
		arguments := call.arguments.String()
		if arguments == "" {
			arguments = "{}"
		}
		toolCall := entities.ToolCall{ID: call.id, Type: "function"}
		toolCall.Function.Name = call.name
		toolCall.Function.Arguments = arguments
		response.ToolCalls = append(response.ToolCalls, toolCall)
	}
	return response, nil
}
