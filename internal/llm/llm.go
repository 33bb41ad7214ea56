// Package llm provides the streaming chat-completion boundary used by the
// execution graph. The model is an opaque capability: given a conversation
// and a tool catalog it emits a stream of text and tool-call deltas.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
)

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is a single conversation message.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
}

// ToolCall is a model-requested tool invocation. In stream deltas the
// Arguments field arrives as fragments that must be concatenated per Index.
type ToolCall struct {
	ID        string          `json:"id,omitempty"`
	Index     int             `json:"index"`
	Name      string          `json:"name,omitempty"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// ArgsMap parses the accumulated Arguments into a map. An empty argument
// string parses to an empty map.
func (tc ToolCall) ArgsMap() (map[string]interface{}, error) {
	if len(tc.Arguments) == 0 {
		return map[string]interface{}{}, nil
	}
	var m map[string]interface{}
	if err := json.Unmarshal(tc.Arguments, &m); err != nil {
		return nil, fmt.Errorf("tool call %s: invalid arguments: %w", tc.Name, err)
	}
	return m, nil
}

// ToolSchema describes a callable tool to the model.
type ToolSchema struct {
	Name        string
	Description string
	Parameters  json.RawMessage // JSON schema object
}

// ChatRequest is one model invocation.
type ChatRequest struct {
	Messages []Message
	Tools    []ToolSchema
}

// StreamChunk is one delta from a streaming completion. Err terminates the
// stream when set; FinishReason is set on the final content chunk.
type StreamChunk struct {
	Delta        Message
	FinishReason string
	Err          error
}

// Provider streams chat completions. The returned channel is closed when the
// stream ends; consumers must drain it or cancel ctx.
type Provider interface {
	Name() string
	Stream(ctx context.Context, req *ChatRequest) (<-chan StreamChunk, error)
}

// APIError is a non-2xx response from the model endpoint.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("chat API error %d: %s", e.Status, e.Message)
}
