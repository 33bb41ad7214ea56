package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vinayprograms/agentkit/logging"
)

// OpenAIConfig configures the OpenAI-compatible provider.
type OpenAIConfig struct {
	APIKey    string
	Model     string
	BaseURL   string
	MaxTokens int
	Timeout   time.Duration
}

// OpenAIProvider implements Provider against an OpenAI-compatible
// chat-completions endpoint with SSE streaming.
type OpenAIProvider struct {
	cfg    OpenAIConfig
	client *http.Client
	logger *logging.Logger
}

// NewOpenAIProvider creates a provider. Defaults: api.openai.com, 120s timeout.
func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}
	return &OpenAIProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logging.New().WithComponent("llm"),
	}
}

func (p *OpenAIProvider) Name() string { return "openai" }

// Wire types for the chat-completions API.
type oaMessage struct {
	Role       string       `json:"role"`
	Content    string       `json:"content"`
	ToolCalls  []oaToolCall `json:"tool_calls,omitempty"`
	ToolCallID string       `json:"tool_call_id,omitempty"`
}

type oaToolCall struct {
	Index    int        `json:"index"`
	ID       string     `json:"id,omitempty"`
	Type     string     `json:"type,omitempty"`
	Function oaFunction `json:"function"`
}

type oaFunction struct {
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments,omitempty"`
}

type oaTool struct {
	Type     string       `json:"type"`
	Function oaFunctionDef `json:"function"`
}

type oaFunctionDef struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

type oaRequest struct {
	Model     string      `json:"model"`
	Messages  []oaMessage `json:"messages"`
	Tools     []oaTool    `json:"tools,omitempty"`
	MaxTokens int         `json:"max_tokens,omitempty"`
	Stream    bool        `json:"stream,omitempty"`
}

type oaDelta struct {
	Role      string       `json:"role,omitempty"`
	Content   string       `json:"content,omitempty"`
	ToolCalls []oaToolCall `json:"tool_calls,omitempty"`
}

type oaStreamChoice struct {
	Index        int      `json:"index"`
	Delta        *oaDelta `json:"delta,omitempty"`
	FinishReason string   `json:"finish_reason,omitempty"`
}

type oaStreamResponse struct {
	ID      string           `json:"id"`
	Model   string           `json:"model"`
	Choices []oaStreamChoice `json:"choices"`
}

type oaErrorResp struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func convertMessages(msgs []Message) []oaMessage {
	out := make([]oaMessage, 0, len(msgs))
	for _, m := range msgs {
		oa := oaMessage{
			Role:       m.Role,
			Content:    m.Content,
			ToolCallID: m.ToolCallID,
		}
		for _, tc := range m.ToolCalls {
			oa.ToolCalls = append(oa.ToolCalls, oaToolCall{
				Index: tc.Index,
				ID:    tc.ID,
				Type:  "function",
				Function: oaFunction{
					Name:      tc.Name,
					Arguments: string(tc.Arguments),
				},
			})
		}
		out = append(out, oa)
	}
	return out
}

func convertTools(tools []ToolSchema) []oaTool {
	if len(tools) == 0 {
		return nil
	}
	out := make([]oaTool, 0, len(tools))
	for _, t := range tools {
		out = append(out, oaTool{
			Type: "function",
			Function: oaFunctionDef{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}
	return out
}

// Stream opens a streaming completion and forwards deltas on the returned
// channel. The channel is closed when the stream ends; a chunk with Err set
// is the last chunk on failure.
func (p *OpenAIProvider) Stream(ctx context.Context, req *ChatRequest) (<-chan StreamChunk, error) {
	body := oaRequest{
		Model:     p.cfg.Model,
		Messages:  convertMessages(req.Messages),
		Tools:     convertTools(req.Tools),
		MaxTokens: p.cfg.MaxTokens,
		Stream:    true,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := strings.TrimRight(p.cfg.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		return nil, &APIError{Status: resp.StatusCode, Message: readErrMsg(resp.Body)}
	}

	ch := make(chan StreamChunk)
	go func() {
		defer resp.Body.Close()
		defer close(ch)
		reader := bufio.NewReader(resp.Body)
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				if err != io.EOF && ctx.Err() == nil {
					p.send(ctx, ch, StreamChunk{Err: fmt.Errorf("stream read: %w", err)})
				}
				return
			}
			line = strings.TrimSpace(line)
			if line == "" || !strings.HasPrefix(line, "data:") {
				continue
			}
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if data == "[DONE]" {
				return
			}
			var sr oaStreamResponse
			if err := json.Unmarshal([]byte(data), &sr); err != nil {
				p.send(ctx, ch, StreamChunk{Err: fmt.Errorf("stream decode: %w", err)})
				return
			}
			for _, choice := range sr.Choices {
				chunk := StreamChunk{
					FinishReason: choice.FinishReason,
					Delta:        Message{Role: RoleAssistant},
				}
				if choice.Delta != nil {
					chunk.Delta.Content = choice.Delta.Content
					for _, tc := range choice.Delta.ToolCalls {
						chunk.Delta.ToolCalls = append(chunk.Delta.ToolCalls, ToolCall{
							ID:        tc.ID,
							Index:     tc.Index,
							Name:      tc.Function.Name,
							Arguments: json.RawMessage(tc.Function.Arguments),
						})
					}
				}
				if !p.send(ctx, ch, chunk) {
					return
				}
			}
		}
	}()
	return ch, nil
}

// send delivers a chunk unless ctx is cancelled. Returns false on cancel.
func (p *OpenAIProvider) send(ctx context.Context, ch chan<- StreamChunk, chunk StreamChunk) bool {
	select {
	case ch <- chunk:
		return true
	case <-ctx.Done():
		return false
	}
}

func readErrMsg(body io.Reader) string {
	data, _ := io.ReadAll(body)
	var er oaErrorResp
	if err := json.Unmarshal(data, &er); err == nil && er.Error.Message != "" {
		return er.Error.Message
	}
	return strings.TrimSpace(string(data))
}
