package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func sseLine(t *testing.T, v interface{}) string {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal sse payload: %v", err)
	}
	return "data: " + string(data) + "\n\n"
}

func TestStreamTextDeltas(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("wrong auth header: %s", got)
		}
		var req oaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if !req.Stream {
			t.Error("expected stream=true")
		}
		w.Header().Set("Content-Type", "text/event-stream")
		for _, text := range []string{"Hel", "lo", " world"} {
			fmt.Fprint(w, sseLine(t, oaStreamResponse{
				Choices: []oaStreamChoice{{Delta: &oaDelta{Content: text}}},
			}))
		}
		fmt.Fprint(w, sseLine(t, oaStreamResponse{
			Choices: []oaStreamChoice{{Delta: &oaDelta{}, FinishReason: "stop"}},
		}))
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	p := NewOpenAIProvider(OpenAIConfig{APIKey: "test-key", Model: "gpt-4o-mini", BaseURL: srv.URL})
	ch, err := p.Stream(context.Background(), &ChatRequest{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("Stream failed: %v", err)
	}

	var text string
	var finish string
	for chunk := range ch {
		if chunk.Err != nil {
			t.Fatalf("unexpected chunk error: %v", chunk.Err)
		}
		text += chunk.Delta.Content
		if chunk.FinishReason != "" {
			finish = chunk.FinishReason
		}
	}
	if text != "Hello world" {
		t.Errorf("wrong text: %q", text)
	}
	if finish != "stop" {
		t.Errorf("wrong finish reason: %q", finish)
	}
}

func TestStreamToolCallFragments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		// Tool call announced with name, then argument fragments.
		fmt.Fprint(w, sseLine(t, oaStreamResponse{
			Choices: []oaStreamChoice{{Delta: &oaDelta{ToolCalls: []oaToolCall{
				{Index: 0, ID: "call_1", Function: oaFunction{Name: "cancel_order"}},
			}}}},
		}))
		for _, frag := range []string{`{"order_`, `id": 1`, `00}`} {
			fmt.Fprint(w, sseLine(t, oaStreamResponse{
				Choices: []oaStreamChoice{{Delta: &oaDelta{ToolCalls: []oaToolCall{
					{Index: 0, Function: oaFunction{Arguments: frag}},
				}}}},
			}))
		}
		fmt.Fprint(w, sseLine(t, oaStreamResponse{
			Choices: []oaStreamChoice{{Delta: &oaDelta{}, FinishReason: "tool_calls"}},
		}))
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	p := NewOpenAIProvider(OpenAIConfig{APIKey: "k", Model: "gpt-4o-mini", BaseURL: srv.URL})
	ch, err := p.Stream(context.Background(), &ChatRequest{})
	if err != nil {
		t.Fatalf("Stream failed: %v", err)
	}

	var name, args string
	for chunk := range ch {
		if chunk.Err != nil {
			t.Fatalf("unexpected chunk error: %v", chunk.Err)
		}
		for _, tc := range chunk.Delta.ToolCalls {
			if tc.Index != 0 {
				t.Errorf("unexpected index: %d", tc.Index)
			}
			if tc.Name != "" {
				name = tc.Name
			}
			args += string(tc.Arguments)
		}
	}
	if name != "cancel_order" {
		t.Errorf("wrong tool name: %q", name)
	}
	if args != `{"order_id": 100}` {
		t.Errorf("fragments not preserved in order: %q", args)
	}
}

func TestStreamAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "invalid api key"},
		})
	}))
	defer srv.Close()

	p := NewOpenAIProvider(OpenAIConfig{APIKey: "bad", Model: "gpt-4o-mini", BaseURL: srv.URL})
	_, err := p.Stream(context.Background(), &ChatRequest{})
	if err == nil {
		t.Fatal("expected error")
	}
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.Status != http.StatusUnauthorized {
		t.Errorf("wrong status: %d", apiErr.Status)
	}
	if apiErr.Message != "invalid api key" {
		t.Errorf("wrong message: %q", apiErr.Message)
	}
}

func TestArgsMap(t *testing.T) {
	tc := ToolCall{Name: "cancel_order", Arguments: json.RawMessage(`{"order_id": 100, "restock": true}`)}
	args, err := tc.ArgsMap()
	if err != nil {
		t.Fatalf("ArgsMap failed: %v", err)
	}
	if args["order_id"].(float64) != 100 {
		t.Errorf("wrong order_id: %v", args["order_id"])
	}
	if args["restock"].(bool) != true {
		t.Errorf("wrong restock: %v", args["restock"])
	}

	empty := ToolCall{Name: "get_store_info"}
	args, err = empty.ArgsMap()
	if err != nil {
		t.Fatalf("ArgsMap on empty failed: %v", err)
	}
	if len(args) != 0 {
		t.Errorf("expected empty map, got %v", args)
	}

	bad := ToolCall{Name: "x", Arguments: json.RawMessage(`{oops`)}
	if _, err := bad.ArgsMap(); err == nil {
		t.Error("expected error for malformed arguments")
	}
}
