package graph

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/tadeodonegana/nube-agent/internal/api"
	"github.com/tadeodonegana/nube-agent/internal/config"
	"github.com/tadeodonegana/nube-agent/internal/llm"
	"github.com/tadeodonegana/nube-agent/internal/tools"
)

// fakeProvider scripts model behavior per request. The respond function
// inspects the conversation and returns the chunks to stream back.
type fakeProvider struct {
	respond func(req *llm.ChatRequest) []llm.StreamChunk
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Stream(ctx context.Context, req *llm.ChatRequest) (<-chan llm.StreamChunk, error) {
	chunks := f.respond(req)
	ch := make(chan llm.StreamChunk, len(chunks))
	for _, c := range chunks {
		ch <- c
	}
	close(ch)
	return ch, nil
}

func chunkText(s string) llm.StreamChunk {
	return llm.StreamChunk{Delta: llm.Message{Content: s}}
}

func chunkCall(index int, id, name, args string) llm.StreamChunk {
	return llm.StreamChunk{Delta: llm.Message{ToolCalls: []llm.ToolCall{{
		Index: index, ID: id, Name: name, Arguments: json.RawMessage(args),
	}}}}
}

type requestLog struct {
	mu      sync.Mutex
	entries []string
}

func (r *requestLog) add(entry string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
}

func (r *requestLog) has(entry string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e == entry {
			return true
		}
	}
	return false
}

func newTestGraph(t *testing.T, respond func(*llm.ChatRequest) []llm.StreamChunk) (*Graph, *requestLog) {
	t.Helper()
	rl := &requestLog{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rl.add(r.Method + " " + r.URL.Path)
		w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(srv.Close)

	client := api.NewClient(api.Config{AccessToken: "tok", UserAgent: "test", BaseURL: srv.URL})
	reg := tools.NewRegistry(tools.All(client, api.NewStoreInfo(client)), config.SensitivityConfig{})
	g, err := New(Options{Provider: &fakeProvider{respond}, Registry: reg})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return g, rl
}

func drain(t *testing.T, ch <-chan OutputEvent) (string, []OutputEvent) {
	t.Helper()
	var text strings.Builder
	var events []OutputEvent
	for ev := range ch {
		events = append(events, ev)
		text.WriteString(ev.Text)
	}
	return text.String(), events
}

func hasToolMessages(req *llm.ChatRequest) bool {
	for _, m := range req.Messages {
		if m.Role == llm.RoleTool {
			return true
		}
	}
	return false
}

func TestPlainTextTurn(t *testing.T) {
	g, _ := newTestGraph(t, func(req *llm.ChatRequest) []llm.StreamChunk {
		return []llm.StreamChunk{chunkText("Hola, "), chunkText("como puedo ayudarte?")}
	})

	sid := NewSessionID()
	ch, err := g.InvokeStreaming(context.Background(), sid, "hola")
	if err != nil {
		t.Fatalf("InvokeStreaming failed: %v", err)
	}
	text, _ := drain(t, ch)
	if text != "Hola, como puedo ayudarte?" {
		t.Errorf("wrong text: %q", text)
	}
	if got := g.SessionState(sid); got != Idle {
		t.Errorf("expected Idle, got %s", got)
	}
	if n := len(g.PendingInterrupts(sid)); n != 0 {
		t.Errorf("expected no interrupts, got %d", n)
	}
}

func TestToolExecutionAndResultEvents(t *testing.T) {
	g, rl := newTestGraph(t, func(req *llm.ChatRequest) []llm.StreamChunk {
		if hasToolMessages(req) {
			return []llm.StreamChunk{chunkText("You have products.")}
		}
		return []llm.StreamChunk{chunkCall(0, "call_1", "get_store_info", `{}`)}
	})

	sid := NewSessionID()
	ch, _ := g.InvokeStreaming(context.Background(), sid, "store info")
	_, events := drain(t, ch)

	var sawFragment, sawResult bool
	for _, ev := range events {
		if ev.Call != nil && ev.Call.Name == "get_store_info" {
			sawFragment = true
		}
		if ev.Result != nil && ev.Result.Name == "get_store_info" {
			sawResult = true
		}
	}
	if !sawFragment || !sawResult {
		t.Errorf("missing tool events: fragment=%v result=%v", sawFragment, sawResult)
	}
	if !rl.has("GET /store") {
		t.Error("tool did not hit the API")
	}
}

func TestFragmentsReemittedInOrder(t *testing.T) {
	g, rl := newTestGraph(t, func(req *llm.ChatRequest) []llm.StreamChunk {
		if hasToolMessages(req) {
			return []llm.StreamChunk{chunkText("done")}
		}
		// Arguments split across three chunks at awkward boundaries.
		return []llm.StreamChunk{
			chunkCall(0, "call_1", "get_product", `{"produc`),
			chunkCall(0, "", "", `t_id": 1`),
			chunkCall(0, "", "", `2}`),
		}
	})

	sid := NewSessionID()
	ch, _ := g.InvokeStreaming(context.Background(), sid, "show product 12")
	_, events := drain(t, ch)

	var frags []string
	for _, ev := range events {
		if ev.Call != nil {
			frags = append(frags, ev.Call.Arguments)
		}
	}
	if strings.Join(frags, "") != `{"product_id": 12}` {
		t.Errorf("fragments lost or reordered: %q", frags)
	}
	if !rl.has("GET /products/12") {
		t.Error("assembled call did not execute against /products/12")
	}
}

func TestSensitivePauseAndReject(t *testing.T) {
	var sawRejection bool
	g, rl := newTestGraph(t, func(req *llm.ChatRequest) []llm.StreamChunk {
		if hasToolMessages(req) {
			for _, m := range req.Messages {
				if m.Role == llm.RoleTool && m.Content == "Error: User rejected this action." {
					sawRejection = true
				}
			}
			return []llm.StreamChunk{chunkText("Understood, the order was not cancelled.")}
		}
		return []llm.StreamChunk{chunkCall(0, "call_1", "cancel_order",
			`{"order_id": 100, "reason": "other", "restock": true, "notify_customer": true}`)}
	})

	sid := NewSessionID()
	ch, err := g.InvokeStreaming(context.Background(), sid, "cancel order 100")
	if err != nil {
		t.Fatalf("InvokeStreaming failed: %v", err)
	}
	drain(t, ch)

	if got := g.SessionState(sid); got != Paused {
		t.Fatalf("expected Paused, got %s", got)
	}
	pending := g.PendingInterrupts(sid)
	if len(pending) != 1 {
		t.Fatalf("expected 1 interrupt, got %d", len(pending))
	}
	actions := pending[0].ActionRequests
	if len(actions) != 1 || actions[0].Name != "cancel_order" {
		t.Fatalf("wrong action requests: %+v", actions)
	}
	if actions[0].Args["order_id"].(float64) != 100 {
		t.Errorf("wrong args: %v", actions[0].Args)
	}

	payload := ResumePayload{pending[0].ID: {{Type: Reject, Message: "User rejected this action."}}}
	ch, err = g.Resume(context.Background(), sid, payload)
	if err != nil {
		t.Fatalf("Resume failed: %v", err)
	}
	text, _ := drain(t, ch)
	if !strings.Contains(text, "not cancelled") {
		t.Errorf("wrong continuation: %q", text)
	}
	if !sawRejection {
		t.Error("rejection was not fed back as a tool failure")
	}
	if rl.has("POST /orders/100/cancel") {
		t.Error("rejected tool must not execute")
	}
	if got := g.SessionState(sid); got != Idle {
		t.Errorf("expected Idle after resume, got %s", got)
	}
	if n := len(g.PendingInterrupts(sid)); n != 0 {
		t.Errorf("interrupts should be cleared, got %d", n)
	}
}

func TestApproveExecutesOriginalCall(t *testing.T) {
	g, rl := newTestGraph(t, func(req *llm.ChatRequest) []llm.StreamChunk {
		if hasToolMessages(req) {
			return []llm.StreamChunk{chunkText("Order 100 cancelled.")}
		}
		return []llm.StreamChunk{chunkCall(0, "call_1", "cancel_order", `{"order_id": 100}`)}
	})

	sid := NewSessionID()
	ch, _ := g.InvokeStreaming(context.Background(), sid, "cancel order 100")
	drain(t, ch)

	pending := g.PendingInterrupts(sid)
	if len(pending) != 1 {
		t.Fatalf("expected 1 interrupt, got %d", len(pending))
	}
	ch, err := g.Resume(context.Background(), sid, ResumePayload{
		pending[0].ID: {{Type: Approve}},
	})
	if err != nil {
		t.Fatalf("Resume failed: %v", err)
	}
	drain(t, ch)
	if !rl.has("POST /orders/100/cancel") {
		t.Error("approved tool did not execute")
	}
	if got := g.SessionState(sid); got != Idle {
		t.Errorf("expected Idle, got %s", got)
	}
}

func TestChainedInterrupts(t *testing.T) {
	// Each deletion is approved, and the model immediately requests the
	// next one, producing a chain of pauses within one logical turn.
	g, rl := newTestGraph(t, func(req *llm.ChatRequest) []llm.StreamChunk {
		deletions := 0
		for _, m := range req.Messages {
			if m.Role == llm.RoleTool {
				deletions++
			}
		}
		switch deletions {
		case 0:
			return []llm.StreamChunk{chunkCall(0, "call_1", "delete_product", `{"product_id": 1}`)}
		case 1:
			return []llm.StreamChunk{chunkCall(0, "call_2", "delete_product", `{"product_id": 2}`)}
		default:
			return []llm.StreamChunk{chunkText("Both products deleted.")}
		}
	})

	sid := NewSessionID()
	ch, _ := g.InvokeStreaming(context.Background(), sid, "delete products 1 and 2")
	drain(t, ch)

	for hop := 0; hop < 2; hop++ {
		pending := g.PendingInterrupts(sid)
		if len(pending) != 1 {
			t.Fatalf("hop %d: expected 1 interrupt, got %d", hop, len(pending))
		}
		ch, err := g.Resume(context.Background(), sid, ResumePayload{
			pending[0].ID: {{Type: Approve}},
		})
		if err != nil {
			t.Fatalf("hop %d: Resume failed: %v", hop, err)
		}
		drain(t, ch)
	}

	if !rl.has("DELETE /products/1") || !rl.has("DELETE /products/2") {
		t.Error("approved deletions did not execute")
	}
	if got := g.SessionState(sid); got != Idle {
		t.Errorf("expected Idle after chain, got %s", got)
	}
}

func TestTwoSimultaneousInterrupts(t *testing.T) {
	g, rl := newTestGraph(t, func(req *llm.ChatRequest) []llm.StreamChunk {
		system := req.Messages[0].Content
		switch {
		case strings.Contains(system, "catalog manager"):
			if hasToolMessages(req) {
				return []llm.StreamChunk{chunkText("Product deleted.")}
			}
			return []llm.StreamChunk{chunkCall(0, "c1", "delete_product", `{"product_id": 5}`)}
		case strings.Contains(system, "marketing manager"):
			if hasToolMessages(req) {
				return []llm.StreamChunk{chunkText("Coupon deleted.")}
			}
			return []llm.StreamChunk{chunkCall(0, "m1", "delete_coupon", `{"coupon_id": 9}`)}
		default: // orchestrator
			if hasToolMessages(req) {
				return []llm.StreamChunk{chunkText("All done.")}
			}
			return []llm.StreamChunk{
				chunkCall(0, "t1", "task", `{"agent": "catalog-manager", "instruction": "delete product 5"}`),
				chunkCall(1, "t2", "task", `{"agent": "marketing-manager", "instruction": "delete coupon 9"}`),
			}
		}
	})

	sid := NewSessionID()
	ch, _ := g.InvokeStreaming(context.Background(), sid, "delete product 5 and coupon 9")
	drain(t, ch)

	if got := g.SessionState(sid); got != Paused {
		t.Fatalf("expected Paused, got %s", got)
	}
	pending := g.PendingInterrupts(sid)
	if len(pending) != 2 {
		t.Fatalf("expected 2 simultaneous interrupts, got %d", len(pending))
	}
	names := map[string]bool{}
	payload := ResumePayload{}
	for _, p := range pending {
		if len(p.ActionRequests) != 1 {
			t.Fatalf("expected 1 action per interrupt, got %d", len(p.ActionRequests))
		}
		names[p.ActionRequests[0].Name] = true
		payload[p.ID] = []Decision{{Type: Approve}}
	}
	if !names["delete_product"] || !names["delete_coupon"] {
		t.Errorf("wrong pending actions: %v", names)
	}

	// One bundled resume resolves both branches.
	ch, err := g.Resume(context.Background(), sid, payload)
	if err != nil {
		t.Fatalf("Resume failed: %v", err)
	}
	text, _ := drain(t, ch)
	if !strings.Contains(text, "All done.") {
		t.Errorf("orchestrator did not finish: %q", text)
	}
	if !rl.has("DELETE /products/5") || !rl.has("DELETE /coupons/9") {
		t.Error("approved deletions did not execute")
	}
	if got := g.SessionState(sid); got != Idle {
		t.Errorf("expected Idle, got %s", got)
	}
}

func TestResumeValidation(t *testing.T) {
	g, _ := newTestGraph(t, func(req *llm.ChatRequest) []llm.StreamChunk {
		if hasToolMessages(req) {
			return []llm.StreamChunk{chunkText("ok")}
		}
		return []llm.StreamChunk{chunkCall(0, "c1", "delete_product", `{"product_id": 1}`)}
	})

	sid := NewSessionID()
	ch, _ := g.InvokeStreaming(context.Background(), sid, "delete product 1")
	drain(t, ch)
	pending := g.PendingInterrupts(sid)
	if len(pending) != 1 {
		t.Fatalf("expected 1 interrupt, got %d", len(pending))
	}

	// Missing interrupt.
	if _, err := g.Resume(context.Background(), sid, ResumePayload{}); err == nil {
		t.Error("empty payload should be rejected")
	}
	// Wrong decision count.
	if _, err := g.Resume(context.Background(), sid, ResumePayload{
		pending[0].ID: {{Type: Approve}, {Type: Approve}},
	}); err == nil {
		t.Error("mismatched decision count should be rejected")
	}
	// Graph state untouched by invalid payloads.
	if got := g.SessionState(sid); got != Paused {
		t.Errorf("state changed by invalid resume: %s", got)
	}

	// Valid payload still works afterwards.
	ch, err := g.Resume(context.Background(), sid, ResumePayload{
		pending[0].ID: {{Type: Reject, Message: "User rejected this action."}},
	})
	if err != nil {
		t.Fatalf("valid Resume failed: %v", err)
	}
	drain(t, ch)
}

func TestInvokeWhilePaused(t *testing.T) {
	g, _ := newTestGraph(t, func(req *llm.ChatRequest) []llm.StreamChunk {
		if hasToolMessages(req) {
			return []llm.StreamChunk{chunkText("ok")}
		}
		return []llm.StreamChunk{chunkCall(0, "c1", "delete_product", `{"product_id": 1}`)}
	})

	sid := NewSessionID()
	ch, _ := g.InvokeStreaming(context.Background(), sid, "delete product 1")
	drain(t, ch)

	if _, err := g.InvokeStreaming(context.Background(), sid, "something else"); err == nil {
		t.Error("expected error starting a turn on a paused session")
	}
	if _, err := g.Resume(context.Background(), NewSessionID(), ResumePayload{}); err == nil {
		t.Error("expected error resuming an idle session")
	}
}

func TestHistorySurvivesTurns(t *testing.T) {
	var lastLen int
	g, _ := newTestGraph(t, func(req *llm.ChatRequest) []llm.StreamChunk {
		lastLen = len(req.Messages)
		return []llm.StreamChunk{chunkText("ok")}
	})

	sid := NewSessionID()
	ch, _ := g.InvokeStreaming(context.Background(), sid, "first")
	drain(t, ch)
	if lastLen != 2 { // system + user
		t.Errorf("first turn saw %d messages", lastLen)
	}
	ch, _ = g.InvokeStreaming(context.Background(), sid, "second")
	drain(t, ch)
	if lastLen != 4 { // system + user + assistant + user
		t.Errorf("second turn saw %d messages, history not kept", lastLen)
	}
}
