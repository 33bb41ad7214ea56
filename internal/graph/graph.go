package graph

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/vinayprograms/agentkit/logging"

	"github.com/tadeodonegana/nube-agent/internal/agents"
	"github.com/tadeodonegana/nube-agent/internal/llm"
	"github.com/tadeodonegana/nube-agent/internal/tools"
)

// Options configures a Graph.
type Options struct {
	Provider    llm.Provider
	Registry    *tools.Registry
	Checkpoints Store // nil = conversation history is process-local
}

// Graph runs turns for any number of sessions, one turn per session at
// a time. A turn streams OutputEvents; when a sensitive tool call is
// reached the stream simply ends and the session reports Paused until
// Resume supplies decisions.
type Graph struct {
	provider     llm.Provider
	registry     *tools.Registry
	orchestrator agents.Agent
	specialists  map[string]agents.Agent
	rootSchemas  []llm.ToolSchema
	store        Store
	log          *logging.Logger

	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	id string

	mu      sync.Mutex
	state   State
	history []llm.Message
	pending []*pause
	turn    *turn
}

// pause holds one parked execution branch. The branch goroutine blocks
// on wake until Resume delivers its decisions.
type pause struct {
	interrupt PendingInterrupt
	wake      chan []Decision
}

// New wires the orchestrator and specialists over the tool registry.
func New(opts Options) (*Graph, error) {
	orchestrator := agents.Orchestrator()
	specialists := agents.Specialists()

	rootSchemas, err := opts.Registry.Schemas(orchestrator.Tools...)
	if err != nil {
		return nil, fmt.Errorf("orchestrator tools: %w", err)
	}
	rootSchemas = append(rootSchemas, agents.TaskTool(specialists))

	byName := make(map[string]agents.Agent, len(specialists))
	for _, a := range specialists {
		if _, err := opts.Registry.Schemas(a.Tools...); err != nil {
			return nil, fmt.Errorf("agent %s: %w", a.Name, err)
		}
		byName[a.Name] = a
	}

	return &Graph{
		provider:     opts.Provider,
		registry:     opts.Registry,
		orchestrator: orchestrator,
		specialists:  byName,
		rootSchemas:  rootSchemas,
		store:        opts.Checkpoints,
		log:          logging.New().WithComponent("graph"),
		sessions:     make(map[string]*session),
	}, nil
}

// NewSessionID mints a session token for one logical conversation.
func NewSessionID() string {
	return uuid.NewString()
}

func (g *Graph) session(id string) *session {
	g.mu.Lock()
	defer g.mu.Unlock()
	s, ok := g.sessions[id]
	if !ok {
		s = &session{
			id:      id,
			history: []llm.Message{{Role: llm.RoleSystem, Content: g.orchestrator.SystemPrompt}},
		}
		if g.store != nil {
			if msgs, found, err := g.store.Load(id); err != nil {
				g.log.Warn("checkpoint load failed", map[string]interface{}{
					"session": id, "error": err.Error(),
				})
			} else if found && len(msgs) > 0 {
				s.history = msgs
			}
		}
		g.sessions[id] = s
	}
	return s
}

// SessionState reports where the session is in the turn lifecycle.
func (g *Graph) SessionState(sessionID string) State {
	s := g.session(sessionID)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// PendingInterrupts returns the session's unresolved pauses in the
// order they were raised. Empty when nothing is awaiting approval.
func (g *Graph) PendingInterrupts(sessionID string) []PendingInterrupt {
	s := g.session(sessionID)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]PendingInterrupt, 0, len(s.pending))
	for _, p := range s.pending {
		out = append(out, p.interrupt)
	}
	return out
}

// InvokeStreaming starts a new turn with the user's message. The
// returned channel closes when the turn completes or pauses; the caller
// distinguishes the two by querying PendingInterrupts afterward.
func (g *Graph) InvokeStreaming(ctx context.Context, sessionID, input string) (<-chan OutputEvent, error) {
	s := g.session(sessionID)

	s.mu.Lock()
	if s.state != Idle {
		state := s.state
		s.mu.Unlock()
		return nil, fmt.Errorf("session %s is %s, cannot start a new turn", sessionID, state)
	}
	s.state = Running
	s.history = append(s.history, llm.Message{Role: llm.RoleUser, Content: input})
	t := newTurn()
	s.turn = t
	s.mu.Unlock()

	out := make(chan OutputEvent, 16)
	// Attach the span context so agent and tool spans parent under the
	// turn span.
	spanCtx, span := startTurnSpan(ctx, "turn.invoke", sessionID)
	t.attach(spanCtx, out)
	t.add(1)
	go func() {
		defer t.done()
		_, err := g.runAgent(t, s, g.orchestrator.Name, &s.history, g.rootSchemas, true)
		endSpan(span, err)
		if err != nil && t.Ctx().Err() == nil {
			g.log.Error("turn failed", map[string]interface{}{
				"session": sessionID, "error": err.Error(),
			})
			t.emit(OutputEvent{Err: err})
		}
	}()
	go g.supervise(s, t, out)
	return out, nil
}

// Resume continues a paused session. The payload must carry decisions
// for every pending interrupt, one decision per action request, or the
// call is rejected without touching graph state.
func (g *Graph) Resume(ctx context.Context, sessionID string, payload ResumePayload) (<-chan OutputEvent, error) {
	s := g.session(sessionID)

	s.mu.Lock()
	if s.state != Paused {
		state := s.state
		s.mu.Unlock()
		return nil, fmt.Errorf("session %s is %s, nothing to resume", sessionID, state)
	}
	for _, p := range s.pending {
		decisions, ok := payload[p.interrupt.ID]
		if !ok {
			s.mu.Unlock()
			return nil, fmt.Errorf("resume payload missing interrupt %s", p.interrupt.ID)
		}
		if len(decisions) != len(p.interrupt.ActionRequests) {
			s.mu.Unlock()
			return nil, fmt.Errorf("interrupt %s: %d decisions for %d actions",
				p.interrupt.ID, len(decisions), len(p.interrupt.ActionRequests))
		}
	}
	if len(payload) != len(s.pending) {
		known := len(s.pending)
		s.mu.Unlock()
		return nil, fmt.Errorf("resume payload has %d entries for %d pending interrupts", len(payload), known)
	}
	parked := s.pending
	s.pending = nil
	s.state = Running
	t := s.turn
	s.mu.Unlock()

	out := make(chan OutputEvent, 16)
	spanCtx, span := startTurnSpan(ctx, "turn.resume", sessionID)
	t.attach(spanCtx, out)
	// Credit the parked branches before waking them so the stream stays
	// open until every one of them finishes or parks again.
	t.add(len(parked))
	go func() {
		g.supervise(s, t, out)
		endSpan(span, nil)
	}()
	for _, p := range parked {
		p.wake <- payload[p.interrupt.ID]
	}
	return out, nil
}

// supervise closes the event stream once every branch of the turn has
// finished or parked, then settles the session state.
func (g *Graph) supervise(s *session, t *turn, out chan OutputEvent) {
	t.waitZero()
	s.mu.Lock()
	if len(s.pending) > 0 {
		s.state = Paused
		g.log.Info("turn paused", map[string]interface{}{
			"session": s.id, "interrupts": len(s.pending),
		})
	} else {
		s.state = Idle
		// Persist only settled turns: a mid-turn history still has
		// tool calls without results and cannot be replayed.
		if g.store != nil {
			if err := g.store.Save(s.id, s.history); err != nil {
				g.log.Warn("checkpoint save failed", map[string]interface{}{
					"session": s.id, "error": err.Error(),
				})
			}
		}
	}
	s.mu.Unlock()
	close(out)
}

// runAgent drives one agent's reason/act loop: stream the model, run
// the requested tools, feed results back, repeat until a turn of plain
// text. Returns that final text.
func (g *Graph) runAgent(t *turn, s *session, name string, msgs *[]llm.Message, schemas []llm.ToolSchema, allowTask bool) (string, error) {
	for {
		ch, err := g.provider.Stream(t.Ctx(), &llm.ChatRequest{Messages: *msgs, Tools: schemas})
		if err != nil {
			return "", err
		}
		text, calls, err := g.drainModel(t, ch)
		if err != nil {
			return "", err
		}
		if len(calls) == 0 {
			*msgs = append(*msgs, llm.Message{Role: llm.RoleAssistant, Content: text})
			return text, nil
		}
		*msgs = append(*msgs, llm.Message{Role: llm.RoleAssistant, Content: text, ToolCalls: calls})
		results, err := g.dispatch(t, s, calls, allowTask)
		if err != nil {
			return "", err
		}
		for _, tc := range calls {
			*msgs = append(*msgs, llm.Message{
				Role:       llm.RoleTool,
				ToolCallID: tc.ID,
				Content:    results[tc.ID],
			})
		}
	}
}

// drainModel consumes one model stream, forwarding text and tool-call
// fragments as events while assembling the complete tool calls.
func (g *Graph) drainModel(t *turn, ch <-chan llm.StreamChunk) (string, []llm.ToolCall, error) {
	var text strings.Builder
	var order []int
	acc := map[int]*llm.ToolCall{}

	for chunk := range ch {
		if chunk.Err != nil {
			return "", nil, chunk.Err
		}
		if chunk.Delta.Content != "" {
			if !t.emit(OutputEvent{Text: chunk.Delta.Content}) {
				return "", nil, cancelErr(t)
			}
			text.WriteString(chunk.Delta.Content)
		}
		for _, tc := range chunk.Delta.ToolCalls {
			ev := OutputEvent{Call: &ToolCallFragment{
				Index:     tc.Index,
				Name:      tc.Name,
				Arguments: string(tc.Arguments),
			}}
			if !t.emit(ev) {
				return "", nil, cancelErr(t)
			}
			cur, ok := acc[tc.Index]
			if !ok {
				cp := tc
				cp.Arguments = append([]byte(nil), tc.Arguments...)
				acc[tc.Index] = &cp
				order = append(order, tc.Index)
				continue
			}
			if tc.ID != "" {
				cur.ID = tc.ID
			}
			if tc.Name != "" {
				cur.Name = tc.Name
			}
			cur.Arguments = append(cur.Arguments, tc.Arguments...)
		}
	}

	calls := make([]llm.ToolCall, 0, len(order))
	for _, idx := range order {
		calls = append(calls, *acc[idx])
	}
	return text.String(), calls, nil
}

// dispatch executes one tool-call batch. Delegations run concurrently
// so independent specialists can pause independently within the same
// turn; plain tools run inline; sensitive calls become one pending
// interrupt and the branch parks until Resume decides them.
func (g *Graph) dispatch(t *turn, s *session, calls []llm.ToolCall, allowTask bool) (map[string]string, error) {
	results := make(map[string]string, len(calls))

	var taskCalls []llm.ToolCall
	var sensitive []llm.ToolCall
	var sensitiveArgs []map[string]interface{}
	var plain []llm.ToolCall

	for _, tc := range calls {
		if allowTask && tc.Name == agents.TaskToolName {
			taskCalls = append(taskCalls, tc)
			continue
		}
		def, ok := g.registry.Get(tc.Name)
		if ok && def.Sensitive {
			args, err := tc.ArgsMap()
			if err != nil {
				// Unparseable arguments cannot be approved or executed;
				// report them like any other tool input error.
				results[tc.ID] = "Error: " + err.Error()
				t.emit(OutputEvent{Result: &ToolResult{Name: tc.Name, Content: results[tc.ID]}})
				continue
			}
			sensitive = append(sensitive, tc)
			sensitiveArgs = append(sensitiveArgs, args)
			continue
		}
		plain = append(plain, tc)
	}

	var join func()
	if len(taskCalls) > 0 {
		join = g.launchTasks(t, s, taskCalls, results)
	}

	for _, tc := range plain {
		content := g.execTool(t, tc)
		results[tc.ID] = content
		t.emit(OutputEvent{Result: &ToolResult{Name: tc.Name, Content: content}})
	}

	if join != nil {
		join()
		for _, tc := range taskCalls {
			t.emit(OutputEvent{Result: &ToolResult{Name: tc.Name, Content: results[tc.ID]}})
		}
	}

	if len(sensitive) > 0 {
		actions := make([]ActionRequest, len(sensitive))
		for i, tc := range sensitive {
			def, _ := g.registry.Get(tc.Name)
			actions[i] = ActionRequest{
				Name:        tc.Name,
				Args:        sensitiveArgs[i],
				Description: def.Description,
			}
		}
		intr := PendingInterrupt{ID: uuid.NewString(), ActionRequests: actions}
		decisions := g.park(t, s, intr)
		for i, tc := range sensitive {
			var content string
			if decisions[i].Type == Approve {
				def, _ := g.registry.Get(tc.Name)
				ctx, span := startToolSpan(t.Ctx(), tc.Name)
				content = def.Handler(ctx, sensitiveArgs[i])
				endSpan(span, nil)
			} else {
				content = "Error: " + decisions[i].Message
			}
			results[tc.ID] = content
			t.emit(OutputEvent{Result: &ToolResult{Name: tc.Name, Content: content}})
		}
	}

	return results, nil
}

// launchTasks starts one branch per delegation and returns the join.
// While the caller waits in the join, its stream credit is carried by
// the children: the last child to finish hands its credit back instead
// of releasing it, so the stream can close while everyone is parked
// but never closes under a branch that is still about to continue.
func (g *Graph) launchTasks(t *turn, s *session, taskCalls []llm.ToolCall, results map[string]string) func() {
	remaining := int32(len(taskCalls))
	outputs := make([]string, len(taskCalls))
	var wg sync.WaitGroup
	t.add(len(taskCalls))
	for i, tc := range taskCalls {
		wg.Add(1)
		go func(i int, tc llm.ToolCall) {
			defer wg.Done()
			outputs[i] = g.runTask(t, s, tc)
			if atomic.AddInt32(&remaining, -1) > 0 {
				t.done()
			}
		}(i, tc)
	}
	t.done()
	return func() {
		wg.Wait()
		for i, tc := range taskCalls {
			results[tc.ID] = outputs[i]
		}
	}
}

// runTask executes one delegation to a specialist agent. The specialist
// starts from a fresh conversation holding only its role prompt and the
// instruction; its final text is the task result.
func (g *Graph) runTask(t *turn, s *session, tc llm.ToolCall) string {
	args, err := tc.ArgsMap()
	if err != nil {
		return "Error: " + err.Error()
	}
	name, _ := args["agent"].(string)
	instruction, _ := args["instruction"].(string)
	spec, ok := g.specialists[name]
	if !ok {
		return fmt.Sprintf("Error: unknown agent: %s", name)
	}
	schemas, err := g.registry.Schemas(spec.Tools...)
	if err != nil {
		return "Error: " + err.Error()
	}

	_, span := startAgentSpan(t.Ctx(), name)
	msgs := []llm.Message{
		{Role: llm.RoleSystem, Content: spec.SystemPrompt},
		{Role: llm.RoleUser, Content: instruction},
	}
	out, err := g.runAgent(t, s, name, &msgs, schemas, false)
	endSpan(span, err)
	if err != nil {
		return "Error: " + err.Error()
	}
	return out
}

func (g *Graph) execTool(t *turn, tc llm.ToolCall) string {
	def, ok := g.registry.Get(tc.Name)
	if !ok {
		return fmt.Sprintf("Error: unknown tool: %s", tc.Name)
	}
	args, err := tc.ArgsMap()
	if err != nil {
		return "Error: " + err.Error()
	}
	ctx, span := startToolSpan(t.Ctx(), tc.Name)
	content := def.Handler(ctx, args)
	endSpan(span, nil)
	return content
}

// park registers a pending interrupt, releases this branch's stream
// credit, and blocks until Resume delivers the decisions.
func (g *Graph) park(t *turn, s *session, intr PendingInterrupt) []Decision {
	p := &pause{interrupt: intr, wake: make(chan []Decision, 1)}
	s.mu.Lock()
	s.pending = append(s.pending, p)
	s.mu.Unlock()
	g.log.Info("awaiting approval", map[string]interface{}{
		"session": s.id, "interrupt": intr.ID, "actions": len(intr.ActionRequests),
	})
	t.done()
	return <-p.wake
}

func cancelErr(t *turn) error {
	if err := t.Ctx().Err(); err != nil {
		return err
	}
	return context.Canceled
}

// turn tracks the live branches of one logical turn across pauses. The
// running count covers every branch that can still make progress; the
// stream closes when it reaches zero.
type turn struct {
	mu      sync.Mutex
	cond    *sync.Cond
	running int
	out     chan OutputEvent
	ctx     context.Context
}

func newTurn() *turn {
	t := &turn{}
	t.cond = sync.NewCond(&t.mu)
	return t
}

// attach points the turn at a fresh event channel and context. Only
// called while no branch is running (before invoke, or between a close
// and the matching Resume).
func (t *turn) attach(ctx context.Context, out chan OutputEvent) {
	t.mu.Lock()
	t.ctx = ctx
	t.out = out
	t.mu.Unlock()
}

func (t *turn) add(n int) {
	t.mu.Lock()
	t.running += n
	t.mu.Unlock()
}

func (t *turn) done() {
	t.mu.Lock()
	t.running--
	if t.running == 0 {
		t.cond.Broadcast()
	}
	t.mu.Unlock()
}

func (t *turn) waitZero() {
	t.mu.Lock()
	for t.running > 0 {
		t.cond.Wait()
	}
	t.mu.Unlock()
}

func (t *turn) Ctx() context.Context {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ctx
}

// emit sends one event, giving up if the consumer cancelled the turn.
func (t *turn) emit(ev OutputEvent) bool {
	t.mu.Lock()
	out, ctx := t.out, t.ctx
	t.mu.Unlock()
	select {
	case out <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
