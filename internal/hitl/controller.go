// Package hitl drives the human-in-the-loop approval flow: when a turn
// pauses on destructive tool calls, the controller shows each requested
// action, collects approve/reject decisions for every pending
// interrupt, and resumes the graph with the complete decision set.
package hitl

import (
	"context"
	"fmt"

	"github.com/vinayprograms/agentkit/logging"

	"github.com/tadeodonegana/nube-agent/internal/graph"
	"github.com/tadeodonegana/nube-agent/internal/stream"
)

// RejectedMessage is fed back to the model for every action the human
// declined or abandoned.
const RejectedMessage = "User rejected this action."

// defaultMaxChainDepth bounds chained approval rounds in one logical
// turn. Each approved destructive call can surface another one, but a
// chain this deep means the model is looping.
const defaultMaxChainDepth = 8

// Graph is the slice of the execution graph the controller needs.
type Graph interface {
	PendingInterrupts(sessionID string) []graph.PendingInterrupt
	Resume(ctx context.Context, sessionID string, payload graph.ResumePayload) (<-chan graph.OutputEvent, error)
}

// Drainer consumes the event stream of a resumed turn.
type Drainer interface {
	Drain(ctx context.Context, events <-chan graph.OutputEvent) stream.Outcome
}

// Prompter collects the human's decisions for one interrupt. It must
// return exactly one decision per action request; abandoning the prompt
// counts as rejecting.
type Prompter interface {
	Decide(actions []graph.ActionRequest) []graph.Decision
}

// ResumeScope derives the context for one resume round from the
// caller's context.
type ResumeScope func(context.Context) (context.Context, context.CancelFunc)

// Controller resolves pending interrupts until a session settles.
type Controller struct {
	graph    Graph
	prompter Prompter
	drainer  Drainer
	log      *logging.Logger
	maxDepth int
	scope    ResumeScope
}

// New builds a controller over the graph with the default chain bound.
func New(g Graph, p Prompter, d Drainer) *Controller {
	return &Controller{
		graph:    g,
		prompter: p,
		drainer:  d,
		log:      logging.New().WithComponent("hitl"),
		maxDepth: defaultMaxChainDepth,
		scope:    context.WithCancel,
	}
}

// ScopeResumes overrides how each resume round derives its context.
// The CLI installs a scope that cancels on Ctrl-C so an interrupt
// stops the resumed drain only; the scope is entered after prompting,
// which keeps a prompt-time interrupt from cancelling the resume that
// carries the collected decisions.
func (c *Controller) ScopeResumes(scope ResumeScope) {
	if scope != nil {
		c.scope = scope
	}
}

// CheckAndResolve polls the session for pending interrupts and, while
// any exist, prompts for decisions and resumes. Approved actions can
// pause the turn again; the loop continues until the session has no
// pending interrupts or a drain ends abnormally. Reports whether any
// interrupt was handled.
func (c *Controller) CheckAndResolve(ctx context.Context, sessionID string) (bool, error) {
	handled := false
	for depth := 0; ; depth++ {
		pending := c.graph.PendingInterrupts(sessionID)
		if len(pending) == 0 {
			return handled, nil
		}
		if depth >= c.maxDepth {
			return handled, fmt.Errorf("interrupt chain exceeded %d rounds", c.maxDepth)
		}
		handled = true

		// Resume requires a decision set for every pending interrupt,
		// so collect them all before resuming once.
		payload := graph.ResumePayload{}
		for _, intr := range pending {
			decisions := c.prompter.Decide(intr.ActionRequests)
			if len(decisions) != len(intr.ActionRequests) {
				padded := make([]graph.Decision, len(intr.ActionRequests))
				copy(padded, decisions)
				for i := len(decisions); i < len(padded); i++ {
					padded[i] = graph.Decision{Type: graph.Reject, Message: RejectedMessage}
				}
				decisions = padded
			}
			payload[intr.ID] = decisions
		}

		c.log.Info("resuming after approval", map[string]interface{}{
			"session": sessionID, "interrupts": len(pending),
		})
		rctx, cancel := c.scope(ctx)
		events, err := c.graph.Resume(rctx, sessionID, payload)
		if err != nil {
			cancel()
			return handled, err
		}
		outcome := c.drainer.Drain(rctx, events)
		cancel()
		if outcome != stream.Completed {
			// The human interrupted or the turn failed; leave any new
			// pauses for the next explicit check.
			return handled, nil
		}
	}
}
