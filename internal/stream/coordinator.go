// Package stream turns a graph event stream into terminal output: model
// text is printed as it arrives, tool activity drives a progress
// spinner, and an optional debug view shows the raw calls and results.
package stream

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/vinayprograms/agentkit/logging"

	"github.com/tadeodonegana/nube-agent/internal/graph"
)

// Outcome classifies how a drain ended.
type Outcome int

const (
	// Completed means the stream closed normally; the session is either
	// idle or paused on an interrupt.
	Completed Outcome = iota
	// Interrupted means the context was cancelled mid-stream.
	Interrupted
	// Failed means the stream carried an error event.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Completed:
		return "completed"
	case Interrupted:
		return "interrupted"
	case Failed:
		return "failed"
	}
	return "unknown"
}

const (
	resultDebugLimit = 500
	argsDebugLimit   = 300
)

// Spinner is the progress indicator driven during a drain. The terminal
// implementation lives in spinner.go; tests substitute a recorder.
type Spinner interface {
	Start(label string)
	Update(label string)
	Stop()
}

// Coordinator consumes turn event streams and renders them.
type Coordinator struct {
	out   io.Writer
	spin  Spinner
	debug func() bool
	log   *logging.Logger
}

// New builds a coordinator writing to out. debug is sampled at render
// time so the REPL can toggle it between turns.
func New(out io.Writer, spin Spinner, debug func() bool) *Coordinator {
	if debug == nil {
		debug = func() bool { return false }
	}
	return &Coordinator{
		out:   out,
		spin:  spin,
		debug: debug,
		log:   logging.New().WithComponent("stream"),
	}
}

// call accumulates one in-flight tool call from its fragments.
type call struct {
	index int
	name  string
	args  strings.Builder
}

// Drain consumes events until the stream closes, the context is
// cancelled, or an error event arrives. The spinner is stopped on every
// exit path.
func (c *Coordinator) Drain(ctx context.Context, events <-chan graph.OutputEvent) Outcome {
	c.spin.Start("Thinking")
	spinning := true
	stopSpin := func() {
		if spinning {
			c.spin.Stop()
			spinning = false
		}
	}
	defer stopSpin()

	wroteText := false
	calls := map[int]*call{}

	for {
		select {
		case <-ctx.Done():
			stopSpin()
			fmt.Fprintln(c.out, "\n[Interrupted]")
			return Interrupted
		case ev, ok := <-events:
			if !ok {
				stopSpin()
				if wroteText {
					fmt.Fprintln(c.out)
				}
				if c.debug() {
					c.dumpCalls(calls)
				}
				return Completed
			}
			switch {
			case ev.Err != nil:
				stopSpin()
				fmt.Fprintf(c.out, "\nError: %v\n", ev.Err)
				c.log.Error("turn failed", map[string]interface{}{"error": ev.Err.Error()})
				return Failed
			case ev.Text != "":
				stopSpin()
				fmt.Fprint(c.out, ev.Text)
				wroteText = true
			case ev.Call != nil:
				cl, ok := calls[ev.Call.Index]
				if !ok {
					cl = &call{index: ev.Call.Index}
					calls[ev.Call.Index] = cl
				}
				if ev.Call.Name != "" {
					cl.name = ev.Call.Name
					if spinning {
						c.spin.Update("Calling " + ev.Call.Name)
					}
				}
				cl.args.WriteString(ev.Call.Arguments)
			case ev.Result != nil:
				if spinning {
					c.spin.Update("Thinking")
				}
				if c.debug() {
					stopSpin()
					fmt.Fprintf(c.out, "← %s: %s\n", ev.Result.Name, truncate(ev.Result.Content, resultDebugLimit))
				}
			}
		}
	}
}

// dumpCalls prints the assembled tool calls of the turn, in call order.
func (c *Coordinator) dumpCalls(calls map[int]*call) {
	indexes := make([]int, 0, len(calls))
	for i := range calls {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)
	for _, i := range indexes {
		cl := calls[i]
		fmt.Fprintf(c.out, "⤷ %s(%s)\n", cl.name, truncate(cl.args.String(), argsDebugLimit))
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
