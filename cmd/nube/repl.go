package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tadeodonegana/nube-agent/internal/api"
	"github.com/tadeodonegana/nube-agent/internal/graph"
	"github.com/tadeodonegana/nube-agent/internal/hitl"
	"github.com/tadeodonegana/nube-agent/internal/stream"
)

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	debugStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	whiteStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
)

// shortcuts expand slash commands into full prompts for the agent.
var shortcuts = map[string]string{
	"/store":      "Show me the store information",
	"/products":   "List all my products with a summary",
	"/categories": "List all categories",
	"/orders":     "List my recent orders with a summary",
	"/customers":  "List my recent customers",
	"/coupons":    "List all my discount coupons",
	"/abandoned":  "List abandoned checkouts",
	"/pages":      "List all content pages",
}

type slashAction int

const (
	slashPrompt  slashAction = iota // send the expanded prompt to the agent
	slashHandled                    // handled locally, read the next line
	slashExit                       // leave the REPL
	slashDebug                      // toggle debug mode
	slashClear                      // clear the screen
	slashHelp                       // print the command list
)

// expandSlash classifies a slash command and, for shortcuts, returns
// the prompt to send instead.
func expandSlash(input string) (string, slashAction) {
	fields := strings.Fields(input)
	cmd := strings.ToLower(fields[0])
	args := strings.TrimSpace(input[len(fields[0]):])

	switch cmd {
	case "/exit", "/quit":
		return "", slashExit
	case "/help":
		return "", slashHelp
	case "/clear":
		return "", slashClear
	case "/debug":
		return "", slashDebug
	case "/variants":
		if args != "" {
			return "List all variants for product ID " + args, slashPrompt
		}
		return "List variants for all my products", slashPrompt
	}
	if prompt, ok := shortcuts[cmd]; ok {
		return prompt, slashPrompt
	}
	return "", slashHandled
}

type replOptions struct {
	graph  *graph.Graph
	store  *api.StoreInfo
	model  string
	debug  bool
	in     *hitl.LineReader
	out    io.Writer
	spin   stream.Spinner
	prompt hitl.Prompter
}

type repl struct {
	graph      *graph.Graph
	store      *api.StoreInfo
	model      string
	in         *hitl.LineReader
	out        io.Writer
	coord      *stream.Coordinator
	controller *hitl.Controller
	sessionID  string
	debug      bool
}

func newREPL(opts replOptions) *repl {
	r := &repl{
		graph:     opts.graph,
		store:     opts.store,
		model:     opts.model,
		in:        opts.in,
		out:       opts.out,
		sessionID: graph.NewSessionID(),
		debug:     opts.debug,
	}
	r.coord = stream.New(opts.out, opts.spin, func() bool { return r.debug })
	r.controller = hitl.New(opts.graph, opts.prompt, r.coord)
	r.controller.ScopeResumes(interruptScope)
	return r
}

// run prints the banner and loops on user input until exit or EOF.
func (r *repl) run(ctx context.Context) error {
	r.printBanner(ctx)
	if r.debug {
		fmt.Fprintf(r.out, "  %s\n\n", debugStyle.Render("debug mode on"))
	}

	for {
		fmt.Fprint(r.out, promptStyle.Render("❯")+" ")
		line, ok := <-r.in.Lines()
		if !ok || line.Err != nil {
			fmt.Fprintf(r.out, "\n%s\n", dimStyle.Render("Bye!"))
			return nil
		}
		input := strings.TrimSpace(line.Text)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			prompt, action := r.handleSlash(input)
			if action == slashExit {
				fmt.Fprintln(r.out, dimStyle.Render("Bye!"))
				return nil
			}
			if action != slashPrompt {
				continue
			}
			input = prompt
		}
		if low := strings.ToLower(input); low == "exit" || low == "quit" {
			fmt.Fprintln(r.out, dimStyle.Render("Bye!"))
			return nil
		}

		r.runTurn(ctx, input)
		fmt.Fprintln(r.out)
	}
}

// handleSlash executes local commands and passes prompt expansions
// back to the caller.
func (r *repl) handleSlash(input string) (string, slashAction) {
	prompt, action := expandSlash(input)
	switch action {
	case slashHelp:
		r.printHelp()
	case slashClear:
		fmt.Fprint(r.out, "\033[2J\033[H")
	case slashDebug:
		r.debug = !r.debug
		state := "off"
		if r.debug {
			state = "on"
		}
		fmt.Fprintf(r.out, "  %s\n\n", debugStyle.Render("debug mode "+state))
	case slashHandled:
		fmt.Fprintf(r.out, "  %s\n", dimStyle.Render(
			fmt.Sprintf("Unknown command: %s. Type /help for available commands.", strings.Fields(input)[0])))
	}
	return prompt, action
}

// runTurn sends one message through the graph and resolves any
// approval pauses it raises. Ctrl-C cancels the in-flight drain
// without leaving the REPL; during an approval prompt it rejects the
// remaining actions instead, so the resume that carries the collected
// decisions never runs on a cancelled context.
func (r *repl) runTurn(parent context.Context, input string) {
	// An earlier interrupted turn may have left the session paused;
	// those approvals come first.
	if r.graph.SessionState(r.sessionID) == graph.Paused {
		if _, err := r.controller.CheckAndResolve(parent, r.sessionID); err != nil {
			fmt.Fprintf(r.out, "Error: %v\n", err)
			return
		}
	}

	ctx, cancel := interruptScope(parent)
	events, err := r.graph.InvokeStreaming(ctx, r.sessionID, input)
	if err != nil {
		cancel()
		fmt.Fprintf(r.out, "Error: %v\n", err)
		return
	}
	outcome := r.coord.Drain(ctx, events)
	cancel()
	if outcome != stream.Completed {
		return
	}
	if _, err := r.controller.CheckAndResolve(parent, r.sessionID); err != nil {
		fmt.Fprintf(r.out, "Error: %v\n", err)
	}
}

// interruptScope derives a context that Ctrl-C cancels. Each drain
// gets its own scope, so an interrupt abandons one stream only.
func interruptScope(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	go func() {
		defer signal.Stop(sig)
		select {
		case <-sig:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

func (r *repl) printHelp() {
	fmt.Fprintf(r.out, "\n%s\n", promptStyle.Bold(true).Render("Commands"))
	fmt.Fprintln(r.out, promptStyle.Render(strings.Repeat("─", 40)))
	commands := [][2]string{
		{"/store", "Show store information"},
		{"/products", "List all products"},
		{"/orders", "List recent orders"},
		{"/customers", "List recent customers"},
		{"/coupons", "List discount coupons"},
		{"/categories", "List all categories"},
		{"/variants <id>", "List variants for a product"},
		{"/abandoned", "List abandoned checkouts"},
		{"/pages", "List content pages"},
		{"/debug", "Toggle debug mode on/off"},
		{"/clear", "Clear the screen"},
		{"/help", "Show this help message"},
		{"/exit, /quit", "Exit the agent"},
	}
	for _, c := range commands {
		fmt.Fprintf(r.out, "  %s %s\n",
			whiteStyle.Render(fmt.Sprintf("%-20s", c[0])), dimStyle.Render(c[1]))
	}
	fmt.Fprintf(r.out, "\n%s\n\n", dimStyle.Render(
		"  Or just type naturally — the agent understands free-form requests."))
}
