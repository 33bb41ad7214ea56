package hitl

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tadeodonegana/nube-agent/internal/graph"
)

var (
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	nameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// LinePrompter asks for approval on the terminal, one action at a time.
// Ctrl-C while a prompt is open rejects that action and every one after
// it, so the turn still resumes with a complete decision set.
type LinePrompter struct {
	in  *LineReader
	out io.Writer

	notify func(chan<- os.Signal)
	stop   func(chan<- os.Signal)
}

// NewLinePrompter reads answers from in and writes prompts to out.
func NewLinePrompter(in *LineReader, out io.Writer) *LinePrompter {
	return &LinePrompter{
		in:     in,
		out:    out,
		notify: func(ch chan<- os.Signal) { signal.Notify(ch, os.Interrupt) },
		stop:   func(ch chan<- os.Signal) { signal.Stop(ch) },
	}
}

// Decide shows each requested action with its arguments and reads a
// yes/no answer. Anything other than an affirmative answer, including
// EOF or an interrupt, rejects the action.
func (p *LinePrompter) Decide(actions []graph.ActionRequest) []graph.Decision {
	sig := make(chan os.Signal, 1)
	p.notify(sig)
	defer p.stop(sig)

	rejected := graph.Decision{Type: graph.Reject, Message: RejectedMessage}
	decisions := make([]graph.Decision, 0, len(actions))
	interrupted := false
	for _, action := range actions {
		if interrupted {
			decisions = append(decisions, rejected)
			continue
		}
		fmt.Fprintf(p.out, "\n  %s\n", warnStyle.Render("Destructive action requested:"))
		fmt.Fprintf(p.out, "  %s\n", nameStyle.Render(action.Name))
		if len(action.Args) > 0 {
			if raw, err := json.MarshalIndent(action.Args, "", "  "); err == nil {
				for _, line := range strings.Split(string(raw), "\n") {
					fmt.Fprintf(p.out, "    %s\n", dimStyle.Render(line))
				}
			}
		}
		fmt.Fprintf(p.out, "  %s", warnStyle.Render("Approve? (y)es / (n)o: "))

		var answer string
		select {
		case line, ok := <-p.in.Lines():
			if !ok {
				answer = "n"
			} else {
				answer = line.Text
				if line.Err != nil && strings.TrimSpace(answer) == "" {
					answer = "n"
				}
			}
		case <-sig:
			fmt.Fprintln(p.out)
			interrupted = true
			decisions = append(decisions, rejected)
			continue
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes", "s", "si":
			decisions = append(decisions, graph.Decision{Type: graph.Approve})
		default:
			decisions = append(decisions, rejected)
		}
	}
	return decisions
}
