package stream

import (
	"time"

	"github.com/briandowns/spinner"
)

// TermSpinner renders an animated progress indicator on the terminal.
type TermSpinner struct {
	s *spinner.Spinner
}

// NewSpinner builds the terminal spinner used during turns.
func NewSpinner() *TermSpinner {
	return &TermSpinner{s: spinner.New(spinner.CharSets[14], 100*time.Millisecond)}
}

func (t *TermSpinner) Start(label string) {
	t.s.Suffix = " " + label
	t.s.Start()
}

func (t *TermSpinner) Update(label string) {
	t.s.Suffix = " " + label
}

func (t *TermSpinner) Stop() {
	t.s.Stop()
}

// NopSpinner is used when stdout is not a terminal.
type NopSpinner struct{}

func (NopSpinner) Start(string)  {}
func (NopSpinner) Update(string) {}
func (NopSpinner) Stop()         {}
