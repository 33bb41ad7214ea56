package hitl

import (
	"bufio"
	"io"
)

// LineRead is one line of operator input, with the read error once the
// input ends.
type LineRead struct {
	Text string
	Err  error
}

// LineReader pumps input lines over a channel so a prompt can race a
// blocked read against an interrupt signal. All surfaces that read the
// same stream must share one LineReader, otherwise buffered input is
// lost between them.
type LineReader struct {
	lines chan LineRead
}

// NewLineReader starts reading lines from r.
func NewLineReader(r io.Reader) *LineReader {
	lr := &LineReader{lines: make(chan LineRead, 1)}
	go func() {
		br := bufio.NewReader(r)
		for {
			text, err := br.ReadString('\n')
			lr.lines <- LineRead{Text: text, Err: err}
			if err != nil {
				close(lr.lines)
				return
			}
		}
	}()
	return lr
}

// Lines returns the feed. The channel closes after the first read
// error, end of input included.
func (l *LineReader) Lines() <-chan LineRead { return l.lines }
