package output

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// StatusSpinner animates the latest info status on one terminal line.
// Success and error statuses end the animation and are passed to the final
// reporter, so only outcomes stay in the scrollback.
type StatusSpinner struct {
	out      io.Writer
	final    Reporter
	interval time.Duration

	mu     sync.Mutex
	labels chan string // nil while idle
	done   chan struct{}
}

// NewStatusSpinner creates a StatusSpinner writing to out (stderr when nil).
func NewStatusSpinner(out io.Writer, final Reporter) *StatusSpinner {
	if out == nil {
		out = os.Stderr
	}
	if final == nil {
		final = Discard
	}
	return &StatusSpinner{out: out, final: final, interval: 100 * time.Millisecond}
}

// Report implements Reporter.
func (s *StatusSpinner) Report(channel Channel, severity Severity, message string) {
	if severity != SeverityInfo {
		s.Stop()
		s.final.Report(channel, severity, message)
		return
	}

	label := fmt.Sprintf("[%s] %s", channel, message)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.labels == nil {
		s.labels = make(chan string)
		s.done = make(chan struct{})
		go s.spin(s.labels, s.done, label)
		return
	}
	s.labels <- label
}

// Stop ends the animation and clears the line. It is a no-op while idle.
func (s *StatusSpinner) Stop() {
	s.mu.Lock()
	labels, done := s.labels, s.done
	s.labels, s.done = nil, nil
	s.mu.Unlock()

	if labels == nil {
		return
	}
	close(labels)
	<-done
}

func (s *StatusSpinner) isRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.labels != nil
}

// spin owns the terminal line until labels is closed.
func (s *StatusSpinner) spin(labels <-chan string, done chan<- struct{}, label string) {
	defer close(done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	frame := 0
	draw := func() {
		fmt.Fprintf(s.out, "\r%s %s\x1b[K", spinnerFrames[frame%len(spinnerFrames)], label)
		frame++
	}

	draw()
	for {
		select {
		case next, ok := <-labels:
			if !ok {
				fmt.Fprint(s.out, "\r\x1b[K")
				return
			}
			label = next
			draw()
		case <-ticker.C:
			draw()
		}
	}
}

var _ Reporter = (*StatusSpinner)(nil)
