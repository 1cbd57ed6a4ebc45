// internal/output/status.go
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Channel identifies an independent status region.
type Channel string

const (
	ChannelWallet      Channel = "wallet"
	ChannelTransaction Channel = "transaction"
)

// Severity classifies a status message.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Reporter receives status updates from the connect and submit flows.
// Implementations must be safe for concurrent use.
type Reporter interface {
	Report(channel Channel, severity Severity, message string)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(channel Channel, severity Severity, message string)

// Report implements Reporter.
func (f ReporterFunc) Report(channel Channel, severity Severity, message string) {
	f(channel, severity, message)
}

// Discard is a Reporter that drops every update.
var Discard Reporter = ReporterFunc(func(Channel, Severity, string) {})

// Tee fans each update out to all reporters in order. Nil entries are skipped.
func Tee(reporters ...Reporter) Reporter {
	return ReporterFunc(func(channel Channel, severity Severity, message string) {
		for _, r := range reporters {
			if r != nil {
				r.Report(channel, severity, message)
			}
		}
	})
}

// Status is the latest message shown on a channel.
type Status struct {
	Channel  Channel   `json:"channel"`
	Severity Severity  `json:"severity"`
	Message  string    `json:"message"`
	At       time.Time `json:"at"`
}

// StatusBoard keeps only the latest status per channel.
type StatusBoard struct {
	mu     sync.RWMutex
	latest map[Channel]Status
	now    func() time.Time
}

// NewStatusBoard creates an empty board.
func NewStatusBoard() *StatusBoard {
	return &StatusBoard{
		latest: make(map[Channel]Status),
		now:    time.Now,
	}
}

// Report implements Reporter. It replaces any earlier status on the channel.
func (b *StatusBoard) Report(channel Channel, severity Severity, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.latest[channel] = Status{Channel: channel, Severity: severity, Message: message, At: b.now()}
}

// Latest returns the current status of a channel.
func (b *StatusBoard) Latest(channel Channel) (Status, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	s, ok := b.latest[channel]
	return s, ok
}

// Clear removes the status of a channel.
func (b *StatusBoard) Clear(channel Channel) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.latest, channel)
}

// ConsoleReporter prints each status update as a line, colored by severity.
type ConsoleReporter struct {
	mu       sync.Mutex
	out      io.Writer
	jsonMode bool
}

// NewConsoleReporter creates a reporter writing to out (stderr when nil).
// In JSON mode each update is written as one JSON object per line.
func NewConsoleReporter(out io.Writer, jsonMode bool) *ConsoleReporter {
	if out == nil {
		out = os.Stderr
	}
	return &ConsoleReporter{out: out, jsonMode: jsonMode}
}

// Report implements Reporter.
func (r *ConsoleReporter) Report(channel Channel, severity Severity, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.jsonMode {
		data, err := json.Marshal(Status{Channel: channel, Severity: severity, Message: message, At: time.Now().UTC()})
		if err != nil {
			return
		}
		fmt.Fprintln(r.out, string(data))
		return
	}

	prefix := color.New(color.FgHiBlack).Sprintf("[%s]", channel)
	switch severity {
	case SeveritySuccess:
		color.New(color.FgGreen).Fprintf(r.out, "%s ✓ %s\n", prefix, message)
	case SeverityError:
		color.New(color.FgRed).Fprintf(r.out, "%s ✗ %s\n", prefix, message)
	default:
		fmt.Fprintf(r.out, "%s %s\n", prefix, message)
	}
}

var (
	_ Reporter = (*StatusBoard)(nil)
	_ Reporter = (*ConsoleReporter)(nil)
)
