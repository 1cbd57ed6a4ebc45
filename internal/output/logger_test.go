package output

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) (*Logger, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	var out, errOut bytes.Buffer
	return NewLoggerWithWriters(&out, &errOut), &out, &errOut
}

func TestLogger_Levels(t *testing.T) {
	l, out, errOut := newTestLogger(t)

	l.Info("hello %s", "world")
	l.Success("done")
	l.Debug("hidden")
	l.Warn("careful")
	l.Error("broken")

	assert.Equal(t, "hello world\n✓ done\n", out.String())
	assert.Equal(t, "Warning: careful\nError: broken\n", errOut.String())

	l.SetVerbose(true)
	assert.True(t, l.IsVerbose())
	l.Debug("shown")
	assert.Contains(t, out.String(), "[DEBUG] shown")
}

func TestLogger_JSONModeSuppressesText(t *testing.T) {
	l, out, errOut := newTestLogger(t)
	l.SetJSONMode(true)
	assert.True(t, l.IsJSONMode())

	l.Info("text")
	l.Error("text")
	l.PrintBlock("title", "body")
	l.PrintErrorInfo(&ErrorInfo{Message: "x"})
	assert.Empty(t, out.String())
	assert.Empty(t, errOut.String())

	require.NoError(t, l.PrintJSON(map[string]string{"status": "ok"}))
	assert.Equal(t, "{\n  \"status\": \"ok\"\n}\n", out.String())
}

func TestLogger_PrintErrorInfo(t *testing.T) {
	l, _, errOut := newTestLogger(t)

	l.PrintErrorInfo(&ErrorInfo{
		Message: "user rejected the request",
		Hint:    "Approve the request in your wallet",
		Details: []string{"phase: awaiting signature"},
		Err:     errors.New("inner"),
	})

	s := errOut.String()
	assert.Contains(t, s, "Error: user rejected the request")
	assert.Contains(t, s, "  phase: awaiting signature")
	assert.Contains(t, s, "Hint: Approve the request in your wallet")
	assert.NotContains(t, s, "inner")
	assert.Equal(t, 2, strings.Count(s, Separator()))

	errOut.Reset()
	l.SetVerbose(true)
	l.PrintErrorInfo(&ErrorInfo{Title: "Broadcast failed", Message: "m", Err: errors.New("inner")})
	assert.Contains(t, errOut.String(), "Broadcast failed: m")
	assert.Contains(t, errOut.String(), "[DEBUG] inner")
}

func TestLogger_PrintBlock(t *testing.T) {
	l, out, _ := newTestLogger(t)
	l.PrintBlock("Signed transaction", "{}")
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "Signed transaction", lines[1])
	assert.Equal(t, "{}", lines[3])
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestStatusSpinner_ForwardsTerminalUpdates(t *testing.T) {
	var out syncBuffer
	board := NewStatusBoard()
	s := NewStatusSpinner(&out, board)

	s.Report(ChannelWallet, SeverityInfo, "Connecting to wallet...")
	assert.True(t, s.isRunning())
	_, ok := board.Latest(ChannelWallet)
	assert.False(t, ok)

	s.Report(ChannelWallet, SeverityInfo, "Still connecting...")
	s.Report(ChannelWallet, SeveritySuccess, "Connected: celestia1abc")
	assert.False(t, s.isRunning())

	st, ok := board.Latest(ChannelWallet)
	require.True(t, ok)
	assert.Equal(t, "Connected: celestia1abc", st.Message)
	assert.Contains(t, out.String(), "[wallet] Connecting to wallet...")

	// stopping twice is a no-op
	s.Stop()
}
