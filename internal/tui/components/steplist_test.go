package components

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepList_New(t *testing.T) {
	m := NewStepListModel("Preparing", "Awaiting signature")
	require.Equal(t, 2, m.Len())
	assert.Equal(t, StepPending, m.Step(0).Status)
	assert.Equal(t, 1, m.Index("Awaiting signature"))
	assert.Equal(t, -1, m.Index("Mining"))
}

func TestStepList_View(t *testing.T) {
	tests := []struct {
		name     string
		status   StepStatus
		contains string
	}{
		{"pending", StepPending, "  Broadcasting"},
		{"completed", StepCompleted, "✓ Broadcasting"},
		{"failed", StepFailed, "✗ Broadcasting"},
		{"running", StepRunning, " Broadcasting"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewStepListModel("Broadcasting").With(0, tt.status, "")
			assert.Contains(t, m.View(), tt.contains)
		})
	}
}

func TestStepList_WithCopies(t *testing.T) {
	base := NewStepListModel("Preparing", "Broadcasting")
	m := base.With(0, StepCompleted, "account lookup failed").With(5, StepFailed, "ignored")

	view := m.View()
	assert.Contains(t, view, "account lookup failed")
	assert.NotContains(t, view, "ignored")
	assert.Len(t, strings.Split(view, "\n"), 2)

	assert.Equal(t, StepPending, base.Step(0).Status)
	assert.Empty(t, base.Step(0).Detail)
}

func TestStepList_Tick(t *testing.T) {
	m := NewStepListModel("Preparing")
	require.NotNil(t, m.Init())

	next, cmd := m.Update(m.spinner.Tick())
	_, ok := next.(StepListModel)
	assert.True(t, ok)
	assert.NotNil(t, cmd, "a tick schedules the next tick")

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

var _ tea.Model = StepListModel{}
