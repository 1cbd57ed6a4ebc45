package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/altuslabsxyz/blob-poster/internal/tui"
)

// StepStatus is the state of one step.
type StepStatus int

const (
	StepPending StepStatus = iota
	StepRunning
	StepCompleted
	StepFailed
)

// Step is one line of a StepListModel.
type Step struct {
	Name   string
	Status StepStatus
	Detail string
}

// StepListModel draws a fixed list of steps. Running steps show the current
// spinner frame. With returns a modified copy, so a view can derive the list
// for one frame without changing the model it was called on.
type StepListModel struct {
	steps   []Step
	spinner spinner.Model
}

// NewStepListModel creates a list of pending steps.
func NewStepListModel(names ...string) StepListModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(tui.ColorInfo)

	steps := make([]Step, len(names))
	for i, name := range names {
		steps[i] = Step{Name: name}
	}
	return StepListModel{steps: steps, spinner: s}
}

// Len returns the number of steps.
func (m StepListModel) Len() int { return len(m.steps) }

// Step returns the step at i.
func (m StepListModel) Step(i int) Step { return m.steps[i] }

// Index returns the position of the named step, or -1.
func (m StepListModel) Index(name string) int {
	for i, step := range m.steps {
		if step.Name == name {
			return i
		}
	}
	return -1
}

// With returns a copy with step i set to status and detail. Out of range
// indexes leave the list unchanged.
func (m StepListModel) With(i int, status StepStatus, detail string) StepListModel {
	if i < 0 || i >= len(m.steps) {
		return m
	}
	steps := append([]Step(nil), m.steps...)
	steps[i].Status = status
	steps[i].Detail = detail
	m.steps = steps
	return m
}

// Init implements tea.Model
func (m StepListModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model. Only spinner ticks are handled.
func (m StepListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	tick, ok := msg.(spinner.TickMsg)
	if !ok {
		return m, nil
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(tick)
	return m, cmd
}

// View implements tea.Model
func (m StepListModel) View() string {
	var b strings.Builder
	for i, step := range m.steps {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(m.line(step))
	}
	return b.String()
}

func (m StepListModel) line(step Step) string {
	var line string
	switch step.Status {
	case StepRunning:
		line = m.spinner.View() + " " + tui.RunningStyle.Render(step.Name)
	case StepCompleted:
		line = tui.SuccessStyle.Render(tui.IconSuccess + " " + step.Name)
	case StepFailed:
		line = tui.ErrorStyle.Render(tui.IconError + " " + step.Name)
	default:
		line = tui.MutedStyle.Render(tui.IconPending + " " + step.Name)
	}
	if step.Detail != "" {
		line += tui.MutedStyle.Render(" (" + step.Detail + ")")
	}
	return line
}
