// internal/tui/components/box.go
package components

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/altuslabsxyz/blob-poster/internal/output"
	"github.com/altuslabsxyz/blob-poster/internal/tui"
)

// BoxKind selects the border color of a box.
type BoxKind int

const (
	BoxInfo BoxKind = iota
	BoxSuccess
	BoxError
	BoxWarning
)

// BoxKindFor maps a status severity to a box kind.
func BoxKindFor(sev output.Severity) BoxKind {
	switch sev {
	case output.SeveritySuccess:
		return BoxSuccess
	case output.SeverityError:
		return BoxError
	default:
		return BoxInfo
	}
}

// BoxModel represents a bordered box with title and content
type BoxModel struct {
	Title   string
	Content string
	Width   int
	Kind    BoxKind
}

// NewBoxModel creates a box of the given kind
func NewBoxModel(kind BoxKind, title, content string) BoxModel {
	return BoxModel{
		Title:   title,
		Content: content,
		Width:   60,
		Kind:    kind,
	}
}

func (m BoxModel) style() lipgloss.Style {
	switch m.Kind {
	case BoxSuccess:
		return tui.SuccessBoxStyle
	case BoxError:
		return tui.ErrorBoxStyle
	case BoxWarning:
		return tui.WarningBoxStyle
	default:
		return tui.BoxStyle
	}
}

// Init implements tea.Model
func (m BoxModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m BoxModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.SetWidth(wsm.Width - 4)
	}
	return m, nil
}

// View implements tea.Model
func (m BoxModel) View() string {
	boxStyle := m.style().Width(m.Width)
	if m.Title == "" {
		return boxStyle.Render(m.Content)
	}
	return boxStyle.Render(tui.BoldStyle.Render(m.Title) + "\n" + m.Content)
}

// SetWidth sets the inner width, never below 40 columns
func (m *BoxModel) SetWidth(width int) {
	if width < 40 {
		width = 40
	}
	m.Width = width
}
