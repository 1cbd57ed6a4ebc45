package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/altuslabsxyz/blob-poster/internal/output"
)

// Palette. Green, red, yellow and cyan line up with the CLI's fatih/color
// output so a status looks the same in both renditions.
var (
	ColorSuccess = lipgloss.Color("#22c55e")
	ColorError   = lipgloss.Color("#ef4444")
	ColorWarning = lipgloss.Color("#eab308")
	ColorInfo    = lipgloss.Color("#06b6d4")
	ColorMuted   = lipgloss.Color("#6b7280")
)

const (
	IconSuccess = "✓"
	IconError   = "✗"
	IconRunning = "→"
	IconPending = " "
)

var (
	SuccessStyle = fg(ColorSuccess)
	ErrorStyle   = fg(ColorError)
	RunningStyle = fg(ColorInfo)
	MutedStyle   = fg(ColorMuted)
	BoldStyle    = lipgloss.NewStyle().Bold(true)
	LabelStyle   = fg(ColorMuted).Width(12)

	BoxStyle        = framed(ColorInfo)
	ErrorBoxStyle   = framed(ColorError)
	SuccessBoxStyle = framed(ColorSuccess)
	WarningBoxStyle = framed(ColorWarning)

	ButtonStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Border(lipgloss.NormalBorder()).
			BorderForeground(ColorMuted)
	FocusedButtonStyle  = ButtonStyle.BorderForeground(ColorInfo).Foreground(ColorInfo).Bold(true)
	DisabledButtonStyle = ButtonStyle.Foreground(ColorMuted).Faint(true)
)

func fg(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

func framed(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(c).Padding(0, 1)
}

// TitleStyle renders title as a box heading.
func TitleStyle(title string) lipgloss.Style {
	return RunningStyle.Bold(true).SetString(title)
}

type severityLook struct {
	icon  string
	style lipgloss.Style
}

var severityLooks = map[output.Severity]severityLook{
	output.SeverityInfo:    {IconRunning, RunningStyle},
	output.SeveritySuccess: {IconSuccess, SuccessStyle},
	output.SeverityError:   {IconError, ErrorStyle},
}

// StatusLine renders a status message with its severity icon and color.
// Unknown severities render like info.
func StatusLine(s output.Status) string {
	look, ok := severityLooks[s.Severity]
	if !ok {
		look = severityLooks[output.SeverityInfo]
	}
	return look.style.Render(look.icon + " " + s.Message)
}
