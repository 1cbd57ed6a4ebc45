package tui

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// Run takes over the terminal's alternate screen until the model quits.
func Run(model tea.Model) (tea.Model, error) {
	return tea.NewProgram(model, tea.WithAltScreen()).Run()
}

// RunInline runs the program in the normal screen so the final view stays
// in the scrollback.
func RunInline(model tea.Model) (tea.Model, error) {
	return tea.NewProgram(model).Run()
}

// RunSimple prints a single view of model to w. It is the rendition for
// pipes and CI logs.
func RunSimple(w io.Writer, model tea.Model) (tea.Model, error) {
	_, err := fmt.Fprintln(w, model.View())
	return model, err
}

// IsInteractive reports whether stdin and stdout are both terminals.
func IsInteractive() bool {
	for _, f := range []*os.File{os.Stdin, os.Stdout} {
		if !term.IsTerminal(int(f.Fd())) {
			return false
		}
	}
	return true
}
