package interactive

import (
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/altuslabsxyz/blob-poster/pkg/network"
)

const (
	networkRow = `{{ .Name }} - {{ .ChainName }} {{ .ChainID | faint }}{{ if .IsDefault }} {{ "(default)" | green }}{{ end }}`

	networkListSize = 6
)

var networkTemplates = &promptui.SelectTemplates{
	Label:    "{{ . }}",
	Active:   "▸ " + strings.Replace(networkRow, "{{ .Name }}", "{{ .Name | cyan }}", 1),
	Inactive: "  " + networkRow,
	Selected: `✓ {{ .Name | green }} selected`,
}

// SelectNetwork lets the user pick a registered network. The cursor starts
// on defaultName.
func SelectNetwork(descriptors []network.ChainDescriptor, defaultName string) (string, error) {
	items := NetworkItems(descriptors, defaultName)
	if len(items) == 0 {
		return "", fmt.Errorf("no networks available")
	}

	sel := promptui.Select{
		Label:     "Select network",
		Items:     items,
		Templates: networkTemplates,
		Size:      networkListSize,
	}
	for i, item := range items {
		if item.IsDefault {
			sel.CursorPos = i
		}
	}

	i, _, err := sel.Run()
	if err != nil {
		return "", handleInterruptError(err)
	}
	return items[i].Name, nil
}

// PromptMnemonic reads a recovery phrase without echoing it back once
// accepted.
func PromptMnemonic(validate func(string) error) (string, error) {
	p := promptui.Prompt{
		Label:       "Enter your bip39 mnemonic",
		Validate:    validate,
		HideEntered: true,
		Templates: &promptui.PromptTemplates{
			Prompt:  "{{ . }}: ",
			Valid:   "{{ . | green }}: ",
			Invalid: "{{ . | red }}: ",
			Success: "✓ Mnemonic accepted",
		},
	}

	phrase, err := p.Run()
	if err != nil {
		return "", handleInterruptError(err)
	}
	return strings.TrimSpace(phrase), nil
}

// Confirm asks a yes/no question. Answering no is (false, nil).
func Confirm(label string, defaultYes bool) (bool, error) {
	p := promptui.Prompt{Label: label, IsConfirm: true}
	if defaultYes {
		p.Default = "y"
	}

	if _, err := p.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, handleInterruptError(err)
	}
	return true, nil
}
