package interactive

import (
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"

	"github.com/altuslabsxyz/blob-poster/pkg/network"
)

// NetworkItem is one row of the network selector.
type NetworkItem struct {
	Name      string
	ChainID   string
	ChainName string
	IsDefault bool
}

func (n NetworkItem) String() string {
	s := fmt.Sprintf("%s - %s [%s]", n.Name, n.ChainName, n.ChainID)
	if n.IsDefault {
		s += " (default)"
	}
	return s
}

// NetworkItems lists descriptors in registry order, marking defaultName.
func NetworkItems(descriptors []network.ChainDescriptor, defaultName string) []NetworkItem {
	items := make([]NetworkItem, 0, len(descriptors))
	for _, d := range descriptors {
		items = append(items, NetworkItem{
			Name:      d.Name,
			ChainID:   d.ChainID,
			ChainName: d.ChainName,
			IsDefault: d.Name == defaultName,
		})
	}
	return items
}

// CancellationError is returned when the user leaves a prompt with Ctrl-C
// or closes its input.
type CancellationError struct {
	Message string
}

func (e *CancellationError) Error() string { return e.Message }

// IsCancellation reports whether err stems from a cancelled prompt.
func IsCancellation(err error) bool {
	var ce *CancellationError
	return errors.As(err, &ce)
}

func handleInterruptError(err error) error {
	switch {
	case errors.Is(err, promptui.ErrInterrupt):
		return &CancellationError{Message: "Operation cancelled"}
	case errors.Is(err, promptui.ErrEOF):
		return &CancellationError{Message: "Operation cancelled (EOF)"}
	default:
		return err
	}
}
