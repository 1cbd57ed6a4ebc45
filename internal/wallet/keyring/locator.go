// internal/wallet/keyring/locator.go
package keyring

import (
	"context"
	"sync"

	"github.com/altuslabsxyz/blob-poster/internal/wallet"
)

// Locator opens the keyring provider on first use. A local keyring is
// always "loaded": it is either available immediately or not at all.
type Locator struct {
	open func() (*Provider, error)

	once     sync.Once
	provider *Provider
	err      error
}

// NewLocator creates a Locator that calls open once.
func NewLocator(open func() (*Provider, error)) *Locator {
	return &Locator{open: open}
}

// Locate implements wallet.Locator.
func (l *Locator) Locate(ctx context.Context) (wallet.Provider, bool, error) {
	l.once.Do(func() {
		l.provider, l.err = l.open()
	})
	if l.err != nil {
		return nil, true, l.err
	}
	if l.provider == nil {
		return nil, true, nil
	}
	return l.provider, true, nil
}

// Close closes the provider if it was opened.
func (l *Locator) Close() error {
	if l.provider == nil {
		return nil
	}
	return l.provider.Close()
}

var _ wallet.Locator = (*Locator)(nil)
