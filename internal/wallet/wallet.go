// Package wallet defines the wallet provider contract and the bridge that
// connects to a provider and produces a signing session.
package wallet

import (
	"context"

	"github.com/altuslabsxyz/blob-poster/pkg/network"
	"github.com/altuslabsxyz/blob-poster/pkg/network/cosmos"
)

// Account is an address exposed by a signer.
type Account struct {
	Address string `json:"address"`
	Algo    string `json:"algo"`
	PubKey  []byte `json:"pubkey"`
}

// OfflineSigner signs amino sign docs for the accounts it holds.
type OfflineSigner interface {
	Accounts(ctx context.Context) ([]Account, error)
	SignAmino(ctx context.Context, signerAddress string, doc cosmos.StdSignDoc) (*cosmos.AminoSignResponse, error)
}

// Provider is a wallet able to register chains, approve access and hand out
// amino signers.
type Provider interface {
	// SuggestChain registers a chain. Providers return
	// ErrChainAlreadyRegistered when the chain id is already known.
	SuggestChain(ctx context.Context, chain network.ChainDescriptor) error

	// Enable asks the user to grant access to chainID.
	Enable(ctx context.Context, chainID string) error

	// AminoSigner returns the amino-only signer for an enabled chain.
	AminoSigner(chainID string) (OfflineSigner, error)
}

// Broadcaster is an optional Provider capability for submitting signed txs.
type Broadcaster interface {
	BroadcastTx(ctx context.Context, chainID string, tx *cosmos.StdTx) (*network.TxBroadcastResult, error)
}

// Locator finds a provider in the host environment. loaded reports that the
// host has finished initializing; a nil provider with loaded set means no
// provider will ever appear.
type Locator interface {
	Locate(ctx context.Context) (provider Provider, loaded bool, err error)
}

// LocatorFunc adapts a function to Locator.
type LocatorFunc func(ctx context.Context) (Provider, bool, error)

// Locate implements Locator.
func (f LocatorFunc) Locate(ctx context.Context) (Provider, bool, error) {
	return f(ctx)
}

// StaticLocator always reports p as loaded.
func StaticLocator(p Provider) Locator {
	return LocatorFunc(func(context.Context) (Provider, bool, error) {
		return p, true, nil
	})
}

// Session is the in-memory result of a successful connect.
type Session struct {
	Address  string
	ChainID  string
	Chain    network.ChainDescriptor
	Signer   OfflineSigner
	Provider Provider

	// RegistrationErr is the SuggestChain error that connect tolerated, if any.
	RegistrationErr error
}

// Broadcaster returns the provider's broadcast capability, if it has one.
func (s *Session) Broadcaster() (Broadcaster, bool) {
	if s == nil || s.Provider == nil {
		return nil, false
	}
	b, ok := s.Provider.(Broadcaster)
	return b, ok
}

// Degraded reports whether connect tolerated a registration failure other
// than the chain already being known.
func (s *Session) Degraded() bool {
	return s.RegistrationErr != nil && !isAlreadyRegistered(s.RegistrationErr)
}
