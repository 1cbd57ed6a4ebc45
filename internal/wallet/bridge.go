// internal/wallet/bridge.go
package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cosmossdk.io/log"

	"github.com/altuslabsxyz/blob-poster/internal/output"
	"github.com/altuslabsxyz/blob-poster/pkg/network"
)

// DefaultPollInterval is how often WaitForProvider asks the locator again.
const DefaultPollInterval = 100 * time.Millisecond

// Bridge connects to a wallet provider found through a Locator.
type Bridge struct {
	locator      Locator
	pollInterval time.Duration
	waitTimeout  time.Duration
	reporter     output.Reporter
	logger       log.Logger
}

// BridgeOption configures a Bridge.
type BridgeOption func(*Bridge)

// WithPollInterval sets the provider polling interval.
func WithPollInterval(d time.Duration) BridgeOption {
	return func(b *Bridge) {
		if d > 0 {
			b.pollInterval = d
		}
	}
}

// WithWaitTimeout bounds WaitForProvider. Zero leaves the caller's context
// as the only bound.
func WithWaitTimeout(d time.Duration) BridgeOption {
	return func(b *Bridge) {
		b.waitTimeout = d
	}
}

// WithReporter sets the status reporter for the wallet channel.
func WithReporter(r output.Reporter) BridgeOption {
	return func(b *Bridge) {
		if r != nil {
			b.reporter = r
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(l log.Logger) BridgeOption {
	return func(b *Bridge) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBridge creates a Bridge over locator.
func NewBridge(locator Locator, opts ...BridgeOption) *Bridge {
	b := &Bridge{
		locator:      locator,
		pollInterval: DefaultPollInterval,
		reporter:     output.Discard,
		logger:       log.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = b.logger.With("module", "wallet")
	return b
}

// WaitForProvider polls the locator until a provider appears or the host
// reports it has loaded without one.
func (b *Bridge) WaitForProvider(ctx context.Context) (Provider, error) {
	if b.locator == nil {
		return nil, ErrWalletUnavailable
	}
	if b.waitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.waitTimeout)
		defer cancel()
	}

	ticker := time.NewTicker(b.pollInterval)
	defer ticker.Stop()

	for attempt := 1; ; attempt++ {
		p, loaded, err := b.locator.Locate(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ContextError(ctx, "wait for wallet provider", b.waitTimeout)
			}
			return nil, fmt.Errorf("%w: failed to locate provider: %w", ErrWalletUnavailable, err)
		}
		if p != nil {
			b.logger.Debug("wallet provider found", "attempts", attempt)
			return p, nil
		}
		if loaded {
			return nil, ErrWalletUnavailable
		}

		select {
		case <-ctx.Done():
			return nil, ContextError(ctx, "wait for wallet provider", b.waitTimeout)
		case <-ticker.C:
		}
	}
}

// Connect registers chain with the provider, requests access and returns a
// session for the first account. Registration failures are tolerated and
// recorded on the session.
func (b *Bridge) Connect(ctx context.Context, chain network.ChainDescriptor) (*Session, error) {
	b.reporter.Report(output.ChannelWallet, output.SeverityInfo, "Connecting to wallet...")

	session, err := b.connect(ctx, chain)
	if err != nil {
		b.logger.Error("wallet connect failed", "chain_id", chain.ChainID, "error", err)
		b.reporter.Report(output.ChannelWallet, output.SeverityError, err.Error())
		return nil, err
	}

	b.logger.Info("wallet connected", "chain_id", session.ChainID, "address", session.Address)
	b.reporter.Report(output.ChannelWallet, output.SeveritySuccess, "Connected: "+session.Address)
	return session, nil
}

func (b *Bridge) connect(ctx context.Context, chain network.ChainDescriptor) (*Session, error) {
	if err := chain.Validate(); err != nil {
		return nil, err
	}

	provider, err := b.WaitForProvider(ctx)
	if err != nil {
		return nil, err
	}

	var registrationErr error
	if err := provider.SuggestChain(ctx, chain); err != nil {
		registrationErr = err
		if isAlreadyRegistered(err) {
			b.logger.Debug("chain already registered with wallet", "chain_id", chain.ChainID)
		} else {
			b.logger.Warn("chain registration failed, continuing", "chain_id", chain.ChainID, "error", err)
		}
	}

	if err := provider.Enable(ctx, chain.ChainID); err != nil {
		if ctx.Err() != nil {
			return nil, ContextError(ctx, "enable", 0)
		}
		return nil, NewRejectedError("enable", chain.ChainID, err)
	}

	signer, err := provider.AminoSigner(chain.ChainID)
	if err != nil {
		return nil, fmt.Errorf("failed to get signer for %s: %w", chain.ChainID, err)
	}

	accounts, err := signer.Accounts(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ContextError(ctx, "get accounts", 0)
		}
		return nil, fmt.Errorf("failed to get accounts: %w", err)
	}
	if len(accounts) == 0 || accounts[0].Address == "" {
		return nil, ErrNoAccounts
	}

	return &Session{
		Address:         accounts[0].Address,
		ChainID:         chain.ChainID,
		Chain:           chain.Clone(),
		Signer:          signer,
		Provider:        provider,
		RegistrationErr: registrationErr,
	}, nil
}

func isAlreadyRegistered(err error) bool {
	return errors.Is(err, ErrChainAlreadyRegistered)
}
