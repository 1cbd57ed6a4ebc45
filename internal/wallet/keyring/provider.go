// internal/wallet/keyring/provider.go
package keyring

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"

	"cosmossdk.io/log"
	sdkkeyring "github.com/cosmos/cosmos-sdk/crypto/keyring"

	"github.com/altuslabsxyz/blob-poster/internal/wallet"
	"github.com/altuslabsxyz/blob-poster/pkg/network"
	"github.com/altuslabsxyz/blob-poster/pkg/network/cosmos"
)

// ErrChainNotEnabled is returned when a signer is requested before Enable.
var ErrChainNotEnabled = errors.New("chain not enabled")

// Provider is a wallet.Provider backed by a keyring.
type Provider struct {
	kr       sdkkeyring.Keyring
	store    *ChainStore
	approver Approver
	keyName  string
	client   *http.Client
	logger   log.Logger

	mu        sync.Mutex
	suggested map[string]network.ChainDescriptor
	enabled   map[string]bool
}

// Option configures a Provider.
type Option func(*Provider)

// WithKeyName restricts the provider to a single key.
func WithKeyName(name string) Option {
	return func(p *Provider) { p.keyName = name }
}

// WithHTTPClient sets the client used for broadcasting.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) {
		if c != nil {
			p.client = c
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(l log.Logger) Option {
	return func(p *Provider) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewProvider creates a provider over kr and store. A nil approver rejects
// every request.
func NewProvider(kr sdkkeyring.Keyring, store *ChainStore, approver Approver, opts ...Option) *Provider {
	if approver == nil {
		approver = RejectApprover{Reason: "no approver configured"}
	}
	p := &Provider{
		kr:        kr,
		store:     store,
		approver:  approver,
		client:    &http.Client{Timeout: cosmos.DefaultHTTPTimeout},
		logger:    log.NewNopLogger(),
		suggested: make(map[string]network.ChainDescriptor),
		enabled:   make(map[string]bool),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With("module", "keyring")
	return p
}

// SuggestChain implements wallet.Provider. The descriptor is used for the
// rest of the process even when the store already knows the chain id.
func (p *Provider) SuggestChain(ctx context.Context, chain network.ChainDescriptor) error {
	if err := chain.Validate(); err != nil {
		return err
	}

	p.mu.Lock()
	p.suggested[chain.ChainID] = chain.Clone()
	p.mu.Unlock()

	if err := p.store.Register(chain); err != nil {
		return err
	}
	p.logger.Info("chain registered", "chain_id", chain.ChainID)
	return nil
}

// Enable implements wallet.Provider.
func (p *Provider) Enable(ctx context.Context, chainID string) error {
	chain, err := p.chain(chainID)
	if err != nil {
		return err
	}
	records, err := p.records()
	if err != nil {
		return err
	}

	addrs := make([]string, 0, len(records))
	for _, rec := range records {
		addr, err := recordAddress(rec, chain.Bech32Config.Bech32PrefixAccAddr)
		if err != nil {
			return err
		}
		addrs = append(addrs, addr)
	}

	if err := p.approver.ApproveEnable(ctx, EnableRequest{Chain: chain, Accounts: addrs}); err != nil {
		return wallet.NewRejectedError("enable", chainID, err)
	}

	p.mu.Lock()
	p.enabled[chainID] = true
	p.mu.Unlock()
	p.logger.Debug("chain enabled", "chain_id", chainID, "accounts", len(addrs))
	return nil
}

// AminoSigner implements wallet.Provider.
func (p *Provider) AminoSigner(chainID string) (wallet.OfflineSigner, error) {
	p.mu.Lock()
	enabled := p.enabled[chainID]
	p.mu.Unlock()
	if !enabled {
		return nil, fmt.Errorf("%w: %s", ErrChainNotEnabled, chainID)
	}

	chain, err := p.chain(chainID)
	if err != nil {
		return nil, err
	}
	return &Signer{provider: p, chain: chain}, nil
}

// BroadcastTx implements wallet.Broadcaster. It encodes tx to protobuf and
// posts it to the chain's REST endpoint. A non-zero result code is returned
// as a TxRejectedError.
func (p *Provider) BroadcastTx(ctx context.Context, chainID string, tx *cosmos.StdTx) (*network.TxBroadcastResult, error) {
	chain, err := p.chain(chainID)
	if err != nil {
		return nil, err
	}

	txBytes, err := cosmos.EncodeStdTx(tx)
	if err != nil {
		return nil, err
	}

	client, err := cosmos.NewRESTClient(chain.REST, p.client)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("broadcasting transaction", "chain_id", chainID, "endpoint", client.Endpoint(), "bytes", len(txBytes))
	res, err := client.BroadcastTx(ctx, txBytes)
	if err != nil {
		return nil, err
	}
	if res.Code != 0 {
		return res, &cosmos.TxRejectedError{
			TxHash:    res.TxHash,
			Code:      res.Code,
			Codespace: res.Codespace,
			Log:       res.Log,
		}
	}

	p.logger.Info("transaction broadcast", "chain_id", chainID, "txhash", res.TxHash)
	return res, nil
}

// Close releases the chain store.
func (p *Provider) Close() error {
	return p.store.Close()
}

func (p *Provider) chain(chainID string) (network.ChainDescriptor, error) {
	p.mu.Lock()
	chain, ok := p.suggested[chainID]
	p.mu.Unlock()
	if ok {
		return chain, nil
	}
	return p.store.Get(chainID)
}

// records returns the keys the provider exposes, sorted by name.
func (p *Provider) records() ([]*sdkkeyring.Record, error) {
	if p.keyName != "" {
		rec, err := p.kr.Key(p.keyName)
		if err != nil {
			return nil, fmt.Errorf("failed to load key %q: %w", p.keyName, err)
		}
		return []*sdkkeyring.Record{rec}, nil
	}

	records, err := p.kr.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Name < records[j].Name })
	return records, nil
}

var (
	_ wallet.Provider    = (*Provider)(nil)
	_ wallet.Broadcaster = (*Provider)(nil)
)
