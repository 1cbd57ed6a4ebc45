// Package wallettest provides in-memory wallet providers for tests.
package wallettest

import (
	"context"
	"encoding/base64"
	"sync"

	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"

	"github.com/altuslabsxyz/blob-poster/internal/wallet"
	"github.com/altuslabsxyz/blob-poster/pkg/network"
	"github.com/altuslabsxyz/blob-poster/pkg/network/cosmos"
)

// Signer is an OfflineSigner holding a single secp256k1 key.
type Signer struct {
	Key     *secp256k1.PrivKey
	Address string

	// AccountsErr and SignErr force failures.
	AccountsErr error
	SignErr     error
	// NoAccounts makes Accounts return an empty list.
	NoAccounts bool

	mu        sync.Mutex
	signCalls int
	lastDoc   *cosmos.StdSignDoc
}

// NewSigner generates a key and derives its address with prefix.
func NewSigner(prefix string) *Signer {
	key := secp256k1.GenPrivKey()
	addr, err := cosmos.Bech32Address(prefix, key.PubKey().Address())
	if err != nil {
		panic(err)
	}
	return &Signer{Key: key, Address: addr}
}

// Accounts implements wallet.OfflineSigner.
func (s *Signer) Accounts(ctx context.Context) ([]wallet.Account, error) {
	if s.AccountsErr != nil {
		return nil, s.AccountsErr
	}
	if s.NoAccounts {
		return nil, nil
	}
	return []wallet.Account{{Address: s.Address, Algo: "secp256k1", PubKey: s.Key.PubKey().Bytes()}}, nil
}

// SignAmino implements wallet.OfflineSigner.
func (s *Signer) SignAmino(ctx context.Context, signerAddress string, doc cosmos.StdSignDoc) (*cosmos.AminoSignResponse, error) {
	s.mu.Lock()
	s.signCalls++
	s.lastDoc = &doc
	s.mu.Unlock()

	if s.SignErr != nil {
		return nil, s.SignErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	bz, err := doc.SignBytes()
	if err != nil {
		return nil, err
	}
	sig, err := s.Key.Sign(bz)
	if err != nil {
		return nil, err
	}
	return &cosmos.AminoSignResponse{
		Signed: doc,
		Signature: cosmos.StdSignature{
			PubKey:    cosmos.NewAminoPubKey(s.Key.PubKey().Bytes()),
			Signature: base64.StdEncoding.EncodeToString(sig),
		},
	}, nil
}

// SignCalls returns how many times SignAmino was called.
func (s *Signer) SignCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.signCalls
}

// LastDoc returns the most recent sign doc, or nil.
func (s *Signer) LastDoc() *cosmos.StdSignDoc {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastDoc
}

// Provider is a wallet.Provider backed by a Signer.
type Provider struct {
	Signer *Signer

	SuggestErr error
	EnableErr  error
	SignerErr  error

	mu        sync.Mutex
	suggested []string
	enabled   []string
}

// NewProvider creates a provider with a fresh signer for prefix.
func NewProvider(prefix string) *Provider {
	return &Provider{Signer: NewSigner(prefix)}
}

// SuggestChain implements wallet.Provider.
func (p *Provider) SuggestChain(ctx context.Context, chain network.ChainDescriptor) error {
	p.mu.Lock()
	p.suggested = append(p.suggested, chain.ChainID)
	p.mu.Unlock()
	return p.SuggestErr
}

// Enable implements wallet.Provider.
func (p *Provider) Enable(ctx context.Context, chainID string) error {
	p.mu.Lock()
	p.enabled = append(p.enabled, chainID)
	p.mu.Unlock()
	return p.EnableErr
}

// AminoSigner implements wallet.Provider.
func (p *Provider) AminoSigner(chainID string) (wallet.OfflineSigner, error) {
	if p.SignerErr != nil {
		return nil, p.SignerErr
	}
	return p.Signer, nil
}

// Suggested returns the chain ids passed to SuggestChain.
func (p *Provider) Suggested() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.suggested...)
}

// Enabled returns the chain ids passed to Enable.
func (p *Provider) Enabled() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.enabled...)
}

// BroadcastingProvider adds the wallet.Broadcaster capability.
type BroadcastingProvider struct {
	*Provider

	Result *network.TxBroadcastResult
	Err    error

	mu  sync.Mutex
	txs []*cosmos.StdTx
}

// NewBroadcastingProvider creates a broadcasting provider that returns result.
func NewBroadcastingProvider(prefix string, result *network.TxBroadcastResult) *BroadcastingProvider {
	return &BroadcastingProvider{Provider: NewProvider(prefix), Result: result}
}

// BroadcastTx implements wallet.Broadcaster.
func (p *BroadcastingProvider) BroadcastTx(ctx context.Context, chainID string, tx *cosmos.StdTx) (*network.TxBroadcastResult, error) {
	p.mu.Lock()
	p.txs = append(p.txs, tx)
	p.mu.Unlock()
	if p.Err != nil {
		return nil, p.Err
	}
	return p.Result, nil
}

// Broadcasts returns the transactions passed to BroadcastTx.
func (p *BroadcastingProvider) Broadcasts() []*cosmos.StdTx {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*cosmos.StdTx(nil), p.txs...)
}

var (
	_ wallet.Provider      = (*Provider)(nil)
	_ wallet.Provider      = (*BroadcastingProvider)(nil)
	_ wallet.Broadcaster   = (*BroadcastingProvider)(nil)
	_ wallet.OfflineSigner = (*Signer)(nil)
)
