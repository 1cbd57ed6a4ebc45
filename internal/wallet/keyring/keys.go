// internal/wallet/keyring/keys.go
package keyring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cosmos/cosmos-sdk/crypto/hd"
	sdkkeyring "github.com/cosmos/cosmos-sdk/crypto/keyring"
	"github.com/cosmos/go-bip39"

	"github.com/altuslabsxyz/blob-poster/pkg/network"
)

// MnemonicEntropyBits is the entropy size for new mnemonics (24 words).
const MnemonicEntropyBits = 256

// ErrInvalidMnemonic is returned when a recovery phrase fails bip39 checks.
var ErrInvalidMnemonic = errors.New("invalid mnemonic")

// KeyInfo describes a stored key for display.
type KeyInfo struct {
	Name    string `json:"name" yaml:"name"`
	Address string `json:"address" yaml:"address"`
	PubKey  string `json:"pubkey" yaml:"pubkey"`
}

// NewMnemonic generates a fresh bip39 mnemonic.
func NewMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(MnemonicEntropyBits)
	if err != nil {
		return "", fmt.Errorf("failed to generate entropy: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("failed to generate mnemonic: %w", err)
	}
	return mnemonic, nil
}

// NormalizeMnemonic collapses whitespace and validates the phrase.
func NormalizeMnemonic(mnemonic string) (string, error) {
	mnemonic = strings.Join(strings.Fields(mnemonic), " ")
	if !bip39.IsMnemonicValid(mnemonic) {
		return "", ErrInvalidMnemonic
	}
	return mnemonic, nil
}

// AddKey derives a secp256k1 key from mnemonic on the chain's BIP44 path
// and stores it under name. An empty mnemonic generates a new one, which is
// returned so it can be shown to the user.
func AddKey(kr sdkkeyring.Keyring, name, mnemonic string, chain network.ChainDescriptor) (*KeyInfo, string, error) {
	if strings.TrimSpace(name) == "" {
		return nil, "", fmt.Errorf("key name is required")
	}
	if _, err := kr.Key(name); err == nil {
		return nil, "", fmt.Errorf("key %q already exists", name)
	}

	var err error
	if mnemonic == "" {
		if mnemonic, err = NewMnemonic(); err != nil {
			return nil, "", err
		}
	} else if mnemonic, err = NormalizeMnemonic(mnemonic); err != nil {
		return nil, "", err
	}

	hdPath := hd.CreateHDPath(chain.BIP44.CoinType, 0, 0).String()
	rec, err := kr.NewAccount(name, mnemonic, sdkkeyring.DefaultBIP39Passphrase, hdPath, hd.Secp256k1)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create key %q: %w", name, err)
	}

	info, err := keyInfo(rec, chain.Bech32Config.Bech32PrefixAccAddr)
	if err != nil {
		return nil, "", err
	}
	return info, mnemonic, nil
}

// ListKeys returns all keys with addresses rendered for chain.
func ListKeys(kr sdkkeyring.Keyring, chain network.ChainDescriptor) ([]KeyInfo, error) {
	p := &Provider{kr: kr}
	records, err := p.records()
	if err != nil {
		return nil, err
	}

	infos := make([]KeyInfo, 0, len(records))
	for _, rec := range records {
		info, err := keyInfo(rec, chain.Bech32Config.Bech32PrefixAccAddr)
		if err != nil {
			return nil, err
		}
		infos = append(infos, *info)
	}
	return infos, nil
}

func keyInfo(rec *sdkkeyring.Record, prefix string) (*KeyInfo, error) {
	addr, err := recordAddress(rec, prefix)
	if err != nil {
		return nil, err
	}
	pub, err := rec.GetPubKey()
	if err != nil {
		return nil, fmt.Errorf("failed to get public key for %q: %w", rec.Name, err)
	}
	return &KeyInfo{
		Name:    rec.Name,
		Address: addr,
		PubKey:  fmt.Sprintf("%X", pub.Bytes()),
	}, nil
}
