// internal/wallet/keyring/signer.go
package keyring

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"

	sdkkeyring "github.com/cosmos/cosmos-sdk/crypto/keyring"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/tx/signing"

	"github.com/altuslabsxyz/blob-poster/internal/wallet"
	"github.com/altuslabsxyz/blob-poster/pkg/network"
	"github.com/altuslabsxyz/blob-poster/pkg/network/cosmos"
)

// Signer is the amino-only signer handed out by Provider.AminoSigner.
type Signer struct {
	provider *Provider
	chain    network.ChainDescriptor
}

// Accounts implements wallet.OfflineSigner.
func (s *Signer) Accounts(ctx context.Context) ([]wallet.Account, error) {
	records, err := s.provider.records()
	if err != nil {
		return nil, err
	}

	accounts := make([]wallet.Account, 0, len(records))
	for _, rec := range records {
		addr, err := recordAddress(rec, s.prefix())
		if err != nil {
			return nil, err
		}
		pub, err := rec.GetPubKey()
		if err != nil {
			return nil, fmt.Errorf("failed to get public key for %q: %w", rec.Name, err)
		}
		accounts = append(accounts, wallet.Account{
			Address: addr,
			Algo:    pub.Type(),
			PubKey:  pub.Bytes(),
		})
	}
	return accounts, nil
}

// SignAmino implements wallet.OfflineSigner. The user approves the doc
// before the keyring signs its canonical JSON bytes.
func (s *Signer) SignAmino(ctx context.Context, signerAddress string, doc cosmos.StdSignDoc) (*cosmos.AminoSignResponse, error) {
	if doc.ChainID != s.chain.ChainID {
		return nil, fmt.Errorf("sign doc chain id %q does not match signer chain %q", doc.ChainID, s.chain.ChainID)
	}

	rec, err := s.findRecord(signerAddress)
	if err != nil {
		return nil, err
	}

	req := SignRequest{ChainID: doc.ChainID, Signer: signerAddress, KeyName: rec.Name, Doc: doc}
	if err := s.provider.approver.ApproveSign(ctx, req); err != nil {
		return nil, wallet.NewRejectedError("sign", doc.ChainID, err)
	}

	signBytes, err := doc.SignBytes()
	if err != nil {
		return nil, err
	}
	sig, pub, err := s.provider.kr.Sign(rec.Name, signBytes, signing.SignMode_SIGN_MODE_LEGACY_AMINO_JSON)
	if err != nil {
		return nil, fmt.Errorf("failed to sign with key %q: %w", rec.Name, err)
	}

	s.provider.logger.Debug("sign doc signed", "chain_id", doc.ChainID, "key", rec.Name)
	return &cosmos.AminoSignResponse{
		Signed: doc,
		Signature: cosmos.StdSignature{
			PubKey:    cosmos.NewAminoPubKey(pub.Bytes()),
			Signature: base64.StdEncoding.EncodeToString(sig),
		},
	}, nil
}

func (s *Signer) prefix() string {
	return s.chain.Bech32Config.Bech32PrefixAccAddr
}

func (s *Signer) findRecord(address string) (*sdkkeyring.Record, error) {
	want, err := sdk.GetFromBech32(address, s.prefix())
	if err != nil {
		return nil, fmt.Errorf("invalid signer address %q: %w", address, err)
	}

	records, err := s.provider.records()
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		addr, err := rec.GetAddress()
		if err != nil {
			return nil, fmt.Errorf("failed to get address for %q: %w", rec.Name, err)
		}
		if bytes.Equal(addr, want) {
			return rec, nil
		}
	}
	return nil, fmt.Errorf("no key for signer %s", address)
}

func recordAddress(rec *sdkkeyring.Record, prefix string) (string, error) {
	addr, err := rec.GetAddress()
	if err != nil {
		return "", fmt.Errorf("failed to get address for %q: %w", rec.Name, err)
	}
	return cosmos.Bech32Address(prefix, addr)
}

var _ wallet.OfflineSigner = (*Signer)(nil)
