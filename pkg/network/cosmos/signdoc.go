// pkg/network/cosmos/signdoc.go
package cosmos

import (
	"encoding/json"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// PubKeyAminoType is the amino type of a secp256k1 public key.
const PubKeyAminoType = "tendermint/PubKeySecp256k1"

// Coin is an amino JSON coin. Amounts are decimal strings.
type Coin struct {
	Denom  string `json:"denom"`
	Amount string `json:"amount"`
}

// StdFee is the amino JSON fee.
type StdFee struct {
	Amount []Coin `json:"amount"`
	Gas    string `json:"gas"`
}

// AminoMsg is a message in amino JSON form.
type AminoMsg struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// StdSignDoc is the legacy amino sign document.
type StdSignDoc struct {
	ChainID       string     `json:"chain_id"`
	AccountNumber string     `json:"account_number"`
	Sequence      string     `json:"sequence"`
	Fee           StdFee     `json:"fee"`
	Msgs          []AminoMsg `json:"msgs"`
	Memo          string     `json:"memo"`
}

// SignBytes returns the canonical bytes a signer signs: the sign doc as
// compact JSON with object keys sorted at every level.
func (d *StdSignDoc) SignBytes() ([]byte, error) {
	bz, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sign doc: %w", err)
	}
	sorted, err := sdk.SortJSON(bz)
	if err != nil {
		return nil, fmt.Errorf("failed to sort sign doc: %w", err)
	}
	return sorted, nil
}

// PubKey is an amino JSON public key. Value is base64.
type PubKey struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// StdSignature pairs a public key with a base64 signature.
type StdSignature struct {
	PubKey    PubKey `json:"pub_key"`
	Signature string `json:"signature"`
}

// AminoSignResponse is what a wallet returns from an amino signing request.
// Signed may differ from the requested doc if the wallet adjusted the fee or memo.
type AminoSignResponse struct {
	Signed    StdSignDoc   `json:"signed"`
	Signature StdSignature `json:"signature"`
}

// StdTx is the legacy signed transaction envelope.
type StdTx struct {
	Msg        []AminoMsg     `json:"msg"`
	Fee        StdFee         `json:"fee"`
	Signatures []StdSignature `json:"signatures"`
	Memo       string         `json:"memo"`

	// Sequence is the signer sequence from the signed doc. It is not part of
	// the amino envelope but is needed to encode the protobuf signer info.
	Sequence uint64 `json:"-"`
}

// NewStdTx reassembles a sign response into a StdTx with a single signature.
func NewStdTx(resp *AminoSignResponse) (*StdTx, error) {
	if resp == nil {
		return nil, fmt.Errorf("sign response is required")
	}
	if resp.Signature.Signature == "" {
		return nil, fmt.Errorf("sign response has no signature")
	}
	seq, err := parseUint(resp.Signed.Sequence, "sequence")
	if err != nil {
		return nil, err
	}
	return &StdTx{
		Msg:        resp.Signed.Msgs,
		Fee:        resp.Signed.Fee,
		Signatures: []StdSignature{resp.Signature},
		Memo:       resp.Signed.Memo,
		Sequence:   seq,
	}, nil
}

// JSON renders the transaction as indented JSON.
func (tx *StdTx) JSON() (string, error) {
	bz, err := json.MarshalIndent(tx, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal signed tx: %w", err)
	}
	return string(bz), nil
}
