// pkg/network/cosmos/txbuilder.go
package cosmos

import (
	"encoding/base64"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/altuslabsxyz/blob-poster/internal/commitment"
	"github.com/altuslabsxyz/blob-poster/pkg/network"
)

// DefaultMemo is attached to every blob submission.
const DefaultMemo = "Sent via Simple Blob Poster"

// DefaultGasLimit is the gas limit used when none is configured.
const DefaultGasLimit uint64 = 200000

// BlobSubmission is a validated, priced blob ready to be put in a sign doc.
type BlobSubmission struct {
	Namespace  []byte
	Payload    []byte
	Gas        uint64
	GasPrice   sdkmath.LegacyDec
	Commitment commitment.Commitment
	BlobSize   uint32
	Fee        sdk.Coin
}

// TxBuilder turns user input into MsgPayForBlobs sign docs for one chain.
// It does no I/O; account lookup and broadcasting live in RESTClient.
type TxBuilder struct {
	chainID  string
	feeDenom string
	decimals uint32
	calc     commitment.Calculator
	memo     string
}

// NewTxBuilder creates a TxBuilder for the given chain. A nil calculator
// selects the placeholder commitment.
func NewTxBuilder(chain network.ChainDescriptor, calc commitment.Calculator) (*TxBuilder, error) {
	if chain.ChainID == "" {
		return nil, fmt.Errorf("chain ID is required")
	}
	fee := chain.FeeCurrency()
	if fee.CoinMinimalDenom == "" {
		return nil, fmt.Errorf("chain %s has no fee currency", chain.ChainID)
	}
	if calc == nil {
		calc = commitment.Placeholder{}
	}
	return &TxBuilder{
		chainID:  chain.ChainID,
		feeDenom: fee.CoinMinimalDenom,
		decimals: fee.CoinDecimals,
		calc:     calc,
		memo:     DefaultMemo,
	}, nil
}

// ChainID returns the configured chain ID.
func (b *TxBuilder) ChainID() string {
	return b.chainID
}

// Prepare validates and decodes the base64 namespace and payload, computes
// the commitment and prices the submission. It fails with ErrMissingField,
// ErrInvalidEncoding, ErrInvalidGas or ErrInvalidGasPrice.
func (b *TxBuilder) Prepare(namespace, payload string, gas uint64, gasPrice sdkmath.LegacyDec) (*BlobSubmission, error) {
	ns, err := decodeBase64Field("namespace", namespace)
	if err != nil {
		return nil, err
	}
	data, err := decodeBase64Field("data", payload)
	if err != nil {
		return nil, err
	}
	if gas == 0 || gas > math.MaxInt64 {
		return nil, &InputError{Field: "gas", Kind: ErrInvalidGas, Cause: fmt.Errorf("gas limit must be between 1 and %d", int64(math.MaxInt64))}
	}
	if gasPrice.IsNil() || gasPrice.IsNegative() {
		return nil, &InputError{Field: "gas_price", Kind: ErrInvalidGasPrice, Cause: fmt.Errorf("gas price must not be negative")}
	}
	if uint64(len(data)) > math.MaxUint32 {
		return nil, &InputError{Field: "data", Kind: ErrInvalidEncoding, Cause: fmt.Errorf("blob of %d bytes is too large", len(data))}
	}

	c, err := b.calc.Compute(ns, data)
	if err != nil {
		return nil, fmt.Errorf("failed to compute share commitment: %w", err)
	}

	amount, err := ComputeFee(gas, gasPrice, b.decimals)
	if err != nil {
		return nil, err
	}
	fee := sdk.Coin{Denom: b.feeDenom, Amount: amount}
	if err := fee.Validate(); err != nil {
		return nil, fmt.Errorf("invalid fee: %w", err)
	}

	return &BlobSubmission{
		Namespace:  ns,
		Payload:    data,
		Gas:        gas,
		GasPrice:   gasPrice,
		Commitment: c,
		BlobSize:   uint32(len(data)),
		Fee:        fee,
	}, nil
}

// SignDoc assembles the amino sign doc for a prepared submission.
func (b *TxBuilder) SignDoc(sub *BlobSubmission, signer, accountNumber, sequence string) (*StdSignDoc, error) {
	if sub == nil {
		return nil, fmt.Errorf("submission is required")
	}
	if signer == "" {
		return nil, &InputError{Field: "signer", Kind: ErrMissingField}
	}
	if _, err := parseUint(accountNumber, "account number"); err != nil {
		return nil, err
	}
	if _, err := parseUint(sequence, "sequence"); err != nil {
		return nil, err
	}

	msg := &MsgPayForBlobs{
		Signer:           signer,
		Namespaces:       [][]byte{sub.Namespace},
		BlobSizes:        []uint32{sub.BlobSize},
		ShareCommitments: [][]byte{sub.Commitment.Bytes()},
		ShareVersions:    []uint32{ShareVersionZero},
	}
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	amino, err := msg.AminoMsg()
	if err != nil {
		return nil, err
	}

	return &StdSignDoc{
		ChainID:       b.chainID,
		AccountNumber: accountNumber,
		Sequence:      sequence,
		Fee: StdFee{
			Amount: []Coin{{Denom: sub.Fee.Denom, Amount: sub.Fee.Amount.String()}},
			Gas:    strconv.FormatUint(sub.Gas, 10),
		},
		Msgs: []AminoMsg{amino},
		Memo: b.memo,
	}, nil
}

// Build prepares the submission and assembles its sign doc in one step.
func (b *TxBuilder) Build(signer, namespace, payload, accountNumber, sequence string, gas uint64, gasPrice sdkmath.LegacyDec) (*StdSignDoc, *BlobSubmission, error) {
	sub, err := b.Prepare(namespace, payload, gas, gasPrice)
	if err != nil {
		return nil, nil, err
	}
	doc, err := b.SignDoc(sub, signer, accountNumber, sequence)
	if err != nil {
		return nil, nil, err
	}
	return doc, sub, nil
}

var decPrecision = new(big.Int).Exp(big.NewInt(10), big.NewInt(sdkmath.LegacyPrecision), nil)

// ComputeFee returns floor(gas * gasPrice * 10^decimals) in minimal units.
// A fee that does not fit in an sdk Int is an ErrInvalidGasPrice.
func ComputeFee(gas uint64, gasPrice sdkmath.LegacyDec, decimals uint32) (sdkmath.Int, error) {
	if gasPrice.IsNil() {
		return sdkmath.Int{}, &InputError{Field: "gas_price", Kind: ErrInvalidGasPrice, Cause: fmt.Errorf("gas price is not set")}
	}
	fee := new(big.Int).Mul(gasPrice.BigInt(), new(big.Int).SetUint64(gas))
	fee.Mul(fee, new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil))
	fee.Quo(fee, decPrecision)
	if fee.BitLen() > sdkmath.MaxBitLen {
		return sdkmath.Int{}, &InputError{
			Field: "gas_price",
			Kind:  ErrInvalidGasPrice,
			Cause: fmt.Errorf("fee for %d gas at %s overflows", gas, gasPrice),
		}
	}
	return sdkmath.NewIntFromBigInt(fee), nil
}

func decodeBase64Field(field, value string) ([]byte, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, &InputError{Field: field, Kind: ErrMissingField}
	}
	decoded, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		// tolerate missing padding
		var rawErr error
		decoded, rawErr = base64.RawStdEncoding.DecodeString(strings.TrimRight(value, "="))
		if rawErr != nil {
			return nil, &InputError{Field: field, Kind: ErrInvalidEncoding, Cause: err}
		}
	}
	if len(decoded) == 0 {
		return nil, &InputError{Field: field, Kind: ErrMissingField, Cause: fmt.Errorf("decodes to zero bytes")}
	}
	return decoded, nil
}

func parseUint(s, field string) (uint64, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", field, s, err)
	}
	return v, nil
}
