package cosmos

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altuslabsxyz/blob-poster/internal/commitment"
	"github.com/altuslabsxyz/blob-poster/pkg/network"
)

const testSigner = "celestia1qnk2n4nlkpw9xfqntladh74w6ujtulwnqshepx"

func b64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func newTestBuilder(t *testing.T) *TxBuilder {
	t.Helper()
	b, err := NewTxBuilder(network.Mocha(), nil)
	require.NoError(t, err)
	return b
}

func TestComputeFee(t *testing.T) {
	tests := []struct {
		name     string
		gas      uint64
		price    string
		decimals uint32
		want     string
	}{
		{"reference values", 200000, "0.025", 6, "5000000000"},
		{"floor", 3, "0.0000001", 6, "0"},
		{"floors fractional minimal units", 7, "0.15", 1, "10"},
		{"zero price", 200000, "0", 6, "0"},
		{"no decimals", 100, "2", 0, "200"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price := sdkmath.LegacyMustNewDecFromStr(tt.price)
			fee, err := ComputeFee(tt.gas, price, tt.decimals)
			require.NoError(t, err)
			assert.Equal(t, tt.want, fee.String())
		})
	}
}

func TestComputeFee_Overflow(t *testing.T) {
	price := sdkmath.LegacyMustNewDecFromStr("1" + strings.Repeat("0", 58))
	_, err := ComputeFee(math.MaxInt64, price, 18)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidGasPrice)

	_, err = ComputeFee(1, sdkmath.LegacyDec{}, 6)
	assert.ErrorIs(t, err, ErrInvalidGasPrice)
}

func TestTxBuilder_PrepareRejectsHugeGasPrice(t *testing.T) {
	b := newTestBuilder(t)
	huge := sdkmath.LegacyMustNewDecFromStr("1" + strings.Repeat("0", 58))

	_, err := b.Prepare(b64("my-namespace"), b64("hello"), math.MaxInt64, huge)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidGasPrice)
}

func TestTxBuilder_Build(t *testing.T) {
	b := newTestBuilder(t)

	doc, sub, err := b.Build(testSigner, b64("my-namespace"), b64("hello world"), "42", "7", 200000, sdkmath.LegacyMustNewDecFromStr("0.025"))
	require.NoError(t, err)

	assert.Equal(t, "mocha-4", doc.ChainID)
	assert.Equal(t, "42", doc.AccountNumber)
	assert.Equal(t, "7", doc.Sequence)
	assert.Equal(t, DefaultMemo, doc.Memo)
	assert.Equal(t, "200000", doc.Fee.Gas)
	assert.Equal(t, []Coin{{Denom: "utia", Amount: "5000000000"}}, doc.Fee.Amount)

	require.Len(t, doc.Msgs, 1)
	assert.Equal(t, MsgPayForBlobsAminoType, doc.Msgs[0].Type)

	msg, err := MsgPayForBlobsFromAmino(doc.Msgs[0])
	require.NoError(t, err)
	assert.Equal(t, testSigner, msg.Signer)
	assert.Equal(t, [][]byte{[]byte("my-namespace")}, msg.Namespaces)
	assert.Equal(t, []uint32{11}, msg.BlobSizes)
	assert.Equal(t, []uint32{0}, msg.ShareVersions)
	require.Len(t, msg.ShareCommitments, 1)
	assert.Len(t, msg.ShareCommitments[0], commitment.Size)

	assert.Equal(t, uint32(11), sub.BlobSize)
	assert.Equal(t, commitment.Compute([]byte("my-namespace"), []byte("hello world")), sub.Commitment)
	assert.Equal(t, msg.ShareCommitments[0], sub.Commitment.Bytes())
}

func TestTxBuilder_AminoValueShape(t *testing.T) {
	b := newTestBuilder(t)
	doc, _, err := b.Build(testSigner, b64("ns"), b64("data"), "0", "0", 1000, sdkmath.LegacyMustNewDecFromStr("0.1"))
	require.NoError(t, err)

	var value map[string]any
	require.NoError(t, json.Unmarshal(doc.Msgs[0].Value, &value))
	assert.Equal(t, testSigner, value["signer"])
	assert.Equal(t, []any{b64("ns")}, value["namespaces"])
	assert.Equal(t, []any{float64(4)}, value["blob_sizes"])
	assert.Equal(t, []any{float64(0)}, value["share_versions"])
	assert.Len(t, value["share_commitments"], 1)
}

func TestTxBuilder_Prepare_Validation(t *testing.T) {
	b := newTestBuilder(t)
	price := sdkmath.LegacyMustNewDecFromStr("0.025")

	tests := []struct {
		name      string
		namespace string
		payload   string
		gas       uint64
		price     sdkmath.LegacyDec
		want      error
		field     string
	}{
		{"empty namespace", "", b64("data"), 1, price, ErrMissingField, "namespace"},
		{"whitespace namespace", "   ", b64("data"), 1, price, ErrMissingField, "namespace"},
		{"empty payload", b64("ns"), "", 1, price, ErrMissingField, "data"},
		{"malformed namespace", "not base64!", b64("data"), 1, price, ErrInvalidEncoding, "namespace"},
		{"malformed payload", b64("ns"), "%%%", 1, price, ErrInvalidEncoding, "data"},
		{"zero gas", b64("ns"), b64("data"), 0, price, ErrInvalidGas, "gas"},
		{"negative price", b64("ns"), b64("data"), 1, sdkmath.LegacyNewDec(-1), ErrInvalidGasPrice, "gas_price"},
		{"nil price", b64("ns"), b64("data"), 1, sdkmath.LegacyDec{}, ErrInvalidGasPrice, "gas_price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub, err := b.Prepare(tt.namespace, tt.payload, tt.gas, tt.price)
			require.Error(t, err)
			assert.Nil(t, sub)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)

			var ierr *InputError
			require.True(t, errors.As(err, &ierr))
			assert.Equal(t, tt.field, ierr.Field)
		})
	}
}

func TestTxBuilder_Prepare_TrimsAndToleratesMissingPadding(t *testing.T) {
	b := newTestBuilder(t)

	sub, err := b.Prepare("  "+b64("ns")+"\n", "aGk", 10, sdkmath.LegacyOneDec())
	require.NoError(t, err)
	assert.Equal(t, []byte("ns"), sub.Namespace)
	assert.Equal(t, []byte("hi"), sub.Payload)
}

type failingCalculator struct{}

func (failingCalculator) Compute(namespace, payload []byte) (commitment.Commitment, error) {
	return commitment.Commitment{}, errors.New("boom")
}

func TestTxBuilder_CalculatorFailureAborts(t *testing.T) {
	b, err := NewTxBuilder(network.Mocha(), failingCalculator{})
	require.NoError(t, err)

	_, err = b.Prepare(b64("ns"), b64("data"), 10, sdkmath.LegacyOneDec())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to compute share commitment")
}

func TestTxBuilder_SignDoc_Validation(t *testing.T) {
	b := newTestBuilder(t)
	sub, err := b.Prepare(b64("ns"), b64("data"), 10, sdkmath.LegacyOneDec())
	require.NoError(t, err)

	_, err = b.SignDoc(sub, "", "0", "0")
	assert.True(t, errors.Is(err, ErrMissingField))

	_, err = b.SignDoc(sub, testSigner, "abc", "0")
	assert.ErrorContains(t, err, "invalid account number")

	_, err = b.SignDoc(sub, testSigner, "0", "-1")
	assert.ErrorContains(t, err, "invalid sequence")

	_, err = b.SignDoc(nil, testSigner, "0", "0")
	assert.Error(t, err)
}

func TestNewTxBuilder_Validation(t *testing.T) {
	chain := network.Mocha()
	chain.ChainID = ""
	_, err := NewTxBuilder(chain, nil)
	assert.ErrorContains(t, err, "chain ID is required")

	chain = network.Mocha()
	chain.FeeCurrencies = nil
	_, err = NewTxBuilder(chain, nil)
	assert.ErrorContains(t, err, "no fee currency")
}

func TestParseGasPrice(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"0.025", "0.025000000000000000", false},
		{" 1 ", "1.000000000000000000", false},
		{".5", "0.500000000000000000", false},
		{"2.", "2.000000000000000000", false},
		{"", "", true},
		{"-0.1", "", true},
		{"0.025utia", "", true},
		{"abc", "", true},
		{"1000000", "1000000.000000000000000000", false},
		{"1000000.5", "", true},
		{"1" + strings.Repeat("0", 70), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseGasPrice(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidGasPrice))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}
