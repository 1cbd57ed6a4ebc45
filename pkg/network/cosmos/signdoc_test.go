package cosmos

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	txtypes "github.com/cosmos/cosmos-sdk/types/tx"
	"github.com/cosmos/cosmos-sdk/types/tx/signing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestDoc(t *testing.T) *StdSignDoc {
	t.Helper()
	doc, _, err := newTestBuilder(t).Build(testSigner, b64("ns"), b64("payload"), "5", "9", 200000, sdkmath.LegacyMustNewDecFromStr("0.025"))
	require.NoError(t, err)
	return doc
}

func TestStdSignDoc_SignBytesAreSorted(t *testing.T) {
	bz, err := buildTestDoc(t).SignBytes()
	require.NoError(t, err)

	s := string(bz)
	assert.True(t, strings.HasPrefix(s, `{"account_number":"5","chain_id":"mocha-4","fee":{"amount":[{"amount":"5000000000","denom":"utia"}],"gas":"200000"},"memo":"Sent via Simple Blob Poster","msgs":[{"type":"blob/MsgPayForBlobs","value":{"blob_sizes":[7],"namespaces":["bnM="],`), s)
	assert.True(t, strings.HasSuffix(s, `"sequence":"9"}`), s)
	assert.NotContains(t, s, "\n")
}

func TestStdSignDoc_SignBytesDeterministic(t *testing.T) {
	a, err := buildTestDoc(t).SignBytes()
	require.NoError(t, err)
	b, err := buildTestDoc(t).SignBytes()
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func signTestDoc(t *testing.T, doc *StdSignDoc) (*AminoSignResponse, *secp256k1.PrivKey) {
	t.Helper()
	priv := secp256k1.GenPrivKey()
	bz, err := doc.SignBytes()
	require.NoError(t, err)
	sig, err := priv.Sign(bz)
	require.NoError(t, err)
	return &AminoSignResponse{
		Signed: *doc,
		Signature: StdSignature{
			PubKey:    NewAminoPubKey(priv.PubKey().Bytes()),
			Signature: base64.StdEncoding.EncodeToString(sig),
		},
	}, priv
}

func TestNewStdTx(t *testing.T) {
	doc := buildTestDoc(t)
	resp, _ := signTestDoc(t, doc)

	tx, err := NewStdTx(resp)
	require.NoError(t, err)
	assert.Equal(t, doc.Msgs, tx.Msg)
	assert.Equal(t, doc.Fee, tx.Fee)
	assert.Equal(t, doc.Memo, tx.Memo)
	assert.Equal(t, uint64(9), tx.Sequence)
	require.Len(t, tx.Signatures, 1)
	assert.Equal(t, PubKeyAminoType, tx.Signatures[0].PubKey.Type)

	out, err := tx.JSON()
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.ElementsMatch(t, []string{"msg", "fee", "signatures", "memo"}, keys(decoded))
	assert.Contains(t, out, "\n  ")
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestNewStdTx_Invalid(t *testing.T) {
	_, err := NewStdTx(nil)
	assert.Error(t, err)

	resp, _ := signTestDoc(t, buildTestDoc(t))
	resp.Signature.Signature = ""
	_, err = NewStdTx(resp)
	assert.ErrorContains(t, err, "no signature")
}

func TestEncodeStdTx(t *testing.T) {
	doc := buildTestDoc(t)
	resp, priv := signTestDoc(t, doc)
	tx, err := NewStdTx(resp)
	require.NoError(t, err)

	txBytes, err := EncodeStdTx(tx)
	require.NoError(t, err)

	var raw txtypes.TxRaw
	require.NoError(t, raw.Unmarshal(txBytes))
	require.Len(t, raw.Signatures, 1)

	var body txtypes.TxBody
	require.NoError(t, body.Unmarshal(raw.BodyBytes))
	assert.Equal(t, DefaultMemo, body.Memo)
	require.Len(t, body.Messages, 1)
	assert.Equal(t, MsgPayForBlobsTypeURL, body.Messages[0].TypeUrl)

	var msg MsgPayForBlobs
	require.NoError(t, msg.Unmarshal(body.Messages[0].Value))
	assert.Equal(t, testSigner, msg.Signer)
	assert.Equal(t, []uint32{7}, msg.BlobSizes)

	var authInfo txtypes.AuthInfo
	require.NoError(t, authInfo.Unmarshal(raw.AuthInfoBytes))
	require.Len(t, authInfo.SignerInfos, 1)
	si := authInfo.SignerInfos[0]
	assert.Equal(t, uint64(9), si.Sequence)
	assert.Equal(t, signing.SignMode_SIGN_MODE_LEGACY_AMINO_JSON, si.ModeInfo.GetSingle().Mode)
	assert.Equal(t, "/cosmos.crypto.secp256k1.PubKey", si.PublicKey.TypeUrl)
	assert.Equal(t, uint64(200000), authInfo.Fee.GasLimit)
	assert.Equal(t, "5000000000utia", authInfo.Fee.Amount.String())

	// the node verifies the amino sign bytes against the embedded signature
	signBytes, err := doc.SignBytes()
	require.NoError(t, err)
	assert.True(t, priv.PubKey().VerifySignature(signBytes, raw.Signatures[0]))
}

func TestEncodeStdTx_Invalid(t *testing.T) {
	resp, _ := signTestDoc(t, buildTestDoc(t))

	tests := []struct {
		name   string
		mutate func(tx *StdTx)
		errStr string
	}{
		{"no signatures", func(tx *StdTx) { tx.Signatures = nil }, "exactly one signature"},
		{"bad pubkey type", func(tx *StdTx) { tx.Signatures[0].PubKey.Type = "tendermint/PubKeyEd25519" }, "unsupported public key type"},
		{"short pubkey", func(tx *StdTx) { tx.Signatures[0].PubKey.Value = base64.StdEncoding.EncodeToString([]byte{1, 2}) }, "invalid public key length"},
		{"bad signature", func(tx *StdTx) { tx.Signatures[0].Signature = "!!" }, "failed to decode signature"},
		{"bad gas", func(tx *StdTx) { tx.Fee.Gas = "lots" }, "invalid gas"},
		{"bad fee", func(tx *StdTx) { tx.Fee.Amount[0].Amount = "1.5" }, "invalid fee amount"},
		{"unknown msg", func(tx *StdTx) { tx.Msg[0].Type = "cosmos-sdk/MsgSend" }, "unsupported amino message type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := NewStdTx(resp)
			require.NoError(t, err)
			// deep copy the slices the mutators touch
			tx.Signatures = append([]StdSignature(nil), tx.Signatures...)
			tx.Msg = append([]AminoMsg(nil), tx.Msg...)
			tx.Fee.Amount = append([]Coin(nil), tx.Fee.Amount...)
			tt.mutate(tx)

			_, err = EncodeStdTx(tx)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errStr)
		})
	}
}
