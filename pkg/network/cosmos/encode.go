package cosmos

import (
	"encoding/base64"
	"fmt"

	sdkmath "cosmossdk.io/math"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	sdk "github.com/cosmos/cosmos-sdk/types"
	txtypes "github.com/cosmos/cosmos-sdk/types/tx"
	"github.com/cosmos/cosmos-sdk/types/tx/signing"
	gogoproto "github.com/cosmos/gogoproto/proto"
)

// EncodeStdTx converts an amino-signed StdTx into protobuf TxRaw bytes.
// The signer info declares SIGN_MODE_LEGACY_AMINO_JSON so the node verifies
// the signature against the amino sign bytes.
func EncodeStdTx(tx *StdTx) ([]byte, error) {
	if tx == nil {
		return nil, fmt.Errorf("signed transaction is required")
	}
	if len(tx.Signatures) != 1 {
		return nil, fmt.Errorf("expected exactly one signature, got %d", len(tx.Signatures))
	}

	msgs := make([]*codectypes.Any, 0, len(tx.Msg))
	for _, m := range tx.Msg {
		msg, err := MsgPayForBlobsFromAmino(m)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, &codectypes.Any{TypeUrl: MsgPayForBlobsTypeURL, Value: msg.Marshal()})
	}

	sig := tx.Signatures[0]
	pubKey, err := decodePubKey(sig.PubKey)
	if err != nil {
		return nil, err
	}
	pubKeyAny, err := codectypes.NewAnyWithValue(pubKey)
	if err != nil {
		return nil, fmt.Errorf("failed to pack public key: %w", err)
	}
	sigBytes, err := base64.StdEncoding.DecodeString(sig.Signature)
	if err != nil {
		return nil, fmt.Errorf("failed to decode signature: %w", err)
	}

	gas, err := parseUint(tx.Fee.Gas, "gas")
	if err != nil {
		return nil, err
	}
	fees := make(sdk.Coins, 0, len(tx.Fee.Amount))
	for _, c := range tx.Fee.Amount {
		amount, ok := sdkmath.NewIntFromString(c.Amount)
		if !ok {
			return nil, fmt.Errorf("invalid fee amount %q", c.Amount)
		}
		fees = append(fees, sdk.Coin{Denom: c.Denom, Amount: amount})
	}

	body := &txtypes.TxBody{Messages: msgs, Memo: tx.Memo}
	authInfo := &txtypes.AuthInfo{
		SignerInfos: []*txtypes.SignerInfo{{
			PublicKey: pubKeyAny,
			ModeInfo: &txtypes.ModeInfo{
				Sum: &txtypes.ModeInfo_Single_{
					Single: &txtypes.ModeInfo_Single{Mode: signing.SignMode_SIGN_MODE_LEGACY_AMINO_JSON},
				},
			},
			Sequence: tx.Sequence,
		}},
		Fee: &txtypes.Fee{Amount: fees, GasLimit: gas},
	}

	bodyBytes, err := gogoproto.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tx body: %w", err)
	}
	authInfoBytes, err := gogoproto.Marshal(authInfo)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal auth info: %w", err)
	}

	raw := &txtypes.TxRaw{
		BodyBytes:     bodyBytes,
		AuthInfoBytes: authInfoBytes,
		Signatures:    [][]byte{sigBytes},
	}
	txBytes, err := gogoproto.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tx: %w", err)
	}
	return txBytes, nil
}

// NewAminoPubKey renders a secp256k1 public key in amino JSON form.
func NewAminoPubKey(key []byte) PubKey {
	return PubKey{Type: PubKeyAminoType, Value: base64.StdEncoding.EncodeToString(key)}
}

func decodePubKey(pk PubKey) (*secp256k1.PubKey, error) {
	if pk.Type != PubKeyAminoType {
		return nil, fmt.Errorf("unsupported public key type %q", pk.Type)
	}
	key, err := base64.StdEncoding.DecodeString(pk.Value)
	if err != nil {
		return nil, fmt.Errorf("failed to decode public key: %w", err)
	}
	if len(key) != secp256k1.PubKeySize {
		return nil, fmt.Errorf("invalid public key length %d", len(key))
	}
	return &secp256k1.PubKey{Key: key}, nil
}
