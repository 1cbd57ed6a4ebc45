// pkg/network/cosmos/msgs.go
package cosmos

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	sdkmath "cosmossdk.io/math"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	// MsgPayForBlobsTypeURL is the protobuf Any type URL of MsgPayForBlobs.
	MsgPayForBlobsTypeURL = "/celestia.blob.v1.MsgPayForBlobs"

	// MsgPayForBlobsAminoType is the amino JSON type name of MsgPayForBlobs.
	MsgPayForBlobsAminoType = "blob/MsgPayForBlobs"

	// ShareVersionZero is the only share version this client produces.
	ShareVersionZero uint32 = 0
)

// Field numbers of celestia.blob.v1.MsgPayForBlobs.
const (
	fieldSigner           protowire.Number = 1
	fieldNamespaces       protowire.Number = 2
	fieldBlobSizes        protowire.Number = 3
	fieldShareCommitments protowire.Number = 4
	fieldShareVersions    protowire.Number = 8
)

// MsgPayForBlobs pays for the inclusion of one or more blobs. The parallel
// slices are indexed by blob.
type MsgPayForBlobs struct {
	Signer           string
	Namespaces       [][]byte
	BlobSizes        []uint32
	ShareCommitments [][]byte
	ShareVersions    []uint32
}

// msgPayForBlobsAmino is the amino JSON value of MsgPayForBlobs.
// Byte slices marshal as standard base64.
type msgPayForBlobsAmino struct {
	Signer           string   `json:"signer"`
	Namespaces       [][]byte `json:"namespaces"`
	BlobSizes        []uint32 `json:"blob_sizes"`
	ShareCommitments [][]byte `json:"share_commitments"`
	ShareVersions    []uint32 `json:"share_versions"`
}

// ValidateBasic checks that the parallel slices line up.
func (m *MsgPayForBlobs) ValidateBasic() error {
	if m.Signer == "" {
		return &InputError{Field: "signer", Kind: ErrMissingField}
	}
	n := len(m.Namespaces)
	if n == 0 {
		return &InputError{Field: "namespaces", Kind: ErrMissingField}
	}
	if len(m.BlobSizes) != n || len(m.ShareCommitments) != n || len(m.ShareVersions) != n {
		return fmt.Errorf("mismatched blob fields: %d namespaces, %d sizes, %d commitments, %d versions",
			n, len(m.BlobSizes), len(m.ShareCommitments), len(m.ShareVersions))
	}
	return nil
}

// AminoMsg returns the amino JSON form of the message.
func (m *MsgPayForBlobs) AminoMsg() (AminoMsg, error) {
	value, err := json.Marshal(msgPayForBlobsAmino{
		Signer:           m.Signer,
		Namespaces:       m.Namespaces,
		BlobSizes:        m.BlobSizes,
		ShareCommitments: m.ShareCommitments,
		ShareVersions:    m.ShareVersions,
	})
	if err != nil {
		return AminoMsg{}, fmt.Errorf("failed to marshal amino msg: %w", err)
	}
	return AminoMsg{Type: MsgPayForBlobsAminoType, Value: value}, nil
}

// MsgPayForBlobsFromAmino decodes an amino JSON message.
func MsgPayForBlobsFromAmino(msg AminoMsg) (*MsgPayForBlobs, error) {
	if msg.Type != MsgPayForBlobsAminoType {
		return nil, fmt.Errorf("unsupported amino message type: %s", msg.Type)
	}
	var v msgPayForBlobsAmino
	if err := json.Unmarshal(msg.Value, &v); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", msg.Type, err)
	}
	return &MsgPayForBlobs{
		Signer:           v.Signer,
		Namespaces:       v.Namespaces,
		BlobSizes:        v.BlobSizes,
		ShareCommitments: v.ShareCommitments,
		ShareVersions:    v.ShareVersions,
	}, nil
}

// Marshal encodes the message in protobuf wire format.
func (m *MsgPayForBlobs) Marshal() []byte {
	var b []byte
	if m.Signer != "" {
		b = protowire.AppendTag(b, fieldSigner, protowire.BytesType)
		b = protowire.AppendString(b, m.Signer)
	}
	for _, ns := range m.Namespaces {
		b = protowire.AppendTag(b, fieldNamespaces, protowire.BytesType)
		b = protowire.AppendBytes(b, ns)
	}
	b = appendPackedUint32(b, fieldBlobSizes, m.BlobSizes)
	for _, c := range m.ShareCommitments {
		b = protowire.AppendTag(b, fieldShareCommitments, protowire.BytesType)
		b = protowire.AppendBytes(b, c)
	}
	b = appendPackedUint32(b, fieldShareVersions, m.ShareVersions)
	return b
}

func appendPackedUint32(b []byte, num protowire.Number, vals []uint32) []byte {
	if len(vals) == 0 {
		return b
	}
	var packed []byte
	for _, v := range vals {
		packed = protowire.AppendVarint(packed, uint64(v))
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, packed)
}

// Unmarshal decodes a protobuf-encoded MsgPayForBlobs. Unknown fields are skipped.
func (m *MsgPayForBlobs) Unmarshal(b []byte) error {
	*m = MsgPayForBlobs{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("invalid tag: %w", protowire.ParseError(n))
		}
		b = b[n:]

		switch {
		case num == fieldSigner && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return fmt.Errorf("invalid signer: %w", protowire.ParseError(n))
			}
			m.Signer = v
			b = b[n:]
		case num == fieldNamespaces && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return fmt.Errorf("invalid namespace: %w", protowire.ParseError(n))
			}
			m.Namespaces = append(m.Namespaces, append([]byte(nil), v...))
			b = b[n:]
		case num == fieldShareCommitments && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return fmt.Errorf("invalid share commitment: %w", protowire.ParseError(n))
			}
			m.ShareCommitments = append(m.ShareCommitments, append([]byte(nil), v...))
			b = b[n:]
		case num == fieldBlobSizes || num == fieldShareVersions:
			vals, n, err := consumeUint32s(b, typ)
			if err != nil {
				return err
			}
			if num == fieldBlobSizes {
				m.BlobSizes = append(m.BlobSizes, vals...)
			} else {
				m.ShareVersions = append(m.ShareVersions, vals...)
			}
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return fmt.Errorf("invalid field %d: %w", num, protowire.ParseError(n))
			}
			b = b[n:]
		}
	}
	return nil
}

// consumeUint32s reads either a packed run or a single varint.
func consumeUint32s(b []byte, typ protowire.Type) ([]uint32, int, error) {
	switch typ {
	case protowire.VarintType:
		v, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return nil, 0, protowire.ParseError(n)
		}
		return []uint32{uint32(v)}, n, nil
	case protowire.BytesType:
		packed, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return nil, 0, protowire.ParseError(n)
		}
		var out []uint32
		for len(packed) > 0 {
			v, m := protowire.ConsumeVarint(packed)
			if m < 0 {
				return nil, 0, protowire.ParseError(m)
			}
			out = append(out, uint32(v))
			packed = packed[m:]
		}
		return out, n, nil
	default:
		return nil, 0, fmt.Errorf("unexpected wire type %d for uint32 field", typ)
	}
}

// maxGasPrice bounds a typed price, in display units per gas.
var maxGasPrice = sdkmath.LegacyNewDec(1_000_000)

var gasPriceRe = regexp.MustCompile(`^(\d+\.?\d*|\.\d+)$`)

// ParseGasPrice parses a gas price given in display units of the fee
// currency, e.g. "0.025" TIA per unit of gas.
func ParseGasPrice(s string) (sdkmath.LegacyDec, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return sdkmath.LegacyDec{}, &InputError{Field: "gas_price", Kind: ErrInvalidGasPrice, Cause: fmt.Errorf("gas price cannot be empty")}
	}
	if !gasPriceRe.MatchString(s) {
		return sdkmath.LegacyDec{}, &InputError{
			Field: "gas_price",
			Kind:  ErrInvalidGasPrice,
			Cause: fmt.Errorf("invalid gas price format: %s (expected a decimal like '0.025')", s),
		}
	}
	// LegacyNewDecFromStr wants a leading digit
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	amount, err := sdkmath.LegacyNewDecFromStr(strings.TrimSuffix(s, "."))
	if err != nil {
		return sdkmath.LegacyDec{}, &InputError{Field: "gas_price", Kind: ErrInvalidGasPrice, Cause: err}
	}
	if amount.GT(maxGasPrice) {
		return sdkmath.LegacyDec{}, &InputError{
			Field: "gas_price",
			Kind:  ErrInvalidGasPrice,
			Cause: fmt.Errorf("gas price %s exceeds %s", s, maxGasPrice),
		}
	}
	return amount, nil
}
