// Package commitment derives the share commitment attached to a blob.
//
// The only implementation here is a placeholder: a positional XOR fold that
// produces a stable 32-byte value for transaction shaping. It is not the
// network's share commitment scheme, and transactions carrying it will be
// rejected by a real node's ante handler. Swap in a real Calculator before
// relying on inclusion.
package commitment

import (
	"encoding/base64"
	"encoding/hex"
)

// Size is the length of a share commitment in bytes.
const Size = 32

// perturbation is the per-position offset added after folding.
const perturbation = 7

// Commitment is a fixed-size share commitment.
type Commitment [Size]byte

// Bytes returns the commitment as a byte slice.
func (c Commitment) Bytes() []byte {
	out := make([]byte, Size)
	copy(out, c[:])
	return out
}

// Base64 returns the standard base64 encoding used in amino JSON.
func (c Commitment) Base64() string {
	return base64.StdEncoding.EncodeToString(c[:])
}

// String returns the hex encoding of the commitment.
func (c Commitment) String() string {
	return hex.EncodeToString(c[:])
}

// Calculator computes the commitment for a namespace and blob payload.
type Calculator interface {
	Compute(namespace, payload []byte) (Commitment, error)
}

// Placeholder is the XOR-fold Calculator. It never fails.
type Placeholder struct{}

// Compute implements Calculator.
func (Placeholder) Compute(namespace, payload []byte) (Commitment, error) {
	return Compute(namespace, payload), nil
}

// Compute folds namespace||payload into 32 buckets by XOR and then adds
// 7*i (mod 256) to bucket i.
func Compute(namespace, payload []byte) Commitment {
	var out Commitment
	i := 0
	for _, b := range namespace {
		out[i%Size] ^= b
		i++
	}
	for _, b := range payload {
		out[i%Size] ^= b
		i++
	}
	for j := range out {
		out[j] = byte(int(out[j]) + perturbation*j)
	}
	return out
}

var _ Calculator = Placeholder{}
