// pkg/network/cosmos/config.go
package cosmos

import (
	"fmt"

	"github.com/cosmos/cosmos-sdk/codec"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	"github.com/cosmos/cosmos-sdk/std"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// NewCodec creates a proto codec with the standard crypto and SDK interfaces
// registered. Keyrings need it to decode stored key records.
func NewCodec() codec.Codec {
	interfaceRegistry := codectypes.NewInterfaceRegistry()
	std.RegisterInterfaces(interfaceRegistry)
	return codec.NewProtoCodec(interfaceRegistry)
}

// Bech32Address encodes raw account address bytes with the given prefix.
// It avoids the SDK's global bech32 config so several chains can coexist.
func Bech32Address(prefix string, addr []byte) (string, error) {
	if prefix == "" {
		return "", fmt.Errorf("bech32 prefix cannot be empty")
	}
	if len(addr) == 0 {
		return "", fmt.Errorf("address bytes cannot be empty")
	}
	return sdk.Bech32ifyAddressBytes(prefix, addr)
}
