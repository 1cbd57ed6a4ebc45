// Package keyring implements a wallet provider backed by a Cosmos SDK
// keyring. Registered chains are kept in a small key/value store so that
// re-registration is detected across runs, the way a browser wallet does.
package keyring

import (
	"fmt"
	"io"
	"os"
	"strings"

	sdkkeyring "github.com/cosmos/cosmos-sdk/crypto/keyring"

	"github.com/altuslabsxyz/blob-poster/pkg/network/cosmos"
)

// AppName is the keyring service name.
const AppName = "blob-poster"

// Supported keyring backends.
const (
	BackendTest   = sdkkeyring.BackendTest
	BackendFile   = sdkkeyring.BackendFile
	BackendOS     = sdkkeyring.BackendOS
	BackendMemory = sdkkeyring.BackendMemory
)

// Backends lists the accepted --keyring-backend values.
var Backends = []string{BackendTest, BackendFile, BackendOS, BackendMemory}

// Config selects and locates a keyring.
type Config struct {
	Backend string
	Dir     string
	// Input supplies passphrases for the file backend. Defaults to stdin.
	Input io.Reader
}

// ValidateBackend checks that backend is supported.
func ValidateBackend(backend string) error {
	for _, b := range Backends {
		if b == backend {
			return nil
		}
	}
	return fmt.Errorf("unsupported keyring backend %q (valid: %s)", backend, strings.Join(Backends, ", "))
}

// Open opens the keyring described by cfg.
func Open(cfg Config) (sdkkeyring.Keyring, error) {
	if err := ValidateBackend(cfg.Backend); err != nil {
		return nil, err
	}
	input := cfg.Input
	if input == nil {
		input = os.Stdin
	}

	kr, err := sdkkeyring.New(AppName, cfg.Backend, cfg.Dir, input, cosmos.NewCodec())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s keyring: %w", cfg.Backend, err)
	}
	return kr, nil
}

// NewInMemory returns an empty in-memory keyring.
func NewInMemory() sdkkeyring.Keyring {
	return sdkkeyring.NewInMemory(cosmos.NewCodec())
}
