package keyring

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altuslabsxyz/blob-poster/pkg/network"
)

func TestAddKey_Recover(t *testing.T) {
	kr := NewInMemory()
	messy := "  " + strings.ReplaceAll(testMnemonic, " ", "   ") + "\n"

	info, mnemonic, err := AddKey(kr, "alice", messy, network.Mocha())
	require.NoError(t, err)
	assert.Equal(t, testMnemonic, mnemonic)
	assert.Equal(t, "alice", info.Name)
	assert.True(t, strings.HasPrefix(info.Address, "celestia1"))

	// same phrase, same path, same address
	again, _, err := AddKey(NewInMemory(), "alice", testMnemonic, network.Celestia())
	require.NoError(t, err)
	assert.Equal(t, info.Address, again.Address)

	_, _, err = AddKey(kr, "alice", testMnemonic, network.Mocha())
	assert.ErrorContains(t, err, "already exists")
}

func TestAddKey_Generate(t *testing.T) {
	kr := NewInMemory()
	info, mnemonic, err := AddKey(kr, "fresh", "", network.Mocha())
	require.NoError(t, err)
	assert.Len(t, strings.Fields(mnemonic), 24)

	normalized, err := NormalizeMnemonic(mnemonic)
	require.NoError(t, err)
	assert.Equal(t, mnemonic, normalized)

	keys, err := ListKeys(kr, network.Mocha())
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Equal(t, *info, keys[0])
}

func TestAddKey_Invalid(t *testing.T) {
	kr := NewInMemory()

	_, _, err := AddKey(kr, " ", "", network.Mocha())
	assert.ErrorContains(t, err, "key name is required")

	_, _, err = AddKey(kr, "bad", "abandon abandon abandon", network.Mocha())
	assert.ErrorIs(t, err, ErrInvalidMnemonic)
}

func TestValidateBackend(t *testing.T) {
	for _, b := range Backends {
		assert.NoError(t, ValidateBackend(b))
	}
	assert.ErrorContains(t, ValidateBackend("kwallet"), "unsupported keyring backend")
}

func TestOpen_Memory(t *testing.T) {
	kr, err := Open(Config{Backend: BackendMemory})
	require.NoError(t, err)
	keys, err := ListKeys(kr, network.Mocha())
	require.NoError(t, err)
	assert.Empty(t, keys)

	kr, err = Open(Config{Backend: BackendTest, Dir: t.TempDir()})
	require.NoError(t, err)
	_, _, err = AddKey(kr, "disk", testMnemonic, network.Mocha())
	require.NoError(t, err)
}
