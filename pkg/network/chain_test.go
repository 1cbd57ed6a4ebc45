package network

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinDescriptorsAreValid(t *testing.T) {
	for _, d := range []ChainDescriptor{Mocha(), Celestia()} {
		t.Run(d.Name, func(t *testing.T) {
			require.NoError(t, d.Validate())
			assert.Equal(t, "utia", d.FeeCurrency().CoinMinimalDenom)
			assert.Equal(t, uint32(6), d.FeeCurrency().CoinDecimals)
			assert.Equal(t, "celestiavaloper", d.Bech32Config.Bech32PrefixValAddr)
		})
	}
}

func TestMocha(t *testing.T) {
	d := Mocha()
	assert.Equal(t, "mocha-4", d.ChainID)
	assert.Equal(t, uint32(118), d.BIP44.CoinType)
	assert.True(t, d.HasFeature(FeatureIBCTransfer))
	assert.False(t, d.HasFeature("cosmwasm"))

	price, err := d.DefaultGasPrice()
	require.NoError(t, err)
	assert.Equal(t, "0.025000000000000000", price.String())
}

func TestChainDescriptor_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *ChainDescriptor)
		field  string
	}{
		{"missing chain id", func(d *ChainDescriptor) { d.ChainID = "" }, "chain_id"},
		{"missing chain name", func(d *ChainDescriptor) { d.ChainName = "" }, "chain_name"},
		{"missing rpc", func(d *ChainDescriptor) { d.RPC = "" }, "rpc"},
		{"bad rest scheme", func(d *ChainDescriptor) { d.REST = "ftp://lcd.example.com" }, "rest"},
		{"rest without host", func(d *ChainDescriptor) { d.REST = "https://" }, "rest"},
		{"missing prefix", func(d *ChainDescriptor) { d.Bech32Config = Bech32Config{} }, "bech32.acc_addr"},
		{"no fee currency", func(d *ChainDescriptor) { d.FeeCurrencies = nil }, "fee_currencies"},
		{"negative gas price", func(d *ChainDescriptor) { d.FeeCurrencies[0].GasPriceStep.Low = -1 }, "fee_currencies[0].gas_price_step"},
		{"missing fee denom", func(d *ChainDescriptor) { d.FeeCurrencies[0].CoinMinimalDenom = "" }, "fee_currencies[0].coin_minimal_denom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Mocha()
			tt.mutate(&d)

			err := d.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidDescriptor))

			var verr *DescriptorValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestChainDescriptor_CloneIsIndependent(t *testing.T) {
	d := Mocha()
	c := d.Clone()
	c.Features[0] = "changed"
	c.FeeCurrencies[0].GasPriceStep.Average = 1

	assert.Equal(t, FeatureIBCTransfer, d.Features[0])
	assert.Equal(t, 0.025, d.FeeCurrencies[0].GasPriceStep.Average)
}

func TestChainDescriptor_WithEndpoints(t *testing.T) {
	d := Mocha()

	o := d.WithEndpoints("", "http://localhost:1317/")
	assert.Equal(t, d.RPC, o.RPC)
	assert.Equal(t, "http://localhost:1317", o.REST)
	assert.Equal(t, "https://lcd-celestia-testnet-mocha.keplr.app", d.REST)
}

func TestRegistry(t *testing.T) {
	r := newRegistry()
	require.NoError(t, r.register(Mocha()))

	got, err := r.get("mocha")
	require.NoError(t, err)
	assert.Equal(t, "mocha-4", got.ChainID)

	// mutating the returned copy leaves the registry untouched
	got.ChainID = "other"
	again, err := r.get("mocha")
	require.NoError(t, err)
	assert.Equal(t, "mocha-4", again.ChainID)

	err = r.register(Mocha())
	assert.True(t, errors.Is(err, ErrDuplicateNetwork))

	_, err = r.get("nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownNetwork))
	assert.Contains(t, err.Error(), "mocha")

	bad := Celestia()
	bad.ChainID = ""
	assert.True(t, errors.Is(r.register(bad), ErrInvalidDescriptor))

	unnamed := Celestia()
	unnamed.Name = ""
	assert.True(t, errors.Is(r.register(unnamed), ErrInvalidDescriptor))
}

func TestGlobalRegistry(t *testing.T) {
	assert.Equal(t, []string{"celestia", "mocha"}, List())
	assert.True(t, Has("mocha"))

	d, err := Default()
	require.NoError(t, err)
	assert.Equal(t, "mocha-4", d.ChainID)

	descs := ListDescriptors()
	require.Len(t, descs, 2)
	assert.Equal(t, "celestia", descs[0].Name)
}

func TestLoadDescriptorFile(t *testing.T) {
	content := `
chain_id: arabica-11
chain_name: Celestia Arabica
rpc: https://rpc.celestia-arabica-11.com
rest: https://api.celestia-arabica-11.com
bip44:
  coin_type: 118
bech32:
  acc_addr: celestia
fee_currencies:
  - coin_denom: TIA
    coin_minimal_denom: utia
    coin_decimals: 6
    gas_price_step:
      low: 0.01
      average: 0.02
      high: 0.1
`
	path := filepath.Join(t.TempDir(), "arabica.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	d, err := LoadDescriptorFile(path)
	require.NoError(t, err)
	assert.Equal(t, "arabica-11", d.Name)
	assert.Equal(t, "utia", d.FeeCurrency().CoinMinimalDenom)
	assert.Equal(t, 0.02, d.FeeCurrency().GasPriceStep.Average)
}

func TestParseDescriptor_RejectsUnknownKeys(t *testing.T) {
	_, err := ParseDescriptor([]byte("chain_id: x\nchian_name: typo\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chian_name")
}

func TestMarshalDescriptor_RoundTrip(t *testing.T) {
	data, err := MarshalDescriptor(Mocha())
	require.NoError(t, err)

	d, err := ParseDescriptor(data)
	require.NoError(t, err)
	assert.Equal(t, Mocha(), d)
}
