// Package network describes the chains blob-poster can submit to.
//
// A ChainDescriptor carries everything a wallet provider needs to register a
// chain (identifiers, address prefixes, currency metadata and endpoints) and
// everything the transaction builder needs to price a submission. Descriptors
// are values: the registry and the file loader hand out copies, and there are
// no setters, so a descriptor never changes after startup.
package network

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	sdkmath "cosmossdk.io/math"
)

// BIP44 holds the HD derivation parameters for the chain.
type BIP44 struct {
	CoinType uint32 `json:"coinType" yaml:"coin_type"`
}

// Bech32Config is the set of address prefixes used by the chain.
type Bech32Config struct {
	Bech32PrefixAccAddr  string `json:"bech32PrefixAccAddr" yaml:"acc_addr"`
	Bech32PrefixAccPub   string `json:"bech32PrefixAccPub" yaml:"acc_pub"`
	Bech32PrefixValAddr  string `json:"bech32PrefixValAddr" yaml:"val_addr"`
	Bech32PrefixValPub   string `json:"bech32PrefixValPub" yaml:"val_pub"`
	Bech32PrefixConsAddr string `json:"bech32PrefixConsAddr" yaml:"cons_addr"`
	Bech32PrefixConsPub  string `json:"bech32PrefixConsPub" yaml:"cons_pub"`
}

// NewBech32Config derives the full prefix set from an account prefix.
func NewBech32Config(prefix string) Bech32Config {
	return Bech32Config{
		Bech32PrefixAccAddr:  prefix,
		Bech32PrefixAccPub:   prefix + "pub",
		Bech32PrefixValAddr:  prefix + "valoper",
		Bech32PrefixValPub:   prefix + "valoperpub",
		Bech32PrefixConsAddr: prefix + "valcons",
		Bech32PrefixConsPub:  prefix + "valconspub",
	}
}

// Currency describes a denomination known to the chain.
type Currency struct {
	CoinDenom        string `json:"coinDenom" yaml:"coin_denom"`
	CoinMinimalDenom string `json:"coinMinimalDenom" yaml:"coin_minimal_denom"`
	CoinDecimals     uint32 `json:"coinDecimals" yaml:"coin_decimals"`
	CoinGeckoID      string `json:"coinGeckoId,omitempty" yaml:"coin_gecko_id,omitempty"`
}

// GasPriceStep holds the low/average/high gas price tiers, in display units
// of the fee currency.
type GasPriceStep struct {
	Low     float64 `json:"low" yaml:"low"`
	Average float64 `json:"average" yaml:"average"`
	High    float64 `json:"high" yaml:"high"`
}

// FeeCurrency is a currency that can pay fees, with its gas price tiers.
type FeeCurrency struct {
	Currency     `yaml:",inline"`
	GasPriceStep GasPriceStep `json:"gasPriceStep" yaml:"gas_price_step"`
}

// ChainDescriptor is the static description of a target chain.
type ChainDescriptor struct {
	// Name is the short registry key ("mocha", "celestia"). It is not part of
	// the descriptor handed to wallet providers.
	Name string `json:"-" yaml:"name"`

	ChainID       string        `json:"chainId" yaml:"chain_id"`
	ChainName     string        `json:"chainName" yaml:"chain_name"`
	RPC           string        `json:"rpc" yaml:"rpc"`
	REST          string        `json:"rest" yaml:"rest"`
	BIP44         BIP44         `json:"bip44" yaml:"bip44"`
	Bech32Config  Bech32Config  `json:"bech32Config" yaml:"bech32"`
	Currencies    []Currency    `json:"currencies" yaml:"currencies"`
	FeeCurrencies []FeeCurrency `json:"feeCurrencies" yaml:"fee_currencies"`
	StakeCurrency Currency      `json:"stakeCurrency" yaml:"stake_currency"`
	Features      []string      `json:"features,omitempty" yaml:"features,omitempty"`
}

// Validate checks that the descriptor is complete enough to register with a
// wallet and to price transactions.
func (d ChainDescriptor) Validate() error {
	if d.ChainID == "" {
		return &DescriptorValidationError{Chain: d.Name, Field: "chain_id", Reason: "is required"}
	}
	if d.ChainName == "" {
		return &DescriptorValidationError{Chain: d.Name, Field: "chain_name", Reason: "is required"}
	}
	if err := validateEndpoint(d.RPC); err != nil {
		return &DescriptorValidationError{Chain: d.Name, Field: "rpc", Reason: err.Error()}
	}
	if err := validateEndpoint(d.REST); err != nil {
		return &DescriptorValidationError{Chain: d.Name, Field: "rest", Reason: err.Error()}
	}
	if d.Bech32Config.Bech32PrefixAccAddr == "" {
		return &DescriptorValidationError{Chain: d.Name, Field: "bech32.acc_addr", Reason: "is required"}
	}
	if len(d.FeeCurrencies) == 0 {
		return &DescriptorValidationError{Chain: d.Name, Field: "fee_currencies", Reason: "at least one fee currency is required"}
	}
	for i, fc := range d.FeeCurrencies {
		if fc.CoinMinimalDenom == "" {
			return &DescriptorValidationError{
				Chain:  d.Name,
				Field:  fmt.Sprintf("fee_currencies[%d].coin_minimal_denom", i),
				Reason: "is required",
			}
		}
		step := fc.GasPriceStep
		if step.Low < 0 || step.Average < 0 || step.High < 0 {
			return &DescriptorValidationError{
				Chain:  d.Name,
				Field:  fmt.Sprintf("fee_currencies[%d].gas_price_step", i),
				Reason: "gas prices must not be negative",
			}
		}
	}
	return nil
}

func validateEndpoint(endpoint string) error {
	if endpoint == "" {
		return fmt.Errorf("is required")
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("host is required")
	}
	return nil
}

// Clone returns a deep copy of the descriptor.
func (d ChainDescriptor) Clone() ChainDescriptor {
	out := d
	out.Currencies = append([]Currency(nil), d.Currencies...)
	out.FeeCurrencies = append([]FeeCurrency(nil), d.FeeCurrencies...)
	out.Features = append([]string(nil), d.Features...)
	return out
}

// WithEndpoints returns a copy of the descriptor with the given endpoints.
// Empty arguments keep the current value.
func (d ChainDescriptor) WithEndpoints(rpc, rest string) ChainDescriptor {
	out := d.Clone()
	if rpc != "" {
		out.RPC = strings.TrimRight(rpc, "/")
	}
	if rest != "" {
		out.REST = strings.TrimRight(rest, "/")
	}
	return out
}

// FeeCurrency returns the primary fee currency.
func (d ChainDescriptor) FeeCurrency() FeeCurrency {
	if len(d.FeeCurrencies) == 0 {
		return FeeCurrency{}
	}
	return d.FeeCurrencies[0]
}

// DefaultGasPrice returns the average gas price tier of the primary fee
// currency, in display units.
func (d ChainDescriptor) DefaultGasPrice() (sdkmath.LegacyDec, error) {
	avg := d.FeeCurrency().GasPriceStep.Average
	dec, err := sdkmath.LegacyNewDecFromStr(strconv.FormatFloat(avg, 'f', -1, 64))
	if err != nil {
		return sdkmath.LegacyDec{}, fmt.Errorf("invalid average gas price %v: %w", avg, err)
	}
	return dec, nil
}

// HasFeature reports whether the chain declares the given feature flag.
func (d ChainDescriptor) HasFeature(feature string) bool {
	for _, f := range d.Features {
		if f == feature {
			return true
		}
	}
	return false
}
