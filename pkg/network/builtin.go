package network

// Feature flags declared by the built-in Celestia descriptors.
const (
	FeatureIBCTransfer   = "ibc-transfer"
	FeatureIBCGo         = "ibc-go"
	FeatureEthAddressGen = "eth-address-gen"
	FeatureEthKeySign    = "eth-key-sign"
)

var tia = Currency{
	CoinDenom:        "TIA",
	CoinMinimalDenom: "utia",
	CoinDecimals:     6,
	CoinGeckoID:      "celestia",
}

// Mocha is the Celestia Mocha testnet.
func Mocha() ChainDescriptor {
	return ChainDescriptor{
		Name:          "mocha",
		ChainID:       "mocha-4",
		ChainName:     "Celestia Mocha Testnet",
		RPC:           "https://rpc-celestia-testnet-mocha.keplr.app",
		REST:          "https://lcd-celestia-testnet-mocha.keplr.app",
		BIP44:         BIP44{CoinType: 118},
		Bech32Config:  NewBech32Config("celestia"),
		Currencies:    []Currency{tia},
		FeeCurrencies: []FeeCurrency{{Currency: tia, GasPriceStep: GasPriceStep{Low: 0.01, Average: 0.025, High: 0.04}}},
		StakeCurrency: tia,
		Features:      []string{FeatureIBCTransfer, FeatureIBCGo, FeatureEthAddressGen, FeatureEthKeySign},
	}
}

// Celestia is the Celestia mainnet.
func Celestia() ChainDescriptor {
	return ChainDescriptor{
		Name:          "celestia",
		ChainID:       "celestia",
		ChainName:     "Celestia",
		RPC:           "https://rpc-celestia.keplr.app",
		REST:          "https://lcd-celestia.keplr.app",
		BIP44:         BIP44{CoinType: 118},
		Bech32Config:  NewBech32Config("celestia"),
		Currencies:    []Currency{tia},
		FeeCurrencies: []FeeCurrency{{Currency: tia, GasPriceStep: GasPriceStep{Low: 0.01, Average: 0.02, High: 0.1}}},
		StakeCurrency: tia,
		Features:      []string{FeatureIBCTransfer, FeatureIBCGo},
	}
}

func init() {
	MustRegister(Mocha())
	MustRegister(Celestia())
}
