package config

// FileConfig represents the raw config.toml file contents.
// All fields are pointers to distinguish "not set" from "set to zero/false".
type FileConfig struct {
	// Global settings
	Home     *string `toml:"home"`
	NoColor  *bool   `toml:"no_color"`
	Verbose  *bool   `toml:"verbose"`
	JSON     *bool   `toml:"json"`
	LogLevel *string `toml:"log_level"` // debug, info, warn or error

	// Network settings
	Network   *string `toml:"network"`    // Registry name: "mocha", "celestia" or a chain_file name
	ChainFile *string `toml:"chain_file"` // YAML chain descriptor
	REST      *string `toml:"rest"`       // Overrides the descriptor's REST endpoint
	RPC       *string `toml:"rpc"`        // Overrides the descriptor's RPC endpoint

	// Wallet settings
	KeyringBackend *string `toml:"keyring_backend"`
	KeyringDir     *string `toml:"keyring_dir"` // Default: <home>/keyring
	KeyName        *string `toml:"key_name"`    // Restrict the wallet to one key
	Yes            *bool   `toml:"yes"`         // Approve wallet requests without prompting
	WaitTimeout    *string `toml:"wait_timeout"`
	SignTimeout    *string `toml:"sign_timeout"`

	// Submission settings
	Gas      *uint64 `toml:"gas"`
	GasPrice *string `toml:"gas_price"` // Default: the fee currency's average step
}

// IsEmpty returns true if no configuration values are set.
func (f *FileConfig) IsEmpty() bool {
	return f.Home == nil &&
		f.NoColor == nil &&
		f.Verbose == nil &&
		f.JSON == nil &&
		f.LogLevel == nil &&
		f.Network == nil &&
		f.ChainFile == nil &&
		f.REST == nil &&
		f.RPC == nil &&
		f.KeyringBackend == nil &&
		f.KeyringDir == nil &&
		f.KeyName == nil &&
		f.Yes == nil &&
		f.WaitTimeout == nil &&
		f.SignTimeout == nil &&
		f.Gas == nil &&
		f.GasPrice == nil
}

// knownKeys lists the top-level keys accepted in config.toml.
var knownKeys = map[string]bool{
	"home":            true,
	"no_color":        true,
	"verbose":         true,
	"json":            true,
	"log_level":       true,
	"network":         true,
	"chain_file":      true,
	"rest":            true,
	"rpc":             true,
	"keyring_backend": true,
	"keyring_dir":     true,
	"key_name":        true,
	"yes":             true,
	"wait_timeout":    true,
	"sign_timeout":    true,
	"gas":             true,
	"gas_price":       true,
}
