package config

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/blob-poster/internal/paths"
	"github.com/altuslabsxyz/blob-poster/internal/wallet/keyring"
	"github.com/altuslabsxyz/blob-poster/pkg/network"
	"github.com/altuslabsxyz/blob-poster/pkg/network/cosmos"
)

// Environment variables read during resolution.
const (
	EnvHome           = "BLOB_POSTER_HOME"
	EnvNetwork        = "BLOB_POSTER_NETWORK"
	EnvKeyringBackend = "BLOB_POSTER_KEYRING_BACKEND"
	EnvNoColor        = "NO_COLOR"
)

// Defaults.
const (
	DefaultLogLevel       = "warn"
	DefaultKeyringBackend = keyring.BackendTest
	DefaultGas            = cosmos.DefaultGasLimit
	DefaultWaitTimeout    = 30 * time.Second
	DefaultSignTimeout    = 5 * time.Minute
)

// LogLevels lists the accepted --log-level values.
var LogLevels = []string{"debug", "info", "warn", "error"}

// Flags holds the values bound to command-line flags. Resolve treats them as
// defaults unless the flag was set explicitly.
type Flags struct {
	Home           string
	NoColor        bool
	Verbose        bool
	JSON           bool
	LogLevel       string
	Network        string
	ChainFile      string
	REST           string
	RPC            string
	KeyringBackend string
	KeyringDir     string
	KeyName        string
	Yes            bool
	WaitTimeout    time.Duration
	SignTimeout    time.Duration
	Gas            uint64
	GasPrice       string
}

// EffectiveConfig represents the final merged configuration after applying priority chain.
type EffectiveConfig struct {
	// Global settings
	Home     StringValue
	NoColor  BoolValue
	Verbose  BoolValue
	JSON     BoolValue
	LogLevel StringValue

	// Network settings
	Network   StringValue
	ChainFile StringValue
	REST      StringValue
	RPC       StringValue

	// Wallet settings
	KeyringBackend StringValue
	KeyringDirPath StringValue // empty means <home>/keyring
	KeyName        StringValue
	Yes            BoolValue
	WaitTimeout    DurationValue
	SignTimeout    DurationValue

	// Submission settings
	Gas      Uint64Value
	GasPrice StringValue

	// Metadata
	ConfigFilePath string // Path to loaded config file (empty if none)
}

// NewEffectiveConfig creates a new EffectiveConfig with default values.
func NewEffectiveConfig(defaultHomeDir string) *EffectiveConfig {
	return &EffectiveConfig{
		Home:           Default(defaultHomeDir),
		NoColor:        Default(false),
		Verbose:        Default(false),
		JSON:           Default(false),
		LogLevel:       Default(DefaultLogLevel),
		Network:        Default(network.DefaultNetworkName),
		ChainFile:      Default(""),
		REST:           Default(""),
		RPC:            Default(""),
		KeyringBackend: Default(DefaultKeyringBackend),
		KeyringDirPath: Default(""),
		KeyName:        Default(""),
		Yes:            Default(false),
		WaitTimeout:    Default(DefaultWaitTimeout),
		SignTimeout:    Default(DefaultSignTimeout),
		Gas:            Default(DefaultGas),
		GasPrice:       Default(""),
	}
}

// Resolve merges flag values, the loaded config file and the environment into
// an EffectiveConfig. Priority: default < config.toml < environment < flag.
// getenv may be nil, in which case the environment is ignored.
func Resolve(cmd *cobra.Command, flags Flags, fileCfg *FileConfig, getenv func(string) string) (*EffectiveConfig, error) {
	if fileCfg == nil {
		fileCfg = &FileConfig{}
	}
	if getenv == nil {
		getenv = func(string) string { return "" }
	}

	fromEnv := func(v StringValue, key string) StringValue {
		env := getenv(key)
		return withEnv(v, env, env != "")
	}

	c := &EffectiveConfig{}

	c.Home = apply(cmd, "home", flags.Home, fileCfg.Home)
	c.Home = fromEnv(c.Home, EnvHome)
	c.NoColor = withEnv(apply(cmd, "no-color", flags.NoColor, fileCfg.NoColor), true, getenv(EnvNoColor) != "")
	c.Verbose = apply(cmd, "verbose", flags.Verbose, fileCfg.Verbose)
	c.JSON = apply(cmd, "json", flags.JSON, fileCfg.JSON)
	c.LogLevel = apply(cmd, "log-level", flags.LogLevel, fileCfg.LogLevel)

	c.Network = apply(cmd, "network", flags.Network, fileCfg.Network)
	c.Network = fromEnv(c.Network, EnvNetwork)
	c.ChainFile = apply(cmd, "chain-file", flags.ChainFile, fileCfg.ChainFile)
	c.REST = apply(cmd, "rest", flags.REST, fileCfg.REST)
	c.RPC = apply(cmd, "rpc", flags.RPC, fileCfg.RPC)

	c.KeyringBackend = apply(cmd, "keyring-backend", flags.KeyringBackend, fileCfg.KeyringBackend)
	c.KeyringBackend = fromEnv(c.KeyringBackend, EnvKeyringBackend)
	c.KeyringDirPath = apply(cmd, "keyring-dir", flags.KeyringDir, fileCfg.KeyringDir)
	c.KeyName = apply(cmd, "key", flags.KeyName, fileCfg.KeyName)
	c.Yes = apply(cmd, "yes", flags.Yes, fileCfg.Yes)

	var err error
	if c.WaitTimeout, err = applyDuration(cmd, "wait-timeout", flags.WaitTimeout, fileCfg.WaitTimeout); err != nil {
		return nil, err
	}
	if c.SignTimeout, err = applyDuration(cmd, "sign-timeout", flags.SignTimeout, fileCfg.SignTimeout); err != nil {
		return nil, err
	}

	c.Gas = apply(cmd, "gas", flags.Gas, fileCfg.Gas)
	c.GasPrice = apply(cmd, "gas-price", flags.GasPrice, fileCfg.GasPrice)

	return c, nil
}

// KeyringDir returns the keyring directory, defaulting to <home>/keyring.
func (c *EffectiveConfig) KeyringDir() string {
	if c.KeyringDirPath.Value != "" {
		return c.KeyringDirPath.Value
	}
	return paths.KeyringPath(c.Home.Value)
}

// DataDir returns the directory holding the wallet's registered-chain store.
func (c *EffectiveConfig) DataDir() string {
	return paths.DataPath(c.Home.Value)
}

// ToTable writes the configuration as a formatted table.
func (c *EffectiveConfig) ToTable(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tVALUE\tSOURCE")
	fmt.Fprintln(tw, "---\t-----\t------")
	fmt.Fprintf(tw, "home\t%s\t%s\n", c.Home.Value, c.Home.Source)
	fmt.Fprintf(tw, "no_color\t%t\t%s\n", c.NoColor.Value, c.NoColor.Source)
	fmt.Fprintf(tw, "verbose\t%t\t%s\n", c.Verbose.Value, c.Verbose.Source)
	fmt.Fprintf(tw, "json\t%t\t%s\n", c.JSON.Value, c.JSON.Source)
	fmt.Fprintf(tw, "log_level\t%s\t%s\n", c.LogLevel.Value, c.LogLevel.Source)
	fmt.Fprintf(tw, "network\t%s\t%s\n", c.Network.Value, c.Network.Source)
	fmt.Fprintf(tw, "chain_file\t%s\t%s\n", orUnset(c.ChainFile.Value), c.ChainFile.Source)
	fmt.Fprintf(tw, "rest\t%s\t%s\n", orUnset(c.REST.Value), c.REST.Source)
	fmt.Fprintf(tw, "rpc\t%s\t%s\n", orUnset(c.RPC.Value), c.RPC.Source)
	fmt.Fprintf(tw, "keyring_backend\t%s\t%s\n", c.KeyringBackend.Value, c.KeyringBackend.Source)
	fmt.Fprintf(tw, "keyring_dir\t%s\t%s\n", c.KeyringDir(), c.KeyringDirPath.Source)
	fmt.Fprintf(tw, "key_name\t%s\t%s\n", orUnset(c.KeyName.Value), c.KeyName.Source)
	fmt.Fprintf(tw, "yes\t%t\t%s\n", c.Yes.Value, c.Yes.Source)
	fmt.Fprintf(tw, "wait_timeout\t%s\t%s\n", c.WaitTimeout.Value, c.WaitTimeout.Source)
	fmt.Fprintf(tw, "sign_timeout\t%s\t%s\n", c.SignTimeout.Value, c.SignTimeout.Source)
	fmt.Fprintf(tw, "gas\t%d\t%s\n", c.Gas.Value, c.Gas.Source)
	fmt.Fprintf(tw, "gas_price\t%s\t%s\n", orUnset(c.GasPrice.Value), c.GasPrice.Source)
	tw.Flush()
}

// ToMap returns the effective values keyed by their config.toml names.
func (c *EffectiveConfig) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"home":            c.Home.Value,
		"no_color":        c.NoColor.Value,
		"verbose":         c.Verbose.Value,
		"json":            c.JSON.Value,
		"log_level":       c.LogLevel.Value,
		"network":         c.Network.Value,
		"chain_file":      c.ChainFile.Value,
		"rest":            c.REST.Value,
		"rpc":             c.RPC.Value,
		"keyring_backend": c.KeyringBackend.Value,
		"keyring_dir":     c.KeyringDir(),
		"key_name":        c.KeyName.Value,
		"yes":             c.Yes.Value,
		"wait_timeout":    c.WaitTimeout.Value.String(),
		"sign_timeout":    c.SignTimeout.Value.String(),
		"gas":             c.Gas.Value,
		"gas_price":       c.GasPrice.Value,
		"config_file":     c.ConfigFilePath,
	}
}

func orUnset(v string) string {
	if v == "" {
		return "(not set)"
	}
	return v
}
