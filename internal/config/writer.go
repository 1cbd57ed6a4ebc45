package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ConfigWriter handles writing configuration to homeDir/config.toml.
type ConfigWriter struct {
	homeDir string
}

// NewConfigWriter creates a new ConfigWriter for the given home directory.
func NewConfigWriter(homeDir string) *ConfigWriter {
	return &ConfigWriter{
		homeDir: homeDir,
	}
}

// Path returns the full path to config.toml in homeDir.
func (w *ConfigWriter) Path() string {
	return filepath.Join(w.homeDir, ConfigFileName)
}

// Exists returns true if config.toml already exists in homeDir.
func (w *ConfigWriter) Exists() bool {
	_, err := os.Stat(w.Path())
	return err == nil
}

// Write saves the FileConfig to homeDir/config.toml.
// Creates homeDir if it doesn't exist.
func (w *ConfigWriter) Write(cfg *FileConfig) error {
	if err := os.MkdirAll(w.homeDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", w.homeDir, err)
	}

	content := w.generateTOMLWithComments(cfg)
	if err := os.WriteFile(w.Path(), []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func section(b *strings.Builder, title string) {
	b.WriteString("# =============================================================================\n")
	fmt.Fprintf(b, "# %s\n", title)
	b.WriteString("# =============================================================================\n\n")
}

func writeString(b *strings.Builder, key string, v *string, example string) {
	if v != nil {
		fmt.Fprintf(b, "%s = %q\n", key, *v)
		return
	}
	fmt.Fprintf(b, "# %s = %q\n", key, example)
}

func writeBool(b *strings.Builder, key string, v *bool) {
	if v != nil && *v {
		fmt.Fprintf(b, "%s = true\n", key)
		return
	}
	fmt.Fprintf(b, "# %s = false\n", key)
}

// generateTOMLWithComments creates TOML content with section comments.
// Unset keys are written commented out with their default.
func (w *ConfigWriter) generateTOMLWithComments(cfg *FileConfig) string {
	if cfg == nil {
		cfg = &FileConfig{}
	}
	var b strings.Builder

	b.WriteString("# blob-poster configuration file\n")
	b.WriteString("# Priority: default < config.toml < environment < CLI flag\n")
	b.WriteString("#\n")
	fmt.Fprintf(&b, "# Location: %s\n", w.Path())
	b.WriteString("# Override with: --config /path/to/config.toml\n\n")

	section(&b, "Global Settings (apply to all commands)")
	writeString(&b, "home", cfg.Home, "~/.blob-poster")
	writeBool(&b, "verbose", cfg.Verbose)
	writeBool(&b, "json", cfg.JSON)
	writeBool(&b, "no_color", cfg.NoColor)
	writeString(&b, "log_level", cfg.LogLevel, DefaultLogLevel)
	b.WriteString("\n")

	section(&b, "Network Settings")
	writeString(&b, "network", cfg.Network, "mocha")
	writeString(&b, "chain_file", cfg.ChainFile, "./chain.yaml")
	writeString(&b, "rest", cfg.REST, "https://lcd-celestia-testnet-mocha.keplr.app")
	writeString(&b, "rpc", cfg.RPC, "https://rpc-celestia-testnet-mocha.keplr.app")
	b.WriteString("\n")

	section(&b, "Wallet Settings")
	writeString(&b, "keyring_backend", cfg.KeyringBackend, DefaultKeyringBackend)
	writeString(&b, "keyring_dir", cfg.KeyringDir, "~/.blob-poster/keyring")
	writeString(&b, "key_name", cfg.KeyName, "")
	writeBool(&b, "yes", cfg.Yes)
	writeString(&b, "wait_timeout", cfg.WaitTimeout, DefaultWaitTimeout.String())
	writeString(&b, "sign_timeout", cfg.SignTimeout, DefaultSignTimeout.String())
	b.WriteString("\n")

	section(&b, "Submission Settings")
	if cfg.Gas != nil {
		fmt.Fprintf(&b, "gas = %d\n", *cfg.Gas)
	} else {
		fmt.Fprintf(&b, "# gas = %d\n", DefaultGas)
	}
	writeString(&b, "gas_price", cfg.GasPrice, "0.025")

	return b.String()
}
