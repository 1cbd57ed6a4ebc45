package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/altuslabsxyz/blob-poster/internal/wallet/keyring"
	"github.com/altuslabsxyz/blob-poster/pkg/network/cosmos"
)

// Validate validates the EffectiveConfig values against allowed ranges and types.
func (c *EffectiveConfig) Validate() error {
	if c.Home.Value == "" {
		return fmt.Errorf("home directory is required")
	}
	if err := validateLogLevel(c.LogLevel.Value); err != nil {
		return err
	}
	if c.Network.Value == "" && c.ChainFile.Value == "" {
		return fmt.Errorf("network is required (use --network or --chain-file)")
	}
	if err := keyring.ValidateBackend(c.KeyringBackend.Value); err != nil {
		return err
	}
	if c.WaitTimeout.Value < 0 {
		return fmt.Errorf("invalid wait_timeout: %s (must not be negative)", c.WaitTimeout.Value)
	}
	if c.SignTimeout.Value < 0 {
		return fmt.Errorf("invalid sign_timeout: %s (must not be negative)", c.SignTimeout.Value)
	}
	if c.Gas.Value == 0 {
		return fmt.Errorf("invalid gas: 0 (must be a positive integer)")
	}
	if c.GasPrice.Value != "" {
		if _, err := cosmos.ParseGasPrice(c.GasPrice.Value); err != nil {
			return err
		}
	}
	return nil
}

// ValidateFileConfig validates the FileConfig values before merging.
// This is called when loading the config file to provide early error messages.
func ValidateFileConfig(cfg *FileConfig) error {
	if cfg == nil {
		return nil
	}

	if cfg.LogLevel != nil {
		if err := validateLogLevel(*cfg.LogLevel); err != nil {
			return fmt.Errorf("%w in config file", err)
		}
	}

	if cfg.KeyringBackend != nil {
		if err := keyring.ValidateBackend(*cfg.KeyringBackend); err != nil {
			return fmt.Errorf("%w in config file", err)
		}
	}

	if cfg.WaitTimeout != nil {
		if err := validateDuration("wait_timeout", *cfg.WaitTimeout); err != nil {
			return err
		}
	}
	if cfg.SignTimeout != nil {
		if err := validateDuration("sign_timeout", *cfg.SignTimeout); err != nil {
			return err
		}
	}

	if cfg.Gas != nil && *cfg.Gas == 0 {
		return fmt.Errorf("invalid gas in config file: 0 (must be a positive integer)")
	}

	if cfg.GasPrice != nil {
		if _, err := cosmos.ParseGasPrice(*cfg.GasPrice); err != nil {
			return fmt.Errorf("invalid gas_price in config file: %w", err)
		}
	}

	return nil
}

func validateLogLevel(level string) error {
	for _, l := range LogLevels {
		if l == level {
			return nil
		}
	}
	return fmt.Errorf("invalid log level: %s (must be one of %s)", level, strings.Join(LogLevels, ", "))
}

func validateDuration(key, value string) error {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid %s in config file: %q is not a duration", key, value)
	}
	if d < 0 {
		return fmt.Errorf("invalid %s in config file: %s (must not be negative)", key, value)
	}
	return nil
}
