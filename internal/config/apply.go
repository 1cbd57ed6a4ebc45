package config

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// apply picks the value of one setting from its flag and its config.toml
// entry. The flag's current value doubles as the default, so it only wins
// over the file when it was set explicitly.
func apply[T any](cmd *cobra.Command, flag string, flagValue T, file *T) Value[T] {
	switch {
	case cmd.Flags().Changed(flag):
		return Value[T]{Value: flagValue, Source: SourceFlag}
	case file != nil:
		return Value[T]{Value: *file, Source: SourceConfigFile}
	default:
		return Default(flagValue)
	}
}

// applyDuration is apply for durations, which config.toml stores as strings
// such as "30s".
func applyDuration(cmd *cobra.Command, flag string, flagValue time.Duration, file *string) (DurationValue, error) {
	if file == nil || cmd.Flags().Changed(flag) {
		return apply[time.Duration](cmd, flag, flagValue, nil), nil
	}
	d, err := time.ParseDuration(*file)
	if err != nil {
		return DurationValue{}, fmt.Errorf("invalid %s %q: %w", flag, *file, err)
	}
	return Value[time.Duration]{Value: d, Source: SourceConfigFile}, nil
}

// withEnv lets a set environment variable override everything but an
// explicit flag.
func withEnv[T any](v Value[T], env T, set bool) Value[T] {
	if !set || v.Source == SourceFlag {
		return v
	}
	return Value[T]{Value: env, Source: SourceEnvironment}
}
