package config

import "time"

// Source records which layer supplied a configuration value.
type Source string

const (
	SourceDefault     Source = "default"
	SourceConfigFile  Source = "config.toml"
	SourceEnvironment Source = "environment"
	SourceFlag        Source = "flag"
)

// Value is a resolved setting and the layer it came from.
type Value[T any] struct {
	Value  T
	Source Source
}

type (
	StringValue   = Value[string]
	Uint64Value   = Value[uint64]
	BoolValue     = Value[bool]
	DurationValue = Value[time.Duration]
)

// Default wraps a built-in default.
func Default[T any](v T) Value[T] {
	return Value[T]{Value: v, Source: SourceDefault}
}
