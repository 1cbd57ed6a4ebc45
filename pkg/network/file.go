package network

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadDescriptorFile reads a chain descriptor from a YAML file.
// A file without a name gets the chain id as its name.
func LoadDescriptorFile(path string) (ChainDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ChainDescriptor{}, fmt.Errorf("failed to read chain file %s: %w", path, err)
	}
	d, err := ParseDescriptor(data)
	if err != nil {
		return ChainDescriptor{}, fmt.Errorf("chain file %s: %w", path, err)
	}
	return d, nil
}

// ParseDescriptor decodes and validates a YAML chain descriptor.
// Unknown keys are rejected so typos don't silently produce defaults.
func ParseDescriptor(data []byte) (ChainDescriptor, error) {
	var d ChainDescriptor
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		return ChainDescriptor{}, fmt.Errorf("failed to parse chain descriptor: %w", err)
	}
	if d.Name == "" {
		d.Name = d.ChainID
	}
	if err := d.Validate(); err != nil {
		return ChainDescriptor{}, err
	}
	return d, nil
}

// MarshalDescriptor renders a descriptor in the chain file format.
func MarshalDescriptor(d ChainDescriptor) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("failed to encode chain descriptor: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
