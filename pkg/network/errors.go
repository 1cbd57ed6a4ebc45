package network

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownNetwork    = errors.New("unknown network")
	ErrDuplicateNetwork  = errors.New("network already registered")
	ErrInvalidDescriptor = errors.New("invalid chain descriptor")
)

// UnknownNetworkError names the requested network and what is registered.
// It matches ErrUnknownNetwork.
type UnknownNetworkError struct {
	Name      string
	Available []string
}

func (e *UnknownNetworkError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("%v: %s", ErrUnknownNetwork, e.Name)
	}
	return fmt.Sprintf("%v: %s (known: %s)", ErrUnknownNetwork, e.Name, strings.Join(e.Available, ", "))
}

func (e *UnknownNetworkError) Unwrap() error { return ErrUnknownNetwork }

// DuplicateNetworkError matches ErrDuplicateNetwork.
type DuplicateNetworkError struct {
	Name string
}

func (e *DuplicateNetworkError) Error() string {
	return fmt.Sprintf("%v: %s", ErrDuplicateNetwork, e.Name)
}

func (e *DuplicateNetworkError) Unwrap() error { return ErrDuplicateNetwork }

// DescriptorValidationError reports the first invalid descriptor field.
// It matches ErrInvalidDescriptor.
type DescriptorValidationError struct {
	Chain  string
	Field  string
	Reason string
}

func (e *DescriptorValidationError) Error() string {
	if e.Chain == "" {
		return fmt.Sprintf("%v: %s %s", ErrInvalidDescriptor, e.Field, e.Reason)
	}
	return fmt.Sprintf("%v %q: %s %s", ErrInvalidDescriptor, e.Chain, e.Field, e.Reason)
}

func (e *DescriptorValidationError) Unwrap() error { return ErrInvalidDescriptor }
