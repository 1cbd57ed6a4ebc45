// pkg/network/cosmos/errors.go
package cosmos

import (
	"errors"
	"fmt"
)

// Sentinel errors for building and submitting blob transactions.
var (
	// ErrMissingField is returned when a required input is empty.
	ErrMissingField = errors.New("missing field")

	// ErrInvalidEncoding is returned when an input is not valid base64.
	ErrInvalidEncoding = errors.New("invalid encoding")

	// ErrInvalidGas is returned when the gas limit is zero or out of range.
	ErrInvalidGas = errors.New("invalid gas limit")

	// ErrInvalidGasPrice is returned when the gas price cannot be parsed or is negative.
	ErrInvalidGasPrice = errors.New("invalid gas price")

	// ErrAccountNotFound is returned when the chain has no record of an address.
	ErrAccountNotFound = errors.New("account not found")

	// ErrTxRejected is returned when a node accepts the request but rejects the tx.
	ErrTxRejected = errors.New("transaction rejected")
)

// InputError describes an invalid submission input.
type InputError struct {
	Field string
	Kind  error
	Cause error
}

// Error implements the error interface.
func (e *InputError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Field, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Field)
}

// Is implements errors.Is, matching the Kind sentinel.
func (e *InputError) Is(target error) bool {
	return target == e.Kind
}

// Unwrap returns the underlying cause.
func (e *InputError) Unwrap() error {
	return e.Cause
}

// TxRejectedError carries the node's rejection details.
type TxRejectedError struct {
	TxHash    string
	Code      uint32
	Codespace string
	Log       string
}

// Error implements the error interface.
func (e *TxRejectedError) Error() string {
	return fmt.Sprintf("transaction %s rejected with code %d (%s): %s", e.TxHash, e.Code, e.Codespace, e.Log)
}

// Is implements errors.Is for TxRejectedError.
func (e *TxRejectedError) Is(target error) bool {
	return target == ErrTxRejected
}

// Unwrap returns the underlying error for errors.Unwrap.
func (e *TxRejectedError) Unwrap() error {
	return ErrTxRejected
}
