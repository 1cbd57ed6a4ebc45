// internal/wallet/errors.go
package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for wallet operations.
var (
	// ErrWalletUnavailable is returned when no wallet provider can be found.
	ErrWalletUnavailable = errors.New("wallet provider not found")

	// ErrUserRejected is returned when the user declines a wallet request.
	ErrUserRejected = errors.New("request rejected by user")

	// ErrNoAccounts is returned when the signer exposes no accounts.
	ErrNoAccounts = errors.New("no accounts found in wallet")

	// ErrTimeout is returned when a wallet operation outlives its deadline.
	ErrTimeout = errors.New("wallet operation timed out")

	// ErrChainAlreadyRegistered is returned by providers on re-registration.
	ErrChainAlreadyRegistered = errors.New("chain already registered")

	// ErrUnknownChain is returned when a chain id was never suggested.
	ErrUnknownChain = errors.New("chain not registered with wallet")
)

// RejectedError records which request the user declined.
type RejectedError struct {
	Operation string // "enable" or "sign"
	ChainID   string
	Cause     error
}

// Error implements the error interface.
func (e *RejectedError) Error() string {
	if e.Cause != nil && !errors.Is(e.Cause, ErrUserRejected) {
		return fmt.Sprintf("%s request for %s rejected: %v", e.Operation, e.ChainID, e.Cause)
	}
	return fmt.Sprintf("%s request for %s rejected by user", e.Operation, e.ChainID)
}

// Is implements errors.Is for RejectedError.
func (e *RejectedError) Is(target error) bool {
	return target == ErrUserRejected
}

// Unwrap returns the underlying cause.
func (e *RejectedError) Unwrap() error {
	return e.Cause
}

// TimeoutError records which wait expired.
type TimeoutError struct {
	Operation string
	Timeout   time.Duration // zero when the deadline came from the caller
	Cause     error
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	if e.Timeout > 0 {
		return fmt.Sprintf("%s timed out after %s", e.Operation, e.Timeout)
	}
	return fmt.Sprintf("%s timed out", e.Operation)
}

// Is implements errors.Is for TimeoutError.
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// Unwrap returns the underlying cause.
func (e *TimeoutError) Unwrap() error {
	return e.Cause
}

// NewRejectedError wraps a provider error as a user rejection. Timeouts and
// cancelled contexts are returned unchanged.
func NewRejectedError(operation, chainID string, cause error) error {
	if errors.Is(cause, ErrTimeout) || errors.Is(cause, context.Canceled) {
		return cause
	}
	return &RejectedError{Operation: operation, ChainID: chainID, Cause: cause}
}

// ContextError converts a finished context into a wallet error. A deadline
// becomes a TimeoutError; cancellation is returned as is.
func ContextError(ctx context.Context, operation string, timeout time.Duration) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &TimeoutError{Operation: operation, Timeout: timeout, Cause: ctx.Err()}
	}
	return ctx.Err()
}
