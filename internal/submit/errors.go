// internal/submit/errors.go
package submit

import (
	"errors"
	"fmt"
)

// Sentinel errors for the submission flow.
var errNoBroadcastResult = errors.New("wallet returned no broadcast result")

var (
	// ErrNetworkDegraded marks a run that continued after the account lookup failed.
	ErrNetworkDegraded = errors.New("network degraded")

	// ErrBroadcastUnavailable is the terminal outcome when no broadcast path
	// succeeded. The signed transaction is still returned.
	ErrBroadcastUnavailable = errors.New("broadcast unavailable")

	// ErrSubmissionInProgress is returned when Submit is called while another
	// submission is running.
	ErrSubmissionInProgress = errors.New("a submission is already in progress")
)

// NetworkDegradedError records an account lookup failure.
type NetworkDegradedError struct {
	Address string
	Cause   error
}

// Error implements the error interface.
func (e *NetworkDegradedError) Error() string {
	return fmt.Sprintf("account lookup for %s failed, using account number 0 and sequence 0: %v", e.Address, e.Cause)
}

// Is implements errors.Is for NetworkDegradedError.
func (e *NetworkDegradedError) Is(target error) bool {
	return target == ErrNetworkDegraded
}

// Unwrap returns the lookup error.
func (e *NetworkDegradedError) Unwrap() error {
	return e.Cause
}

// BroadcastUnavailableError is returned when the transaction was signed but
// could not be broadcast. Cause is the failed broadcast attempt, if any.
type BroadcastUnavailableError struct {
	Cause error
}

// Error implements the error interface.
func (e *BroadcastUnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cannot broadcast transaction: %v", e.Cause)
	}
	return "cannot broadcast transaction: wallet has no broadcast capability"
}

// Is implements errors.Is for BroadcastUnavailableError.
func (e *BroadcastUnavailableError) Is(target error) bool {
	return target == ErrBroadcastUnavailable
}

// Unwrap returns the broadcast error.
func (e *BroadcastUnavailableError) Unwrap() error {
	return e.Cause
}
