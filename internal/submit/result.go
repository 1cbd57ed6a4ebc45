// internal/submit/result.go
package submit

import (
	"github.com/altuslabsxyz/blob-poster/pkg/network"
	"github.com/altuslabsxyz/blob-poster/pkg/network/cosmos"
)

// Phase is a step of the submission state machine.
type Phase string

const (
	PhaseIdle              Phase = "idle"
	PhasePreparing         Phase = "preparing"
	PhaseAwaitingSignature Phase = "awaiting_signature"
	PhaseBroadcasting      Phase = "broadcasting"
	PhaseSucceeded         Phase = "succeeded"
	PhaseFailed            Phase = "failed"
)

// Phases lists the non-terminal phases in order followed by the terminal ones.
var Phases = []Phase{PhasePreparing, PhaseAwaitingSignature, PhaseBroadcasting, PhaseSucceeded, PhaseFailed}

// Terminal reports whether p ends a submission.
func (p Phase) Terminal() bool {
	return p == PhaseSucceeded || p == PhaseFailed
}

// Title returns a display name for p.
func (p Phase) Title() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhasePreparing:
		return "Preparing"
	case PhaseAwaitingSignature:
		return "Awaiting signature"
	case PhaseBroadcasting:
		return "Broadcasting"
	case PhaseSucceeded:
		return "Succeeded"
	case PhaseFailed:
		return "Failed"
	}
	return string(p)
}

// Request holds the user's form input. Empty Gas and GasPrice select the
// defaults.
type Request struct {
	Namespace string `json:"namespace"`
	Data      string `json:"data"`
	Gas       string `json:"gas,omitempty"`
	GasPrice  string `json:"gas_price,omitempty"`
}

// Result describes one submission, including degraded and failed runs.
type Result struct {
	ID            string `json:"id"`
	Phase         Phase  `json:"phase"`
	ChainID       string `json:"chain_id"`
	Address       string `json:"address,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	Sequence      string `json:"sequence,omitempty"`
	Gas           uint64 `json:"gas,omitempty"`
	GasPrice      string `json:"gas_price,omitempty"`
	Fee           string `json:"fee,omitempty"`
	Commitment    string `json:"commitment,omitempty"`
	BlobSize      uint32 `json:"blob_size,omitempty"`

	SignDoc   *cosmos.StdSignDoc         `json:"sign_doc,omitempty"`
	SignedTx  *cosmos.StdTx              `json:"signed_tx,omitempty"`
	Broadcast *network.TxBroadcastResult `json:"broadcast,omitempty"`

	// Output is the text shown in the result region.
	Output string `json:"output,omitempty"`

	// Degraded lists tolerated failures, such as the account lookup.
	Degraded     []error `json:"-"`
	BroadcastErr error   `json:"-"`
	Err          error   `json:"-"`

	DegradedMessages []string `json:"degraded,omitempty"`
	BroadcastError   string   `json:"broadcast_error,omitempty"`
	Error            string   `json:"error,omitempty"`
}

// IsDegraded reports whether the run tolerated any failure.
func (r *Result) IsDegraded() bool {
	return len(r.Degraded) > 0
}

func (r *Result) addDegraded(err error) {
	r.Degraded = append(r.Degraded, err)
	r.DegradedMessages = append(r.DegradedMessages, err.Error())
}

func (r *Result) setBroadcastErr(err error) {
	r.BroadcastErr = err
	r.BroadcastError = err.Error()
}

func (r *Result) setErr(err error) {
	r.Err = err
	r.Error = err.Error()
}
