// Package submit runs one blob submission: prepare, account lookup, wallet
// signature and broadcast, reporting every transition.
package submit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"cosmossdk.io/log"
	sdkmath "cosmossdk.io/math"
	"github.com/google/uuid"

	"github.com/altuslabsxyz/blob-poster/internal/commitment"
	"github.com/altuslabsxyz/blob-poster/internal/output"
	"github.com/altuslabsxyz/blob-poster/internal/wallet"
	"github.com/altuslabsxyz/blob-poster/pkg/network"
	"github.com/altuslabsxyz/blob-poster/pkg/network/cosmos"
)

// ManualSubmissionHeader precedes the signed transaction when it could not
// be broadcast.
const ManualSubmissionHeader = "To submit this transaction, please use the Celestia CLI or a server-side proxy.\n\n" +
	"Signed transaction data (you can submit this using the CLI):\n\n"

// PhaseObserver is notified of every phase change.
type PhaseObserver func(id string, phase Phase)

// Orchestrator runs submissions one at a time.
type Orchestrator struct {
	calc        commitment.Calculator
	httpClient  *http.Client
	signTimeout time.Duration
	reporter    output.Reporter
	logger      log.Logger
	observer    PhaseObserver

	running sync.Mutex

	mu    sync.RWMutex
	phase Phase
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithCalculator sets the share commitment calculator.
func WithCalculator(c commitment.Calculator) Option {
	return func(o *Orchestrator) { o.calc = c }
}

// WithHTTPClient sets the client used for the account lookup.
func WithHTTPClient(c *http.Client) Option {
	return func(o *Orchestrator) {
		if c != nil {
			o.httpClient = c
		}
	}
}

// WithSignTimeout bounds the wait for the wallet signature.
func WithSignTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.signTimeout = d }
}

// WithReporter sets the status reporter for the transaction channel.
func WithReporter(r output.Reporter) Option {
	return func(o *Orchestrator) {
		if r != nil {
			o.reporter = r
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(l log.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithPhaseObserver registers a callback for phase changes.
func WithPhaseObserver(fn PhaseObserver) Option {
	return func(o *Orchestrator) { o.observer = fn }
}

// NewOrchestrator creates an idle Orchestrator.
func NewOrchestrator(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		calc:       commitment.Placeholder{},
		httpClient: &http.Client{Timeout: cosmos.DefaultHTTPTimeout},
		reporter:   output.Discard,
		logger:     log.NewNopLogger(),
		phase:      PhaseIdle,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = o.logger.With("module", "submit")
	return o
}

// Phase returns the phase of the current or most recent submission.
func (o *Orchestrator) Phase() Phase {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.phase
}

// Busy reports whether a submission is running.
func (o *Orchestrator) Busy() bool {
	p := o.Phase()
	return p != PhaseIdle && !p.Terminal()
}

// Submit runs one submission for session. The returned Result is non-nil
// for every run that started, including failed ones; the error is the
// reason a run ended in PhaseFailed.
func (o *Orchestrator) Submit(ctx context.Context, session *wallet.Session, req Request) (*Result, error) {
	if !o.running.TryLock() {
		return nil, ErrSubmissionInProgress
	}
	defer o.running.Unlock()

	res := &Result{ID: uuid.NewString()}
	r := &run{o: o, res: res, logger: o.logger.With("submission", res.ID)}
	return r.execute(ctx, session, req)
}

// run holds the state of a single submission.
type run struct {
	o      *Orchestrator
	res    *Result
	logger log.Logger
}

func (r *run) execute(ctx context.Context, session *wallet.Session, req Request) (*Result, error) {
	r.transition(PhasePreparing, output.SeverityInfo, "Preparing blob submission...")

	if session == nil || session.Address == "" {
		return r.fail(fmt.Errorf("%w: connect a wallet before submitting", wallet.ErrWalletUnavailable))
	}
	r.res.ChainID = session.ChainID
	r.res.Address = session.Address

	builder, err := cosmos.NewTxBuilder(session.Chain, r.o.calc)
	if err != nil {
		return r.fail(err)
	}
	gas, gasPrice, err := resolveGas(req, session.Chain)
	if err != nil {
		return r.fail(err)
	}
	sub, err := builder.Prepare(req.Namespace, req.Data, gas, gasPrice)
	if err != nil {
		return r.fail(err)
	}
	r.res.Gas = sub.Gas
	r.res.GasPrice = sub.GasPrice.String()
	r.res.Fee = sub.Fee.String()
	r.res.Commitment = sub.Commitment.Base64()
	r.res.BlobSize = sub.BlobSize
	r.logger.Debug("submission prepared", "blob_size", sub.BlobSize, "fee", r.res.Fee, "commitment", sub.Commitment.String())

	accountNumber, sequence := r.lookupAccount(ctx, session)
	r.res.AccountNumber = accountNumber
	r.res.Sequence = sequence

	doc, err := builder.SignDoc(sub, session.Address, accountNumber, sequence)
	if err != nil {
		return r.fail(err)
	}
	r.res.SignDoc = doc

	r.o.reporter.Report(output.ChannelTransaction, output.SeverityInfo, "Preparing to sign with wallet...")
	r.transition(PhaseAwaitingSignature, output.SeverityInfo, "Please approve the transaction in your wallet...")

	signed, err := r.sign(ctx, session, doc)
	if err != nil {
		return r.fail(err)
	}
	tx, err := cosmos.NewStdTx(signed)
	if err != nil {
		return r.fail(fmt.Errorf("invalid sign response: %w", err))
	}
	r.res.SignedTx = tx

	chainName := session.Chain.ChainName
	if chainName == "" {
		chainName = session.ChainID
	}
	r.transition(PhaseBroadcasting, output.SeverityInfo, fmt.Sprintf("Broadcasting transaction to %s...", chainName))

	if broadcaster, ok := session.Broadcaster(); ok {
		if res, done := r.broadcast(ctx, broadcaster, session.ChainID, tx); done {
			return res, nil
		}
	}

	return r.unavailable(tx)
}

// lookupAccount returns the account number and sequence, or "0"/"0" with a
// recorded degradation when the lookup fails.
func (r *run) lookupAccount(ctx context.Context, session *wallet.Session) (string, string) {
	info, err := r.queryAccount(ctx, session)
	if err != nil {
		degraded := &NetworkDegradedError{Address: session.Address, Cause: err}
		r.res.addDegraded(degraded)
		r.logger.Warn("account lookup failed, continuing with defaults", "address", session.Address, "error", err)
		r.o.reporter.Report(output.ChannelTransaction, output.SeverityInfo,
			"Account lookup failed; continuing with account number 0 and sequence 0")
		return "0", "0"
	}

	accountNumber := strconv.FormatUint(info.AccountNumber, 10)
	sequence := strconv.FormatUint(info.Sequence, 10)
	r.logger.Debug("account loaded", "address", session.Address, "account_number", accountNumber, "sequence", sequence)
	return accountNumber, sequence
}

func (r *run) queryAccount(ctx context.Context, session *wallet.Session) (*cosmos.AccountInfo, error) {
	client, err := cosmos.NewRESTClient(session.Chain.REST, r.o.httpClient)
	if err != nil {
		return nil, err
	}
	return client.QueryAccount(ctx, session.Address)
}

func (r *run) sign(ctx context.Context, session *wallet.Session, doc *cosmos.StdSignDoc) (*cosmos.AminoSignResponse, error) {
	if session.Signer == nil {
		return nil, fmt.Errorf("%w: session has no signer", wallet.ErrWalletUnavailable)
	}

	signCtx := ctx
	if r.o.signTimeout > 0 {
		var cancel context.CancelFunc
		signCtx, cancel = context.WithTimeout(ctx, r.o.signTimeout)
		defer cancel()
	}

	resp, err := session.Signer.SignAmino(signCtx, session.Address, *doc)
	if err != nil {
		if signCtx.Err() != nil && !errors.Is(err, wallet.ErrUserRejected) {
			return nil, wallet.ContextError(signCtx, "signing", r.o.signTimeout)
		}
		return nil, err
	}
	if resp == nil {
		return nil, fmt.Errorf("wallet returned an empty sign response")
	}
	return resp, nil
}

// broadcast tries the wallet's broadcast capability. done is false when the
// attempt failed and the manual path should be taken.
func (r *run) broadcast(ctx context.Context, b wallet.Broadcaster, chainID string, tx *cosmos.StdTx) (*Result, bool) {
	r.o.reporter.Report(output.ChannelTransaction, output.SeverityInfo, "Broadcasting via wallet...")

	result, err := b.BroadcastTx(ctx, chainID, tx)
	if result == nil && err == nil {
		err = errNoBroadcastResult
	}
	if result != nil {
		r.res.Broadcast = result
	}
	if err != nil {
		r.res.setBroadcastErr(err)
		r.logger.Warn("wallet broadcast failed", "error", err)
		r.o.reporter.Report(output.ChannelTransaction, output.SeverityError, "Wallet broadcast error: "+err.Error())
		return nil, false
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err == nil {
		r.res.Output = string(data)
	}
	r.logger.Info("transaction broadcast", "txhash", result.TxHash)
	r.transition(PhaseSucceeded, output.SeveritySuccess, "Transaction broadcast successful!")
	return r.res, true
}

// unavailable ends the run with the signed transaction for manual submission.
func (r *run) unavailable(tx *cosmos.StdTx) (*Result, error) {
	txJSON, err := tx.JSON()
	if err != nil {
		return r.fail(err)
	}
	r.res.Output = ManualSubmissionText(txJSON)

	err = &BroadcastUnavailableError{Cause: r.res.BroadcastErr}
	r.res.setErr(err)
	r.transition(PhaseFailed, output.SeverityError, "Cannot broadcast the transaction directly; submit the signed transaction manually.")
	return r.res, err
}

func (r *run) fail(err error) (*Result, error) {
	r.res.setErr(err)
	r.logger.Debug("submission failed", "phase", r.o.Phase(), "error", err)
	r.transition(PhaseFailed, output.SeverityError, failureMessage(err))
	return r.res, err
}

func (r *run) transition(phase Phase, severity output.Severity, message string) {
	r.o.mu.Lock()
	prev := r.o.phase
	r.o.phase = phase
	r.o.mu.Unlock()

	r.res.Phase = phase
	r.logger.Debug("phase changed", "from", prev, "to", phase)
	r.o.reporter.Report(output.ChannelTransaction, severity, message)
	if r.o.observer != nil {
		r.o.observer(r.res.ID, phase)
	}
}

// ManualSubmissionText renders the instructions shown when broadcasting is
// not possible.
func ManualSubmissionText(txJSON string) string {
	return ManualSubmissionHeader + txJSON
}

func failureMessage(err error) string {
	switch {
	case errors.Is(err, wallet.ErrUserRejected), errors.Is(err, wallet.ErrTimeout):
		return "Transaction error: " + err.Error()
	default:
		return err.Error()
	}
}

// resolveGas parses the gas fields of req, applying defaults for empty
// values.
func resolveGas(req Request, chain network.ChainDescriptor) (uint64, sdkmath.LegacyDec, error) {
	gas := cosmos.DefaultGasLimit
	if s := strings.TrimSpace(req.Gas); s != "" {
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return 0, sdkmath.LegacyDec{}, &cosmos.InputError{Field: "gas", Kind: cosmos.ErrInvalidGas, Cause: err}
		}
		gas = v
	}

	if s := strings.TrimSpace(req.GasPrice); s != "" {
		price, err := cosmos.ParseGasPrice(s)
		if err != nil {
			return 0, sdkmath.LegacyDec{}, err
		}
		return gas, price, nil
	}

	price, err := chain.DefaultGasPrice()
	if err != nil {
		return 0, sdkmath.LegacyDec{}, &cosmos.InputError{Field: "gas_price", Kind: cosmos.ErrInvalidGasPrice, Cause: err}
	}
	return gas, price, nil
}
