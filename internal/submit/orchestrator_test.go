package submit_test

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altuslabsxyz/blob-poster/internal/commitment"
	"github.com/altuslabsxyz/blob-poster/internal/output"
	"github.com/altuslabsxyz/blob-poster/internal/submit"
	"github.com/altuslabsxyz/blob-poster/internal/wallet"
	"github.com/altuslabsxyz/blob-poster/internal/wallet/wallettest"
	"github.com/altuslabsxyz/blob-poster/pkg/network"
	"github.com/altuslabsxyz/blob-poster/pkg/network/cosmos"
)

func b64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func validRequest() submit.Request {
	return submit.Request{Namespace: b64("my-namespace"), Data: b64("hello celestia")}
}

// accountServer serves the account endpoint. A zero status returns the
// account with number 42 and sequence 7.
func accountServer(t *testing.T, status int) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if !strings.HasPrefix(r.URL.Path, "/cosmos/auth/v1beta1/accounts/") {
			http.NotFound(w, r)
			return
		}
		if status != 0 {
			w.WriteHeader(status)
			w.Write([]byte(`{"code": 13, "message": "internal"}`))
			return
		}
		w.Write([]byte(`{"account":{"@type":"/cosmos.auth.v1beta1.BaseAccount","account_number":"42","sequence":"7"}}`))
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func connect(t *testing.T, p wallet.Provider, rest string) *wallet.Session {
	t.Helper()
	chain := network.Mocha().WithEndpoints(rest, rest)
	sess, err := wallet.NewBridge(wallet.StaticLocator(p)).Connect(context.Background(), chain)
	require.NoError(t, err)
	return sess
}

type phaseRecorder struct {
	mu     sync.Mutex
	phases []submit.Phase
}

func (r *phaseRecorder) observe(_ string, p submit.Phase) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.phases = append(r.phases, p)
}

func (r *phaseRecorder) get() []submit.Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]submit.Phase(nil), r.phases...)
}

func TestSubmit_BroadcastSucceeds(t *testing.T) {
	server, _ := accountServer(t, 0)
	p := wallettest.NewBroadcastingProvider("celestia", &network.TxBroadcastResult{TxHash: "ABC123", Height: 10})
	sess := connect(t, p, server.URL)

	board := output.NewStatusBoard()
	rec := &phaseRecorder{}
	o := submit.NewOrchestrator(submit.WithReporter(board), submit.WithPhaseObserver(rec.observe))

	res, err := o.Submit(context.Background(), sess, validRequest())
	require.NoError(t, err)

	assert.Equal(t, submit.PhaseSucceeded, res.Phase)
	assert.Equal(t, submit.PhaseSucceeded, o.Phase())
	assert.False(t, o.Busy())
	assert.NotEmpty(t, res.ID)
	assert.Equal(t, "42", res.AccountNumber)
	assert.Equal(t, "7", res.Sequence)
	assert.Equal(t, "42", res.SignDoc.AccountNumber)
	assert.False(t, res.IsDegraded())
	assert.Equal(t, "ABC123", res.Broadcast.TxHash)
	assert.Contains(t, res.Output, `"txHash": "ABC123"`)

	assert.Equal(t, []submit.Phase{
		submit.PhasePreparing, submit.PhaseAwaitingSignature, submit.PhaseBroadcasting, submit.PhaseSucceeded,
	}, rec.get())

	st, ok := board.Latest(output.ChannelTransaction)
	require.True(t, ok)
	assert.Equal(t, output.SeveritySuccess, st.Severity)
	assert.Equal(t, "Transaction broadcast successful!", st.Message)

	// exactly one broadcast, carrying a signature over the sign doc
	txs := p.Broadcasts()
	require.Len(t, txs, 1)
	assert.Equal(t, uint64(7), txs[0].Sequence)
	sig, err := base64.StdEncoding.DecodeString(txs[0].Signatures[0].Signature)
	require.NoError(t, err)
	signBytes, err := res.SignDoc.SignBytes()
	require.NoError(t, err)
	assert.True(t, p.Signer.Key.PubKey().VerifySignature(signBytes, sig))
}

func TestSubmit_DefaultFee(t *testing.T) {
	server, _ := accountServer(t, 0)
	sess := connect(t, wallettest.NewBroadcastingProvider("celestia", &network.TxBroadcastResult{TxHash: "A"}), server.URL)

	res, err := submit.NewOrchestrator().Submit(context.Background(), sess, validRequest())
	require.NoError(t, err)
	assert.Equal(t, uint64(200000), res.Gas)
	assert.Equal(t, "5000000000utia", res.Fee)
	assert.Equal(t, []cosmos.Coin{{Denom: "utia", Amount: "5000000000"}}, res.SignDoc.Fee.Amount)
	assert.Equal(t, "200000", res.SignDoc.Fee.Gas)
	assert.Equal(t, cosmos.DefaultMemo, res.SignDoc.Memo)

	res, err = submit.NewOrchestrator().Submit(context.Background(), sess, submit.Request{
		Namespace: b64("ns"), Data: b64("d"), Gas: "100000", GasPrice: "0.1",
	})
	require.NoError(t, err)
	assert.Equal(t, "10000000000utia", res.Fee)
}

func TestSubmit_AccountLookupDegrades(t *testing.T) {
	for _, status := range []int{http.StatusInternalServerError, http.StatusNotFound} {
		server, calls := accountServer(t, status)
		p := wallettest.NewProvider("celestia")
		sess := connect(t, p, server.URL)
		board := output.NewStatusBoard()

		res, err := submit.NewOrchestrator(submit.WithReporter(board)).Submit(context.Background(), sess, validRequest())

		assert.Equal(t, int32(1), calls.Load(), "account lookup is attempted once")
		require.True(t, res.IsDegraded())
		assert.ErrorIs(t, res.Degraded[0], submit.ErrNetworkDegraded)
		assert.Equal(t, "0", res.SignDoc.AccountNumber)
		assert.Equal(t, "0", res.SignDoc.Sequence)
		assert.Equal(t, 1, p.Signer.SignCalls(), "flow continues to signing")

		// the plain provider cannot broadcast: terminal degraded outcome
		require.Error(t, err)
		assert.ErrorIs(t, err, submit.ErrBroadcastUnavailable)
		assert.Equal(t, submit.PhaseFailed, res.Phase)
		assert.NotNil(t, res.SignedTx)
		assert.NoError(t, res.BroadcastErr)
	}
}

func TestSubmit_ManualSubmissionOutput(t *testing.T) {
	server, _ := accountServer(t, 0)
	sess := connect(t, wallettest.NewProvider("celestia"), server.URL)
	board := output.NewStatusBoard()

	res, err := submit.NewOrchestrator(submit.WithReporter(board)).Submit(context.Background(), sess, validRequest())
	require.ErrorIs(t, err, submit.ErrBroadcastUnavailable)

	txJSON, jerr := res.SignedTx.JSON()
	require.NoError(t, jerr)
	assert.Equal(t, submit.ManualSubmissionHeader+txJSON, res.Output)
	assert.True(t, strings.HasPrefix(res.Output, "To submit this transaction, please use the Celestia CLI or a server-side proxy.\n\n"))
	assert.Contains(t, res.Output, `"signatures": [`)
	assert.Equal(t, err.Error(), res.Error)

	st, ok := board.Latest(output.ChannelTransaction)
	require.True(t, ok)
	assert.Equal(t, output.SeverityError, st.Severity)
}

func TestSubmit_BroadcastFailureFallsBack(t *testing.T) {
	server, _ := accountServer(t, 0)
	p := wallettest.NewBroadcastingProvider("celestia", nil)
	rejected := &cosmos.TxRejectedError{TxHash: "DEAD", Code: 13, Codespace: "sdk", Log: "insufficient fee"}
	p.Err = rejected
	sess := connect(t, p, server.URL)

	res, err := submit.NewOrchestrator().Submit(context.Background(), sess, validRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, submit.ErrBroadcastUnavailable)
	assert.ErrorIs(t, err, cosmos.ErrTxRejected)
	assert.ErrorIs(t, res.BroadcastErr, cosmos.ErrTxRejected)
	assert.Contains(t, res.BroadcastError, "insufficient fee")
	assert.Len(t, p.Broadcasts(), 1, "broadcast is attempted at most once")
	assert.True(t, strings.HasPrefix(res.Output, submit.ManualSubmissionHeader))
}

func TestSubmit_EmptyBroadcastResultFallsBack(t *testing.T) {
	server, _ := accountServer(t, 0)
	p := wallettest.NewBroadcastingProvider("celestia", nil)
	sess := connect(t, p, server.URL)

	res, err := submit.NewOrchestrator().Submit(context.Background(), sess, validRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, submit.ErrBroadcastUnavailable)
	assert.Equal(t, submit.PhaseFailed, res.Phase)
	assert.Nil(t, res.Broadcast)
	assert.Contains(t, res.BroadcastError, "no broadcast result")
	assert.Len(t, p.Broadcasts(), 1)
	assert.True(t, strings.HasPrefix(res.Output, submit.ManualSubmissionHeader))
}

func TestSubmit_UserRejected(t *testing.T) {
	server, _ := accountServer(t, 0)
	p := wallettest.NewBroadcastingProvider("celestia", &network.TxBroadcastResult{TxHash: "A"})
	p.Signer.SignErr = wallet.NewRejectedError("sign", "mocha-4", wallet.ErrUserRejected)
	sess := connect(t, p, server.URL)
	board := output.NewStatusBoard()
	o := submit.NewOrchestrator(submit.WithReporter(board))

	res, err := o.Submit(context.Background(), sess, validRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, wallet.ErrUserRejected)
	assert.Equal(t, submit.PhaseFailed, res.Phase)
	assert.Nil(t, res.SignedTx)
	assert.Empty(t, p.Broadcasts(), "no broadcast after rejection")

	st, _ := board.Latest(output.ChannelTransaction)
	assert.Equal(t, output.SeverityError, st.Severity)
	assert.True(t, strings.HasPrefix(st.Message, "Transaction error: "))

	// the submit control is available again
	assert.False(t, o.Busy())
	p.Signer.SignErr = nil
	res, err = o.Submit(context.Background(), sess, validRequest())
	require.NoError(t, err)
	assert.Equal(t, submit.PhaseSucceeded, res.Phase)
}

func TestSubmit_ValidationFailsBeforeIO(t *testing.T) {
	tests := []struct {
		name    string
		req     submit.Request
		wantErr error
	}{
		{"empty namespace", submit.Request{Namespace: "  ", Data: b64("d")}, cosmos.ErrMissingField},
		{"empty data", submit.Request{Namespace: b64("ns"), Data: ""}, cosmos.ErrMissingField},
		{"bad namespace encoding", submit.Request{Namespace: "not base64!", Data: b64("d")}, cosmos.ErrInvalidEncoding},
		{"zero gas", submit.Request{Namespace: b64("ns"), Data: b64("d"), Gas: "0"}, cosmos.ErrInvalidGas},
		{"non-numeric gas", submit.Request{Namespace: b64("ns"), Data: b64("d"), Gas: "lots"}, cosmos.ErrInvalidGas},
		{"negative gas price", submit.Request{Namespace: b64("ns"), Data: b64("d"), GasPrice: "-1"}, cosmos.ErrInvalidGasPrice},
		{"gas price out of range", submit.Request{Namespace: b64("ns"), Data: b64("d"), GasPrice: "1" + strings.Repeat("0", 70)}, cosmos.ErrInvalidGasPrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, calls := accountServer(t, 0)
			p := wallettest.NewBroadcastingProvider("celestia", &network.TxBroadcastResult{TxHash: "A"})
			sess := connect(t, p, server.URL)

			res, err := submit.NewOrchestrator().Submit(context.Background(), sess, tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, submit.PhaseFailed, res.Phase)
			assert.Zero(t, calls.Load())
			assert.Zero(t, p.Signer.SignCalls())
		})
	}
}

type failingCalculator struct{}

func (failingCalculator) Compute([]byte, []byte) (commitment.Commitment, error) {
	return commitment.Commitment{}, errors.New("no commitment")
}

func TestSubmit_CalculatorErrorAborts(t *testing.T) {
	server, calls := accountServer(t, 0)
	p := wallettest.NewProvider("celestia")
	sess := connect(t, p, server.URL)

	_, err := submit.NewOrchestrator(submit.WithCalculator(failingCalculator{})).
		Submit(context.Background(), sess, validRequest())
	assert.ErrorContains(t, err, "no commitment")
	assert.Zero(t, calls.Load())
	assert.Zero(t, p.Signer.SignCalls())
}

func TestSubmit_NoSession(t *testing.T) {
	res, err := submit.NewOrchestrator().Submit(context.Background(), nil, validRequest())
	assert.ErrorIs(t, err, wallet.ErrWalletUnavailable)
	assert.Equal(t, submit.PhaseFailed, res.Phase)
}

// blockingSigner waits for release or for the context to end.
type blockingSigner struct {
	*wallettest.Signer
	entered chan struct{}
	release chan struct{}
}

func (s *blockingSigner) SignAmino(ctx context.Context, addr string, doc cosmos.StdSignDoc) (*cosmos.AminoSignResponse, error) {
	close(s.entered)
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.release:
		return s.Signer.SignAmino(ctx, addr, doc)
	}
}

func blockingSession(t *testing.T, rest string) (*wallet.Session, *blockingSigner) {
	t.Helper()
	base := wallettest.NewSigner("celestia")
	signer := &blockingSigner{Signer: base, entered: make(chan struct{}), release: make(chan struct{})}
	return &wallet.Session{
		Address:  base.Address,
		ChainID:  "mocha-4",
		Chain:    network.Mocha().WithEndpoints(rest, rest),
		Signer:   signer,
		Provider: wallettest.NewProvider("celestia"),
	}, signer
}

func TestSubmit_SignTimeout(t *testing.T) {
	server, _ := accountServer(t, 0)
	sess, _ := blockingSession(t, server.URL)

	res, err := submit.NewOrchestrator(submit.WithSignTimeout(20*time.Millisecond)).
		Submit(context.Background(), sess, validRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, wallet.ErrTimeout)
	assert.Equal(t, submit.PhaseFailed, res.Phase)
}

func TestSubmit_InProgress(t *testing.T) {
	server, _ := accountServer(t, 0)
	sess, signer := blockingSession(t, server.URL)
	o := submit.NewOrchestrator()

	type outcome struct {
		res *submit.Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := o.Submit(context.Background(), sess, validRequest())
		done <- outcome{res, err}
	}()

	<-signer.entered
	assert.True(t, o.Busy())
	assert.Equal(t, submit.PhaseAwaitingSignature, o.Phase())

	res, err := o.Submit(context.Background(), sess, validRequest())
	assert.Nil(t, res)
	assert.ErrorIs(t, err, submit.ErrSubmissionInProgress)

	close(signer.release)
	first := <-done
	assert.ErrorIs(t, first.err, submit.ErrBroadcastUnavailable)
	assert.NotNil(t, first.res.SignedTx)
	assert.False(t, o.Busy())
}

func TestPhase(t *testing.T) {
	assert.True(t, submit.PhaseFailed.Terminal())
	assert.True(t, submit.PhaseSucceeded.Terminal())
	assert.False(t, submit.PhaseBroadcasting.Terminal())
	assert.Equal(t, "Awaiting signature", submit.PhaseAwaitingSignature.Title())
}
