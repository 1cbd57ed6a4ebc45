package interactive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/altuslabsxyz/blob-poster/internal/output"
	"github.com/altuslabsxyz/blob-poster/internal/wallet"
	"github.com/altuslabsxyz/blob-poster/internal/wallet/keyring"
)

// NonInteractiveReason is the rejection reason used when no terminal is attached.
const NonInteractiveReason = "no interactive terminal to approve the request (use --yes to auto-approve)"

// PromptApprover asks for wallet approvals on the terminal.
type PromptApprover struct {
	out        io.Writer
	isTerminal func() bool
	confirm    func(label string) (bool, error)

	mu sync.Mutex
}

// NewPromptApprover creates an approver that prompts on stdin/stdout.
func NewPromptApprover() *PromptApprover {
	return &PromptApprover{
		out:        os.Stdout,
		isTerminal: StdinIsTerminal,
		confirm: func(label string) (bool, error) {
			return Confirm(label, false)
		},
	}
}

// StdinIsTerminal reports whether stdin is attached to a terminal.
func StdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// ApproveEnable implements keyring.Approver.
func (a *PromptApprover) ApproveEnable(ctx context.Context, req keyring.EnableRequest) error {
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\n", color.New(color.Bold).Sprint("Connection request"))
	fmt.Fprintf(&b, "  Chain:    %s (%s)\n", req.Chain.ChainName, req.Chain.ChainID)
	fmt.Fprintf(&b, "  REST:     %s\n", req.Chain.REST)
	if len(req.Accounts) == 0 {
		fmt.Fprintf(&b, "  Accounts: none\n")
	}
	for i, addr := range req.Accounts {
		label := "          "
		if i == 0 {
			label = "Accounts: "
		}
		fmt.Fprintf(&b, "  %s%s\n", label, addr)
	}

	return a.ask(ctx, b.String(), fmt.Sprintf("Allow access to %s", req.Chain.ChainID))
}

// ApproveSign implements keyring.Approver.
func (a *PromptApprover) ApproveSign(ctx context.Context, req keyring.SignRequest) error {
	doc, err := json.MarshalIndent(req.Doc, "  ", "  ")
	if err != nil {
		return fmt.Errorf("failed to render sign doc: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\n", color.New(color.Bold).Sprint("Signature request"))
	fmt.Fprintf(&b, "  Signer:   %s (%s)\n", req.Signer, req.KeyName)
	fmt.Fprintf(&b, "  Chain:    %s\n", req.ChainID)
	for _, c := range req.Doc.Fee.Amount {
		fmt.Fprintf(&b, "  Fee:      %s%s (gas %s)\n", c.Amount, c.Denom, req.Doc.Fee.Gas)
	}
	fmt.Fprintf(&b, "%s\n  %s\n%s\n", output.CyanSeparator(), string(doc), output.CyanSeparator())

	return a.ask(ctx, b.String(), "Sign this transaction")
}

// ask prints details and waits for a confirmation or for ctx to end.
// Prompts are serialized; a rejected or interrupted prompt is a rejection.
func (a *PromptApprover) ask(ctx context.Context, details, label string) error {
	if !a.isTerminal() {
		return fmt.Errorf("%w: %s", wallet.ErrUserRejected, NonInteractiveReason)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	fmt.Fprint(a.out, details)

	type answer struct {
		ok  bool
		err error
	}
	done := make(chan answer, 1)
	go func() {
		ok, err := a.confirm(label)
		done <- answer{ok: ok, err: err}
	}()

	select {
	case <-ctx.Done():
		return wallet.ContextError(ctx, "approval", 0)
	case ans := <-done:
		if ans.err != nil {
			if IsCancellation(ans.err) {
				return fmt.Errorf("%w: %v", wallet.ErrUserRejected, ans.err)
			}
			return fmt.Errorf("approval prompt failed: %w", ans.err)
		}
		if !ans.ok {
			return wallet.ErrUserRejected
		}
		return nil
	}
}

var _ keyring.Approver = (*PromptApprover)(nil)
