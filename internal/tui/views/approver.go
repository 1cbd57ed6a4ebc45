// internal/tui/views/approver.go
package views

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/altuslabsxyz/blob-poster/internal/wallet"
	"github.com/altuslabsxyz/blob-poster/internal/wallet/keyring"
)

// ApprovalPrompt is a pending wallet request shown as a dialog on the page.
type ApprovalPrompt struct {
	Title   string
	Details string
	reply   chan error
}

// Approve answers the prompt with an approval.
func (p *ApprovalPrompt) Approve() {
	p.answer(nil)
}

// Reject answers the prompt with a rejection.
func (p *ApprovalPrompt) Reject() {
	p.answer(fmt.Errorf("%w: declined in dialog", wallet.ErrUserRejected))
}

func (p *ApprovalPrompt) answer(err error) {
	select {
	case p.reply <- err:
	default:
	}
}

// approvalMsg delivers a prompt to the page.
type approvalMsg struct {
	prompt *ApprovalPrompt
}

// DialogApprover routes keyring approval requests to the page, which shows
// them as dialogs. A request waits until the page answers or ctx ends.
type DialogApprover struct {
	requests chan *ApprovalPrompt
}

// NewDialogApprover creates a DialogApprover.
func NewDialogApprover() *DialogApprover {
	return &DialogApprover{requests: make(chan *ApprovalPrompt)}
}

// ApproveEnable implements keyring.Approver.
func (a *DialogApprover) ApproveEnable(ctx context.Context, req keyring.EnableRequest) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Chain:    %s (%s)\n", req.Chain.ChainName, req.Chain.ChainID)
	fmt.Fprintf(&b, "REST:     %s\n", req.Chain.REST)
	if len(req.Accounts) == 0 {
		b.WriteString("Accounts: none")
	} else {
		fmt.Fprintf(&b, "Accounts: %s", strings.Join(req.Accounts, "\n          "))
	}
	return a.ask(ctx, "Connection request", b.String())
}

// ApproveSign implements keyring.Approver.
func (a *DialogApprover) ApproveSign(ctx context.Context, req keyring.SignRequest) error {
	doc, err := json.MarshalIndent(req.Doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to render sign doc: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Signer: %s (%s)\n", req.Signer, req.KeyName)
	fmt.Fprintf(&b, "Chain:  %s\n", req.ChainID)
	for _, c := range req.Doc.Fee.Amount {
		fmt.Fprintf(&b, "Fee:    %s%s (gas %s)\n", c.Amount, c.Denom, req.Doc.Fee.Gas)
	}
	b.WriteString("\n")
	b.Write(doc)
	return a.ask(ctx, "Signature request", b.String())
}

func (a *DialogApprover) ask(ctx context.Context, title, details string) error {
	p := &ApprovalPrompt{Title: title, Details: details, reply: make(chan error, 1)}

	select {
	case a.requests <- p:
	case <-ctx.Done():
		return wallet.ContextError(ctx, "approval", 0)
	}

	select {
	case err := <-p.reply:
		return err
	case <-ctx.Done():
		return wallet.ContextError(ctx, "approval", 0)
	}
}

// waitForPrompt returns a command that delivers the next prompt, or nil
// once ctx ends.
func (a *DialogApprover) waitForPrompt(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		select {
		case p := <-a.requests:
			return approvalMsg{prompt: p}
		case <-ctx.Done():
			return nil
		}
	}
}

var _ keyring.Approver = (*DialogApprover)(nil)
