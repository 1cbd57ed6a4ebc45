// internal/wallet/keyring/approver.go
package keyring

import (
	"context"
	"fmt"

	"github.com/altuslabsxyz/blob-poster/internal/wallet"
	"github.com/altuslabsxyz/blob-poster/pkg/network"
	"github.com/altuslabsxyz/blob-poster/pkg/network/cosmos"
)

// EnableRequest asks the user to grant a chain access to their accounts.
type EnableRequest struct {
	Chain    network.ChainDescriptor
	Accounts []string
}

// SignRequest asks the user to approve a sign doc.
type SignRequest struct {
	ChainID string
	Signer  string
	KeyName string
	Doc     cosmos.StdSignDoc
}

// Approver stands in for the wallet's confirmation popups. A nil error
// approves; any error rejects.
type Approver interface {
	ApproveEnable(ctx context.Context, req EnableRequest) error
	ApproveSign(ctx context.Context, req SignRequest) error
}

// AutoApprover approves every request.
type AutoApprover struct{}

// ApproveEnable implements Approver.
func (AutoApprover) ApproveEnable(context.Context, EnableRequest) error { return nil }

// ApproveSign implements Approver.
func (AutoApprover) ApproveSign(context.Context, SignRequest) error { return nil }

// RejectApprover rejects every request with Reason.
type RejectApprover struct {
	Reason string
}

// ApproveEnable implements Approver.
func (r RejectApprover) ApproveEnable(context.Context, EnableRequest) error { return r.err() }

// ApproveSign implements Approver.
func (r RejectApprover) ApproveSign(context.Context, SignRequest) error { return r.err() }

func (r RejectApprover) err() error {
	if r.Reason == "" {
		return wallet.ErrUserRejected
	}
	return fmt.Errorf("%w: %s", wallet.ErrUserRejected, r.Reason)
}

// ApproverFuncs builds an Approver from two functions. A nil function approves.
type ApproverFuncs struct {
	Enable func(ctx context.Context, req EnableRequest) error
	Sign   func(ctx context.Context, req SignRequest) error
}

// ApproveEnable implements Approver.
func (a ApproverFuncs) ApproveEnable(ctx context.Context, req EnableRequest) error {
	if a.Enable == nil {
		return nil
	}
	return a.Enable(ctx, req)
}

// ApproveSign implements Approver.
func (a ApproverFuncs) ApproveSign(ctx context.Context, req SignRequest) error {
	if a.Sign == nil {
		return nil
	}
	return a.Sign(ctx, req)
}

var (
	_ Approver = AutoApprover{}
	_ Approver = RejectApprover{}
	_ Approver = ApproverFuncs{}
)
