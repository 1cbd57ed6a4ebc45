package main

import (
	"errors"
	"fmt"

	"github.com/altuslabsxyz/blob-poster/internal/interactive"
	"github.com/altuslabsxyz/blob-poster/internal/output"
	"github.com/altuslabsxyz/blob-poster/internal/submit"
	"github.com/altuslabsxyz/blob-poster/internal/wallet"
	"github.com/altuslabsxyz/blob-poster/pkg/network"
	"github.com/altuslabsxyz/blob-poster/pkg/network/cosmos"
)

// errorInfo maps a command error to the message and recovery hint shown to
// the user.
func errorInfo(err error) *output.ErrorInfo {
	info := &output.ErrorInfo{Message: err.Error(), Err: err}

	var rejected *cosmos.TxRejectedError
	if errors.As(err, &rejected) {
		if rejected.TxHash != "" {
			info.Details = append(info.Details, "Tx hash:   "+rejected.TxHash)
		}
		info.Details = append(info.Details,
			fmt.Sprintf("Code:      %d", rejected.Code),
			"Codespace: "+rejected.Codespace)
	}

	var input *cosmos.InputError
	switch {
	case errors.Is(err, submit.ErrBroadcastUnavailable):
		info.Title = "Not broadcast"
		info.Hint = "Submit the signed transaction above with the Celestia CLI or a server-side proxy."
	case errors.Is(err, cosmos.ErrTxRejected):
		info.Title = "Rejected by the chain"
		info.Hint = "Check the account balance and the gas settings (--gas, --gas-price)."
	case errors.As(err, &input):
		info.Title = "Invalid input"
		info.Hint = inputHint(input.Field)
	case errors.Is(err, wallet.ErrUserRejected):
		info.Title = "Request rejected"
		info.Hint = "Approve the request when prompted, or pass --yes to approve automatically."
	case errors.Is(err, wallet.ErrTimeout):
		info.Title = "Timed out"
		info.Hint = "Increase --wait-timeout or --sign-timeout."
	case errors.Is(err, wallet.ErrNoAccounts):
		info.Title = "No accounts"
		info.Hint = "Create a key with 'blob-poster keys add NAME' or recover one with --recover."
	case errors.Is(err, wallet.ErrWalletUnavailable):
		info.Title = "Wallet unavailable"
		info.Hint = "Check --keyring-backend and --keyring-dir."
	case errors.Is(err, network.ErrUnknownNetwork):
		info.Title = "Unknown network"
		info.Hint = "Run 'blob-poster chains list' or load a descriptor with --chain-file."
	case errors.Is(err, network.ErrInvalidDescriptor):
		info.Title = "Invalid chain descriptor"
		info.Hint = "Compare the file with 'blob-poster chains show mocha'."
	case errors.Is(err, submit.ErrSubmissionInProgress):
		info.Hint = "Wait for the running submission to finish."
	}
	return info
}

func inputHint(field string) string {
	switch field {
	case "namespace":
		return "--namespace must be non-empty base64."
	case "data":
		return "--data must be non-empty base64, or use --data-file."
	case "gas":
		return "--gas must be a positive integer."
	case "gas_price":
		return "--gas-price must be a non-negative decimal, e.g. 0.025."
	default:
		return ""
	}
}

// presentError prints err for the user. In JSON mode it is written as an
// object on stderr. Cancellations print a short notice instead.
func presentError(logger *output.Logger, err error) {
	if interactive.IsCancellation(err) {
		logger.Info("Operation cancelled.")
		return
	}

	info := errorInfo(err)
	if logger.IsJSONMode() {
		out := output.NewLoggerWithWriters(logger.ErrWriter(), logger.ErrWriter())
		_ = out.PrintJSON(map[string]string{
			"error": info.Message,
			"hint":  info.Hint,
		})
		return
	}
	logger.PrintErrorInfo(info)
}
