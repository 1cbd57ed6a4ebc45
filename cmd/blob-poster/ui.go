package main

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/blob-poster/internal/output"
	"github.com/altuslabsxyz/blob-poster/internal/submit"
	"github.com/altuslabsxyz/blob-poster/internal/tui"
	"github.com/altuslabsxyz/blob-poster/internal/tui/views"
	"github.com/altuslabsxyz/blob-poster/internal/wallet/keyring"
)

func (a *app) newUICmd() *cobra.Command {
	var inline bool

	cmd := &cobra.Command{
		Use:     "ui",
		Short:   "Open the interactive blob submission page",
		GroupID: GroupMain,
		Long: `Open a terminal page with namespace, data, gas and gas price inputs,
connect and submit buttons, and live wallet and transaction status.

Wallet requests are shown as dialogs on the page unless --yes is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			chain, err := a.resolveChain()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			board := output.NewStatusBoard()
			var (
				approver keyring.Approver = keyring.AutoApprover{}
				dialogs  *views.DialogApprover
			)
			if !a.cfg.Yes.Value {
				dialogs = views.NewDialogApprover()
				approver = dialogs
			}

			bridge, locator := a.newBridge(approver, board)
			defer locator.Close()

			orchestrator := submit.NewOrchestrator(
				submit.WithSignTimeout(a.cfg.SignTimeout.Value),
				submit.WithReporter(board),
				submit.WithLogger(a.logger),
			)

			page := views.NewPageModel(ctx, views.PageConfig{
				Chain:     chain,
				Connector: bridge,
				Submitter: orchestrator,
				Board:     board,
				Approver:  dialogs,
				Defaults: submit.Request{
					Gas:      strconv.FormatUint(a.cfg.Gas.Value, 10),
					GasPrice: a.cfg.GasPrice.Value,
				},
			})

			if !tui.IsInteractive() {
				a.out.Warn("ui needs an interactive terminal; showing the page once")
				_, err := tui.RunSimple(cmd.OutOrStdout(), page)
				return err
			}

			run := tui.Run
			if inline {
				run = tui.RunInline
			}
			final, err := run(page)
			if err != nil {
				return err
			}

			if m, ok := final.(views.PageModel); ok {
				if res, _ := m.Result(); res != nil && res.Broadcast != nil {
					a.out.Success("Last transaction: %s", res.Broadcast.TxHash)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&inline, "inline", false, "Render inline instead of using the alternate screen")
	cmd.Flags().Uint64Var(&a.flags.Gas, "gas", a.flags.Gas, "Initial gas limit")
	cmd.Flags().StringVar(&a.flags.GasPrice, "gas-price", "", "Initial gas price (default: the chain's average)")

	return cmd
}
