package main

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/blob-poster/internal/submit"
)

func (a *app) newSubmitCmd() *cobra.Command {
	var (
		namespace string
		data      string
		dataFile  string
	)

	cmd := &cobra.Command{
		Use:     "submit",
		Short:   "Submit a blob as a MsgPayForBlobs transaction",
		GroupID: GroupMain,
		Long: `Connect the wallet, build a MsgPayForBlobs transaction for the blob,
ask the wallet to sign it and broadcast it through the chain's REST endpoint.

The namespace and data are base64 encoded. --data-file reads the raw payload
from a file instead. When the wallet cannot broadcast, the signed transaction
is printed for manual submission and the command exits non-zero.

Examples:
  # Submit "hello" with the default gas settings
  blob-poster submit --namespace AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA= --data aGVsbG8=

  # Submit a file with a custom gas limit, approving without prompts
  blob-poster submit --namespace AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA= \
    --data-file ./payload.bin --gas 400000 --yes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dataFile != "" {
				if cmd.Flags().Changed("data") {
					return fmt.Errorf("--data and --data-file are mutually exclusive")
				}
				raw, err := os.ReadFile(dataFile)
				if err != nil {
					return fmt.Errorf("failed to read data file: %w", err)
				}
				data = base64.StdEncoding.EncodeToString(raw)
			}

			chain, err := a.resolveChain()
			if err != nil {
				return err
			}

			reporter, stop := a.statusReporter()
			defer stop()
			bridge, locator := a.newBridge(a.approver(), reporter)
			defer locator.Close()

			ctx := cmd.Context()
			session, err := bridge.Connect(ctx, chain)
			if err != nil {
				stop()
				return err
			}

			orchestrator := submit.NewOrchestrator(
				submit.WithSignTimeout(a.cfg.SignTimeout.Value),
				submit.WithReporter(reporter),
				submit.WithLogger(a.logger),
			)
			res, err := orchestrator.Submit(ctx, session, submit.Request{
				Namespace: namespace,
				Data:      data,
				Gas:       strconv.FormatUint(a.cfg.Gas.Value, 10),
				GasPrice:  a.cfg.GasPrice.Value,
			})
			stop()
			return a.printResult(res, err)
		},
	}

	cmd.Flags().StringVar(&namespace, "namespace", "", "Base64 namespace (required)")
	cmd.Flags().StringVar(&data, "data", "", "Base64 blob payload")
	cmd.Flags().StringVar(&dataFile, "data-file", "", "Read the raw blob payload from a file")
	cmd.Flags().Uint64Var(&a.flags.Gas, "gas", a.flags.Gas, "Gas limit")
	cmd.Flags().StringVar(&a.flags.GasPrice, "gas-price", "", "Gas price in the fee denom (default: the chain's average)")
	_ = cmd.MarkFlagRequired("namespace")

	return cmd
}

// printResult prints a submission result and returns the run's error so the
// command exits non-zero on failure.
func (a *app) printResult(res *submit.Result, err error) error {
	if res == nil {
		return err
	}
	if a.cfg.JSON.Value {
		if perr := a.out.PrintJSON(res); perr != nil {
			return perr
		}
		return err
	}

	for _, d := range res.Degraded {
		a.out.Warn("%v", d)
	}

	switch {
	case errors.Is(err, submit.ErrBroadcastUnavailable):
		a.out.PrintBlock("Signed transaction", res.Output)
		return err
	case err != nil:
		return err
	}

	a.out.Success("Transaction broadcast successful!")
	a.out.Println("Address:    %s", res.Address)
	a.out.Println("Fee:        %s (gas %d)", res.Fee, res.Gas)
	a.out.Println("Commitment: %s", res.Commitment)
	if res.Broadcast != nil {
		a.out.Println("Tx hash:    %s", res.Broadcast.TxHash)
	}
	a.out.PrintBlock("Result", res.Output)
	return nil
}
