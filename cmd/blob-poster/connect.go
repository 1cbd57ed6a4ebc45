package main

import (
	"github.com/spf13/cobra"
)

// connectOutput is the JSON form of a connected session.
type connectOutput struct {
	Address           string `json:"address"`
	ChainID           string `json:"chain_id"`
	ChainName         string `json:"chain_name"`
	REST              string `json:"rest"`
	RegistrationError string `json:"registration_error,omitempty"`
}

func (a *app) newConnectCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "connect",
		Short:   "Connect the wallet to the selected chain",
		GroupID: GroupMain,
		Long: `Register the selected chain with the wallet, request access and print
the account that would sign blob submissions.

Examples:
  # Connect to the default network
  blob-poster connect

  # Connect to mainnet with a specific key
  blob-poster connect --network celestia --key alice`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			chain, err := a.resolveChain()
			if err != nil {
				return err
			}

			reporter, stop := a.statusReporter()
			defer stop()
			bridge, locator := a.newBridge(a.approver(), reporter)
			defer locator.Close()

			session, err := bridge.Connect(cmd.Context(), chain)
			stop()
			if err != nil {
				return err
			}

			if a.cfg.JSON.Value {
				out := connectOutput{
					Address:   session.Address,
					ChainID:   session.ChainID,
					ChainName: chain.ChainName,
					REST:      chain.REST,
				}
				if session.Degraded() {
					out.RegistrationError = session.RegistrationErr.Error()
				}
				return a.out.PrintJSON(out)
			}

			if session.Degraded() {
				a.out.Warn("Chain registration failed, continuing: %v", session.RegistrationErr)
			}
			a.out.Success("Connected to %s (%s)", chain.ChainName, chain.ChainID)
			a.out.Println("Address: %s", session.Address)
			a.out.Println("REST:    %s", chain.REST)
			return nil
		},
	}
}
