package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/blob-poster/internal/paths"
	"github.com/altuslabsxyz/blob-poster/pkg/network"
	"github.com/altuslabsxyz/blob-poster/pkg/network/cosmos"
)

// probeTimeout bounds the RPC query made by chains probe.
const probeTimeout = 10 * time.Second

func (a *app) newChainsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "chains",
		Short:   "Inspect the networks blob-poster can submit to",
		GroupID: GroupAdvanced,
		Long: `Inspect the networks blob-poster can submit to.

Built-in networks are mocha and celestia. YAML descriptors placed in
<home>/chains are registered at startup, and --chain-file selects a
descriptor for a single run.`,
	}

	cmd.AddCommand(
		a.newChainsListCmd(),
		a.newChainsShowCmd(),
		a.newChainsProbeCmd(),
	)
	return cmd
}

func (a *app) newChainsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered networks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			chains := network.ListDescriptors()
			if a.cfg.JSON.Value {
				return a.out.PrintJSON(chains)
			}

			tw := tabwriter.NewWriter(a.out.Writer(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tCHAIN ID\tCHAIN NAME\tREST")
			fmt.Fprintln(tw, "----\t--------\t----------\t----")
			for _, c := range chains {
				name := c.Name
				if name == a.cfg.Network.Value {
					name += " *"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", name, c.ChainID, c.ChainName, c.REST)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			a.out.Println("")
			a.out.Println("* selected network. Custom descriptors: %s", paths.ChainsPath(a.cfg.Home.Value))
			return nil
		},
	}
}

func (a *app) newChainsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [NAME]",
		Short: "Print a chain descriptor",
		Long: `Print a chain descriptor in the chain file format.

Without NAME the selected chain is shown, including --rpc and --rest
overrides. The output can be saved to <home>/chains and edited.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				chain network.ChainDescriptor
				err   error
			)
			if len(args) == 1 {
				chain, err = network.Get(args[0])
			} else {
				chain, err = a.resolveChain()
			}
			if err != nil {
				return err
			}

			if a.cfg.JSON.Value {
				return a.out.PrintJSON(chain)
			}
			data, err := network.MarshalDescriptor(chain)
			if err != nil {
				return err
			}
			a.out.Print("%s", data)
			return nil
		},
	}
}

func (a *app) newChainsProbeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Check that the selected chain's RPC endpoint is up and on the right chain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			chain, err := a.resolveChain()
			if err != nil {
				return err
			}

			client, err := cosmos.NewRPCClient(chain.RPC, nil)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), probeTimeout)
			defer cancel()
			info, err := client.Probe(ctx)
			if err != nil {
				return fmt.Errorf("failed to probe %s: %w", chain.RPC, err)
			}

			if a.cfg.JSON.Value {
				if err := a.out.PrintJSON(info); err != nil {
					return err
				}
			} else {
				a.out.Success("%s is reachable", chain.RPC)
				a.out.Println("Chain ID:    %s", info.ChainID)
				a.out.Println("Application: %s %s (protocol %d)", info.AppName, info.AppVersion, info.AppProtocol)
				a.out.Println("Node:        %s %s", info.Moniker, info.NodeVersion)
				a.out.Println("Height:      %d", info.LatestHeight)
				if info.CatchingUp {
					a.out.Warn("The node is still catching up")
				}
			}

			if !info.Serves(chain) {
				return fmt.Errorf("%s serves chain %q, expected %q", chain.RPC, info.ChainID, chain.ChainID)
			}
			return nil
		},
	}
}
