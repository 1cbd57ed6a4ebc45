package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/blob-poster/internal/interactive"
	"github.com/altuslabsxyz/blob-poster/internal/wallet/keyring"
)

func (a *app) newKeysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "keys",
		Short:   "Manage the keys the wallet signs with",
		GroupID: GroupWallet,
		Long: `Manage keys in the local keyring that acts as the wallet.

Addresses are shown with the selected chain's bech32 prefix. Keys are derived
on the chain's BIP44 coin type.`,
	}

	cmd.AddCommand(
		a.newKeysAddCmd(),
		a.newKeysListCmd(),
	)
	return cmd
}

// addKeyOutput is the JSON form of a created key.
type addKeyOutput struct {
	keyring.KeyInfo
	Mnemonic string `json:"mnemonic,omitempty"`
}

func (a *app) newKeysAddCmd() *cobra.Command {
	var recoverKey bool

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Create a key or recover one from a mnemonic",
		Long: `Create a key or recover one from a mnemonic.

Without --recover a new 24-word mnemonic is generated and shown once.
With --recover the mnemonic is prompted for on a terminal, or read from
the first line of stdin otherwise.

Examples:
  # Create a new key
  blob-poster keys add alice

  # Recover a key from a mnemonic piped on stdin
  echo "$MNEMONIC" | blob-poster keys add bob --recover`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chain, err := a.resolveChain()
			if err != nil {
				return err
			}

			var mnemonic string
			if recoverKey {
				mnemonic, err = a.readMnemonic(cmd.InOrStdin())
				if err != nil {
					if interactive.IsCancellation(err) {
						a.out.Info("Operation cancelled.")
						return nil
					}
					return err
				}
			}

			kr, err := a.openKeyring()
			if err != nil {
				return err
			}
			info, generated, err := keyring.AddKey(kr, args[0], mnemonic, chain)
			if err != nil {
				return err
			}

			if a.cfg.JSON.Value {
				out := addKeyOutput{KeyInfo: *info}
				if !recoverKey {
					out.Mnemonic = generated
				}
				return a.out.PrintJSON(out)
			}

			a.out.Success("Key %q created", info.Name)
			a.out.Println("Address: %s", info.Address)
			a.out.Println("PubKey:  %s", info.PubKey)
			if !recoverKey {
				a.out.Println("")
				color.New(color.FgYellow).Fprintln(a.out.Writer(),
					"Mnemonic (save this - it will not be shown again):")
				a.out.Println("")
				a.out.Println("  %s", generated)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&recoverKey, "recover", false, "Recover the key from an existing mnemonic")
	return cmd
}

// readMnemonic prompts for a mnemonic on a terminal or reads one line from in.
func (a *app) readMnemonic(in io.Reader) (string, error) {
	if a.stdinIsTerminal() {
		return interactive.PromptMnemonic(func(s string) error {
			_, err := keyring.NormalizeMnemonic(s)
			return err
		})
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read mnemonic: %w", err)
	}
	mnemonic, err := keyring.NormalizeMnemonic(line)
	if err != nil {
		return "", err
	}
	return mnemonic, nil
}

func (a *app) newKeysListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List keys with their addresses on the selected chain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			chain, err := a.resolveChain()
			if err != nil {
				return err
			}
			kr, err := a.openKeyring()
			if err != nil {
				return err
			}
			keys, err := keyring.ListKeys(kr, chain)
			if err != nil {
				return err
			}

			if a.cfg.JSON.Value {
				return a.out.PrintJSON(keys)
			}
			if len(keys) == 0 {
				a.out.Info("No keys found. Create one with: blob-poster keys add NAME")
				return nil
			}

			tw := tabwriter.NewWriter(a.out.Writer(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tADDRESS")
			fmt.Fprintln(tw, strings.Repeat("-", 4)+"\t"+strings.Repeat("-", 7))
			for _, k := range keys {
				fmt.Fprintf(tw, "%s\t%s\n", k.Name, k.Address)
			}
			return tw.Flush()
		},
	}
}
