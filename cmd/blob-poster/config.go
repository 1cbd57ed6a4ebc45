package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/blob-poster/internal/config"
	"github.com/altuslabsxyz/blob-poster/internal/interactive"
	"github.com/altuslabsxyz/blob-poster/pkg/network"
)

func (a *app) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Manage the blob-poster configuration",
		GroupID: GroupAdvanced,
		Long: `Manage config.toml.

Values are resolved in the order default < config.toml < environment < flag.
config.toml is read from the home directory, then the working directory,
then the --config path, later files overriding earlier ones.`,
	}

	cmd.AddCommand(
		a.newConfigInitCmd(),
		a.newConfigShowCmd(),
	)
	return cmd
}

func (a *app) newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented config.toml to the home directory",
		Long: `Write a commented config.toml to the home directory.

The network is chosen interactively unless --network is given or no terminal
is attached. The keyring backend and key name are taken from the flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			writer := config.NewConfigWriter(a.cfg.Home.Value)
			if writer.Exists() && !force {
				return fmt.Errorf("config file already exists: %s (use --force to overwrite)", writer.Path())
			}

			name := a.cfg.Network.Value
			if !cmd.Flags().Changed("network") && !a.cfg.JSON.Value && a.stdinIsTerminal() {
				selected, err := interactive.SelectNetwork(network.ListDescriptors(), name)
				if err != nil {
					if interactive.IsCancellation(err) {
						a.out.Info("Operation cancelled.")
						return nil
					}
					return err
				}
				name = selected
			}
			if _, err := network.Get(name); err != nil {
				return err
			}

			backend := a.cfg.KeyringBackend.Value
			fileCfg := &config.FileConfig{
				Network:        &name,
				KeyringBackend: &backend,
			}
			if key := a.cfg.KeyName.Value; key != "" {
				fileCfg.KeyName = &key
			}

			if err := writer.Write(fileCfg); err != nil {
				return err
			}

			if a.cfg.JSON.Value {
				return a.out.PrintJSON(map[string]string{"path": writer.Path(), "network": name})
			}
			a.out.Success("Config written to %s", writer.Path())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config file")
	return cmd
}

func (a *app) newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration and where each value came from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.JSON.Value {
				return a.out.PrintJSON(a.cfg.ToMap())
			}

			if a.cfg.ConfigFilePath != "" {
				a.out.Bold("Config file: %s", a.cfg.ConfigFilePath)
			} else {
				a.out.Bold("Config file: (none)")
			}
			a.out.Println("")
			a.cfg.ToTable(a.out.Writer())
			return nil
		},
	}
}
