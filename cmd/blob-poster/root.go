package main

import (
	"fmt"
	"io"
	"os"

	"cosmossdk.io/log"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/altuslabsxyz/blob-poster/internal/config"
	"github.com/altuslabsxyz/blob-poster/internal/interactive"
	"github.com/altuslabsxyz/blob-poster/internal/output"
	"github.com/altuslabsxyz/blob-poster/internal/paths"
	"github.com/altuslabsxyz/blob-poster/internal/version"
	"github.com/altuslabsxyz/blob-poster/pkg/network"
)

// Command group IDs for organized help output.
const (
	GroupMain     = "main"
	GroupWallet   = "wallet"
	GroupAdvanced = "advanced"
)

// app holds the flag bindings and the state resolved before a command runs.
type app struct {
	flags      config.Flags
	configPath string

	cfg    *config.EffectiveConfig
	out    *output.Logger
	logger log.Logger

	stdinIsTerminal func() bool
}

func newApp() *app {
	return &app{
		flags:  config.Flags{Gas: config.DefaultGas},
		out:    output.DefaultLogger,
		logger: log.NewNopLogger(),

		stdinIsTerminal: interactive.StdinIsTerminal,
	}
}

// NewRootCmd creates the root command with all subcommands registered.
func NewRootCmd() *cobra.Command {
	return newApp().rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blob-poster",
		Short: "Submit data blobs to Celestia with a local wallet",
		Long: `blob-poster submits data blobs to a Celestia network as MsgPayForBlobs
transactions signed by a local Cosmos SDK keyring.

The keyring plays the role of a wallet: it is asked to register the chain,
to grant access, and to approve every signature. When the wallet cannot
broadcast, the signed transaction is printed for manual submission.

Examples:
  # Create a key and connect it to the Mocha testnet
  blob-poster keys add alice
  blob-poster connect

  # Submit a blob (namespace and data are base64)
  blob-poster submit --namespace AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA= --data aGVsbG8=

  # Open the interactive page
  blob-poster ui`,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.persistentPreRunE,
	}

	// Global flags available on all commands
	pf := cmd.PersistentFlags()
	pf.StringVarP(&a.flags.Home, "home", "H", paths.DefaultHomeDir(),
		"Base directory for the keyring, chain store and config")
	pf.StringVar(&a.configPath, "config", "",
		"Path to config.toml file")
	pf.BoolVar(&a.flags.JSON, "json", false,
		"Output in JSON format")
	pf.BoolVar(&a.flags.NoColor, "no-color", false,
		"Disable colored output")
	pf.BoolVarP(&a.flags.Verbose, "verbose", "v", false,
		"Enable verbose logging")
	pf.StringVar(&a.flags.LogLevel, "log-level", config.DefaultLogLevel,
		"Structured log level (debug, info, warn, error)")
	pf.StringVarP(&a.flags.Network, "network", "n", network.DefaultNetworkName,
		"Network to use")
	pf.StringVar(&a.flags.ChainFile, "chain-file", "",
		"Load the chain descriptor from a YAML file instead of --network")
	pf.StringVar(&a.flags.REST, "rest", "",
		"Override the chain's REST endpoint")
	pf.StringVar(&a.flags.RPC, "rpc", "",
		"Override the chain's RPC endpoint")
	pf.StringVar(&a.flags.KeyringBackend, "keyring-backend", config.DefaultKeyringBackend,
		"Keyring backend (test, file, os, memory)")
	pf.StringVar(&a.flags.KeyringDir, "keyring-dir", "",
		"Keyring directory (default <home>/keyring)")
	pf.StringVar(&a.flags.KeyName, "key", "",
		"Key used as the wallet account (default: first key)")
	pf.BoolVarP(&a.flags.Yes, "yes", "y", false,
		"Approve wallet requests without prompting")
	pf.DurationVar(&a.flags.WaitTimeout, "wait-timeout", config.DefaultWaitTimeout,
		"How long to wait for the wallet provider")
	pf.DurationVar(&a.flags.SignTimeout, "sign-timeout", config.DefaultSignTimeout,
		"How long to wait for a signature approval")

	cmd.AddGroup(&cobra.Group{ID: GroupMain, Title: "Main Commands:"})
	cmd.AddGroup(&cobra.Group{ID: GroupWallet, Title: "Wallet Commands:"})
	cmd.AddGroup(&cobra.Group{ID: GroupAdvanced, Title: "Advanced Commands:"})

	cmd.AddCommand(
		a.newConnectCmd(),
		a.newSubmitCmd(),
		a.newUICmd(),
		a.newKeysCmd(),
		a.newChainsCmd(),
		a.newConfigCmd(),
		version.NewCmd("blob-poster", func() bool {
			return a.cfg != nil && a.cfg.JSON.Value
		}),
	)

	return cmd
}

// persistentPreRunE loads config.toml, resolves the effective configuration
// and sets up logging.
func (a *app) persistentPreRunE(cmd *cobra.Command, args []string) error {
	a.out.SetOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())

	// The home used to find config.toml honors the environment too.
	home := a.flags.Home
	if env := os.Getenv(config.EnvHome); env != "" && !cmd.Flags().Changed("home") {
		home = env
	}

	loader := config.NewConfigLoader(home, a.configPath, a.out)
	fileCfg, configFilePath, err := loader.LoadFileConfig()
	if err != nil {
		return err
	}

	// Priority: default < config.toml < env < flag
	cfg, err := config.Resolve(cmd, a.flags, fileCfg, os.Getenv)
	if err != nil {
		return err
	}
	cfg.ConfigFilePath = configFilePath
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	a.out.SetNoColor(cfg.NoColor.Value)
	a.out.SetVerbose(cfg.Verbose.Value)
	a.out.SetJSONMode(cfg.JSON.Value)

	if configFilePath != "" {
		a.out.Debug("Using config file: %s", configFilePath)
	}

	logger, err := newLogger(cmd.ErrOrStderr(), cfg)
	if err != nil {
		return err
	}
	a.logger = logger

	a.registerChainFiles()
	return nil
}

// newLogger builds the structured logger used by the wallet and submission
// flows. --verbose forces debug level.
func newLogger(w io.Writer, cfg *config.EffectiveConfig) (log.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.LogLevel.Value)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel.Value, err)
	}
	if cfg.Verbose.Value {
		level = zerolog.DebugLevel
	}

	opts := []log.Option{log.LevelOption(level), log.ColorOption(!cfg.NoColor.Value)}
	if cfg.JSON.Value {
		opts = append(opts, log.OutputJSONOption())
	}
	return log.NewLogger(w, opts...), nil
}

// statusReporter returns the reporter for status updates on stderr and a
// function that stops it. Terminals get a spinner for in-progress updates.
func (a *app) statusReporter() (output.Reporter, func()) {
	errOut := a.out.ErrWriter()
	if a.cfg.JSON.Value {
		return output.NewConsoleReporter(errOut, true), func() {}
	}

	lines := output.NewConsoleReporter(errOut, false)
	if !isTerminal(errOut) {
		return lines, func() {}
	}
	spinner := output.NewStatusSpinner(errOut, lines)
	return spinner, spinner.Stop
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
