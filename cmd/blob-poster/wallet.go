package main

import (
	"fmt"

	sdkkeyring "github.com/cosmos/cosmos-sdk/crypto/keyring"

	"github.com/altuslabsxyz/blob-poster/internal/interactive"
	"github.com/altuslabsxyz/blob-poster/internal/output"
	"github.com/altuslabsxyz/blob-poster/internal/paths"
	"github.com/altuslabsxyz/blob-poster/internal/wallet"
	"github.com/altuslabsxyz/blob-poster/internal/wallet/keyring"
	"github.com/altuslabsxyz/blob-poster/pkg/network"
)

// resolveChain returns the chain selected by --chain-file or --network with
// the --rpc and --rest overrides applied.
func (a *app) resolveChain() (network.ChainDescriptor, error) {
	var (
		chain network.ChainDescriptor
		err   error
	)
	if path := a.cfg.ChainFile.Value; path != "" {
		chain, err = network.LoadDescriptorFile(path)
	} else {
		chain, err = network.Get(a.cfg.Network.Value)
	}
	if err != nil {
		return network.ChainDescriptor{}, err
	}

	chain = chain.WithEndpoints(a.cfg.RPC.Value, a.cfg.REST.Value)
	if err := chain.Validate(); err != nil {
		return network.ChainDescriptor{}, err
	}
	return chain, nil
}

// registerChainFiles adds the descriptors found in <home>/chains to the
// network registry. Broken files are skipped with a warning.
func (a *app) registerChainFiles() {
	files, err := paths.ChainFiles(a.cfg.Home.Value)
	if err != nil {
		a.out.Warn("Failed to read chains directory: %v", err)
		return
	}
	for _, file := range files {
		d, err := network.LoadDescriptorFile(file)
		if err != nil {
			a.out.Warn("Skipping chain file: %v", err)
			continue
		}
		if network.Has(d.Name) {
			a.out.Debug("Chain %s from %s is already registered", d.Name, file)
			continue
		}
		if err := network.Register(d); err != nil {
			a.out.Warn("Skipping chain file %s: %v", file, err)
			continue
		}
		a.out.Debug("Registered chain %s from %s", d.Name, file)
	}
}

// approver picks how wallet requests are approved: --yes approves all,
// a terminal prompts, anything else rejects.
func (a *app) approver() keyring.Approver {
	switch {
	case a.cfg.Yes.Value:
		return keyring.AutoApprover{}
	case a.stdinIsTerminal():
		return interactive.NewPromptApprover()
	default:
		return keyring.RejectApprover{Reason: interactive.NonInteractiveReason}
	}
}

func (a *app) openKeyring() (sdkkeyring.Keyring, error) {
	return keyring.Open(keyring.Config{
		Backend: a.cfg.KeyringBackend.Value,
		Dir:     a.cfg.KeyringDir(),
	})
}

func (a *app) openChainStore() (*keyring.ChainStore, error) {
	if a.cfg.KeyringBackend.Value == keyring.BackendMemory {
		return keyring.NewMemChainStore(), nil
	}
	dir := a.cfg.DataDir()
	if err := paths.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}
	return keyring.OpenChainStore(dir)
}

func (a *app) openProvider(approver keyring.Approver) (*keyring.Provider, error) {
	kr, err := a.openKeyring()
	if err != nil {
		return nil, err
	}
	store, err := a.openChainStore()
	if err != nil {
		return nil, err
	}
	return keyring.NewProvider(kr, store, approver,
		keyring.WithKeyName(a.cfg.KeyName.Value),
		keyring.WithLogger(a.logger),
	), nil
}

// newBridge wires the keyring provider behind a wallet bridge. The caller
// closes the returned locator.
func (a *app) newBridge(approver keyring.Approver, reporter output.Reporter) (*wallet.Bridge, *keyring.Locator) {
	locator := keyring.NewLocator(func() (*keyring.Provider, error) {
		return a.openProvider(approver)
	})
	bridge := wallet.NewBridge(locator,
		wallet.WithWaitTimeout(a.cfg.WaitTimeout.Value),
		wallet.WithReporter(reporter),
		wallet.WithLogger(a.logger),
	)
	return bridge, locator
}
