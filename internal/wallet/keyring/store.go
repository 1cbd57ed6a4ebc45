// internal/wallet/keyring/store.go
package keyring

import (
	"encoding/json"
	"fmt"

	dbm "github.com/cosmos/cosmos-db"

	"github.com/altuslabsxyz/blob-poster/internal/wallet"
	"github.com/altuslabsxyz/blob-poster/pkg/network"
)

const chainKeyPrefix = "chain/"

// ChainStore persists chains registered with the provider.
type ChainStore struct {
	db dbm.DB
}

// NewChainStore wraps an open database.
func NewChainStore(db dbm.DB) *ChainStore {
	return &ChainStore{db: db}
}

// OpenChainStore opens (or creates) the on-disk store under dir.
func OpenChainStore(dir string) (*ChainStore, error) {
	db, err := dbm.NewDB("chains", dbm.GoLevelDBBackend, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open chain store: %w", err)
	}
	return NewChainStore(db), nil
}

// NewMemChainStore returns a store that lives only in memory.
func NewMemChainStore() *ChainStore {
	return NewChainStore(dbm.NewMemDB())
}

func chainKey(chainID string) []byte {
	return []byte(chainKeyPrefix + chainID)
}

// Has reports whether chainID is registered.
func (s *ChainStore) Has(chainID string) (bool, error) {
	return s.db.Has(chainKey(chainID))
}

// Put stores chain, replacing any existing entry.
func (s *ChainStore) Put(chain network.ChainDescriptor) error {
	data, err := json.Marshal(chain)
	if err != nil {
		return fmt.Errorf("failed to encode chain %s: %w", chain.ChainID, err)
	}
	if err := s.db.SetSync(chainKey(chain.ChainID), data); err != nil {
		return fmt.Errorf("failed to store chain %s: %w", chain.ChainID, err)
	}
	return nil
}

// Register stores chain unless its chain id is already known.
func (s *ChainStore) Register(chain network.ChainDescriptor) error {
	exists, err := s.Has(chain.ChainID)
	if err != nil {
		return fmt.Errorf("failed to read chain store: %w", err)
	}
	if exists {
		return fmt.Errorf("%w: %s", wallet.ErrChainAlreadyRegistered, chain.ChainID)
	}
	return s.Put(chain)
}

// Get returns the stored descriptor for chainID.
func (s *ChainStore) Get(chainID string) (network.ChainDescriptor, error) {
	data, err := s.db.Get(chainKey(chainID))
	if err != nil {
		return network.ChainDescriptor{}, fmt.Errorf("failed to read chain store: %w", err)
	}
	if data == nil {
		return network.ChainDescriptor{}, fmt.Errorf("%w: %s", wallet.ErrUnknownChain, chainID)
	}

	var chain network.ChainDescriptor
	if err := json.Unmarshal(data, &chain); err != nil {
		return network.ChainDescriptor{}, fmt.Errorf("failed to decode chain %s: %w", chainID, err)
	}
	chain.Name = chain.ChainID
	return chain, nil
}

// ChainIDs returns the registered chain ids in key order.
func (s *ChainStore) ChainIDs() ([]string, error) {
	// "chain0" is the first key past every "chain/" key
	it, err := s.db.Iterator([]byte(chainKeyPrefix), []byte("chain0"))
	if err != nil {
		return nil, fmt.Errorf("failed to iterate chain store: %w", err)
	}
	defer it.Close()

	var ids []string
	for ; it.Valid(); it.Next() {
		ids = append(ids, string(it.Key()[len(chainKeyPrefix):]))
	}
	return ids, it.Error()
}

// Close closes the underlying database.
func (s *ChainStore) Close() error {
	return s.db.Close()
}
