package network

import (
	"sort"
	"sync"
)

// DefaultNetworkName is the network used when none is configured.
const DefaultNetworkName = "mocha"

var globalRegistry = newRegistry()

// registry holds registered chain descriptors keyed by short name.
type registry struct {
	mu       sync.RWMutex
	chains   map[string]ChainDescriptor
	defaults string
}

func newRegistry() *registry {
	return &registry{
		chains:   make(map[string]ChainDescriptor),
		defaults: DefaultNetworkName,
	}
}

// Register adds a descriptor to the global registry.
// It fails if the descriptor is invalid or the name is already taken.
func Register(d ChainDescriptor) error {
	return globalRegistry.register(d)
}

// MustRegister is like Register but panics on error.
// It is meant for init-time registration of built-in chains.
func MustRegister(d ChainDescriptor) {
	if err := globalRegistry.register(d); err != nil {
		panic(err)
	}
}

// Get returns a copy of the descriptor registered under name.
func Get(name string) (ChainDescriptor, error) {
	return globalRegistry.get(name)
}

// Has checks if a network is registered.
func Has(name string) bool {
	return globalRegistry.has(name)
}

// List returns all registered network names in sorted order.
func List() []string {
	return globalRegistry.list()
}

// ListDescriptors returns copies of all registered descriptors, sorted by name.
func ListDescriptors() []ChainDescriptor {
	return globalRegistry.listDescriptors()
}

// Default returns the default network descriptor.
func Default() (ChainDescriptor, error) {
	return globalRegistry.get(globalRegistry.defaultName())
}

func (r *registry) register(d ChainDescriptor) error {
	if d.Name == "" {
		return &DescriptorValidationError{Field: "name", Reason: "is required"}
	}
	if err := d.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.chains[d.Name]; exists {
		return &DuplicateNetworkError{Name: d.Name}
	}
	r.chains[d.Name] = d.Clone()
	return nil
}

func (r *registry) get(name string) (ChainDescriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.chains[name]
	if !ok {
		return ChainDescriptor{}, &UnknownNetworkError{
			Name:      name,
			Available: r.listLocked(),
		}
	}
	return d.Clone(), nil
}

func (r *registry) has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.chains[name]
	return ok
}

func (r *registry) list() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.listLocked()
}

func (r *registry) listLocked() []string {
	names := make([]string, 0, len(r.chains))
	for name := range r.chains {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *registry) listDescriptors() []ChainDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ChainDescriptor, 0, len(r.chains))
	for _, name := range r.listLocked() {
		out = append(out, r.chains[name].Clone())
	}
	return out
}

func (r *registry) defaultName() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaults
}
