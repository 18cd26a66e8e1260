package wallets

import (
	"fmt"
	"sync"
)

// Registry manages wallet adapters for the supported signing backends
type Registry struct {
	wallets map[string]Wallet
	mu      sync.RWMutex
}

// NewRegistry creates an empty wallet registry
func NewRegistry() *Registry {
	return &Registry{
		wallets: make(map[string]Wallet),
	}
}

// Register registers a wallet adapter (uses wallet.Name() as key).
// If an adapter already exists for the name, it is replaced (idempotent).
func (r *Registry) Register(wallet Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.wallets[wallet.Name()] = wallet
	return nil
}

// Get retrieves a wallet adapter by backend name
func (r *Registry) Get(name string) (Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wallet, exists := r.wallets[name]
	if !exists {
		return nil, fmt.Errorf("no wallet adapter registered for backend: %s", name)
	}

	return wallet, nil
}

// SupportedWallets returns a list of all registered backend names
func (r *Registry) SupportedWallets() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.wallets))
	for name := range r.wallets {
		names = append(names, name)
	}
	return names
}

// IsSupported checks if a backend is registered
func (r *Registry) IsSupported(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.wallets[name]
	return exists
}

// Unregister removes a wallet adapter (useful for testing)
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.wallets, name)
}
