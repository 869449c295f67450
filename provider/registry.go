package provider

import (
	"fmt"
	"sort"
	"sync"
)

// ProviderRegistry manages payment provider factories
type ProviderRegistry struct {
	factories map[string]ProviderFactory
	mu        sync.RWMutex
}

// NewProviderRegistry creates a new provider registry
func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{
		factories: make(map[string]ProviderFactory),
	}
}

// Register adds a payment provider factory to the registry
func (r *ProviderRegistry) Register(name string, factory ProviderFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Create instantiates a registered payment provider by name
func (r *ProviderRegistry) Create(name string) (PaymentProvider, error) {
	r.mu.RLock()
	factory, exists := r.factories[name]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("payment provider '%s' is not registered", name)
	}
	return factory(), nil
}

// Names returns the registered provider names, sorted
func (r *ProviderRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the global default provider registry
var DefaultRegistry = NewProviderRegistry()

// Register registers a provider with the default registry
func Register(name string, factory ProviderFactory) {
	DefaultRegistry.Register(name, factory)
}

// CreateProvider creates a provider instance from the default registry
func CreateProvider(name string) (PaymentProvider, error) {
	return DefaultRegistry.Create(name)
}
