package providerfactory

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"mercator-hq/meter/pkg/providers"
)

// Manager lazily creates and caches one provider client per provider type.
// Clients are built on first use so a missing credential for one provider
// does not prevent the others from working.
//
// Manager is thread-safe and can be used concurrently.
type Manager struct {
	configs   map[providers.Type]providers.ProviderConfig
	providers map[providers.Type]providers.Provider
	mu        sync.Mutex
}

// NewManager creates a manager over the given per-provider configurations.
// Provider types without an entry are created from an empty configuration
// when first requested.
func NewManager(configs map[providers.Type]providers.ProviderConfig) *Manager {
	c := make(map[providers.Type]providers.ProviderConfig, len(configs))
	for t, cfg := range configs {
		c[t] = cfg
	}
	return &Manager{
		configs:   c,
		providers: make(map[providers.Type]providers.Provider),
	}
}

// Get returns the provider for t, creating it on first use.
func (m *Manager) Get(t providers.Type) (providers.Provider, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p, ok := m.providers[t]; ok {
		return p, nil
	}

	config := m.configs[t]
	config.Type = t
	if config.Name == "" {
		config.Name = string(t)
	}

	p, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	m.providers[t] = p

	slog.Info("provider added to manager",
		"name", config.Name,
		"type", t,
		"total_providers", len(m.providers),
	)
	return p, nil
}

// Config returns the configuration registered for t.
func (m *Manager) Config(t providers.Type) (providers.ProviderConfig, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.configs[t]
	return c, ok
}

// Active returns the types of the providers created so far, sorted.
func (m *Manager) Active() []providers.Type {
	m.mu.Lock()
	defer m.mu.Unlock()

	types := make([]providers.Type, 0, len(m.providers))
	for t := range m.providers {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Close closes all created providers.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for t, p := range m.providers {
		if err := p.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close provider %q: %w", t, err))
		}
	}
	m.providers = make(map[providers.Type]providers.Provider)

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	slog.Debug("provider manager closed")
	return nil
}
