// Package spi defines the narrow Provider contract that backend adapters
// implement, and a static registry for resolving providers by name
// (spec.md §4.1, §9 "dynamic dispatch / runtime registries").
package spi

import (
	"context"
	"fmt"
	"sync"

	"github.com/lexlapax/go-llms/pkg/runner/domain"
)

// Provider is the contract every backend (remote HTTP API, local inference
// server, judge/aggregator model) must satisfy.
type Provider interface {
	// Name returns the provider's identifier for logging and aggregation.
	Name() string
	// Capabilities returns the set of capability tags the provider declares.
	Capabilities() map[string]struct{}
	// Invoke executes one request. Providers must not block indefinitely:
	// they either respect the request's Timeout or return a *domain.TimeoutError.
	Invoke(ctx context.Context, req domain.ProviderRequest) (domain.ProviderResponse, error)
}

// Factory builds a Provider from its static configuration.
type Factory func(cfg domain.ProviderConfig) (Provider, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

// Register adds a provider factory to the process-wide registry. Providers
// register themselves from an init() function, per spec.md §6 "registration
// is static at startup."
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// New resolves a provider by name from the registry and builds it.
func New(name string, cfg domain.ProviderConfig) (Provider, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, &domain.ConfigError{Provider: name, Message: fmt.Sprintf("no provider registered under name %q", name)}
	}
	return factory(cfg)
}

// Names returns every currently registered provider name.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}
