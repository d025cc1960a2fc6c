package provider

import (
	"fmt"
	"maps"
	"slices"

	"feedhub/internal/domain"
)

// Factory builds a fresh adapter instance.
type Factory func() Adapter

// Registry maps provider names to adapter factories. It is immutable after
// NewRegistry returns and safe for concurrent use.
type Registry struct {
	factories map[domain.ProviderName]Factory
}

func NewRegistry(factories map[domain.ProviderName]Factory) *Registry {
	return &Registry{factories: maps.Clone(factories)}
}

// Resolve builds the adapter for name. Every call returns a new instance.
func (r *Registry) Resolve(name domain.ProviderName) (Adapter, error) {
	factory, ok := r.factories[name]
	if !ok || factory == nil {
		return nil, fmt.Errorf("%q: %w", name, ErrProviderNotConfigured)
	}
	return factory(), nil
}

// Names returns the configured provider names, sorted.
func (r *Registry) Names() []domain.ProviderName {
	return slices.Sorted(maps.Keys(r.factories))
}
