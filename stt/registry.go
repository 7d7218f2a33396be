package stt

import (
	"context"
	"strings"

	"github.com/samber/lo"

	"github.com/kbukum/sttkit/errors"
	"github.com/kbukum/sttkit/logger"
	"github.com/kbukum/sttkit/provider"
)

// Registry is the static table of known speech providers.
type Registry struct {
	providers *provider.Registry[Provider]
	log       *logger.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithRegistryLogger sets the registry logger.
func WithRegistryLogger(l *logger.Logger) RegistryOption {
	return func(r *Registry) { r.log = l }
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		providers: provider.NewRegistry[Provider](),
		log:       logger.Get("stt.registry"),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Register adds p. The slug must be non-empty, unique, and equal to p.Name().
func (r *Registry) Register(p Provider) error {
	desc := p.Descriptor()
	if strings.TrimSpace(desc.Slug) == "" {
		return errors.InvalidInput("slug", "provider descriptor slug must not be empty")
	}
	if desc.Slug != p.Name() {
		return errors.InvalidInput("slug", "descriptor slug "+desc.Slug+" does not match provider name "+p.Name())
	}
	if err := r.providers.Register(p); err != nil {
		return err
	}
	r.log.Debug("speech provider registered", logger.Fields(logger.FieldProvider, desc.Slug, "name", desc.Name))
	return nil
}

// MustRegister is Register for static tables; it panics on error.
func (r *Registry) MustRegister(p Provider) {
	if err := r.Register(p); err != nil {
		panic(err)
	}
}

// List returns the descriptors of all providers in registration order.
func (r *Registry) List() []Descriptor {
	return lo.Map(r.providers.List(), func(p Provider, _ int) Descriptor {
		return p.Descriptor()
	})
}

// Lookup returns the provider for slug without checking availability.
func (r *Registry) Lookup(slug string) (Provider, bool) {
	return r.providers.Lookup(slug)
}

// Select returns the provider for slug if it is currently available.
//
// It fails with INVALID_ARGUMENT for a blank slug, NOT_FOUND for an unknown
// slug and SERVICE_UNAVAILABLE when the provider's availability check fails.
func (r *Registry) Select(ctx context.Context, slug string) (Provider, error) {
	if strings.TrimSpace(slug) == "" {
		return nil, errors.InvalidArgument("slug", "must not be empty")
	}
	p, ok := r.providers.Lookup(slug)
	if !ok {
		return nil, errors.ProviderNotFound(slug, r.providers.Names())
	}
	if !p.IsAvailable(ctx) {
		r.log.Warn("speech provider unavailable", logger.Fields(logger.FieldProvider, slug))
		return nil, errors.ProviderUnavailable(slug)
	}
	return p, nil
}
