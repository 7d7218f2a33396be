package provider

import "context"

// Provider is the base interface all providers must implement.
type Provider interface {
	// Name returns the provider's unique name.
	Name() string
	// IsAvailable checks if the provider can currently serve requests.
	IsAvailable(ctx context.Context) bool
}
