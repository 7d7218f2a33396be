package tokenstore

import (
	"context"
	"time"
)

// Store holds opaque access tokens by key.
type Store interface {
	// Get returns the token for key. ok is false when absent or expired.
	Get(ctx context.Context, key string) (token string, ok bool, err error)
	// Set stores token for ttl. A ttl of 0 means no expiration.
	Set(ctx context.Context, key, token string, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
