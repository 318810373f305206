package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers keys for operations that must not run twice,
// such as repeated cancel requests for the same order.
type IdempotencyStore interface {
	// MarkProcessed records a key with a TTL. Returns true if the key was
	// newly recorded, false if it had been seen before.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed reports whether a key has already been recorded.
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Close releases any resources held by the store.
	Close() error
}
