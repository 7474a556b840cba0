// Package ephemeral is the shared expiring key-value store behind the abuse
// guard and the aggregate cache.
package ephemeral

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/estate/internal/estate/domain"
)

var (
	// ErrMiss is returned when a key does not exist or has expired.
	ErrMiss = errors.New("ephemeral: miss")

	// ErrUnavailable wraps every transport failure.
	ErrUnavailable = fmt.Errorf("ephemeral: %w", domain.ErrUpstreamUnavailable)
)

// CounterUpdate describes one atomic counter bump on a hash key.
type CounterUpdate struct {
	Field string            // incremented by one
	Set   map[string]string // written alongside the increment
	TTL   time.Duration     // expiry applied from now

	// HoldAt freezes the expiry once Field had already reached it before
	// this bump, so a running window is never extended. Zero disables.
	HoldAt int64
}

// Store is the set of primitives the core needs. Every implementation must
// apply Incr atomically with respect to concurrent callers on the same key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error

	// Incr applies u to key and returns the post-increment value.
	Incr(ctx context.Context, key string, u CounterUpdate) (int64, error)

	// Fields returns every field of a hash key together with its remaining
	// time to live. ErrMiss when the key is absent.
	Fields(ctx context.Context, key string) (map[string]string, time.Duration, error)

	Ping(ctx context.Context) error
	Close() error
}
