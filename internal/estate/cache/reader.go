// Package cache keeps aggregate snapshots in the ephemeral store coherent
// with the authoritative store.
package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/aussiebroadwan/estate/internal/estate/ephemeral"
	"github.com/aussiebroadwan/estate/pkg/slogx"
	"golang.org/x/sync/singleflight"
)

// Reader is a read-through cache over an ephemeral.Store.
//
// Concurrent misses for one key each call the loader unless Coalesce is
// set, in which case they share a single load.
type Reader struct {
	Store    ephemeral.Store
	Coalesce bool

	group singleflight.Group
}

// NewReader returns a Reader over s.
func NewReader(s ephemeral.Store, coalesce bool) *Reader {
	return &Reader{Store: s, Coalesce: coalesce}
}

// ItemKey is the cache key of one aggregate.
func ItemKey(kind, id string) string { return kind + ":" + id }

// ListKey is the cache key of the collection of a kind.
func ListKey(kind string) string { return kind + ":all" }

// ReadThrough returns the cached value at key, or calls load and caches a
// non-empty result for ttl. Cache faults degrade to the loader; loader
// errors are returned untouched and never cached.
func ReadThrough[T any](
	ctx context.Context,
	r *Reader,
	key string,
	ttl time.Duration,
	load func(context.Context) (T, error),
) (T, error) {
	log := slogx.FromContext(ctx)

	var zero T
	raw, err := r.Store.Get(ctx, key)
	switch {
	case err == nil:
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			log.DebugContext(ctx, "cache hit", "key", key)
			return v, nil
		}
		log.WarnContext(ctx, "cache entry undecodable, reloading", "key", key)
	case errors.Is(err, ephemeral.ErrMiss):
		log.DebugContext(ctx, "cache miss", "key", key)
	default:
		log.WarnContext(ctx, "cache read failed, using store", "key", key, "error", err)
	}

	fill := func(ctx context.Context) (T, error) {
		v, err := load(ctx)
		if err != nil {
			return zero, err
		}
		encoded, err := json.Marshal(v)
		if err != nil || isEmpty(encoded) {
			return v, nil
		}
		if err := r.Store.Set(ctx, key, encoded, ttl); err != nil {
			log.WarnContext(ctx, "cache fill failed", "key", key, "error", err)
		}
		return v, nil
	}

	if !r.Coalesce {
		return fill(ctx)
	}

	// The shared load outlives any one caller; each caller still gives up
	// on its own cancellation.
	shared := context.WithoutCancel(ctx)
	ch := r.group.DoChan(key, func() (any, error) { return fill(shared) })
	select {
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Invalidate deletes every key unconditionally. Callers must run it before
// reporting a write as done.
func (r *Reader) Invalidate(ctx context.Context, keys ...string) error {
	if err := r.Store.Delete(ctx, keys...); err != nil {
		return err
	}
	slogx.FromContext(ctx).DebugContext(ctx, "cache invalidated", "keys", keys)
	return nil
}

func isEmpty(encoded []byte) bool {
	switch string(bytes.TrimSpace(encoded)) {
	case "", "null", "[]", "{}", `""`:
		return true
	}
	return false
}
