package cache

import (
	"context"
	"time"
)

// Source is the authoritative read side of one aggregate kind.
type Source[T any] interface {
	Get(ctx context.Context, id string) (T, error)
	List(ctx context.Context) ([]T, error)
}

// SourceFuncs adapts two functions to Source.
type SourceFuncs[T any] struct {
	GetFn  func(ctx context.Context, id string) (T, error)
	ListFn func(ctx context.Context) ([]T, error)
}

func (s SourceFuncs[T]) Get(ctx context.Context, id string) (T, error) { return s.GetFn(ctx, id) }
func (s SourceFuncs[T]) List(ctx context.Context) ([]T, error)        { return s.ListFn(ctx) }

// Repository is the cached view of one aggregate kind. Reads go through
// <kind>:<id> and <kind>:all; every write must go through Mutate or be
// followed by Invalidate.
type Repository[T any] struct {
	Kind    string
	Reader  *Reader
	Source  Source[T]
	ItemTTL time.Duration
	ListTTL time.Duration
}

func (r *Repository[T]) Get(ctx context.Context, id string) (T, error) {
	return ReadThrough(ctx, r.Reader, ItemKey(r.Kind, id), r.ItemTTL, func(ctx context.Context) (T, error) {
		return r.Source.Get(ctx, id)
	})
}

func (r *Repository[T]) List(ctx context.Context) ([]T, error) {
	return ReadThrough(ctx, r.Reader, ListKey(r.Kind), r.ListTTL, r.Source.List)
}

// Invalidate drops the item key of each id and the list key.
func (r *Repository[T]) Invalidate(ctx context.Context, ids ...string) error {
	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, ItemKey(r.Kind, id))
	}
	keys = append(keys, ListKey(r.Kind))
	return r.Reader.Invalidate(ctx, keys...)
}

// Mutate runs write and, when it succeeds, invalidates id before
// returning. A failed invalidation is reported even though the write
// itself has committed.
func (r *Repository[T]) Mutate(ctx context.Context, id string, write func(ctx context.Context) error) error {
	if err := write(ctx); err != nil {
		return err
	}
	return r.Invalidate(ctx, id)
}
