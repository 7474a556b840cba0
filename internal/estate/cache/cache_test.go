package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aussiebroadwan/estate/internal/estate/domain"
	"github.com/aussiebroadwan/estate/internal/estate/ephemeral"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// memSource is an authoritative store that counts loads.
type memSource struct {
	mu    sync.Mutex
	items map[string]item
	gets  atomic.Int64
	lists atomic.Int64
}

func newMemSource() *memSource { return &memSource{items: map[string]item{}} }

func (s *memSource) Get(_ context.Context, id string) (item, error) {
	s.gets.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok {
		return item{}, domain.ErrNotFound
	}
	return it, nil
}

func (s *memSource) List(_ context.Context) ([]item, error) {
	s.lists.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]item, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, it)
	}
	return out, nil
}

func (s *memSource) put(it item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[it.ID] = it
}

func newTestRepo(t *testing.T, coalesce bool) (*Repository[item], *memSource, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	src := newMemSource()
	return &Repository[item]{
		Kind:    "thing",
		Reader:  NewReader(ephemeral.NewRedis(client), coalesce),
		Source:  src,
		ItemTTL: 30 * time.Minute,
		ListTTL: 60 * time.Minute,
	}, src, mr
}

func TestKeys(t *testing.T) {
	require.Equal(t, "account:42", ItemKey("account", "42"))
	require.Equal(t, "property:all", ListKey("property"))
}

func TestReadThrough(t *testing.T) {
	ctx := context.Background()
	repo, src, mr := newTestRepo(t, false)
	src.put(item{ID: "1", Name: "one"})

	got, err := repo.Get(ctx, "1")
	require.NoError(t, err)
	require.Equal(t, "one", got.Name)
	require.True(t, mr.Exists("thing:1"))
	require.Equal(t, 30*time.Minute, mr.TTL("thing:1"))

	// Served from cache.
	_, err = repo.Get(ctx, "1")
	require.NoError(t, err)
	require.EqualValues(t, 1, src.gets.Load())

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, 60*time.Minute, mr.TTL("thing:all"))

	mr.FastForward(31 * time.Minute)
	_, err = repo.Get(ctx, "1")
	require.NoError(t, err)
	require.EqualValues(t, 2, src.gets.Load())
}

func TestEmptyResultsAreNotCached(t *testing.T) {
	ctx := context.Background()
	repo, src, mr := newTestRepo(t, false)

	_, err := repo.Get(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.False(t, mr.Exists("thing:missing"))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Empty(t, list)
	require.False(t, mr.Exists("thing:all"))

	_, _ = repo.List(ctx)
	require.EqualValues(t, 2, src.lists.Load())
}

func TestWriteThenReadIsFresh(t *testing.T) {
	ctx := context.Background()
	repo, src, _ := newTestRepo(t, false)

	require.NoError(t, repo.Mutate(ctx, "1", func(context.Context) error {
		src.put(item{ID: "1", Name: "before"})
		return nil
	}))

	got, err := repo.Get(ctx, "1")
	require.NoError(t, err)
	require.Equal(t, "before", got.Name)
	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Equal(t, "before", list[0].Name)

	require.NoError(t, repo.Mutate(ctx, "1", func(context.Context) error {
		src.put(item{ID: "1", Name: "after"})
		return nil
	}))

	got, err = repo.Get(ctx, "1")
	require.NoError(t, err)
	require.Equal(t, "after", got.Name)
	list, err = repo.List(ctx)
	require.NoError(t, err)
	require.Equal(t, "after", list[0].Name)
}

func TestMutateFailureKeepsCache(t *testing.T) {
	ctx := context.Background()
	repo, src, mr := newTestRepo(t, false)
	src.put(item{ID: "1", Name: "one"})
	_, err := repo.Get(ctx, "1")
	require.NoError(t, err)

	boom := errors.New("boom")
	err = repo.Mutate(ctx, "1", func(context.Context) error { return boom })
	require.ErrorIs(t, err, boom)
	require.True(t, mr.Exists("thing:1"))
}

func TestCacheOutage(t *testing.T) {
	ctx := context.Background()
	repo, src, mr := newTestRepo(t, false)
	src.put(item{ID: "1", Name: "one"})
	mr.Close()

	// Reads fall back to the store.
	got, err := repo.Get(ctx, "1")
	require.NoError(t, err)
	require.Equal(t, "one", got.Name)

	// Invalidation cannot be skipped silently.
	err = repo.Invalidate(ctx, "1")
	require.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

func TestCoalesce(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	release := make(chan struct{})
	var loads atomic.Int64
	r := NewReader(ephemeral.NewRedis(client), true)
	load := func(context.Context) (item, error) {
		loads.Add(1)
		<-release
		return item{ID: "1", Name: "one"}, nil
	}

	const readers = 8
	var wg sync.WaitGroup
	var started sync.WaitGroup
	started.Add(readers)
	for range readers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			started.Done()
			got, err := ReadThrough(ctx, r, "thing:1", time.Minute, load)
			if err != nil || got.Name != "one" {
				t.Errorf("unexpected read: %+v %v", got, err)
			}
		}()
	}
	started.Wait()
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	require.EqualValues(t, 1, loads.Load())
}

func TestCoalescedLoadSurvivesCallerCancel(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	r := NewReader(ephemeral.NewRedis(client), true)

	entered := make(chan struct{})
	release := make(chan struct{})
	var loads atomic.Int64
	load := func(ctx context.Context) (item, error) {
		if loads.Add(1) == 1 {
			close(entered)
		}
		<-release
		if err := ctx.Err(); err != nil {
			return item{}, err
		}
		return item{ID: "1", Name: "one"}, nil
	}

	leaderCtx, cancel := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := ReadThrough(leaderCtx, r, "thing:1", time.Minute, load)
		leaderErr <- err
	}()
	<-entered

	type result struct {
		got item
		err error
	}
	follower := make(chan result, 1)
	go func() {
		got, err := ReadThrough(context.Background(), r, "thing:1", time.Minute, load)
		follower <- result{got, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancel()
	require.ErrorIs(t, <-leaderErr, context.Canceled)

	close(release)
	res := <-follower
	require.NoError(t, res.err)
	require.Equal(t, "one", res.got.Name)
	require.EqualValues(t, 1, loads.Load())
	require.True(t, mr.Exists("thing:1"))
}
