package ephemeral

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aussiebroadwan/estate/internal/estate/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	r := NewRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = r.Close() })
	return r, mr
}

func TestGetSetDelete(t *testing.T) {
	ctx := context.Background()
	r, mr := newTestRedis(t)

	_, err := r.Get(ctx, "account:1")
	require.ErrorIs(t, err, ErrMiss)

	require.NoError(t, r.Set(ctx, "account:1", []byte(`{"id":"1"}`), time.Minute))
	got, err := r.Get(ctx, "account:1")
	require.NoError(t, err)
	require.JSONEq(t, `{"id":"1"}`, string(got))

	mr.FastForward(2 * time.Minute)
	_, err = r.Get(ctx, "account:1")
	require.ErrorIs(t, err, ErrMiss)

	require.NoError(t, r.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, r.Set(ctx, "b", []byte("2"), 0))
	require.NoError(t, r.Delete(ctx, "a", "b", "missing"))
	require.False(t, mr.Exists("a"))
	require.False(t, mr.Exists("b"))
	require.NoError(t, r.Delete(ctx))
}

func TestIncr(t *testing.T) {
	ctx := context.Background()

	t.Run("writes fields and expiry", func(t *testing.T) {
		r, mr := newTestRedis(t)
		n, err := r.Incr(ctx, "failedAttempts:bob", CounterUpdate{
			Field: "count",
			Set:   map[string]string{"lastAttempt": "1700000000"},
			TTL:   time.Hour,
		})
		require.NoError(t, err)
		require.EqualValues(t, 1, n)

		fields, ttl, err := r.Fields(ctx, "failedAttempts:bob")
		require.NoError(t, err)
		require.Equal(t, "1", fields["count"])
		require.Equal(t, "1700000000", fields["lastAttempt"])
		require.Equal(t, time.Hour, ttl)
		require.Equal(t, time.Hour, mr.TTL("failedAttempts:bob"))
	})

	t.Run("rolling window refreshes below hold", func(t *testing.T) {
		r, mr := newTestRedis(t)
		u := CounterUpdate{Field: "count", TTL: time.Hour, HoldAt: 3}
		_, err := r.Incr(ctx, "k", u)
		require.NoError(t, err)
		mr.FastForward(30 * time.Minute)
		_, err = r.Incr(ctx, "k", u)
		require.NoError(t, err)
		require.Equal(t, time.Hour, mr.TTL("k"))
	})

	t.Run("expiry is frozen once held", func(t *testing.T) {
		r, mr := newTestRedis(t)
		u := CounterUpdate{Field: "count", TTL: time.Hour, HoldAt: 2}
		for range 2 {
			_, err := r.Incr(ctx, "k", u)
			require.NoError(t, err)
		}
		mr.FastForward(10 * time.Minute)
		n, err := r.Incr(ctx, "k", u)
		require.NoError(t, err)
		require.EqualValues(t, 3, n)
		require.Equal(t, 50*time.Minute, mr.TTL("k"))
	})

	t.Run("concurrent bumps are never lost", func(t *testing.T) {
		r, _ := newTestRedis(t)
		const workers = 50
		var wg sync.WaitGroup
		for range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := r.Incr(ctx, "k", CounterUpdate{Field: "count", TTL: time.Hour}); err != nil {
					t.Error(err)
				}
			}()
		}
		wg.Wait()

		fields, _, err := r.Fields(ctx, "k")
		require.NoError(t, err)
		require.Equal(t, "50", fields["count"])
	})
}

func TestFieldsMiss(t *testing.T) {
	r, _ := newTestRedis(t)
	_, _, err := r.Fields(context.Background(), "nothing")
	require.ErrorIs(t, err, ErrMiss)
}

func TestUnavailable(t *testing.T) {
	ctx := context.Background()
	r, mr := newTestRedis(t)
	mr.Close()

	_, err := r.Get(ctx, "k")
	require.ErrorIs(t, err, ErrUnavailable)
	require.ErrorIs(t, err, domain.ErrUpstreamUnavailable)

	_, err = r.Incr(ctx, "k", CounterUpdate{Field: "count", TTL: time.Minute})
	require.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	require.Error(t, r.Ping(ctx))
}
