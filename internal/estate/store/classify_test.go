package store_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/aussiebroadwan/estate/internal/estate/domain"
	"github.com/aussiebroadwan/estate/internal/estate/store"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	opErr := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}

	tests := []struct {
		name string
		in   error
		want error
	}{
		{"no rows", sql.ErrNoRows, domain.ErrNotFound},
		{"wrapped no rows", fmt.Errorf("get: %w", sql.ErrNoRows), domain.ErrNotFound},
		{"bad conn", driver.ErrBadConn, domain.ErrUpstreamUnavailable},
		{"conn done", sql.ErrConnDone, domain.ErrUpstreamUnavailable},
		{"deadline", context.DeadlineExceeded, domain.ErrUpstreamUnavailable},
		{"dial", opErr, domain.ErrUpstreamUnavailable},
		{"conflict", store.Conflict(errors.New("UNIQUE constraint failed")), domain.ErrConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, store.Classify(tt.in), tt.want)
		})
	}

	t.Run("nil", func(t *testing.T) {
		require.NoError(t, store.Classify(nil))
	})

	t.Run("unknown passes through", func(t *testing.T) {
		raw := errors.New("syntax error")
		require.Equal(t, raw, store.Classify(raw))
	})

	t.Run("already classified is untouched", func(t *testing.T) {
		require.Equal(t, store.ErrNotFound, store.Classify(store.ErrNotFound))
	})
}
