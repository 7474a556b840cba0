package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"syscall"

	"github.com/aussiebroadwan/estate/internal/estate/domain"
)

// Classify maps a raw driver error onto the store errors. Drivers call it
// once on every error they return; services never re-classify.
//
// Driver specific conditions (unique violations) are mapped by the driver
// itself before delegating here.
func Classify(err error) error {
	switch {
	case err == nil:
		return nil
	case isClassified(err):
		return err
	case errors.Is(err, sql.ErrNoRows):
		return ErrNotFound
	case IsUnavailable(err):
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	default:
		return err
	}
}

// IsUnavailable reports connection-level failures that a retry may cure.
func IsUnavailable(err error) bool {
	if errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

func isClassified(err error) bool {
	return errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrConflict) ||
		errors.Is(err, domain.ErrUpstreamUnavailable)
}

// Conflict wraps a driver unique-violation error.
func Conflict(err error) error {
	return fmt.Errorf("%w: %v", ErrAlreadyExists, err)
}
