package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/estate/internal/estate/store"
)

// HousekeepingService periodically removes expired OTP challenges and
// reset tickets. Expiry is always checked at use time as well, so this only
// bounds table growth.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration
	Clock    Clock

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a new housekeeping service with the given interval.
// If interval is 0 or negative, defaults to 1 hour.
func NewHousekeepingService(store store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Store:    store,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start runs the worker in the background. Call Stop to shut it down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop blocks until an in-progress cleanup has finished.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run cleanup immediately on startup
	s.Cleanup(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Cleanup(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Cleanup performs one pass. Each step is independent; a failure in one
// does not stop the other.
func (s *HousekeepingService) Cleanup(ctx context.Context) {
	now := s.Clock.now()

	otps, err := s.Store.OtpChallenges().DeleteExpiredOtpChallenges(ctx, now)
	if err != nil {
		s.Logger.Error("failed to delete expired otp challenges", "error", err)
	}

	tickets, err := s.Store.Accounts().ClearExpiredResetTickets(ctx, now)
	if err != nil {
		s.Logger.Error("failed to clear expired reset tickets", "error", err)
	}

	s.Logger.Info("housekeeping cleanup completed",
		"otp_challenges_deleted", otps,
		"reset_tickets_cleared", tickets,
	)
}
