package domain

import "time"

// TicketState is the lifecycle of every single-use secret (OTP challenge,
// password-reset ticket). Expiry is decided here at use time and never
// inferred from whether the backing store has evicted the record yet.
type TicketState int

const (
	TicketActive TicketState = iota
	TicketExpired
	TicketConsumed
)

func (s TicketState) String() string {
	switch s {
	case TicketActive:
		return "active"
	case TicketExpired:
		return "expired"
	case TicketConsumed:
		return "consumed"
	}
	return "unknown"
}

// Ticket is a hashed single-use secret with an expiry.
type Ticket struct {
	Hash       string
	ExpiresAt  time.Time
	ConsumedAt *time.Time
}

// State evaluates the ticket at now. A ticket is active up to and including
// its expiry instant.
func (t Ticket) State(now time.Time) TicketState {
	switch {
	case t.ConsumedAt != nil:
		return TicketConsumed
	case now.After(t.ExpiresAt):
		return TicketExpired
	default:
		return TicketActive
	}
}

// Remaining returns how long the ticket stays valid, zero once inactive.
func (t Ticket) Remaining(now time.Time) time.Duration {
	if t.State(now) != TicketActive {
		return 0
	}
	return t.ExpiresAt.Sub(now)
}

// OtpChallenge binds a hashed one-time code to an email address. There is
// at most one per email; issuing again replaces it.
type OtpChallenge struct {
	Email     string
	Ticket    Ticket
	CreatedAt time.Time
}
