// Package mailx sends transactional email (one-time codes, reset links).
package mailx

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/aussiebroadwan/estate/pkg/slogx"
)

// Dispatcher delivers a single HTML message.
type Dispatcher interface {
	Send(ctx context.Context, to, subject, html string) error
}

// ErrNotConfigured is returned by dispatchers missing credentials.
var ErrNotConfigured = errors.New("mailx: dispatcher not configured")

// Message is a delivered email as seen by in-process dispatchers.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// LogDispatcher records only the recipient and subject at info level. It is
// meant for local development where no SMTP relay exists.
type LogDispatcher struct {
	Logger *slog.Logger
}

func (d LogDispatcher) Send(ctx context.Context, to, subject, _ string) error {
	log := d.Logger
	if log == nil {
		log = slogx.FromContext(ctx)
	}
	log.Info("email dispatched (log only)",
		slogx.Email("to", to),
		slog.String("subject", subject),
	)
	return nil
}

// Outbox keeps every delivered message in memory. When Err is set Send fails
// without recording anything.
type Outbox struct {
	mu       sync.Mutex
	messages []Message

	Err error
}

func (o *Outbox) Send(_ context.Context, to, subject, html string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.Err != nil {
		return o.Err
	}
	o.messages = append(o.messages, Message{To: to, Subject: subject, HTML: html})
	return nil
}

// Messages returns a copy of the delivered messages in send order.
func (o *Outbox) Messages() []Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]Message(nil), o.messages...)
}

// Last returns the most recent message for a recipient.
func (o *Outbox) Last(to string) (Message, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	for i := len(o.messages) - 1; i >= 0; i-- {
		if o.messages[i].To == to {
			return o.messages[i], true
		}
	}
	return Message{}, false
}
