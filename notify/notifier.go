// Package notify delivers run results to chat and webhook endpoints.
// Delivery is best effort: failures are logged and never returned.
package notify

import (
	"context"
	"log/slog"
	"time"
)

// Sender is one delivery transport.
type Sender interface {
	Name() string
	Deliver(ctx context.Context, text string) error
}

// Notifier fans a message out to every configured Sender.
type Notifier struct {
	senders []Sender
	timeout time.Duration
}

// New creates a Notifier. A zero timeout means 15s per sender.
func New(timeout time.Duration, senders ...Sender) *Notifier {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Notifier{senders: senders, timeout: timeout}
}

// Send delivers text to every sender. It never fails: a broken transport
// must not mask the scrape result being reported. Delivery is detached from
// ctx cancellation so a shutdown still gets its final notification out.
func (n *Notifier) Send(ctx context.Context, text string) {
	base := context.WithoutCancel(ctx)
	for _, s := range n.senders {
		sendCtx, cancel := context.WithTimeout(base, n.timeout)
		err := s.Deliver(sendCtx, text)
		cancel()
		if err != nil {
			slog.Warn("notification delivery failed", "sender", s.Name(), "error", err)
			continue
		}
		slog.Debug("notification delivered", "sender", s.Name())
	}
}

// Senders returns the configured sender names.
func (n *Notifier) Senders() []string {
	names := make([]string, len(n.senders))
	for i, s := range n.senders {
		names[i] = s.Name()
	}
	return names
}
