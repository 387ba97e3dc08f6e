// Package broadcast notifies other processes that the persisted environment
// changed. On Windows it sends WM_SETTINGCHANGE with the "Environment"
// section to every top-level window; elsewhere it is a no-op.
package broadcast

import (
	"time"

	envedit "github.com/goliatone/go-envedit"
)

// Option configures a Broadcaster.
type Option func(*Broadcaster)

// WithTimeout bounds how long each recipient may take to respond.
func WithTimeout(timeout time.Duration) Option {
	return func(b *Broadcaster) {
		if timeout > 0 {
			b.timeout = timeout
		}
	}
}

// Broadcaster is an envedit.Notifier for the host platform. Recipients that
// do not answer within the timeout are skipped; the call still succeeds.
type Broadcaster struct {
	timeout time.Duration
}

var _ envedit.Notifier = (*Broadcaster)(nil)

// New returns a Broadcaster using envedit.DefaultBroadcastTimeout unless
// overridden.
func New(opts ...Option) *Broadcaster {
	b := &Broadcaster{timeout: envedit.DefaultBroadcastTimeout}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Timeout returns the per-recipient timeout.
func (b *Broadcaster) Timeout() time.Duration {
	return b.timeout
}
