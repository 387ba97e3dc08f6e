//go:build !windows

package broadcast

import (
	"context"

	envedit "github.com/goliatone/go-envedit"
)

// BroadcastChange is a no-op on platforms without a settings broadcast.
func (b *Broadcaster) BroadcastChange(ctx context.Context, _ envedit.Change) error {
	if ctx != nil {
		return ctx.Err()
	}
	return nil
}
