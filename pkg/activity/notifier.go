package activity

import (
	"context"

	envedit "github.com/goliatone/go-envedit"
)

// Notifier adapts an Emitter to envedit.Notifier so every persisted change
// is also recorded as an activity event.
type Notifier struct {
	Emitter  *Emitter
	ActorID  string
	UserID   string
	TenantID string
}

var _ envedit.Notifier = Notifier{}

// BroadcastChange implements envedit.Notifier.
func (n Notifier) BroadcastChange(ctx context.Context, change envedit.Change) error {
	if !n.Emitter.Enabled() {
		return nil
	}
	event := BuildVariableEvent(change.Op, VariableEventInput{
		ActorID:    n.ActorID,
		UserID:     n.UserID,
		TenantID:   n.TenantID,
		ChangeID:   change.ID,
		Scope:      change.Ref.Scope,
		Name:       change.Ref.Name,
		OldValue:   change.OldValue,
		NewValue:   change.NewValue,
		Removed:    change.Removed,
		OccurredAt: change.OccurredAt,
	})
	return n.Emitter.Emit(ctx, event)
}
