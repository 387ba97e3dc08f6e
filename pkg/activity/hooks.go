package activity

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	envedit "github.com/goliatone/go-envedit"
)

// Event describes one environment change fanned out to hooks. ObjectType and
// ObjectID are derived from Scope and Name when left empty. Identity fields
// are plain strings so call sites need not depend on a UUID type.
type Event struct {
	Verb       string
	ActorID    string
	UserID     string
	TenantID   string
	Scope      envedit.Scope
	Name       string
	ObjectType string
	ObjectID   string
	Channel    string
	Metadata   map[string]any
	OccurredAt time.Time
}

// Ref returns the variable the event refers to.
func (e Event) Ref() envedit.Ref {
	return envedit.Ref{Scope: e.Scope, Name: e.Name}
}

func (e Event) complete() bool {
	return e.Verb != "" && e.ObjectType != "" && e.ObjectID != ""
}

// ActivityHook receives normalized activity events.
type ActivityHook interface {
	Notify(ctx context.Context, event Event) error
}

// HookFunc allows plain functions to satisfy ActivityHook.
type HookFunc func(ctx context.Context, event Event) error

// Notify dispatches to the underlying function.
func (fn HookFunc) Notify(ctx context.Context, event Event) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, event)
}

// Hooks fans out events to zero or more hooks.
type Hooks []ActivityHook

// Notify forwards the normalized event to every hook and joins their errors.
// Incomplete events are dropped.
func (h Hooks) Notify(ctx context.Context, event Event) error {
	if len(h) == 0 {
		return nil
	}
	normalized := NormalizeEvent(event)
	if !normalized.complete() {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var errs []error
	for _, hook := range h {
		if hook == nil {
			continue
		}
		if err := hook.Notify(ctx, normalized); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ScopeFilter forwards only events whose scope is listed, e.g. to audit
// machine-wide changes separately from per-user ones.
type ScopeFilter struct {
	Scopes []envedit.Scope
	Next   ActivityHook
}

// Notify implements ActivityHook.
func (f ScopeFilter) Notify(ctx context.Context, event Event) error {
	if f.Next == nil || !slices.Contains(f.Scopes, event.Scope) {
		return nil
	}
	return f.Next.Notify(ctx, event)
}

// NormalizeEvent trims identifiers, derives the object fields from the
// variable reference, clones metadata and stamps a UTC time when missing.
func NormalizeEvent(event Event) Event {
	normalized := event
	normalized.Verb = strings.TrimSpace(event.Verb)
	normalized.ActorID = strings.TrimSpace(event.ActorID)
	normalized.UserID = strings.TrimSpace(event.UserID)
	normalized.TenantID = strings.TrimSpace(event.TenantID)
	normalized.Name = strings.TrimSpace(event.Name)
	normalized.ObjectType = strings.TrimSpace(event.ObjectType)
	normalized.ObjectID = strings.TrimSpace(event.ObjectID)
	normalized.Channel = strings.TrimSpace(event.Channel)
	if normalized.ObjectType == "" && normalized.Name != "" {
		normalized.ObjectType = ObjectTypeVariable
	}
	if normalized.ObjectID == "" && normalized.Name != "" && normalized.Scope.Valid() {
		normalized.ObjectID = normalized.Ref().Identifier()
	}
	normalized.Metadata = cloneMap(event.Metadata)
	if normalized.OccurredAt.IsZero() {
		normalized.OccurredAt = time.Now().UTC()
	}
	return normalized
}

func cloneMap(src map[string]any) map[string]any {
	if len(src) == 0 {
		return nil
	}
	dst := make(map[string]any, len(src))
	for key, value := range src {
		dst[key] = value
	}
	return dst
}
