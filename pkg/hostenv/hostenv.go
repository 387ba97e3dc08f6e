// Package hostenv wires envedit to the host platform from EDITENV_*
// variables: the registry store (or a SQLite file off Windows), the
// WM_SETTINGCHANGE broadcast, slog handlers including the systemd journal on
// Linux, and optional activity hooks. The package-level functions operate on
// a lazily built default Editor.
package hostenv

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	envedit "github.com/goliatone/go-envedit"
	"github.com/goliatone/go-envedit/pkg/activity"
	"github.com/goliatone/go-envedit/pkg/broadcast"
	"github.com/goliatone/go-envedit/pkg/store"
)

// Option customises the collaborators used by New.
type Option func(*settings)

type settings struct {
	store     envedit.Store
	notifiers envedit.Notifiers
	handlers  []slog.Handler
	hooks     activity.Hooks
	actor     activity.Notifier
	extra     []envedit.Option
}

// WithStore replaces the registry store, e.g. with a MemoryStore for dry runs.
func WithStore(s envedit.Store) Option {
	return func(cfg *settings) {
		cfg.store = s
	}
}

// WithNotifier adds a notifier alongside the platform broadcast.
func WithNotifier(n envedit.Notifier) Option {
	return func(cfg *settings) {
		if n != nil {
			cfg.notifiers = append(cfg.notifiers, n)
		}
	}
}

// WithActivityHooks records every persisted change as an activity event on
// the configured channel.
func WithActivityHooks(hooks ...activity.ActivityHook) Option {
	return func(cfg *settings) {
		cfg.hooks = append(cfg.hooks, hooks...)
	}
}

// WithActor stamps activity events with the acting identities.
func WithActor(actorID, userID, tenantID string) Option {
	return func(cfg *settings) {
		cfg.actor.ActorID = actorID
		cfg.actor.UserID = userID
		cfg.actor.TenantID = tenantID
	}
}

// WithLogHandler adds a slog handler; records fan out to every handler.
func WithLogHandler(h slog.Handler) Option {
	return func(cfg *settings) {
		if h != nil {
			cfg.handlers = append(cfg.handlers, h)
		}
	}
}

// WithEditorOptions passes extra options through to envedit.NewEditor.
func WithEditorOptions(opts ...envedit.Option) Option {
	return func(cfg *settings) {
		cfg.extra = append(cfg.extra, opts...)
	}
}

// New builds an Editor for the host from cfg.
func New(cfg envedit.Config, opts ...Option) (*envedit.Editor, error) {
	s := settings{}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	if s.store == nil {
		selected, err := openStore(cfg)
		if err != nil {
			return nil, fmt.Errorf("hostenv: %w", err)
		}
		s.store = selected
	}
	if len(s.handlers) == 0 {
		s.handlers = []slog.Handler{
			slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}),
		}
	}
	if cfg.LogJournal {
		s.handlers = appendJournalHandler(s.handlers, cfg.SlogLevel())
	}

	notifiers := append(envedit.Notifiers{broadcast.New(broadcast.WithTimeout(cfg.BroadcastTimeout))}, s.notifiers...)
	if len(s.hooks) > 0 {
		recorder := s.actor
		recorder.Emitter = activity.NewEmitter(s.hooks, activity.Config{
			Enabled: true,
			Channel: cfg.ActivityChannel,
		})
		notifiers = append(notifiers, recorder)
	}

	registry := envedit.StandardFunctions()
	evaluator, err := envedit.NewEvaluator(cfg.RuleEngine, nil, registry)
	if err != nil {
		return nil, fmt.Errorf("hostenv: %w", err)
	}

	editorOpts := append(cfg.Options(),
		envedit.WithNotifier(notifiers),
		envedit.WithLogger(envedit.NewFanoutLogger(s.handlers...)),
		envedit.WithEvaluator(evaluator),
	)
	editorOpts = append(editorOpts, s.extra...)
	return envedit.NewEditor(s.store, editorOpts...), nil
}

func openStore(cfg envedit.Config) (envedit.Store, error) {
	switch cfg.Store {
	case envedit.StoreSQLite:
		return store.OpenSQLiteStore(cfg.StorePath)
	case envedit.StoreMemory:
		return store.NewMemoryStore(), nil
	default:
		return store.NewRegistryStore(), nil
	}
}

var (
	defaultOnce   sync.Once
	defaultEditor *envedit.Editor
	defaultErr    error
)

// Default returns the process-wide Editor built from LoadConfigFromEnv.
func Default() (*envedit.Editor, error) {
	defaultOnce.Do(func() {
		cfg, err := envedit.LoadConfigFromEnv()
		if err != nil {
			defaultErr = err
			return
		}
		defaultEditor, defaultErr = New(cfg)
	})
	return defaultEditor, defaultErr
}

// EnvCut removes every occurrence of text from the named variable.
func EnvCut(ctx context.Context, scope envedit.Scope, name, text string) (int, error) {
	editor, err := Default()
	if err != nil {
		return 0, err
	}
	return editor.Cut(ctx, scope, name, text)
}

// EnvPaste appends text to the named variable.
func EnvPaste(ctx context.Context, scope envedit.Scope, name, text string) error {
	editor, err := Default()
	if err != nil {
		return err
	}
	return editor.Paste(ctx, scope, name, text)
}

// EnvSet replaces the named variable's value, creating it if needed.
func EnvSet(ctx context.Context, scope envedit.Scope, name, text string) error {
	editor, err := Default()
	if err != nil {
		return err
	}
	return editor.Set(ctx, scope, name, text)
}

// EnvUnset deletes the named variable.
func EnvUnset(ctx context.Context, scope envedit.Scope, name string) error {
	editor, err := Default()
	if err != nil {
		return err
	}
	return editor.Unset(ctx, scope, name)
}

// EnvValue returns the named variable's value.
func EnvValue(ctx context.Context, scope envedit.Scope, name string) (string, error) {
	editor, err := Default()
	if err != nil {
		return "", err
	}
	return editor.Value(ctx, scope, name)
}

// PathAdd appends path to the persisted Path unless already present.
func PathAdd(ctx context.Context, scope envedit.Scope, path string) error {
	editor, err := Default()
	if err != nil {
		return err
	}
	return editor.PathAdd(ctx, scope, path)
}

// PathAddImmediate appends path to this process's PATH only.
func PathAddImmediate(scope envedit.Scope, path string) error {
	editor, err := Default()
	if err != nil {
		return err
	}
	return editor.PathAddImmediate(scope, path)
}

// PathRemove removes every occurrence of path from the persisted Path.
func PathRemove(ctx context.Context, scope envedit.Scope, path string) (int, error) {
	editor, err := Default()
	if err != nil {
		return 0, err
	}
	return editor.PathRemove(ctx, scope, path)
}
