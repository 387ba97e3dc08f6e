package hostenv

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	envedit "github.com/goliatone/go-envedit"
	"github.com/goliatone/go-envedit/pkg/activity"
	"github.com/goliatone/go-envedit/pkg/store"
)

func TestNewWiresConfiguredCollaborators(t *testing.T) {
	var buf bytes.Buffer
	var notified int
	memory := store.NewMemoryStore()

	cfg := envedit.DefaultConfig()
	cfg.PathVariable = "TestPath"
	editor, err := New(cfg,
		WithStore(memory),
		WithLogHandler(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})),
		WithNotifier(envedit.NotifierFunc(func(context.Context, envedit.Change) error {
			notified++
			return nil
		})),
	)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	ctx := context.Background()
	if err := editor.PathAdd(ctx, envedit.ScopeUser, `C:\envedit-missing-dir`); err != nil {
		t.Fatalf("path add: %v", err)
	}
	value, err := editor.Value(ctx, envedit.ScopeUser, "TestPath")
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if value != `C:\envedit-missing-dir` {
		t.Fatalf("expected configured path variable to be edited, got %q", value)
	}
	if notified != 1 {
		t.Fatalf("expected extra notifier to fire once, got %d", notified)
	}
	if !strings.Contains(buf.String(), "change persisted") {
		t.Fatalf("expected change to be logged, got %q", buf.String())
	}

	removed, err := editor.PathPrune(ctx, envedit.ScopeUser, `!exists(entry)`)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected missing directory to be pruned, got %d", removed)
	}
}

func TestNewRecordsActivityOnConfiguredChannel(t *testing.T) {
	capture := &activity.CaptureHook{}
	cfg := envedit.DefaultConfig()
	cfg.ActivityChannel = "workstation"

	editor, err := New(cfg,
		WithStore(store.NewMemoryStore()),
		WithLogHandler(slog.NewTextHandler(&bytes.Buffer{}, nil)),
		WithActivityHooks(capture),
		WithActor("admin", "", ""),
	)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	ctx := context.Background()
	if err := editor.Set(ctx, envedit.ScopeSystem, "JAVA_HOME", `C:\jdk`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := editor.Unset(ctx, envedit.ScopeSystem, "JAVA_HOME"); err != nil {
		t.Fatalf("unset: %v", err)
	}

	if len(capture.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(capture.Events))
	}
	for _, event := range capture.Events {
		if event.Channel != "workstation" || event.ActorID != "admin" || event.ObjectID != "system/JAVA_HOME" {
			t.Fatalf("unexpected event %+v", event)
		}
	}
}

func TestNewOpensConfiguredStore(t *testing.T) {
	cfg := envedit.DefaultConfig()
	cfg.Store = envedit.StoreSQLite
	cfg.StorePath = filepath.Join(t.TempDir(), "env.db")

	editor, err := New(cfg, WithLogHandler(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()
	if err := editor.PathAdd(ctx, envedit.ScopeSystem, `C:\Windows`); err != nil {
		t.Fatalf("path add: %v", err)
	}
	resolution, err := editor.Resolve(ctx, envedit.PathVariable)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolution.Value != `C:\Windows` {
		t.Fatalf("unexpected resolution %+v", resolution)
	}

	cfg.StorePath = filepath.Join(t.TempDir(), "missing", "env.db")
	if _, err := New(cfg); err == nil {
		t.Fatalf("expected unopenable sqlite path to fail")
	}
}

func TestNewRejectsUnknownRuleEngine(t *testing.T) {
	cfg := envedit.DefaultConfig()
	cfg.RuleEngine = "lua"
	if _, err := New(cfg, WithStore(store.NewMemoryStore())); !errors.Is(err, envedit.ErrNoEvaluator) {
		t.Fatalf("expected ErrNoEvaluator, got %v", err)
	}
}

func TestRegistryStoreUnsupportedOffWindows(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("registry is available on windows")
	}
	editor, err := New(envedit.DefaultConfig(), WithLogHandler(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	_, err = editor.Value(context.Background(), envedit.ScopeUser, "Path")
	if !errors.Is(err, store.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
	var storeErr *envedit.StoreError
	if !errors.As(err, &storeErr) || storeErr.Op != "read" {
		t.Fatalf("expected read StoreError, got %v", err)
	}
}
