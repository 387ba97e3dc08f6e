//go:build linux

package hostenv

import (
	"bytes"
	"log/slog"
	"testing"
)

func TestJournalKey(t *testing.T) {
	cases := map[string]string{
		"op":          "OP",
		"change.id":   "CHANGE_ID",
		"scope-level": "SCOPE_LEVEL",
		"name2":       "NAME2",
	}
	for input, want := range cases {
		if got := journalKey(input); got != want {
			t.Fatalf("journalKey(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestAppendJournalHandlerKeepsExistingHandlers(t *testing.T) {
	base := slog.NewTextHandler(&bytes.Buffer{}, nil)
	handlers := appendJournalHandler([]slog.Handler{base}, slog.LevelInfo)
	if len(handlers) < 1 || handlers[0] != base {
		t.Fatalf("expected existing handler to stay first, got %v", handlers)
	}
}
