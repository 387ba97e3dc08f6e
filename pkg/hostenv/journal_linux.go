//go:build linux

package hostenv

import (
	"context"
	"log/slog"
	"strings"
	"time"

	slogjournal "github.com/systemd/slog-journal"
)

// appendJournalHandler adds a systemd journal handler. When the journal is
// unreachable the failure is reported through the existing handlers and
// logging continues without it.
func appendJournalHandler(handlers []slog.Handler, level slog.Level) []slog.Handler {
	journal, err := slogjournal.NewHandler(&slogjournal.Options{
		Level: level,
		ReplaceGroup: func(key string) string {
			return journalKey(key)
		},
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			a.Key = journalKey(a.Key)
			return a
		},
	})
	if err != nil {
		record := slog.NewRecord(time.Now(), slog.LevelWarn, "hostenv: systemd journal unavailable", 0)
		record.AddAttrs(slog.Any("error", err))
		for _, h := range handlers {
			_ = h.Handle(context.Background(), record)
		}
		return handlers
	}
	return append(handlers, journal)
}

// journalKey maps an attribute key onto the journal field alphabet.
func journalKey(key string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, strings.ToUpper(key))
}
