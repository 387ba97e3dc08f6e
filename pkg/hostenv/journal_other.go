//go:build !linux

package hostenv

import "log/slog"

func appendJournalHandler(handlers []slog.Handler, _ slog.Level) []slog.Handler {
	return handlers
}
