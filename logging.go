package envedit

import (
	"context"
	"log/slog"
	"time"

	slogmulti "github.com/samber/slog-multi"
)

// ChangeLogEvent describes one attempted mutation for logging.
type ChangeLogEvent struct {
	Op        Op
	Ref       Ref
	Removed   int
	Duration  time.Duration
	Err       error
	NotifyErr error
}

// ChangeLogger records mutation events.
type ChangeLogger interface {
	LogChange(ChangeLogEvent)
}

// ChangeLoggerFunc adapts a function to ChangeLogger.
type ChangeLoggerFunc func(ChangeLogEvent)

// LogChange implements ChangeLogger.
func (f ChangeLoggerFunc) LogChange(event ChangeLogEvent) {
	if f != nil {
		f(event)
	}
}

// EvaluatorLogEvent describes a rule evaluation attempt for logging.
type EvaluatorLogEvent struct {
	Engine   string
	Rule     string
	Scope    string
	Entry    string
	Duration time.Duration
	Err      error
}

// EvaluatorLogger records evaluator events.
type EvaluatorLogger interface {
	LogEvaluation(EvaluatorLogEvent)
}

// EvaluatorLoggerFunc adapts a function to EvaluatorLogger.
type EvaluatorLoggerFunc func(EvaluatorLogEvent)

// LogEvaluation implements EvaluatorLogger.
func (f EvaluatorLoggerFunc) LogEvaluation(event EvaluatorLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopLogger struct{}

func (noopLogger) LogChange(ChangeLogEvent) {}

func (noopLogger) LogEvaluation(EvaluatorLogEvent) {}

// WithChangeLogger attaches a mutation logger.
func WithChangeLogger(logger ChangeLogger) Option {
	return func(cfg *editorConfig) {
		if logger == nil {
			cfg.changeLogger = noopLogger{}
			return
		}
		cfg.changeLogger = logger
	}
}

// WithEvaluatorLogger attaches a rule evaluation logger.
func WithEvaluatorLogger(logger EvaluatorLogger) Option {
	return func(cfg *editorConfig) {
		if logger == nil {
			cfg.evaluatorLogger = noopLogger{}
			return
		}
		cfg.evaluatorLogger = logger
	}
}

// WithLogger attaches a logger that records both mutations and evaluations.
func WithLogger(logger *SlogLogger) Option {
	return func(cfg *editorConfig) {
		if logger == nil {
			return
		}
		cfg.changeLogger = logger
		cfg.evaluatorLogger = logger
	}
}

// SlogLogger writes change and evaluation events to a slog.Logger.
type SlogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger wraps logger. A nil logger falls back to slog.Default().
func NewSlogLogger(logger *slog.Logger) *SlogLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogLogger{logger: logger}
}

// NewFanoutLogger builds a SlogLogger that writes every record to all handlers.
func NewFanoutLogger(handlers ...slog.Handler) *SlogLogger {
	return NewSlogLogger(slog.New(slogmulti.Fanout(handlers...)))
}

// Logger exposes the underlying slog.Logger.
func (l *SlogLogger) Logger() *slog.Logger {
	return l.logger
}

// LogChange implements ChangeLogger.
func (l *SlogLogger) LogChange(event ChangeLogEvent) {
	attrs := []slog.Attr{
		slog.String("op", string(event.Op)),
		slog.String("scope", event.Ref.Scope.String()),
		slog.String("name", event.Ref.Name),
		slog.Duration("duration", event.Duration),
	}
	if event.Op == OpCut {
		attrs = append(attrs, slog.Int("removed", event.Removed))
	}
	ctx := context.Background()
	switch {
	case event.Err != nil:
		attrs = append(attrs, slog.Any("error", event.Err))
		l.logger.LogAttrs(ctx, slog.LevelError, "envedit: change failed", attrs...)
	case event.NotifyErr != nil:
		attrs = append(attrs, slog.Any("error", event.NotifyErr))
		l.logger.LogAttrs(ctx, slog.LevelWarn, "envedit: change notification failed", attrs...)
	default:
		l.logger.LogAttrs(ctx, slog.LevelInfo, "envedit: change persisted", attrs...)
	}
}

// LogEvaluation implements EvaluatorLogger.
func (l *SlogLogger) LogEvaluation(event EvaluatorLogEvent) {
	attrs := []slog.Attr{
		slog.String("engine", event.Engine),
		slog.String("rule", event.Rule),
		slog.String("scope", event.Scope),
		slog.String("entry", event.Entry),
		slog.Duration("duration", event.Duration),
	}
	if event.Err != nil {
		attrs = append(attrs, slog.Any("error", event.Err))
		l.logger.LogAttrs(context.Background(), slog.LevelWarn, "envedit: rule evaluation failed", attrs...)
		return
	}
	l.logger.LogAttrs(context.Background(), slog.LevelDebug, "envedit: rule evaluated", attrs...)
}
