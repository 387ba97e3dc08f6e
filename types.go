package envedit

import (
	"context"
	"errors"
	"os"
	"time"
)

// Store persists named string values per scope. A missing name is not an
// error: Read reports ok=false and an empty value.
type Store interface {
	Read(ctx context.Context, ref Ref) (value string, ok bool, err error)
	Write(ctx context.Context, ref Ref, value string) error
	Delete(ctx context.Context, ref Ref) error
}

// Op names the mutation that produced a Change.
type Op string

const (
	OpCut   Op = "cut"
	OpPaste Op = "paste"
	OpSet   Op = "set"
	OpUnset Op = "unset"
)

// Change describes one persisted mutation.
type Change struct {
	ID         string
	Op         Op
	Ref        Ref
	OldValue   string
	NewValue   string
	Removed    int
	OccurredAt time.Time
}

// Notifier broadcasts that persisted variable state changed. Delivery is
// best effort; callers never roll back on a notification error.
type Notifier interface {
	BroadcastChange(ctx context.Context, change Change) error
}

// NotifierFunc allows plain functions to satisfy Notifier.
type NotifierFunc func(ctx context.Context, change Change) error

// BroadcastChange dispatches to the underlying function.
func (fn NotifierFunc) BroadcastChange(ctx context.Context, change Change) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, change)
}

// Notifiers fans a change out to zero or more notifiers, joining errors.
type Notifiers []Notifier

// BroadcastChange forwards change to every non-nil notifier.
func (n Notifiers) BroadcastChange(ctx context.Context, change Change) error {
	if len(n) == 0 {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	var errs []error
	for _, notifier := range n {
		if notifier == nil {
			continue
		}
		if err := notifier.BroadcastChange(ctx, change); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type noopNotifier struct{}

func (noopNotifier) BroadcastChange(context.Context, Change) error { return nil }

// Environ is the live environment of the current process.
type Environ interface {
	Getenv(key string) string
	Setenv(key, value string) error
}

type osEnviron struct{}

func (osEnviron) Getenv(key string) string { return os.Getenv(key) }

func (osEnviron) Setenv(key, value string) error { return os.Setenv(key, value) }

// Option configures a Variable or Editor.
type Option func(*editorConfig)

type editorConfig struct {
	notifier        Notifier
	changeLogger    ChangeLogger
	evaluatorLogger EvaluatorLogger
	environ         Environ
	evaluator       Evaluator
	programCache    ProgramCache
	functions       *FunctionRegistry
	pathVariable    string
	now             func() time.Time
}

func applyOptions(opts []Option) editorConfig {
	cfg := editorConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.notifier == nil {
		cfg.notifier = noopNotifier{}
	}
	if cfg.changeLogger == nil {
		cfg.changeLogger = noopLogger{}
	}
	if cfg.evaluatorLogger == nil {
		cfg.evaluatorLogger = noopLogger{}
	}
	if cfg.environ == nil {
		cfg.environ = osEnviron{}
	}
	if cfg.pathVariable == "" {
		cfg.pathVariable = PathVariable
	}
	if cfg.now == nil {
		cfg.now = time.Now
	}
	return cfg
}

// WithNotifier configures the change notifier. Pass Notifiers to fan out.
func WithNotifier(notifier Notifier) Option {
	return func(cfg *editorConfig) {
		cfg.notifier = notifier
	}
}

// WithEnviron replaces the process environment used by PathAddImmediate.
func WithEnviron(environ Environ) Option {
	return func(cfg *editorConfig) {
		cfg.environ = environ
	}
}

// WithPathVariable overrides the name of the list variable edited by the
// path operations.
func WithPathVariable(name string) Option {
	return func(cfg *editorConfig) {
		cfg.pathVariable = name
	}
}

// WithEvaluator configures the rule engine used by PathPrune and PathSelect.
func WithEvaluator(e Evaluator) Option {
	return func(cfg *editorConfig) {
		cfg.evaluator = e
	}
}

// WithClock overrides the time source stamped on changes and rule contexts.
func WithClock(now func() time.Time) Option {
	return func(cfg *editorConfig) {
		cfg.now = now
	}
}
