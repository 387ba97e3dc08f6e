package envedit

import (
	"context"
	"fmt"
)

// Editor exposes the variable and path-list operations against one store.
// Each call opens a fresh Variable, so no state is cached between calls and
// concurrent writers follow last-writer-wins.
type Editor struct {
	store Store
	cfg   editorConfig
}

// NewEditor constructs an Editor over store.
func NewEditor(store Store, opts ...Option) *Editor {
	return &Editor{
		store: store,
		cfg:   applyOptions(opts),
	}
}

// PathVariable returns the name of the list variable edited by the path
// operations.
func (e *Editor) PathVariable() string {
	return e.cfg.pathVariable
}

// Open binds a Variable to (scope, name) using the editor's collaborators.
func (e *Editor) Open(ctx context.Context, scope Scope, name string) (*Variable, error) {
	if e.store == nil {
		return nil, ErrStoreRequired
	}
	return open(ctx, e.store, Ref{Scope: scope, Name: name}, e.cfg)
}

// Cut removes every occurrence of text from the named variable.
func (e *Editor) Cut(ctx context.Context, scope Scope, name, text string) (int, error) {
	v, err := e.Open(ctx, scope, name)
	if err != nil {
		return 0, err
	}
	return v.Cut(ctx, text)
}

// Paste appends text to the named variable.
func (e *Editor) Paste(ctx context.Context, scope Scope, name, text string) error {
	v, err := e.Open(ctx, scope, name)
	if err != nil {
		return err
	}
	return v.Paste(ctx, text)
}

// Set replaces the named variable's value, creating it if needed.
func (e *Editor) Set(ctx context.Context, scope Scope, name, text string) error {
	v, err := e.Open(ctx, scope, name)
	if err != nil {
		return err
	}
	return v.Set(ctx, text)
}

// Unset deletes the named variable.
func (e *Editor) Unset(ctx context.Context, scope Scope, name string) error {
	v, err := e.Open(ctx, scope, name)
	if err != nil {
		return err
	}
	return v.Unset(ctx)
}

// Value returns the named variable's current value, or "" when absent.
func (e *Editor) Value(ctx context.Context, scope Scope, name string) (string, error) {
	v, err := e.Open(ctx, scope, name)
	if err != nil {
		return "", err
	}
	return v.Value(), nil
}

// PathAdd appends path to the path variable unless it is already present as
// a whole entry.
func (e *Editor) PathAdd(ctx context.Context, scope Scope, path string) error {
	if !scope.Valid() {
		return nil
	}
	if path == "" {
		return ErrEmptyToken
	}
	v, err := e.Open(ctx, scope, e.cfg.pathVariable)
	if err != nil {
		return err
	}
	if ContainsToken(v.Value(), path) {
		return nil
	}
	if v.Value() == "" {
		return v.Set(ctx, path)
	}
	return v.Paste(ctx, string(PathDelimiter)+path)
}

// PathAddImmediate appends path to the current process's PATH unless it is
// already present. Nothing is persisted and no notification is sent.
func (e *Editor) PathAddImmediate(scope Scope, path string) error {
	if !scope.Valid() {
		return nil
	}
	if path == "" {
		return ErrEmptyToken
	}
	current := e.cfg.environ.Getenv(ProcessPathVariable)
	if ContainsToken(current, path) {
		return nil
	}
	if err := e.cfg.environ.Setenv(ProcessPathVariable, AppendToken(current, path)); err != nil {
		return fmt.Errorf("envedit: set process %s: %w", ProcessPathVariable, err)
	}
	return nil
}

// PathRemove removes every whole-entry occurrence of path from the path
// variable and persists the result once. It returns the number removed.
func (e *Editor) PathRemove(ctx context.Context, scope Scope, path string) (int, error) {
	if !scope.Valid() {
		return 0, nil
	}
	if path == "" {
		return 0, ErrEmptyToken
	}
	v, err := e.Open(ctx, scope, e.cfg.pathVariable)
	if err != nil {
		return 0, err
	}
	value, count := RemoveToken(v.Value(), path)
	if err := v.Set(ctx, value); err != nil {
		return 0, err
	}
	return count, nil
}
