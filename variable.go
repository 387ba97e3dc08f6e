package envedit

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Variable is the in-memory copy of one named variable bound to a scope.
// Every mutation persists the whole value before returning and then
// broadcasts a change notification. A Variable bound to ScopeInvalid never
// touches its store and all of its mutations are no-ops.
type Variable struct {
	ref   Ref
	value string
	store Store
	cfg   editorConfig
}

// Open binds to (scope, name) and loads the current value from store. An
// absent name yields an empty value. An invalid scope yields an unbound
// Variable without error.
func Open(ctx context.Context, store Store, scope Scope, name string, opts ...Option) (*Variable, error) {
	return open(ctx, store, Ref{Scope: scope, Name: name}, applyOptions(opts))
}

func open(ctx context.Context, store Store, ref Ref, cfg editorConfig) (*Variable, error) {
	v := &Variable{ref: ref, store: store, cfg: cfg}
	if !ref.Scope.Valid() {
		v.ref.Scope = ScopeInvalid
		return v, nil
	}
	if store == nil {
		return nil, ErrStoreRequired
	}
	value, ok, err := store.Read(ctx, ref)
	if err != nil {
		return nil, wrapStoreError("read", ref, err)
	}
	if ok {
		v.value = value
	}
	return v, nil
}

// Name returns the variable name.
func (v *Variable) Name() string {
	return v.ref.Name
}

// Scope returns the bound scope.
func (v *Variable) Scope() Scope {
	return v.ref.Scope
}

// Ref returns the (scope, name) pair.
func (v *Variable) Ref() Ref {
	return v.ref
}

// Value returns the current in-memory value without reading the store.
func (v *Variable) Value() string {
	return v.value
}

// Clone returns an independent copy. Later mutations on either copy are not
// observed by the other.
func (v *Variable) Clone() *Variable {
	if v == nil {
		return nil
	}
	clone := *v
	return &clone
}

// Cut removes every occurrence of text from the value, rescanning from the
// start after each removal so that occurrences formed by joining the
// surrounding pieces are removed too. It returns the number of removals and
// persists the result even when nothing was removed.
func (v *Variable) Cut(ctx context.Context, text string) (int, error) {
	if !v.ref.Scope.Valid() {
		return 0, nil
	}
	if text == "" {
		return 0, ErrEmptyText
	}
	value, count := cutAll(v.value, text)
	if err := v.persist(ctx, OpCut, value, count); err != nil {
		return 0, err
	}
	return count, nil
}

func cutAll(value, text string) (string, int) {
	count := 0
	for {
		pos := strings.Index(value, text)
		if pos < 0 {
			return value, count
		}
		value = value[:pos] + value[pos+len(text):]
		count++
	}
}

// Paste appends text to the value with no separator.
func (v *Variable) Paste(ctx context.Context, text string) error {
	if !v.ref.Scope.Valid() {
		return nil
	}
	return v.persist(ctx, OpPaste, v.value+text, 0)
}

// Set replaces the value, creating the variable in the store if needed.
func (v *Variable) Set(ctx context.Context, text string) error {
	if !v.ref.Scope.Valid() {
		return nil
	}
	return v.persist(ctx, OpSet, text, 0)
}

// Unset clears the value and deletes the name from the store.
func (v *Variable) Unset(ctx context.Context) error {
	if !v.ref.Scope.Valid() {
		return nil
	}
	start := time.Now()
	old := v.value
	if err := v.store.Delete(ctx, v.ref); err != nil {
		err = wrapStoreError("delete", v.ref, err)
		v.log(OpUnset, 0, start, err, nil)
		return err
	}
	v.value = ""
	notifyErr := v.notify(ctx, OpUnset, old, 0)
	v.log(OpUnset, 0, start, nil, notifyErr)
	return nil
}

func (v *Variable) persist(ctx context.Context, op Op, value string, removed int) error {
	start := time.Now()
	if err := v.store.Write(ctx, v.ref, value); err != nil {
		err = wrapStoreError("write", v.ref, err)
		v.log(op, removed, start, err, nil)
		return err
	}
	old := v.value
	v.value = value
	notifyErr := v.notify(ctx, op, old, removed)
	v.log(op, removed, start, nil, notifyErr)
	return nil
}

func (v *Variable) notify(ctx context.Context, op Op, old string, removed int) error {
	return v.cfg.notifier.BroadcastChange(ctx, Change{
		ID:         uuid.NewString(),
		Op:         op,
		Ref:        v.ref,
		OldValue:   old,
		NewValue:   v.value,
		Removed:    removed,
		OccurredAt: v.cfg.now(),
	})
}

func (v *Variable) log(op Op, removed int, start time.Time, err, notifyErr error) {
	v.cfg.changeLogger.LogChange(ChangeLogEvent{
		Op:        op,
		Ref:       v.ref,
		Removed:   removed,
		Duration:  time.Since(start),
		Err:       err,
		NotifyErr: notifyErr,
	})
}
