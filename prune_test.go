package envedit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func pruneFixture(t *testing.T, value string, opts ...Option) (*Editor, *recordingStore, *recordingNotifier) {
	t.Helper()
	store := newRecordingStore()
	store.put(pathRef, value)
	notifier := &recordingNotifier{}
	opts = append([]Option{WithNotifier(notifier)}, opts...)
	return NewEditor(store, opts...), store, notifier
}

func TestPathPruneRemovesMatchingEntries(t *testing.T) {
	editor, store, notifier := pruneFixture(t, `C:\Tmp;D:\Keep;C:\Other`)

	removed, err := editor.PathPrune(context.Background(), ScopeUser, `entry startsWith "C:"`)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 entries removed, got %d", removed)
	}
	if value, _ := store.get(pathRef); value != `D:\Keep` {
		t.Fatalf("unexpected value %q", value)
	}
	if store.writes != 1 || len(notifier.changes) != 1 {
		t.Fatalf("expected one write and one notification, got %d/%d", store.writes, len(notifier.changes))
	}
}

func TestPathPruneWithoutMatchesDoesNotWrite(t *testing.T) {
	editor, store, notifier := pruneFixture(t, `C:\Tmp;D:\Keep`)

	removed, err := editor.PathPrune(context.Background(), ScopeUser, `entry == "Z:\\Nowhere"`)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if removed != 0 || store.writes != 0 || len(notifier.changes) != 0 {
		t.Fatalf("expected no effect, got removed=%d writes=%d notes=%d", removed, store.writes, len(notifier.changes))
	}
}

func TestPathSelectReturnsMatchesWithoutWriting(t *testing.T) {
	editor, store, _ := pruneFixture(t, `%SystemRoot%\system32;C:\Bin;%USERPROFILE%\go\bin`,
		WithFunctionRegistry(StandardFunctions()))

	matched, err := editor.PathSelect(context.Background(), ScopeUser, `expandable(entry)`)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	want := []string{`%SystemRoot%\system32`, `%USERPROFILE%\go\bin`}
	if strings.Join(matched, "|") != strings.Join(want, "|") {
		t.Fatalf("expected %v, got %v", want, matched)
	}
	if store.writes != 0 {
		t.Fatalf("select must not write, got %d writes", store.writes)
	}
}

func TestPathSelectExposesIndexAndVariable(t *testing.T) {
	editor, _, _ := pruneFixture(t, `A;B;C`)

	matched, err := editor.PathSelect(context.Background(), ScopeUser, `index > 0 && variable == "Path" && scope == "user"`)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if strings.Join(matched, ";") != "B;C" {
		t.Fatalf("unexpected matches %v", matched)
	}
}

func TestPathPruneCustomFunction(t *testing.T) {
	calls := 0
	editor, store, _ := pruneFixture(t, `C:\Temp\a;C:\Bin;C:\Temp\b`,
		WithCustomFunction("temp", func(args ...any) (any, error) {
			calls++
			path, _ := args[0].(string)
			return strings.Contains(strings.ToLower(path), `\temp\`), nil
		}))

	removed, err := editor.PathPrune(context.Background(), ScopeUser, `temp(entry)`)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if removed != 2 || calls != 3 {
		t.Fatalf("expected 2 removals over 3 calls, got %d/%d", removed, calls)
	}
	if value, _ := store.get(pathRef); value != `C:\Bin` {
		t.Fatalf("unexpected value %q", value)
	}
}

func TestPathPruneNonBooleanResult(t *testing.T) {
	editor, store, _ := pruneFixture(t, `A;B`)

	_, err := editor.PathPrune(context.Background(), ScopeUser, `entry`)
	if !errors.Is(err, ErrRuleResult) {
		t.Fatalf("expected ErrRuleResult, got %v", err)
	}
	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) {
		t.Fatalf("expected EvaluationError, got %T", err)
	}
	if evalErr.Engine != EngineExpr || evalErr.Rule != "entry" || evalErr.Scope != "user" {
		t.Fatalf("unexpected metadata %+v", evalErr)
	}
	if store.writes != 0 {
		t.Fatalf("expected no writes on failure")
	}
}

func TestPathPruneCompileError(t *testing.T) {
	var events []EvaluatorLogEvent
	editor, store, _ := pruneFixture(t, `A;B`, WithEvaluatorLogger(EvaluatorLoggerFunc(func(event EvaluatorLogEvent) {
		events = append(events, event)
	})))

	_, err := editor.PathPrune(context.Background(), ScopeUser, `entry ==`)
	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) {
		t.Fatalf("expected EvaluationError, got %v", err)
	}
	if len(events) != 1 || events[0].Err == nil {
		t.Fatalf("expected the compile failure to be logged, got %+v", events)
	}
	if store.writes != 0 {
		t.Fatalf("expected no writes on failure")
	}
}

func TestPathPruneLogsEachEntry(t *testing.T) {
	var events []EvaluatorLogEvent
	editor, _, _ := pruneFixture(t, `A;B;C`, WithEvaluatorLogger(EvaluatorLoggerFunc(func(event EvaluatorLogEvent) {
		events = append(events, event)
	})))

	if _, err := editor.PathPrune(context.Background(), ScopeUser, `entry == "B"`); err != nil {
		t.Fatalf("prune: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 evaluation events, got %d", len(events))
	}
	for i, entry := range []string{"A", "B", "C"} {
		if events[i].Entry != entry || events[i].Engine != EngineExpr {
			t.Fatalf("unexpected event %d: %+v", i, events[i])
		}
	}
}

func TestPathPruneUsesProgramCache(t *testing.T) {
	cache := &fakeProgramCache{}
	editor, _, _ := pruneFixture(t, `A;B`, WithProgramCache(cache))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := editor.PathSelect(ctx, ScopeUser, `entry == "A"`); err != nil {
			t.Fatalf("select %d: %v", i, err)
		}
	}
	if cache.hits != 1 {
		t.Fatalf("expected the second select to hit the cache, got %d hits", cache.hits)
	}
}

func TestPathPruneInvalidScope(t *testing.T) {
	editor, store, _ := pruneFixture(t, `A`)

	removed, err := editor.PathPrune(context.Background(), ScopeInvalid, `true`)
	if err != nil || removed != 0 {
		t.Fatalf("expected no-op, got %d %v", removed, err)
	}
	matched, err := editor.PathSelect(context.Background(), ScopeInvalid, `true`)
	if err != nil || matched != nil {
		t.Fatalf("expected no-op, got %v %v", matched, err)
	}
	if store.reads != 0 {
		t.Fatalf("expected no store access")
	}
}

func TestEvaluatorFactories(t *testing.T) {
	registry := NewFunctionRegistry()
	if err := registry.Register("short", func(args ...any) (any, error) {
		s, _ := args[0].(string)
		return len(s) <= 1, nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	cases := []struct {
		engine string
		rule   string
	}{
		{EngineExpr, `short(entry) && index != 1`},
		{EngineCEL, `short(entry) && index != 1`},
		{EngineJS, `short(entry) && index != 1`},
	}
	for _, tc := range cases {
		t.Run(tc.engine, func(t *testing.T) {
			if tc.engine == EngineJS && !jsEvaluatorAvailable() {
				t.Skip("js evaluator requires the js_eval build tag")
			}
			evaluator, err := NewEvaluator(tc.engine, nil, registry)
			if err != nil {
				t.Fatalf("new evaluator: %v", err)
			}
			if got := evaluatorEngineName(evaluator); got != tc.engine {
				t.Fatalf("expected engine %q, got %q", tc.engine, got)
			}
			editor, _, _ := pruneFixture(t, `A;B;LONG;C`, WithEvaluator(evaluator))
			matched, err := editor.PathSelect(context.Background(), ScopeUser, tc.rule)
			if err != nil {
				t.Fatalf("select: %v", err)
			}
			if got := strings.Join(matched, ";"); got != "A;C" {
				t.Fatalf("expected A;C, got %s", got)
			}
		})
	}
}

func TestCELStringFunctions(t *testing.T) {
	evaluator, err := NewEvaluator(EngineCEL, nil, nil)
	if err != nil {
		t.Fatalf("new evaluator: %v", err)
	}
	editor, store, _ := pruneFixture(t, `C:\Tmp;D:\Keep`, WithEvaluator(evaluator))

	removed, err := editor.PathPrune(context.Background(), ScopeUser, `entry.startsWith("C:")`)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removal, got %d", removed)
	}
	if value, _ := store.get(pathRef); value != `D:\Keep` {
		t.Fatalf("unexpected value %q", value)
	}
}

func TestNewEvaluatorUnknownEngine(t *testing.T) {
	if _, err := NewEvaluator("lua", nil, nil); !errors.Is(err, ErrNoEvaluator) {
		t.Fatalf("expected ErrNoEvaluator, got %v", err)
	}
	if !jsEvaluatorAvailable() {
		if _, err := NewEvaluator(EngineJS, nil, nil); !errors.Is(err, ErrNoEvaluator) {
			t.Fatalf("expected ErrNoEvaluator without js_eval tag, got %v", err)
		}
	}
}

func TestStandardFunctions(t *testing.T) {
	registry := StandardFunctions()
	dir := t.TempDir()

	exists, err := registry.Call("exists", dir)
	if err != nil || exists != true {
		t.Fatalf("expected temp dir to exist, got %v %v", exists, err)
	}
	missing, err := registry.Call("exists", dir+"/missing")
	if err != nil || missing != false {
		t.Fatalf("expected missing path, got %v %v", missing, err)
	}
	if _, err := registry.Call("exists", 42); err == nil {
		t.Fatalf("expected type error")
	}
	expandable, err := registry.Call("EXPANDABLE", `%JAVA_HOME%\bin`)
	if err != nil || expandable != true {
		t.Fatalf("expected reference to be detected, got %v %v", expandable, err)
	}
	if err := registry.Register("exists", func(...any) (any, error) { return nil, nil }); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
	if _, err := registry.Call("nope"); err == nil || !strings.Contains(err.Error(), fmt.Sprintf("%q", "nope")) {
		t.Fatalf("expected unknown function error, got %v", err)
	}
}

func TestRulesSeeEditorClock(t *testing.T) {
	at := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	editor, _, _ := pruneFixture(t, `A;B`, WithClock(func() time.Time { return at }))

	matched, err := editor.PathSelect(context.Background(), ScopeUser, `now.Year() == 2030 && entry == "B"`)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(matched) != 1 || matched[0] != "B" {
		t.Fatalf("unexpected matches %v", matched)
	}
}
