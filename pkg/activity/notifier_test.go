package activity_test

import (
	"context"
	"testing"

	envedit "github.com/goliatone/go-envedit"
	"github.com/goliatone/go-envedit/pkg/activity"
	"github.com/goliatone/go-envedit/pkg/store"
)

func TestNotifierRecordsEachPersistedChange(t *testing.T) {
	capture := &activity.CaptureHook{}
	notifier := activity.Notifier{
		Emitter: activity.NewEmitter(activity.Hooks{capture}, activity.Config{Enabled: true}),
		ActorID: "operator",
	}
	editor := envedit.NewEditor(store.NewMemoryStore(), envedit.WithNotifier(notifier))
	ctx := context.Background()

	if err := editor.Set(ctx, envedit.ScopeUser, "TestPath", "A;B;A;C;A"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, err := editor.Cut(ctx, envedit.ScopeUser, "TestPath", "A;"); err != nil {
		t.Fatalf("cut: %v", err)
	}
	if err := editor.Unset(ctx, envedit.ScopeUser, "TestPath"); err != nil {
		t.Fatalf("unset: %v", err)
	}

	if len(capture.Events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(capture.Events))
	}
	wantVerbs := []string{activity.VerbVariableSet, activity.VerbVariableCut, activity.VerbVariableUnset}
	for i, want := range wantVerbs {
		if capture.Events[i].Verb != want {
			t.Fatalf("event %d: expected %s, got %s", i, want, capture.Events[i].Verb)
		}
		if capture.Events[i].ObjectID != "user/TestPath" {
			t.Fatalf("event %d: unexpected object id %q", i, capture.Events[i].ObjectID)
		}
		if capture.Events[i].ActorID != "operator" {
			t.Fatalf("event %d: expected actor, got %q", i, capture.Events[i].ActorID)
		}
		if capture.Events[i].Channel != activity.DefaultChannel {
			t.Fatalf("event %d: expected default channel, got %q", i, capture.Events[i].Channel)
		}
	}
	if capture.Events[1].Metadata["removed"] != 2 {
		t.Fatalf("expected cut to report 2 removals, got %v", capture.Events[1].Metadata["removed"])
	}
	if capture.Events[1].Metadata["new_value"] != "B;C;A" {
		t.Fatalf("unexpected cut result %v", capture.Events[1].Metadata["new_value"])
	}
}

func TestNotifierDisabledEmitterIsSilent(t *testing.T) {
	capture := &activity.CaptureHook{}
	notifier := activity.Notifier{Emitter: activity.NewEmitter(activity.Hooks{capture}, activity.Config{})}
	if err := notifier.BroadcastChange(context.Background(), envedit.Change{Op: envedit.OpSet}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(capture.Events) != 0 {
		t.Fatalf("expected no events, got %d", len(capture.Events))
	}
}
