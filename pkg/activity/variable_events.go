package activity

import (
	"strings"
	"time"

	envedit "github.com/goliatone/go-envedit"
)

const (
	VerbVariableCut   = "environment.variable.cut"
	VerbVariablePaste = "environment.variable.paste"
	VerbVariableSet   = "environment.variable.set"
	VerbVariableUnset = "environment.variable.unset"

	ObjectTypeVariable = "environment.variable"
)

// VariableEventInput describes the common fields for variable change events.
type VariableEventInput struct {
	ActorID    string
	UserID     string
	TenantID   string
	Channel    string
	ChangeID   string
	Scope      envedit.Scope
	Name       string
	OldValue   string
	NewValue   string
	Removed    int
	Metadata   map[string]any
	OccurredAt time.Time
}

// BuildVariableEvent maps a change operation onto its activity verb.
func BuildVariableEvent(op envedit.Op, input VariableEventInput) Event {
	switch op {
	case envedit.OpCut:
		return BuildVariableCutEvent(input)
	case envedit.OpPaste:
		return BuildVariablePastedEvent(input)
	case envedit.OpUnset:
		return BuildVariableUnsetEvent(input)
	default:
		return BuildVariableSetEvent(input)
	}
}

// BuildVariableCutEvent constructs an event for a substring cut.
func BuildVariableCutEvent(input VariableEventInput) Event {
	event := buildVariableEvent(VerbVariableCut, input)
	event.Metadata["removed"] = input.Removed
	return event
}

// BuildVariablePastedEvent constructs an event for an append.
func BuildVariablePastedEvent(input VariableEventInput) Event {
	return buildVariableEvent(VerbVariablePaste, input)
}

// BuildVariableSetEvent constructs an event for a whole-value replace.
func BuildVariableSetEvent(input VariableEventInput) Event {
	return buildVariableEvent(VerbVariableSet, input)
}

// BuildVariableUnsetEvent constructs an event for a deletion.
func BuildVariableUnsetEvent(input VariableEventInput) Event {
	event := buildVariableEvent(VerbVariableUnset, input)
	delete(event.Metadata, "new_value")
	return event
}

func buildVariableEvent(verb string, input VariableEventInput) Event {
	metadata := cloneMap(input.Metadata)
	if metadata == nil {
		metadata = map[string]any{}
	}
	metadata["scope"] = input.Scope.String()
	metadata["scope_priority"] = input.Scope.Priority()
	metadata["name"] = input.Name
	metadata["old_value"] = input.OldValue
	metadata["new_value"] = input.NewValue
	if input.ChangeID != "" {
		metadata["change_id"] = input.ChangeID
	}

	name := strings.TrimSpace(input.Name)
	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.ActorID),
		UserID:     strings.TrimSpace(input.UserID),
		TenantID:   strings.TrimSpace(input.TenantID),
		Scope:      input.Scope,
		Name:       name,
		ObjectType: ObjectTypeVariable,
		ObjectID:   envedit.Ref{Scope: input.Scope, Name: name}.Identifier(),
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}
