package envedit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Resolution is the value a newly started process would observe for a
// variable, along with the per-scope contributions that produced it.
type Resolution struct {
	Name   string       `json:"name" yaml:"name"`
	Value  string       `json:"value" yaml:"value"`
	Found  bool         `json:"found" yaml:"found"`
	Layers []Provenance `json:"layers" yaml:"layers"`
}

// Provenance details what one scope contributed to a Resolution.
type Provenance struct {
	Scope    Scope  `json:"scope" yaml:"scope"`
	Priority int    `json:"priority" yaml:"priority"`
	Value    string `json:"value,omitempty" yaml:"value,omitempty"`
	Found    bool   `json:"found" yaml:"found"`
}

// ToJSON serialises the resolution for logging or transport helpers.
func (r Resolution) ToJSON() ([]byte, error) {
	type alias Resolution
	return json.Marshal(alias(r))
}

// ResolutionFromJSON deserialises a payload produced by ToJSON.
func ResolutionFromJSON(payload []byte) (Resolution, error) {
	type alias Resolution
	var resolution alias
	if err := json.Unmarshal(payload, &resolution); err != nil {
		return Resolution{}, err
	}
	return Resolution(resolution), nil
}

// Resolve reads name from every scope, strongest first. The path variable
// concatenates the system list followed by the user list; any other
// variable takes the strongest scope that defines it.
func (e *Editor) Resolve(ctx context.Context, name string) (Resolution, error) {
	if e.store == nil {
		return Resolution{}, ErrStoreRequired
	}
	if name == "" {
		return Resolution{}, fmt.Errorf("envedit: variable name is required")
	}

	resolution := Resolution{Name: name}
	for _, scope := range []Scope{ScopeUser, ScopeSystem} {
		ref := Ref{Scope: scope, Name: name}
		value, ok, err := e.store.Read(ctx, ref)
		if err != nil {
			return Resolution{}, wrapStoreError("read", ref, err)
		}
		if !ok {
			value = ""
		}
		resolution.Layers = append(resolution.Layers, Provenance{
			Scope:    scope,
			Priority: scope.Priority(),
			Value:    value,
			Found:    ok,
		})
	}

	if strings.EqualFold(name, e.cfg.pathVariable) {
		var value string
		for i := len(resolution.Layers) - 1; i >= 0; i-- {
			layer := resolution.Layers[i]
			resolution.Found = resolution.Found || layer.Found
			if layer.Value != "" {
				value = AppendToken(value, layer.Value)
			}
		}
		resolution.Value = value
		return resolution, nil
	}

	for _, layer := range resolution.Layers {
		if layer.Found {
			resolution.Value = layer.Value
			resolution.Found = true
			break
		}
	}
	return resolution, nil
}
