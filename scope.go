package envedit

import (
	"fmt"
	"strings"
)

// Scope identifies the namespace a variable is persisted under.
type Scope int

const (
	// ScopeInvalid is the zero value. Variables bound to it never touch a
	// store and every mutation is a no-op.
	ScopeInvalid Scope = iota
	// ScopeSystem is the machine-wide environment.
	ScopeSystem
	// ScopeUser is the current user's environment.
	ScopeUser
)

const (
	// Higher numbers win when resolving the effective value of a variable.
	ScopePrioritySystem = 100
	ScopePriorityUser   = 500
)

func (s Scope) String() string {
	switch s {
	case ScopeSystem:
		return "system"
	case ScopeUser:
		return "user"
	default:
		return "invalid"
	}
}

// Label returns a human-friendly name for the scope.
func (s Scope) Label() string {
	switch s {
	case ScopeSystem:
		return "System"
	case ScopeUser:
		return "User"
	default:
		return "Invalid"
	}
}

// Valid reports whether s is bound to a store namespace.
func (s Scope) Valid() bool {
	return s == ScopeSystem || s == ScopeUser
}

// Priority returns the layering precedence of s.
func (s Scope) Priority() int {
	switch s {
	case ScopeSystem:
		return ScopePrioritySystem
	case ScopeUser:
		return ScopePriorityUser
	default:
		return 0
	}
}

// ParseScope converts a string into a Scope. Unrecognised values map to
// ScopeInvalid.
func ParseScope(value string) Scope {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "system", "machine":
		return ScopeSystem
	case "user":
		return ScopeUser
	default:
		return ScopeInvalid
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Scope) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Scope) UnmarshalText(text []byte) error {
	scope := ParseScope(string(text))
	if scope == ScopeInvalid && strings.ToLower(strings.TrimSpace(string(text))) != "invalid" {
		return fmt.Errorf("envedit: unknown scope %q", string(text))
	}
	*s = scope
	return nil
}

// Ref identifies one named variable within one scope.
type Ref struct {
	Scope Scope
	Name  string
}

// Identifier returns the canonical key for the reference, e.g. "user/Path".
func (r Ref) Identifier() string {
	return fmt.Sprintf("%s/%s", r.Scope, r.Name)
}

func (r Ref) String() string {
	return r.Identifier()
}
