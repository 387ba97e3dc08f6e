package store

import "errors"

var (
	// ErrInvalidScope is returned when a store is asked to touch ScopeInvalid.
	ErrInvalidScope = errors.New("store: invalid scope")
	// ErrUnsupported is returned by platform stores on hosts without them.
	ErrUnsupported = errors.New("store: not supported on this platform")
)
