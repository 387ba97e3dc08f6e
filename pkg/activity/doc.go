// Package activity records environment variable changes as activity events.
//
// Hooks receive normalized Events; Emitter applies channel defaults and can
// be switched off by configuration; Notifier plugs an Emitter into an
// envedit.Editor so each persisted change produces one event:
//
//	envedit.Variable -> Notifier -> Emitter -> Hooks -> (CaptureHook, usersink.Hook, ...)
package activity
