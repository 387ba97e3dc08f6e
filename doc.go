// Package envedit reads, edits and persists named environment variables held
// in a scoped key-value store (the registry-backed system and user
// environments on Windows) and manipulates the semicolon-delimited Path list.
//
// The store and the change broadcast are collaborators injected by the
// caller:
//
//	Store    Read/Write/Delete a named string under a Scope
//	Notifier BroadcastChange after every persisted mutation
//
// Platform adapters live in pkg/store (registry, memory) and pkg/broadcast;
// pkg/hostenv wires them into a ready-to-use Editor.
//
// Every mutation is persisted eagerly: one store write (or delete) and one
// notification per call, never batched. Notification failures are logged and
// never undo a write. Concurrent writers are last-writer-wins.
package envedit
