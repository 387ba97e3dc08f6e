// Package store provides envedit.Store implementations.
//
//   - MemoryStore keeps values in a map keyed by Ref.Identifier() and is meant
//     for tests, examples and dry runs.
//   - RegistryStore reads and writes the Windows registry environment keys.
//     On other platforms it compiles to a stub returning ErrUnsupported.
//   - SQLiteStore keeps variables in a SQLite file, for hosts without a
//     registry.
//
// Absent names are reported with ok=false rather than an error, and deleting
// an absent name succeeds, matching the envedit.Store contract.
package store
