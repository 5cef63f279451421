// Package logootsplit implements the core of a LogootSplit sequence CRDT:
// a dense identifier space, a balanced block tree that maps integer
// positions in a shared sequence to identifiers and back, and a renaming
// protocol that periodically compacts identifiers into short, dense forms
// without breaking convergence for operations generated under older
// identifier schemes.
//
// Transport/broadcast, causal delivery, and the containing application's
// text buffer are out of scope: this package assumes every operation is
// delivered exactly once per replica, in arbitrary order, and produces
// plain Insert/Delete text operations for the caller to apply to its own
// buffer.
package logootsplit
