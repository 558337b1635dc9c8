// Package store provides SQLite-backed persistence for the macro
// dictionary.
//
// The database holds three tables: a singleton dictionary row (version
// and content hash), the admitted macros in admission order, and the
// append-only admission history. Save writes the full dictionary state
// in one transaction, so a crash mid-save leaves the previous state
// intact. Load rebuilds the dictionary and verifies the stored content
// hash against a recomputation; a torn or hand-edited database is
// detected rather than silently trusted.
//
// Content hashes use canonical JSON and SHA-256 with domain separation
// (internal/rewrite/canonical.go).
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
