// Package catalog persists the reconciled audiobook catalog in SQLite and
// commits the engine's mutation and merge specs.
//
// The Store owns the database connection, schema initialization, and an
// advisory file lock that guarantees exclusive access during writes. Books
// use merge-preserving updates: descriptive fields are only written while
// empty, match bookkeeping always refreshes, and deletion is a soft flag so
// re-scans never resurrect removed records. Author merges commit as single
// transactions so partial re-pointing is never observable.
//
// Treat this package as the single source of truth for catalog semantics;
// schema changes bump schemaVersion in schema.go.
package catalog
