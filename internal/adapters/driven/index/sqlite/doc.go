// Package sqlite provides a persistent vector index backed by SQLite.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. Each collection is a
// separate database file under the persist directory, holding the embedded
// chunks and the identity of the model that produced them.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory.
//
// # Model Identity
//
// The embedding model name and vector dimensions are recorded in index_meta
// on first open. Opening an existing index with a different model fails with
// domain.ErrModelMismatch rather than silently mixing incompatible vectors.
//
// # Thread Safety
//
// All operations are thread-safe. The index uses database-level locking
// provided by SQLite in WAL mode.
package sqlite
