// Package sqlite provides a SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements two store interfaces
// through a single database connection:
//
//   - PolicyStore: the indexed policy corpus and its embeddings
//   - TicketSink: incident snapshots handed to human agents
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is an .up.sql file applied once.
//
// # Data Location
//
// By default, the database is stored at ~/.fieldtriage/data/triage.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
