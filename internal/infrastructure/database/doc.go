// Package database provides the SQLite persistence layer for Toolkit Core.
//
// It wraps database/sql with:
//   - Connection lifecycle management (open, close, health checks)
//   - WAL mode and busy-timeout pragmas for a single-writer workload
//   - Forward-only embedded migrations (see the migrations package)
//
// The only persisted state in Toolkit Core is the dispatch audit log; device
// classification is session-scoped and deliberately never written to disk.
//
// # Usage
//
//	db, err := database.Open(database.Config{Path: "./data/toolkit.db", WALMode: true, BusyTimeout: 5})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
//
// # Thread Safety
//
// The underlying sql.DB handles its own connection pooling and is safe for
// concurrent use. The pool is capped at one open connection to match SQLite's
// single-writer model.
package database
