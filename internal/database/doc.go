// Package database provides SurrealDB connectivity for the fitness API.
//
// Repositories depend on the Database interface rather than the driver:
//
//	db := database.NewSurrealDB(database.Config{...})
//	if err := db.Connect(ctx); err != nil { ... }
//	defer db.Close()
//
//	row, err := db.QueryOne(ctx, "SELECT * FROM type::record($id)", map[string]interface{}{"id": id})
//
// Query returns one {status, result} entry per statement. QueryOne unwraps
// the first record of the first statement and returns ErrNotFound when the
// statement produced nothing.
//
// # Atomic Writes
//
// SurrealDB transactions are sent as a single request. AtomicBatch collects
// statements and wraps them in BEGIN/COMMIT TRANSACTION; TxBuilder renames
// each statement's variables so two statements may both use $id:
//
//	err := database.NewAtomicBatch().
//	    Add("DELETE workout_set WHERE workout = type::record($id)", vars).
//	    Add("DELETE type::record($id)", vars).
//	    Execute(ctx, db)
//
// # Errors
//
// ErrNotFound, ErrDuplicate, ErrConnection and ErrQuery are wrapped with %w;
// match them with errors.Is.
package database
