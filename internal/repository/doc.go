// Package repository implements the SurrealDB data access layer.
//
// Each repository wraps a database.Database and maps records onto model
// types:
//
//   - UserRepository: accounts, unique by normalized email
//   - ExerciseRepository: the exercise catalog, unique by name
//   - WorkoutSessionRepository: sessions owned by a user
//   - WorkoutSetRepository: sets linked to a session and an exercise
//
// # Conventions
//
// IDs are "table:key" strings. Lookups accept a bare key or a key of their
// own table; an ID of another table is treated as missing so a caller can
// never reach a different record type through type::record().
//
// Get methods return (nil, nil) when the record does not exist. Unique
// index violations surface as database.ErrDuplicate.
//
// Deleting a session removes its sets in the same transaction via
// database.AtomicBatch.
package repository
