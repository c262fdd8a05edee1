// Package fixtures provides test data factories for the fitness API.
//
// Create a factory with a database connection and build users, catalog
// exercises, workouts and sets with sensible defaults:
//
//	f := fixtures.New(tdb.DB)
//	user := f.CreateUser(t, fixtures.WithEmail("a@example.com"))
//	bench := f.CreateExercise(t, fixtures.WithExerciseName("Bench Press"))
//	workout := f.CreateWorkout(t, user)
//	f.CreateSet(t, workout, bench, 1, 10, 60)
//
// Test data is removed with the namespace when the test database closes.
package fixtures
