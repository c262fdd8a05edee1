// Package testdb provides SurrealDB test database utilities.
//
// Each call to New connects to the server named by TEST_DB_HOST and
// TEST_DB_PORT (default localhost:8000), selects a unique namespace and
// applies the embedded migrations:
//
//	func TestSomething(t *testing.T) {
//	    tdb := testdb.New(t)
//	    repo := repository.NewUserRepository(tdb.DB)
//	}
//
// The namespace is removed when the test finishes. Tests are skipped
// under -short or when no server is reachable.
package testdb
