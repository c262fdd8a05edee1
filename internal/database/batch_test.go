package database

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDB struct {
	queries []string
	vars    []map[string]interface{}
	err     error
}

func (r *recordingDB) Connect(context.Context) error { return nil }
func (r *recordingDB) Close() error                  { return nil }
func (r *recordingDB) Ping(context.Context) error    { return nil }

func (r *recordingDB) Query(_ context.Context, query string, vars map[string]interface{}) ([]interface{}, error) {
	r.queries = append(r.queries, query)
	r.vars = append(r.vars, vars)
	return nil, r.err
}

func (r *recordingDB) QueryOne(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error) {
	results, err := r.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}
	return FirstRecord(results)
}

func (r *recordingDB) Execute(ctx context.Context, query string, vars map[string]interface{}) error {
	_, err := r.Query(ctx, query, vars)
	return err
}

// ============================================================================
// TxBuilder Tests
// ============================================================================

func TestTxBuilder_Empty_BuildsNothing(t *testing.T) {
	t.Parallel()

	query, vars := NewTxBuilder().Build()

	assert.Empty(t, query)
	assert.Nil(t, vars)
}

func TestTxBuilder_SameVariableInTwoStatements_Namespaced(t *testing.T) {
	t.Parallel()
	tb := NewTxBuilder()

	m1 := tb.Add("DELETE workout_set WHERE workout = type::record($id)", map[string]interface{}{"id": "workout_session:a"})
	m2 := tb.Add("DELETE type::record($id)", map[string]interface{}{"id": "workout_session:b"})
	query, vars := tb.Build()

	assert.NotEqual(t, m1["id"], m2["id"])
	assert.Equal(t, "workout_session:a", vars[m1["id"]])
	assert.Equal(t, "workout_session:b", vars[m2["id"]])
	assert.True(t, strings.HasPrefix(query, "BEGIN TRANSACTION;\n"))
	assert.True(t, strings.HasSuffix(query, "COMMIT TRANSACTION;"))
	assert.Contains(t, query, "$"+m1["id"])
	assert.Contains(t, query, "$"+m2["id"])
	assert.NotContains(t, query, "$id)")
}

func TestTxBuilder_PrefixVariableNames_NotCorrupted(t *testing.T) {
	t.Parallel()
	tb := NewTxBuilder()

	mapping := tb.Add("SELECT * FROM workout_set WHERE workout = $workout AND id = $workout_id", map[string]interface{}{
		"workout":    "w",
		"workout_id": "s",
	})
	query, vars := tb.Build()

	assert.Contains(t, query, "workout = $"+mapping["workout"]+" ")
	assert.Contains(t, query, "id = $"+mapping["workout_id"]+";")
	assert.Equal(t, "w", vars[mapping["workout"]])
	assert.Equal(t, "s", vars[mapping["workout_id"]])
}

func TestTxBuilder_StatementWithSemicolon_NotDoubled(t *testing.T) {
	t.Parallel()
	tb := NewTxBuilder()

	tb.Add("DELETE exercise;", nil)
	query, _ := tb.Build()

	assert.NotContains(t, query, ";;")
}

// ============================================================================
// AtomicBatch Tests
// ============================================================================

func TestAtomicBatch_Execute_SingleRoundTrip(t *testing.T) {
	t.Parallel()
	db := &recordingDB{}

	batch := NewAtomicBatch().
		Add("DELETE workout_set WHERE workout = type::record($id)", map[string]interface{}{"id": "workout_session:1"}).
		Add("DELETE type::record($id)", map[string]interface{}{"id": "workout_session:1"})

	require.NoError(t, batch.Execute(context.Background(), db))
	assert.Equal(t, 2, batch.Len())
	require.Len(t, db.queries, 1)
	assert.Len(t, db.vars[0], 2)
}

func TestAtomicBatch_Empty_NoQuery(t *testing.T) {
	t.Parallel()
	db := &recordingDB{}

	require.NoError(t, NewAtomicBatch().Execute(context.Background(), db))
	assert.Empty(t, db.queries)
}

func TestAtomicBatch_Execute_PropagatesError(t *testing.T) {
	t.Parallel()
	db := &recordingDB{err: ErrQuery}

	err := NewAtomicBatch().Add("DELETE x", nil).Execute(context.Background(), db)

	assert.True(t, errors.Is(err, ErrQuery))
}

// ============================================================================
// FirstRecord / classifyQueryError Tests
// ============================================================================

func TestFirstRecord(t *testing.T) {
	t.Parallel()

	record := map[string]interface{}{"name": "Plank"}

	got, err := FirstRecord([]interface{}{map[string]interface{}{"status": "OK", "result": []interface{}{record}}})
	require.NoError(t, err)
	assert.Equal(t, record, got)

	_, err = FirstRecord([]interface{}{map[string]interface{}{"status": "OK", "result": []interface{}{}}})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = FirstRecord(nil)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err = FirstRecord([]interface{}{map[string]interface{}{"status": "OK", "result": 3}})
	require.NoError(t, err)
	assert.Equal(t, 3, got)
}

func TestClassifyQueryError(t *testing.T) {
	t.Parallel()

	err := classifyQueryError("Database index `user_email` already contains 'a@example.com', with record `user:x`")
	assert.ErrorIs(t, err, ErrDuplicate)

	err = classifyQueryError("Parse error: unexpected token")
	assert.ErrorIs(t, err, ErrQuery)
	assert.NotErrorIs(t, err, ErrDuplicate)
}

func TestConfig_Endpoint(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ws://db.local:8000", Config{Host: "db.local", Port: "8000"}.Endpoint())
}
