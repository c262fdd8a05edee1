package repository

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sgt/fitapi/internal/database"
	"github.com/surrealdb/surrealdb.go/pkg/models"
)

// Table names
const (
	tableUser           = "user"
	tableExercise       = "exercise"
	tableWorkoutSession = "workout_session"
	tableWorkoutSet     = "workout_set"
)

// isUniqueConstraintError checks if an error is a unique index violation
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, database.ErrDuplicate) {
		return true
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "already contains") ||
		strings.Contains(errStr, "already exists")
}

// recordID qualifies id with table. Bare ids get the table prefix; ids of
// another table yield "" so callers can treat them as missing.
func recordID(table, id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return ""
	}
	prefix, rest, found := strings.Cut(id, ":")
	if !found {
		return table + ":" + id
	}
	if prefix != table || rest == "" {
		return ""
	}
	return id
}

// unwrapRecord navigates a QueryOne result down to the record map
func unwrapRecord(result interface{}) (map[string]interface{}, error) {
	if result == nil {
		return nil, database.ErrNotFound
	}

	// Navigate through SurrealDB response structure
	if resp, ok := result.(map[string]interface{}); ok {
		if status, ok := resp["status"].(string); ok && status == "OK" {
			if resultData, ok := resp["result"].([]interface{}); ok {
				if len(resultData) == 0 {
					return nil, database.ErrNotFound
				}
				result = resultData[0]
			}
		}
	}

	// Handle array wrapper
	if arr, ok := result.([]interface{}); ok {
		if len(arr) == 0 {
			return nil, database.ErrNotFound
		}
		result = arr[0]
	}

	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected result format")
	}
	return data, nil
}

// extractQueryResults extracts the first statement's record list
func extractQueryResults(results []interface{}) []map[string]interface{} {
	if len(results) == 0 {
		return nil
	}

	var rows []interface{}
	if first, ok := results[0].(map[string]interface{}); ok {
		if resultArray, ok := first["result"].([]interface{}); ok {
			rows = resultArray
		}
	}

	records := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		if data, ok := row.(map[string]interface{}); ok {
			records = append(records, data)
		}
	}
	return records
}

// extractCreatedID returns the id of the record a CREATE statement returned
func extractCreatedID(results []interface{}) (string, error) {
	records := extractQueryResults(results)
	if len(records) == 0 {
		return "", errors.New("no result returned")
	}
	id := convertSurrealID(records[0]["id"])
	if id == "" {
		return "", errors.New("created record has no id")
	}
	return id, nil
}

// extractCount extracts count from a `SELECT count() ... GROUP ALL` result
func extractCount(results []interface{}) int {
	records := extractQueryResults(results)
	if len(records) == 0 {
		return 0
	}
	return getInt(records[0], "count")
}

// convertSurrealID converts a SurrealDB ID (which may be a complex object) to a string
func convertSurrealID(id interface{}) string {
	if id == nil {
		return ""
	}

	// Already a string
	if str, ok := id.(string); ok {
		return str
	}

	// Handle models.RecordID from SurrealDB Go client
	if rid, ok := id.(models.RecordID); ok {
		return fmt.Sprintf("%s:%v", rid.Table, rid.ID)
	}
	if rid, ok := id.(*models.RecordID); ok && rid != nil {
		return fmt.Sprintf("%s:%v", rid.Table, rid.ID)
	}

	// Handle map format: {"tb": "user", "id": {"String": "demo"}}
	if m, ok := id.(map[string]interface{}); ok {
		tb := ""
		if t, ok := m["tb"].(string); ok {
			tb = t
		} else if t, ok := m["Table"].(string); ok {
			tb = t
		}

		idPart := ""
		if idVal, ok := m["id"]; ok {
			idPart = extractIDValue(idVal)
		} else if idVal, ok := m["ID"]; ok {
			idPart = extractIDValue(idVal)
		}

		if tb != "" && idPart != "" {
			return tb + ":" + idPart
		}
		if idPart != "" {
			return idPart
		}
	}

	return fmt.Sprintf("%v", id)
}

// extractIDValue extracts the ID value which may be nested
func extractIDValue(val interface{}) string {
	if str, ok := val.(string); ok {
		return str
	}
	if m, ok := val.(map[string]interface{}); ok {
		if s, ok := m["String"].(string); ok {
			return s
		}
	}
	return fmt.Sprintf("%v", val)
}

// ptrToNone converts an optional value to nil so `IF $x IS NOT NULL` guards
// in queries store NONE instead of an empty value.
func ptrToNone[T any](v *T) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

// formatTime renders a time for a <datetime> cast
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// getString extracts a string value from a map
func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// getStringPtr extracts an optional string value from a map
func getStringPtr(m map[string]interface{}, key string) *string {
	if v, ok := m[key].(string); ok {
		return &v
	}
	return nil
}

// getInt extracts an int value from a map
func getInt(m map[string]interface{}, key string) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case float32:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	case uint64:
		return int(v)
	}
	return 0
}

// getIntPtr extracts an optional int value from a map
func getIntPtr(m map[string]interface{}, key string) *int {
	if _, ok := m[key]; !ok || m[key] == nil {
		return nil
	}
	v := getInt(m, key)
	return &v
}

// getFloat extracts a float value from a map. SurrealDB hands back whole
// numbers as integers.
func getFloat(m map[string]interface{}, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case uint64:
		return float64(v)
	}
	return 0
}

// getFloatPtr extracts an optional float value from a map
func getFloatPtr(m map[string]interface{}, key string) *float64 {
	if _, ok := m[key]; !ok || m[key] == nil {
		return nil
	}
	v := getFloat(m, key)
	return &v
}

// getBool extracts a bool value from a map
func getBool(m map[string]interface{}, key string) bool {
	if v, ok := m[key].(bool); ok {
		return v
	}
	return false
}

// getTime extracts a time value from a map
func getTime(m map[string]interface{}, key string) *time.Time {
	if v, ok := m[key].(string); ok {
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return &t
		}
	}
	if t, ok := m[key].(time.Time); ok {
		return &t
	}
	// Handle SurrealDB CustomDateTime type
	if dt, ok := m[key].(models.CustomDateTime); ok {
		t := dt.Time
		return &t
	}
	if dt, ok := m[key].(*models.CustomDateTime); ok && dt != nil {
		t := dt.Time
		return &t
	}
	return nil
}

// getTimeValue extracts a required time value, zero when absent
func getTimeValue(m map[string]interface{}, key string) time.Time {
	if t := getTime(m, key); t != nil {
		return *t
	}
	return time.Time{}
}

// getRecordID extracts a record link as "table:id"
func getRecordID(m map[string]interface{}, key string) string {
	if v, ok := m[key]; ok && v != nil {
		return convertSurrealID(v)
	}
	return ""
}
