package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sgt/fitapi/internal/database"
	"github.com/sgt/fitapi/internal/model"
)

// WorkoutSessionRepository handles workout session data access
type WorkoutSessionRepository struct {
	db database.Database
}

// NewWorkoutSessionRepository creates a new workout session repository
func NewWorkoutSessionRepository(db database.Database) *WorkoutSessionRepository {
	return &WorkoutSessionRepository{db: db}
}

// Create creates a new workout session
func (r *WorkoutSessionRepository) Create(ctx context.Context, session *model.WorkoutSession) error {
	// Build query dynamically to avoid NULL values
	fields := []string{
		"user: type::record($user_id)",
		"started_at: <datetime> $started_at",
		"timezone: $timezone",
		"created_on: time::now()",
		"updated_on: time::now()",
	}
	vars := map[string]interface{}{
		"user_id":    session.UserID,
		"started_at": formatTime(session.StartedAt),
		"timezone":   session.Timezone,
	}

	if session.EndedAt != nil {
		fields = append(fields, "ended_at: <datetime> $ended_at")
		vars["ended_at"] = formatTime(*session.EndedAt)
	}
	if session.Notes != nil {
		fields = append(fields, "notes: $notes")
		vars["notes"] = *session.Notes
	}

	query := fmt.Sprintf("CREATE workout_session CONTENT { %s }", strings.Join(fields, ", "))

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return fmt.Errorf("failed to create workout session: %w", err)
	}

	records := extractQueryResults(result)
	if len(records) == 0 {
		return errors.New("no result returned")
	}
	created := parseWorkoutSession(records[0])

	session.ID = created.ID
	session.CreatedOn = created.CreatedOn
	session.UpdatedOn = created.UpdatedOn
	return nil
}

// GetByID retrieves a workout session by ID. Ownership is checked by the
// caller.
func (r *WorkoutSessionRepository) GetByID(ctx context.Context, id string) (*model.WorkoutSession, error) {
	rid := recordID(tableWorkoutSession, id)
	if rid == "" {
		return nil, nil
	}

	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": rid}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	data, err := unwrapRecord(result)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return parseWorkoutSession(data), nil
}

// ListByUser returns a page of the user's sessions newest first, together
// with the total number of sessions matching the filter.
func (r *WorkoutSessionRepository) ListByUser(ctx context.Context, userID string, filter model.WorkoutFilter) ([]*model.WorkoutSession, int, error) {
	filter.Normalize()

	conditions := []string{"user = type::record($user_id)"}
	vars := map[string]interface{}{
		"user_id": userID,
		"limit":   filter.Limit,
		"offset":  filter.Offset,
	}

	if filter.From != nil {
		conditions = append(conditions, "started_at >= <datetime> $from")
		vars["from"] = formatTime(*filter.From)
	}
	if filter.To != nil {
		conditions = append(conditions, "started_at <= <datetime> $to")
		vars["to"] = formatTime(*filter.To)
	}

	where := strings.Join(conditions, " AND ")
	query := fmt.Sprintf(`
		SELECT * FROM workout_session WHERE %s ORDER BY started_at DESC LIMIT $limit START $offset;
		SELECT count() FROM workout_session WHERE %s GROUP ALL;
	`, where, where)

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, 0, err
	}

	records := extractQueryResults(result)
	sessions := make([]*model.WorkoutSession, 0, len(records))
	for _, data := range records {
		sessions = append(sessions, parseWorkoutSession(data))
	}

	total := 0
	if len(result) > 1 {
		total = extractCount(result[1:])
	}
	return sessions, total, nil
}

// Update replaces the mutable fields of a session
func (r *WorkoutSessionRepository) Update(ctx context.Context, session *model.WorkoutSession) error {
	rid := recordID(tableWorkoutSession, session.ID)
	if rid == "" {
		return database.ErrNotFound
	}

	sets := []string{
		"started_at = <datetime> $started_at",
		"timezone = $timezone",
		"updated_on = time::now()",
	}
	vars := map[string]interface{}{
		"id":         rid,
		"started_at": formatTime(session.StartedAt),
		"timezone":   session.Timezone,
	}

	if session.EndedAt != nil {
		sets = append(sets, "ended_at = <datetime> $ended_at")
		vars["ended_at"] = formatTime(*session.EndedAt)
	} else {
		sets = append(sets, "ended_at = NONE")
	}
	if session.Notes != nil {
		sets = append(sets, "notes = $notes")
		vars["notes"] = *session.Notes
	} else {
		sets = append(sets, "notes = NONE")
	}

	query := fmt.Sprintf("UPDATE type::record($id) SET %s", strings.Join(sets, ", "))

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return err
	}

	records := extractQueryResults(result)
	if len(records) == 0 {
		return database.ErrNotFound
	}
	session.UpdatedOn = getTimeValue(records[0], "updated_on")
	return nil
}

// Delete removes a session together with all of its sets in one transaction
func (r *WorkoutSessionRepository) Delete(ctx context.Context, id string) error {
	rid := recordID(tableWorkoutSession, id)
	if rid == "" {
		return database.ErrNotFound
	}

	vars := map[string]interface{}{"id": rid}
	return database.NewAtomicBatch().
		Add("DELETE workout_set WHERE workout = type::record($id)", vars).
		Add("DELETE type::record($id)", vars).
		Execute(ctx, r.db)
}

func parseWorkoutSession(data map[string]interface{}) *model.WorkoutSession {
	return &model.WorkoutSession{
		ID:        convertSurrealID(data["id"]),
		UserID:    getRecordID(data, "user"),
		StartedAt: getTimeValue(data, "started_at"),
		EndedAt:   getTime(data, "ended_at"),
		Timezone:  getString(data, "timezone"),
		Notes:     getStringPtr(data, "notes"),
		CreatedOn: getTimeValue(data, "created_on"),
		UpdatedOn: getTimeValue(data, "updated_on"),
	}
}
