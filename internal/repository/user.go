package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/sgt/fitapi/internal/database"
	"github.com/sgt/fitapi/internal/model"
)

// UserRepository handles user data access
type UserRepository struct {
	db database.Database
}

// NewUserRepository creates a new user repository
func NewUserRepository(db database.Database) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user. The email must already be normalized.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	// Default to user role if not specified
	role := user.Role
	if role == "" {
		role = model.UserRoleUser
	}

	query := `
		CREATE user CONTENT {
			email: $email,
			display_name: IF $display_name IS NOT NULL THEN $display_name ELSE NONE END,
			hash: IF $hash IS NOT NULL THEN $hash ELSE NONE END,
			role: $role,
			created_on: time::now(),
			updated_on: time::now()
		}
	`

	vars := map[string]interface{}{
		"email":        user.Email,
		"display_name": ptrToNone(user.DisplayName),
		"hash":         ptrToNone(user.Hash),
		"role":         string(role),
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: email already exists", database.ErrDuplicate)
		}
		return err
	}

	records := extractQueryResults(result)
	if len(records) == 0 {
		return errors.New("no result returned")
	}
	created := parseUser(records[0])

	user.ID = created.ID
	user.Role = role
	user.CreatedOn = created.CreatedOn
	user.UpdatedOn = created.UpdatedOn
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	rid := recordID(tableUser, id)
	if rid == "" {
		return nil, nil
	}

	query := `SELECT * FROM type::record($id)`
	vars := map[string]interface{}{"id": rid}

	return r.getOne(ctx, query, vars)
}

// GetByEmail retrieves a user by normalized email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT * FROM user WHERE email = $email LIMIT 1`
	vars := map[string]interface{}{"email": email}

	return r.getOne(ctx, query, vars)
}

func (r *UserRepository) getOne(ctx context.Context, query string, vars map[string]interface{}) (*model.User, error) {
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
	return parseUser(data), nil
}

func parseUser(data map[string]interface{}) *model.User {
	return &model.User{
		ID:          convertSurrealID(data["id"]),
		Email:       getString(data, "email"),
		DisplayName: getStringPtr(data, "display_name"),
		Hash:        getStringPtr(data, "hash"),
		Role:        model.UserRole(getString(data, "role")),
		CreatedOn:   getTimeValue(data, "created_on"),
		UpdatedOn:   getTimeValue(data, "updated_on"),
	}
}
