package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/sgt/fitapi/internal/database"
	"github.com/sgt/fitapi/internal/model"
	"golang.org/x/crypto/bcrypt"
)

const (
	// bcrypt cost factor (10-14 recommended for production)
	bcryptCost = 12

	tokenTypeBearer = "Bearer"
)

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// LoginThrottle limits failed logins per key
type LoginThrottle interface {
	CheckNotBlocked(key string) error
	RecordFailure(key string) int
	RecordSuccess(key string)
}

// TokenIssuer mints access tokens
type TokenIssuer interface {
	IssueWithClaims(subject string, extra map[string]any) (string, error)
	GetExpiration() time.Duration
}

// AuthService handles registration and password login
type AuthService struct {
	userRepo   UserRepository
	throttle   LoginThrottle
	tokens     TokenIssuer
	logger     *slog.Logger
	bcryptCost int

	dummyOnce sync.Once
	dummyHash []byte
}

// AuthServiceConfig holds configuration for the auth service
type AuthServiceConfig struct {
	UserRepo   UserRepository
	Throttle   LoginThrottle
	Tokens     TokenIssuer
	Logger     *slog.Logger
	BcryptCost int // default 12
}

// NewAuthService creates a new auth service
func NewAuthService(cfg AuthServiceConfig) *AuthService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcryptCost
	}

	return &AuthService{
		userRepo:   cfg.UserRepo,
		throttle:   cfg.Throttle,
		tokens:     cfg.Tokens,
		logger:     logger,
		bcryptCost: cost,
	}
}

// Register creates a new user account with email/password
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	if err := validationError(req.Validate()); err != nil {
		return nil, err
	}

	email := model.NormalizeEmail(req.Email)

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email: email,
		Hash:  &hash,
		Role:  model.UserRoleUser,
	}
	if req.DisplayName != nil {
		if name := strings.TrimSpace(*req.DisplayName); name != "" {
			user.DisplayName = &name
		}
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Lost a race with a concurrent registration
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID)
	return &model.AuthResponse{User: user, Token: token}, nil
}

// Login authenticates a user with email/password. The throttle is consulted
// before any lookup or hash comparison, and every credential failure counts
// against the normalized email.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	if err := validationError(req.Validate()); err != nil {
		return nil, err
	}

	key := model.NormalizeEmail(req.Email)

	if err := s.throttle.CheckNotBlocked(key); err != nil {
		s.logger.Warn("login blocked", "key", key)
		return nil, fmt.Errorf("%w: %w", ErrTooManyAttempts, err)
	}

	user, err := s.userRepo.GetByEmail(ctx, key)
	if err != nil {
		return nil, err
	}

	if user == nil || user.Hash == nil || *user.Hash == "" {
		// Spend the same time as a real comparison
		s.compareDummy(req.Password)
		s.recordFailure(key)
		return nil, ErrInvalidCredentials
	}

	if !checkPassword(req.Password, *user.Hash) {
		s.recordFailure(key)
		return nil, ErrInvalidCredentials
	}

	s.throttle.RecordSuccess(key)

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}
	return &model.AuthResponse{User: user, Token: token}, nil
}

// GetUserByID retrieves a user by ID
func (s *AuthService) GetUserByID(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Me describes the caller. An empty userID or a user that no longer exists
// is reported as unauthenticated.
func (s *AuthService) Me(ctx context.Context, userID string) (*model.MeResponse, error) {
	if userID == "" {
		return &model.MeResponse{Authenticated: false}, nil
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return &model.MeResponse{Authenticated: false}, nil
	}

	return &model.MeResponse{
		Authenticated: true,
		ID:            user.ID,
		Email:         user.Email,
		DisplayName:   user.DisplayName,
		Role:          user.Role,
	}, nil
}

func (s *AuthService) recordFailure(key string) {
	if count := s.throttle.RecordFailure(key); count > 1 {
		s.logger.Debug("login failure recorded", "key", key, "count", count)
	}
}

func (s *AuthService) issueToken(user *model.User) (*model.TokenResponse, error) {
	token, err := s.tokens.IssueWithClaims(user.Email, map[string]any{
		"uid":  user.ID,
		"role": string(user.Role),
	})
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &model.TokenResponse{
		AccessToken: token,
		TokenType:   tokenTypeBearer,
		ExpiresIn:   int64(s.tokens.GetExpiration() / time.Second),
	}, nil
}

func (s *AuthService) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *AuthService) compareDummy(password string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), s.bcryptCost)
	})
	_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
}

func checkPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
