package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sgt/fitapi/internal/database"
	"github.com/sgt/fitapi/internal/model"
	"github.com/sgt/fitapi/pkg/jwt"
	"github.com/sgt/fitapi/pkg/throttle"
	"golang.org/x/crypto/bcrypt"
)

// Mock implementations

type mockUserRepo struct {
	mu         sync.Mutex
	users      map[string]*model.User
	emailIndex map[string]*model.User
	createErr  error
	getErr     error
	lookups    int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		users:      make(map[string]*model.User),
		emailIndex: make(map[string]*model.User),
	}
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = "user:" + strings.SplitN(user.Email, "@", 2)[0]
	user.CreatedOn = time.Now()
	user.UpdatedOn = user.CreatedOn
	m.users[user.ID] = user
	m.emailIndex[user.Email] = user
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.users[id], nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups++
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.emailIndex[email], nil
}

// Test helper to create auth service with mocks
func setupAuthService(t *testing.T) (*AuthService, *mockUserRepo, *throttle.Throttle, *jwt.Service) {
	t.Helper()

	userRepo := newMockUserRepo()
	th := throttle.New(throttle.Config{MaxAttempts: 3, Window: time.Minute})

	tokens, err := jwt.NewService(jwt.Config{Secret: []byte("service-test-secret")})
	if err != nil {
		t.Fatalf("failed to create jwt service: %v", err)
	}

	authService := NewAuthService(AuthServiceConfig{
		UserRepo:   userRepo,
		Throttle:   th,
		Tokens:     tokens,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		BcryptCost: bcrypt.MinCost,
	})

	return authService, userRepo, th, tokens
}

func register(t *testing.T, svc *AuthService, email, password string) *model.AuthResponse {
	t.Helper()
	resp, err := svc.Register(context.Background(), model.RegisterRequest{Email: email, Password: password})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return resp
}

// ============================================================================
// Register Tests
// ============================================================================

func TestAuthService_Register_Success(t *testing.T) {
	t.Parallel()
	authService, userRepo, _, tokens := setupAuthService(t)
	name := "  Lifter  "

	result, err := authService.Register(context.Background(), model.RegisterRequest{
		Email:       "  Test@Example.com ",
		Password:    "password123",
		DisplayName: &name,
	})

	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if result.User.Email != "test@example.com" {
		t.Errorf("expected normalized email, got %s", result.User.Email)
	}
	if result.User.Role != model.UserRoleUser {
		t.Errorf("expected role user, got %s", result.User.Role)
	}
	if result.User.DisplayName == nil || *result.User.DisplayName != "Lifter" {
		t.Errorf("expected trimmed display name, got %v", result.User.DisplayName)
	}

	stored := userRepo.emailIndex["test@example.com"]
	if stored == nil || stored.Hash == nil {
		t.Fatal("expected stored user with hash")
	}
	if bcrypt.CompareHashAndPassword([]byte(*stored.Hash), []byte("password123")) != nil {
		t.Error("stored hash does not match password")
	}

	if result.Token.TokenType != "Bearer" {
		t.Errorf("expected Bearer token type, got %s", result.Token.TokenType)
	}
	if result.Token.ExpiresIn != 3600 {
		t.Errorf("expected expires_in 3600, got %d", result.Token.ExpiresIn)
	}
	claims, err := tokens.Verify(result.Token.AccessToken)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.Subject != "test@example.com" {
		t.Errorf("expected sub to be the email, got %s", claims.Subject)
	}
	if claims.String("uid") != result.User.ID {
		t.Errorf("expected uid claim %s, got %s", result.User.ID, claims.String("uid"))
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	t.Parallel()
	authService, _, _, _ := setupAuthService(t)
	register(t, authService, "dup@example.com", "password123")

	_, err := authService.Register(context.Background(), model.RegisterRequest{
		Email:    "DUP@example.com",
		Password: "password456",
	})

	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Errorf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestAuthService_Register_DuplicateRace(t *testing.T) {
	t.Parallel()
	authService, userRepo, _, _ := setupAuthService(t)
	userRepo.createErr = database.ErrDuplicate

	_, err := authService.Register(context.Background(), model.RegisterRequest{
		Email:    "race@example.com",
		Password: "password123",
	})

	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Errorf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestAuthService_Register_Invalid(t *testing.T) {
	t.Parallel()
	authService, userRepo, _, _ := setupAuthService(t)

	_, err := authService.Register(context.Background(), model.RegisterRequest{
		Email:    "not-an-email",
		Password: "short",
	})

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(ve.Fields) != 2 {
		t.Errorf("expected 2 field errors, got %+v", ve.Fields)
	}
	if !errors.Is(err, ErrValidation) {
		t.Error("expected errors.Is(err, ErrValidation)")
	}
	if userRepo.lookups != 0 {
		t.Error("invalid request should not reach the repository")
	}
}

// ============================================================================
// Login Tests
// ============================================================================

func TestAuthService_Login_Success(t *testing.T) {
	t.Parallel()
	authService, _, th, tokens := setupAuthService(t)
	registered := register(t, authService, "lifter@example.com", "password123")

	result, err := authService.Login(context.Background(), model.LoginRequest{
		Email:    " Lifter@Example.COM",
		Password: "password123",
	})

	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if result.User.ID != registered.User.ID {
		t.Errorf("expected user %s, got %s", registered.User.ID, result.User.ID)
	}
	if !tokens.IsValid(result.Token.AccessToken, "lifter@example.com") {
		t.Error("expected token valid for the email subject")
	}
	if th.Count("lifter@example.com") != 0 {
		t.Error("expected no recorded failures after success")
	}
}

func TestAuthService_Login_FailuresCollapseToInvalidCredentials(t *testing.T) {
	t.Parallel()
	authService, userRepo, th, _ := setupAuthService(t)
	register(t, authService, "lifter@example.com", "password123")
	userRepo.emailIndex["nohash@example.com"] = &model.User{ID: "user:nohash", Email: "nohash@example.com"}

	tests := []struct {
		name  string
		email string
		pass  string
	}{
		{"wrong password", "lifter@example.com", "wrongpass"},
		{"unknown user", "ghost@example.com", "password123"},
		{"no password hash", "nohash@example.com", "password123"},
	}

	for _, tt := range tests {
		_, err := authService.Login(context.Background(), model.LoginRequest{Email: tt.email, Password: tt.pass})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("%s: expected ErrInvalidCredentials, got %v", tt.name, err)
		}
		if got := th.Count(tt.email); got != 1 {
			t.Errorf("%s: expected 1 recorded failure, got %d", tt.name, got)
		}
	}
}

func TestAuthService_Login_BlockedBeforeLookup(t *testing.T) {
	t.Parallel()
	authService, userRepo, th, _ := setupAuthService(t)
	register(t, authService, "lifter@example.com", "password123")

	for i := 0; i < th.MaxAttempts(); i++ {
		_, err := authService.Login(context.Background(), model.LoginRequest{Email: "lifter@example.com", Password: "wrongpass"})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i+1, err)
		}
	}

	lookups := userRepo.lookups
	_, err := authService.Login(context.Background(), model.LoginRequest{Email: "LIFTER@example.com", Password: "password123"})

	if !errors.Is(err, ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
	if !errors.Is(err, throttle.ErrRateLimited) {
		t.Error("expected the throttle error to be wrapped")
	}
	var blocked *throttle.BlockedError
	if !errors.As(err, &blocked) || blocked.RetryAfter <= 0 {
		t.Errorf("expected BlockedError with positive RetryAfter, got %v", err)
	}
	if userRepo.lookups != lookups {
		t.Error("blocked login must not look up the user")
	}
}

func TestAuthService_Login_RepositoryError(t *testing.T) {
	t.Parallel()
	authService, userRepo, th, _ := setupAuthService(t)
	userRepo.getErr = database.ErrConnection

	_, err := authService.Login(context.Background(), model.LoginRequest{Email: "a@example.com", Password: "password123"})

	if !errors.Is(err, database.ErrConnection) {
		t.Errorf("expected ErrConnection, got %v", err)
	}
	if th.Count("a@example.com") != 0 {
		t.Error("infrastructure errors must not count as failed attempts")
	}
}

// ============================================================================
// Me Tests
// ============================================================================

func TestAuthService_Me(t *testing.T) {
	t.Parallel()
	authService, _, _, _ := setupAuthService(t)
	registered := register(t, authService, "me@example.com", "password123")

	anon, err := authService.Me(context.Background(), "")
	if err != nil || anon.Authenticated {
		t.Errorf("expected unauthenticated, got %+v, %v", anon, err)
	}

	gone, err := authService.Me(context.Background(), "user:gone")
	if err != nil || gone.Authenticated {
		t.Errorf("expected unauthenticated for missing user, got %+v, %v", gone, err)
	}

	me, err := authService.Me(context.Background(), registered.User.ID)
	if err != nil {
		t.Fatalf("Me failed: %v", err)
	}
	if !me.Authenticated || me.Email != "me@example.com" || me.Role != model.UserRoleUser {
		t.Errorf("unexpected me response: %+v", me)
	}
}

func TestAuthService_GetUserByID_NotFound(t *testing.T) {
	t.Parallel()
	authService, _, _, _ := setupAuthService(t)

	_, err := authService.GetUserByID(context.Background(), "user:nobody")

	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}
