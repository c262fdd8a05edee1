package jwt_test

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgt/fitapi/pkg/jwt"
)

// Tokens must interoperate with a general purpose JWT library in both
// directions.

var interopSecret = []byte("interop-secret-at-least-32-bytes!!")

func TestInterop_IssuedToken_ParsesWithGolangJWT(t *testing.T) {
	t.Parallel()
	svc, err := jwt.NewService(jwt.Config{Secret: interopSecret, ExpirationMs: 60_000})
	require.NoError(t, err)

	token, err := svc.IssueWithClaims("a@example.com", map[string]any{"role": "user"})
	require.NoError(t, err)

	parsed, err := jwtlib.Parse(token, func(*jwtlib.Token) (any, error) {
		return interopSecret, nil
	}, jwtlib.WithValidMethods([]string{"HS256"}), jwtlib.WithExpirationRequired(), jwtlib.WithIssuedAt())
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	sub, err := parsed.Claims.GetSubject()
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", sub)

	claims, ok := parsed.Claims.(jwtlib.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "user", claims["role"])
	assert.Equal(t, "JWT", parsed.Header["typ"])
}

func TestInterop_GolangJWTToken_VerifiesWithService(t *testing.T) {
	t.Parallel()
	svc, err := jwt.NewService(jwt.Config{Secret: interopSecret})
	require.NoError(t, err)

	now := time.Now()
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims{
		"sub": "u1",
		"iat": now.Unix(),
		"exp": now.Add(time.Minute).Unix(),
		"uid": "user:abc",
	}).SignedString(interopSecret)
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, "user:abc", claims.String("uid"))
	assert.True(t, svc.IsValid(token, "u1"))
}

func TestInterop_ExpiredGolangJWTToken_Rejected(t *testing.T) {
	t.Parallel()
	svc, err := jwt.NewService(jwt.Config{Secret: interopSecret})
	require.NoError(t, err)

	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims{
		"sub": "u1",
		"exp": time.Now().Add(-time.Minute).Unix(),
	}).SignedString(interopSecret)
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	assert.False(t, svc.IsValid(token, "u1"))
}

func TestInterop_OtherAlgorithm_RejectedBySignature(t *testing.T) {
	t.Parallel()
	svc, err := jwt.NewService(jwt.Config{Secret: interopSecret})
	require.NoError(t, err)

	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS512, jwtlib.MapClaims{
		"sub": "u1",
	}).SignedString(interopSecret)
	require.NoError(t, err)

	_, err = svc.ExtractSubject(token)
	assert.ErrorIs(t, err, jwt.ErrInvalidSignature)
}
