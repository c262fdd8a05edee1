package jwt

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

var (
	ErrMalformedToken   = errors.New("malformed token")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrTokenExpired     = errors.New("token expired")
	ErrInvalidKey       = errors.New("invalid key")
)

// DefaultExpiration is the token lifetime used when Config.ExpirationMs is zero.
const DefaultExpiration = 3_600_000 * time.Millisecond

// headerSegment is the encoded form of {"alg":"HS256","typ":"JWT"}. The
// header never varies so it is encoded once.
var headerSegment = base64URLEncode([]byte(`{"alg":"HS256","typ":"JWT"}`))

// reserved claims are owned by the service and cannot be overridden by extras
var reserved = map[string]struct{}{"sub": {}, "iat": {}, "exp": {}}

// Claims represents the verified payload of a token
type Claims struct {
	Subject   string
	IssuedAt  int64
	ExpiresAt int64

	// Extra holds every other claim found in the payload
	Extra map[string]any

	hasExpiry bool
}

// HasExpiry reports whether the payload carried a numeric exp claim
func (c *Claims) HasExpiry() bool {
	return c.hasExpiry
}

// String returns an extra claim as a string, or "" when absent or not a string
func (c *Claims) String(name string) string {
	if v, ok := c.Extra[name].(string); ok {
		return v
	}
	return ""
}

// Service issues and verifies HS256 tokens
type Service struct {
	secret     []byte
	expiration time.Duration
	now        func() time.Time
}

// Config holds JWT service configuration
type Config struct {
	Secret       []byte
	ExpirationMs int64            // token lifetime in milliseconds (default 3600000)
	Now          func() time.Time // clock, defaults to time.Now
}

// NewService creates a new JWT service. A missing secret is a configuration
// failure and no service is returned.
func NewService(cfg Config) (*Service, error) {
	if len(cfg.Secret) == 0 {
		return nil, fmt.Errorf("%w: secret is required", ErrInvalidKey)
	}
	if cfg.ExpirationMs < 0 {
		return nil, fmt.Errorf("%w: expiration must not be negative", ErrInvalidKey)
	}

	expiration := DefaultExpiration
	if cfg.ExpirationMs > 0 {
		expiration = time.Duration(cfg.ExpirationMs) * time.Millisecond
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	secret := make([]byte, len(cfg.Secret))
	copy(secret, cfg.Secret)

	return &Service{
		secret:     secret,
		expiration: expiration,
		now:        now,
	}, nil
}

// GetExpiration returns the token lifetime
func (s *Service) GetExpiration() time.Duration {
	return s.expiration
}

// Issue creates a signed token for subject
func (s *Service) Issue(subject string) (string, error) {
	return s.IssueWithClaims(subject, nil)
}

// IssueWithClaims creates a signed token for subject carrying additional
// claims. sub, iat and exp in extra are ignored.
func (s *Service) IssueWithClaims(subject string, extra map[string]any) (string, error) {
	now := s.now()
	iat := now.Unix()
	exp := now.Add(s.expiration).Unix()

	var (
		payload []byte
		err     error
	)
	if len(extra) == 0 {
		payload, err = json.Marshal(struct {
			Subject   string `json:"sub"`
			IssuedAt  int64  `json:"iat"`
			ExpiresAt int64  `json:"exp"`
		}{subject, iat, exp})
	} else {
		claims := make(map[string]any, len(extra)+3)
		for k, v := range extra {
			if _, ok := reserved[k]; ok {
				continue
			}
			claims[k] = v
		}
		claims["sub"] = subject
		claims["iat"] = iat
		claims["exp"] = exp
		payload, err = json.Marshal(claims)
	}
	if err != nil {
		return "", fmt.Errorf("failed to marshal claims: %w", err)
	}

	message := headerSegment + "." + base64URLEncode(payload)
	return message + "." + base64URLEncode(s.sign(message)), nil
}

// ExtractSubject verifies the signature of token and returns its sub claim.
// Expiry is not checked. A token without sub yields "".
func (s *Service) ExtractSubject(token string) (string, error) {
	claims, err := s.parse(token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// Verify validates signature and expiry and returns the claims
func (s *Service) Verify(token string) (*Claims, error) {
	claims, err := s.parse(token)
	if err != nil {
		return nil, err
	}
	// exp is whole seconds, so now < exp compares on the truncated clock.
	// Comparing integers avoids time.Unix overflow for huge exp values.
	if claims.hasExpiry && s.now().Unix() >= claims.ExpiresAt {
		return nil, ErrTokenExpired
	}
	return claims, nil
}

// IsValid reports whether token is correctly signed, unexpired and issued
// to expectedSubject.
func (s *Service) IsValid(token, expectedSubject string) bool {
	claims, err := s.Verify(token)
	if err != nil {
		return false
	}
	return claims.Subject == expectedSubject
}

func (s *Service) parse(token string) (*Claims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, ErrMalformedToken
	}

	headerB64, claimsB64, signatureB64 := parts[0], parts[1], parts[2]

	signature, err := base64URLDecode(signatureB64)
	if err != nil {
		return nil, ErrMalformedToken
	}
	if !hmac.Equal(signature, s.sign(headerB64+"."+claimsB64)) {
		return nil, ErrInvalidSignature
	}

	if _, err := base64URLDecode(headerB64); err != nil {
		return nil, ErrMalformedToken
	}
	claimsJSON, err := base64URLDecode(claimsB64)
	if err != nil {
		return nil, ErrMalformedToken
	}

	return decodeClaims(claimsJSON)
}

func (s *Service) sign(message string) []byte {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(message))
	return mac.Sum(nil)
}

func decodeClaims(data []byte) (*Claims, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, ErrMalformedToken
	}

	claims := &Claims{Extra: make(map[string]any)}
	for k, v := range raw {
		switch k {
		case "sub":
			if sub, ok := v.(string); ok {
				claims.Subject = sub
			}
		case "iat":
			claims.IssuedAt, _ = numericClaim(v)
		case "exp":
			claims.ExpiresAt, claims.hasExpiry = numericClaim(v)
		default:
			claims.Extra[k] = v
		}
	}
	return claims, nil
}

// numericClaim converts a JSON number to whole seconds. Fractional values
// are truncated and values outside the int64 range saturate.
func numericClaim(v any) (int64, bool) {
	n, ok := v.(json.Number)
	if !ok {
		return 0, false
	}
	if i, err := n.Int64(); err == nil {
		return i, true
	}
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	switch {
	case f >= math.MaxInt64:
		return math.MaxInt64, true
	case f <= math.MinInt64:
		return math.MinInt64, true
	}
	return int64(f), true
}

func base64URLEncode(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

// base64URLDecode rejects non-canonical encodings so that every distinct
// segment string maps to distinct bytes.
func base64URLDecode(s string) ([]byte, error) {
	return base64.RawURLEncoding.Strict().DecodeString(s)
}
