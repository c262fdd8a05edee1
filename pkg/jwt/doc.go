// Package jwt issues and verifies compact HS256 JSON Web Tokens.
//
// Tokens are three base64url segments without padding:
//
//	b64url({"alg":"HS256","typ":"JWT"}) . b64url(claims) . b64url(HMAC-SHA256)
//
// The claims carry sub, iat and exp in whole seconds since the epoch.
// Signatures are compared in constant time.
//
// # Issuing
//
//	svc, err := jwt.NewService(jwt.Config{
//	    Secret:       []byte(cfg.JWT.Secret),
//	    ExpirationMs: cfg.JWT.ExpirationMs,
//	})
//	token, err := svc.Issue("user@example.com")
//
// # Verifying
//
// Three entry points share the same parse and signature check:
//
//   - ExtractSubject returns sub and surfaces ErrMalformedToken or
//     ErrInvalidSignature. It does not look at exp.
//   - Verify additionally rejects tokens whose exp is at or before now
//     with ErrTokenExpired.
//   - IsValid collapses every failure to false and also requires an exact
//     subject match.
//
// A token is expired once the clock reaches exp, so a token issued at a
// whole second with lifetime L is valid through issuedAt+L-1ms.
package jwt
