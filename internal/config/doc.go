// Package config loads and validates configuration for the fitness API.
//
// Values come from an optional .env file, overlaid by the process
// environment, merged through koanf:
//
//	cfg, err := config.Load()
//	if err != nil { ... }
//	if err := cfg.Validate(); err != nil { ... }
//
// # Configuration Groups
//
//   - ServerConfig: HTTP port, timeouts and CORS origins
//   - DatabaseConfig: SurrealDB connection settings
//   - JWTConfig: HS256 secret and token lifetime
//   - LoginConfig: failed login throttling
//   - RateLimitConfig: per-client request rate
//   - CatalogConfig: exercise catalog source and seeding
//
// # Environment Variables
//
//	SERVER_PORT                    - HTTP port (default: 8080)
//	SERVER_ENV                     - development, production or test
//	JWT_SECRET                     - HS256 secret, required; 32+ bytes in production
//	JWT_EXPIRATION_MS              - token lifetime (default: 3600000)
//	LOGIN_MAX_ATTEMPTS             - failures per window (default: 5)
//	LOGIN_WINDOW                   - failure window (default: 10m)
//	LOGIN_THROTTLE_SWEEP_INTERVAL  - expired bucket sweep, 0 disables (default: 5m)
//	RATE_LIMIT_RPS, RATE_LIMIT_BURST
//	EXERCISE_CATALOG_PATH          - YAML catalog override
//
// Unparseable values fall back to their defaults; Validate reports every
// remaining problem at once.
package config
