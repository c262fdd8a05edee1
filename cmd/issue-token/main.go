// Command issue-token signs a development access token with the server's
// HS256 secret. The secret comes from the same environment and .env file the
// server reads.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gookit/color"

	"github.com/sgt/fitapi/internal/config"
	"github.com/sgt/fitapi/pkg/jwt"
)

func main() {
	subject := flag.String("sub", "dev@fitapi.local", "Token subject (user email)")
	userID := flag.String("uid", "", "User record ID to embed as the uid claim")
	role := flag.String("role", "user", "Role claim")
	expMs := flag.Int64("exp-ms", 0, "Token lifetime in milliseconds (default: JWT_EXPIRATION_MS)")
	envPath := flag.String("env", ".env", "Path to an optional .env file")
	outputJSON := flag.Bool("json", false, "Output as JSON")

	flag.Parse()

	cfg, err := config.LoadFrom(*envPath)
	if err != nil {
		color.Red.Println("Error loading config: " + err.Error())
		os.Exit(1)
	}
	if cfg.JWT.Secret == "" {
		color.Red.Println("JWT_SECRET is not set")
		os.Exit(1)
	}

	lifetime := cfg.JWT.ExpirationMs
	if *expMs > 0 {
		lifetime = *expMs
	}

	tokens, err := jwt.NewService(jwt.Config{
		Secret:       []byte(cfg.JWT.Secret),
		ExpirationMs: lifetime,
	})
	if err != nil {
		color.Red.Println("Error creating JWT service: " + err.Error())
		os.Exit(1)
	}

	extra := map[string]any{"role": *role}
	if *userID != "" {
		extra["uid"] = *userID
	}

	token, err := tokens.IssueWithClaims(*subject, extra)
	if err != nil {
		color.Red.Println("Error signing token: " + err.Error())
		os.Exit(1)
	}

	if *outputJSON {
		output := map[string]any{
			"access_token": token,
			"token_type":   "Bearer",
			"expires_in":   lifetime / 1000,
			"sub":          *subject,
			"role":         *role,
		}
		if *userID != "" {
			output["uid"] = *userID
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(output)
		return
	}

	expTime := time.Now().Add(time.Duration(lifetime) * time.Millisecond)
	color.Green.Println("Token Generated")
	fmt.Println("===============")
	fmt.Printf("Subject:  %s\n", *subject)
	if *userID != "" {
		fmt.Printf("User ID:  %s\n", *userID)
	} else {
		color.Yellow.Println("No -uid given: protected /v1 routes will reject this token")
	}
	fmt.Printf("Role:     %s\n", *role)
	fmt.Printf("Expires:  %s\n", expTime.Format(time.RFC3339))
	fmt.Println()
	fmt.Println("Token:")
	fmt.Println(token)
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Printf("  curl -H 'Authorization: Bearer %s' http://localhost:8080/v1/workouts\n", token)
}
