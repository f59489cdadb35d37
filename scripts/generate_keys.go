//go:build ignore

// This script generates secrets for local development and a bearer token
// signed with them.
// Run with: go run scripts/generate_keys.go
package main

import (
	"crypto/rand"
	"encoding/base64"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/guttosm/loadplan-service/internal/domain/dto"
)

func generateSecureKey(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

func main() {
	subject := flag.String("subject", "dev", "token subject")
	issuer := flag.String("issuer", "", "token issuer, must match JWT_ISSUER when set")
	scope := flag.String("scope", strings.Join(dto.AllScopes, " "), "space separated scopes")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	labels := flag.String("labels", "dev", "comma separated API key labels")
	flag.Parse()

	fmt.Println("=== Load Plan Service Key Generator ===")
	fmt.Println()

	// 32 bytes = 256 bits for HS256
	jwtSecret, err := generateSecureKey(32)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating JWT secret: %v\n", err)
		os.Exit(1)
	}

	var apiKeys []string
	for _, label := range strings.Split(*labels, ",") {
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		key, err := generateSecureKey(24)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating API key: %v\n", err)
			os.Exit(1)
		}
		apiKeys = append(apiKeys, label+":"+key)
	}

	now := time.Now()
	claims := dto.Claims{
		Scope: *scope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   *subject,
			Issuer:    *issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(*ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(jwtSecret))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error signing token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Add these to your .env file:")
	fmt.Println()
	fmt.Println("AUTH_ENABLED=true")
	fmt.Printf("JWT_SECRET_KEY=%s\n", jwtSecret)
	if *issuer != "" {
		fmt.Printf("JWT_ISSUER=%s\n", *issuer)
	}
	if len(apiKeys) > 0 {
		fmt.Printf("API_KEYS=%s\n", strings.Join(apiKeys, ","))
	}
	fmt.Println()
	fmt.Printf("# Bearer token for %q, expires %s\n", *subject, now.Add(*ttl).Format(time.RFC3339))
	fmt.Printf("Authorization: Bearer %s\n", token)
	fmt.Println()
	fmt.Println("=== IMPORTANT ===")
	fmt.Println("- Never commit these keys to version control")
	fmt.Println("- Production tokens come from your identity provider, not this script")
}
