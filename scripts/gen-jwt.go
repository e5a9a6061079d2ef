// ABOUTME: Generates demo session tokens shaped like the upstream's
// ABOUTME: Used to exercise whoami, dashboard, and the language prompt without a backend

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <token-type> [hmac-secret]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Token types: super-admin, org-admin, legacy, tr, expired\n")
		os.Exit(1)
	}

	secret := "demo-secret"
	if len(os.Args) > 2 {
		secret = os.Args[2]
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"userId":       7,
		"email":        "admin@wusuleable.com",
		"languageCode": "EN",
		"iat":          now.Unix(),
		"exp":          now.Add(time.Hour).Unix(),
	}

	switch os.Args[1] {
	case "super-admin":
		claims["userType"] = "SUPER_ADMIN"
	case "org-admin":
		claims["userType"] = "ORG_ADMIN"
		claims["userId"] = "42"
		claims["email"] = "org@example.com"
	case "legacy":
		// Numeric role id only, as older backends issue.
		claims["userTypeId"] = 10000
	case "tr":
		claims["userType"] = "ORG_ADMIN"
		claims["languageCode"] = "tr"
	case "expired":
		claims["userType"] = "SUPER_ADMIN"
		claims["iat"] = now.Add(-2 * time.Hour).Unix()
		claims["exp"] = now.Add(-time.Hour).Unix()
	default:
		fmt.Fprintf(os.Stderr, "Unknown token type: %s\n", os.Args[1])
		os.Exit(1)
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to sign: %v\n", err)
		os.Exit(1)
	}
	fmt.Print(token)
}
