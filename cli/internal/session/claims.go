// ABOUTME: Token Decoder: reads the payload of a session token for display
// ABOUTME: No signature verification; never use Claims for access decisions

package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the unverified payload of a session token. It is display-only:
// the signature is not checked, so nothing here may grant access.
type Claims struct {
	UserID       string
	UserType     string
	UserTypeID   string
	Email        string
	LanguageCode string // as sent; compare case-insensitively
	IssuedAt     time.Time
	ExpiresAt    time.Time
	// IAT is the iat claim as text, used to key per-session markers.
	IAT string
}

var segmentParser = jwt.NewParser(jwt.WithPaddingAllowed())

// Decode returns the token's claims, or nil when token is empty, does not
// have three segments, or its payload is not base64url JSON.
func Decode(token string) *Claims {
	if token == "" {
		return nil
	}
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil
	}

	payload, err := segmentParser.DecodeSegment(parts[1])
	if err != nil {
		return nil
	}

	raw := jwt.MapClaims{}
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil
	}

	c := &Claims{
		UserID:       claimString(raw["userId"]),
		UserType:     claimString(raw["userType"]),
		UserTypeID:   claimString(raw["userTypeId"]),
		Email:        claimString(raw["email"]),
		LanguageCode: claimString(raw["languageCode"]),
		IAT:          claimString(raw["iat"]),
	}
	if iat, err := raw.GetIssuedAt(); err == nil && iat != nil {
		c.IssuedAt = iat.Time
	}
	if exp, err := raw.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	return c
}

// Expired reports whether exp has passed. Advisory only.
func (c *Claims) Expired(now time.Time) bool {
	return c != nil && !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// claimString renders a string or numeric claim as text; other kinds are "".
func claimString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return fmt.Sprint(t)
	case bool:
		return fmt.Sprint(t)
	default:
		return ""
	}
}
