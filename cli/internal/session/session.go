// ABOUTME: Session Facade: who is signed in, derived from the stored token
// ABOUTME: Maps legacy numeric role ids through a configurable RoleMap

package session

import (
	"fmt"
	"sort"
	"strings"
)

// User is the signed-in identity as displayed by the client.
type User struct {
	UserID       string `json:"userId"`
	UserType     string `json:"userType"`
	Email        string `json:"email"`
	LanguageCode string `json:"languageCode"`
}

// RoleMap maps legacy numeric userTypeId values to role names.
type RoleMap map[string]string

// DefaultRoleMap is used when no override is configured.
func DefaultRoleMap() RoleMap {
	return RoleMap{
		"10000": "SUPER_ADMIN",
		"10001": "ORG_ADMIN",
	}
}

// ParseRoleMap parses "10000=SUPER_ADMIN,10001=ORG_ADMIN".
func ParseRoleMap(s string) (RoleMap, error) {
	m := RoleMap{}
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		id, role, ok := strings.Cut(pair, "=")
		id, role = strings.TrimSpace(id), strings.TrimSpace(role)
		if !ok || id == "" || role == "" {
			return nil, fmt.Errorf("invalid role mapping %q (want id=ROLE)", pair)
		}
		m[id] = role
	}
	if len(m) == 0 {
		return nil, fmt.Errorf("empty role map")
	}
	return m, nil
}

func (m RoleMap) String() string {
	pairs := make([]string, 0, len(m))
	for id, role := range m {
		pairs = append(pairs, id+"="+role)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, ",")
}

// Session derives the current user from a Store. It performs no I/O other
// than reading the token.
type Session struct {
	store *Store
	roles RoleMap
}

func New(store *Store, roles RoleMap) *Session {
	if roles == nil {
		roles = DefaultRoleMap()
	}
	return &Session{store: store, roles: roles}
}

// Store returns the underlying token store.
func (s *Session) Store() *Store {
	return s.store
}

// Claims decodes the current token, or returns nil when signed out.
func (s *Session) Claims() *Claims {
	return Decode(s.store.Get())
}

// CurrentUser returns nil when there is no token or it cannot be decoded.
func (s *Session) CurrentUser() *User {
	c := s.Claims()
	if c == nil {
		return nil
	}

	userType := c.UserType
	if userType == "" && c.UserTypeID != "" {
		userType = s.roles[c.UserTypeID]
	}

	return &User{
		UserID:       c.UserID,
		UserType:     userType,
		Email:        c.Email,
		LanguageCode: c.LanguageCode,
	}
}
