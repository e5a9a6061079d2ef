// ABOUTME: Auth request/response models for login, logout, and sign-up
// ABOUTME: Mirrors the upstream contracts relayed through /api/auth and /api/users

package models

import "errors"

// LoginRequest represents credentials for authentication
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is the upstream login payload. Token is the session token
// the client stores; the other fields are informational.
type LoginResult struct {
	OK         bool   `json:"ok"`
	Token      string `json:"token,omitempty"`
	UserID     int64  `json:"userId,omitempty"`
	Email      string `json:"email,omitempty"`
	UserType   string `json:"userType,omitempty"`
	UserTypeID int    `json:"userTypeId,omitempty"`
}

// AuthUserItem is the item of a create-user envelope. The backend is moving
// from numeric userTypeId to string userType, so both may appear.
type AuthUserItem struct {
	UserID          int64  `json:"userId"`
	Email           string `json:"email"`
	UserType        string `json:"userType,omitempty"`
	UserTypeID      int    `json:"userTypeId,omitempty"`
	Token           string `json:"token"`
	HasSubscription *bool  `json:"hasSubscription,omitempty"`
}

// CreateUserRequest is the sign-up payload.
type CreateUserRequest struct {
	Email                string  `json:"email"`
	Password             string  `json:"password"`
	PasswordConfirmation string  `json:"passwordConfirmation"`
	WebsiteURL           *string `json:"websiteUrl,omitempty"`
}

// CreateUserResponse wraps the created user.
type CreateUserResponse = ApiResult[AuthUserItem]

var (
	ErrEmailRequired    = errors.New("email is required")
	ErrPasswordRequired = errors.New("password is required")
	ErrPasswordMismatch = errors.New("passwords do not match")
)

// Validate performs the local checks done before any network call.
func (r CreateUserRequest) Validate() error {
	if r.Email == "" {
		return ErrEmailRequired
	}
	if r.Password == "" {
		return ErrPasswordRequired
	}
	if r.Password != r.PasswordConfirmation {
		return ErrPasswordMismatch
	}
	return nil
}
