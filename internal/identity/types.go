package identity

import (
	"context"
	"errors"
)

// User is the authenticated identity as the provider reports it.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Profile carries the attributes the service reads from the provider.
// Only IsAdmin influences authorization decisions.
type Profile struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}

// Session is a point-in-time snapshot of the provider's state. Loading is
// true until the provider has resolved; consumers must neither allow nor
// deny access while it is set.
type Session struct {
	User    *User    `json:"user,omitempty"`
	Profile *Profile `json:"profile,omitempty"`
	Loading bool     `json:"loading"`
}

// Provider is the external identity authority. Login resolves credentials
// to a bearer token; Session resolves a token back to a snapshot; SignOut
// revokes the token.
type Provider interface {
	Login(ctx context.Context, username, password string) (string, Session, error)
	Session(ctx context.Context, token string) Session
	SignOut(ctx context.Context, token string)
}

// StoredProfile is the persisted account row backing a profile.
type StoredProfile struct {
	UserID       string
	Username     string
	PasswordHash string
	IsAdmin      bool
}

// ProfileStore looks up persisted accounts.
type ProfileStore interface {
	FindProfile(ctx context.Context, username string) (*StoredProfile, error)
}

var (
	// ErrInvalidCredentials is deliberately generic: it never reveals
	// whether the username or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrInvalidToken       = errors.New("invalid token")
)
