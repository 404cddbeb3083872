package identity

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const defaultSessionTTL = 12 * time.Hour

// JWTProvider issues and resolves session tokens backed by a profile
// store. It reports Loading until MarkReady is called, which the server
// does once the backing store answers its first ping.
type JWTProvider struct {
	secret   []byte
	profiles ProfileStore
	ttl      time.Duration

	ready atomic.Bool

	mu      sync.Mutex
	revoked map[string]struct{} // raw token -> revoked
}

// ProviderOption configures a JWTProvider.
type ProviderOption func(*JWTProvider)

// WithSessionTTL overrides the default session token lifetime.
func WithSessionTTL(ttl time.Duration) ProviderOption {
	return func(p *JWTProvider) {
		if ttl > 0 {
			p.ttl = ttl
		}
	}
}

// NewJWTProvider creates a provider in the loading state.
func NewJWTProvider(secret string, profiles ProfileStore, opts ...ProviderOption) *JWTProvider {
	p := &JWTProvider{
		secret:   []byte(secret),
		profiles: profiles,
		ttl:      defaultSessionTTL,
		revoked:  make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// MarkReady flips the provider out of the loading state.
func (p *JWTProvider) MarkReady() {
	p.ready.Store(true)
}

// Login verifies credentials against the profile store and issues a
// session token. Failures are uniformly ErrInvalidCredentials.
func (p *JWTProvider) Login(ctx context.Context, username, password string) (string, Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", Session{}, ErrInvalidCredentials
	}

	prof, err := p.profiles.FindProfile(ctx, username)
	if err != nil {
		return "", Session{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(prof.PasswordHash), []byte(password)) != nil {
		return "", Session{}, ErrInvalidCredentials
	}

	token, err := generateToken(p.secret, prof, p.ttl)
	if err != nil {
		return "", Session{}, err
	}
	return token, p.sessionFor(prof.UserID, prof.Username, prof.IsAdmin), nil
}

// Session resolves a token to a snapshot. An empty, revoked or invalid
// token yields an unauthenticated session; a provider that has not
// finished starting yields Loading.
func (p *JWTProvider) Session(ctx context.Context, token string) Session {
	if !p.ready.Load() {
		return Session{Loading: true}
	}
	if token == "" || p.isRevoked(token) {
		return Session{}
	}
	claims, err := parseToken(p.secret, token)
	if err != nil {
		return Session{}
	}
	return p.sessionFor(claims.Subject, claims.Username, claims.IsAdmin)
}

// SignOut revokes the token. The session is gone from the provider's
// perspective immediately; the JWT itself simply stops being honored.
func (p *JWTProvider) SignOut(ctx context.Context, token string) {
	if token == "" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.revoked[token] = struct{}{}
}

func (p *JWTProvider) isRevoked(token string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.revoked[token]
	return ok
}

func (p *JWTProvider) sessionFor(userID, username string, isAdmin bool) Session {
	return Session{
		User: &User{ID: userID, Username: username},
		Profile: &Profile{
			UserID:   userID,
			Username: username,
			IsAdmin:  isAdmin,
		},
	}
}

// HashPassword hashes a plaintext password for profile storage.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(b), err
}
