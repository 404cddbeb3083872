package gate

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"buildpro.org/internal/identity"
)

const staticSessionTTL = 12 * time.Hour

// Static compares submitted credentials against two configured constants
// and keeps authorized sessions in memory only; nothing survives a
// restart.
type Static struct {
	loginID  string
	password string

	mu       sync.Mutex
	sessions map[string]time.Time // token -> expiry
}

var (
	_ Gate          = (*Static)(nil)
	_ Authenticator = (*Static)(nil)
)

// NewStatic creates a static-credential gate.
func NewStatic(loginID, password string) *Static {
	return &Static{
		loginID:  loginID,
		password: password,
		sessions: make(map[string]time.Time),
	}
}

// Login grants an in-memory session token when both values match. The
// failure never reveals which field was wrong.
func (g *Static) Login(ctx context.Context, id, password string) (string, identity.Session, error) {
	idOK := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(id)), []byte(g.loginID))
	pwOK := subtle.ConstantTimeCompare([]byte(password), []byte(g.password))
	if idOK&pwOK != 1 {
		return "", identity.Session{}, identity.ErrInvalidCredentials
	}

	token := randomToken()
	g.mu.Lock()
	g.sessions[token] = time.Now().Add(staticSessionTTL)
	g.mu.Unlock()

	return token, g.session(), nil
}

// Session resolves a token to a session snapshot. Static deployments have
// no loading phase; the gate is ready from construction.
func (g *Static) Session(ctx context.Context, token string) identity.Session {
	if !g.valid(token) {
		return identity.Session{}
	}
	return g.session()
}

// SignOut drops the session.
func (g *Static) SignOut(ctx context.Context, token string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.sessions, token)
}

// Authorize grants access to any live session; the static profile is
// always the admin.
func (g *Static) Authorize(ctx context.Context) Decision {
	token, ok := TokenFromContext(ctx)
	if !ok || !g.valid(token) {
		return DecisionRedirectLogin
	}
	return DecisionAllow
}

func (g *Static) valid(token string) bool {
	if token == "" {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	exp, ok := g.sessions[token]
	if !ok {
		return false
	}
	if time.Now().After(exp) {
		delete(g.sessions, token)
		return false
	}
	return true
}

func (g *Static) session() identity.Session {
	return identity.Session{
		User: &identity.User{ID: g.loginID, Username: g.loginID},
		Profile: &identity.Profile{
			UserID:   g.loginID,
			Username: g.loginID,
			IsAdmin:  true,
		},
	}
}

func randomToken() string {
	var b [32]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
