package gate

import (
	"context"
	"testing"

	"buildpro.org/internal/identity"
)

// fakeProvider returns a canned session regardless of token.
type fakeProvider struct {
	sess identity.Session
}

func (p fakeProvider) Login(ctx context.Context, username, password string) (string, identity.Session, error) {
	return "", identity.Session{}, identity.ErrInvalidCredentials
}
func (p fakeProvider) Session(ctx context.Context, token string) identity.Session { return p.sess }
func (p fakeProvider) SignOut(ctx context.Context, token string)                  {}

func TestDelegatedDecisions(t *testing.T) {
	admin := &identity.Profile{UserID: "u1", Username: "admin", IsAdmin: true}
	viewer := &identity.Profile{UserID: "u2", Username: "viewer", IsAdmin: false}
	user := &identity.User{ID: "u1", Username: "admin"}

	cases := []struct {
		name string
		sess identity.Session
		want Decision
	}{
		{"loading", identity.Session{Loading: true}, DecisionLoading},
		{"anonymous", identity.Session{}, DecisionRedirectLogin},
		{"no profile", identity.Session{User: user}, DecisionDenied},
		{"non-admin", identity.Session{User: user, Profile: viewer}, DecisionDenied},
		{"admin", identity.Session{User: user, Profile: admin}, DecisionAllow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := NewDelegated(fakeProvider{sess: tc.sess})
			if got := g.Authorize(context.Background()); got != tc.want {
				t.Fatalf("Authorize() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDelegatedLoadingBeatsDenial(t *testing.T) {
	// A loading snapshot that also carries a user must still read as
	// loading, never as a grant or a denial.
	sess := identity.Session{
		Loading: true,
		User:    &identity.User{ID: "u1", Username: "admin"},
	}
	g := NewDelegated(fakeProvider{sess: sess})
	if got := g.Authorize(context.Background()); got != DecisionLoading {
		t.Fatalf("Authorize() = %v, want loading", got)
	}
}

func TestStaticLoginAndAuthorize(t *testing.T) {
	g := NewStatic("admin", "dashboard123")
	ctx := context.Background()

	if got := g.Authorize(ctx); got != DecisionRedirectLogin {
		t.Fatalf("anonymous Authorize() = %v", got)
	}

	token, sess, err := g.Login(ctx, "admin", "dashboard123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" {
		t.Fatal("empty token")
	}
	if sess.Profile == nil || !sess.Profile.IsAdmin {
		t.Fatalf("static session must be admin: %+v", sess)
	}
	if sess.Loading {
		t.Fatal("static gate has no loading phase")
	}

	if got := g.Authorize(ContextWithToken(ctx, token)); got != DecisionAllow {
		t.Fatalf("Authorize() with session = %v", got)
	}
	if got := g.Authorize(ContextWithToken(ctx, "forged")); got != DecisionRedirectLogin {
		t.Fatalf("Authorize() with forged token = %v", got)
	}
}

func TestStaticLoginRejections(t *testing.T) {
	g := NewStatic("admin", "dashboard123")
	ctx := context.Background()

	cases := []struct{ id, password string }{
		{"admin", "wrong"},
		{"wrong", "dashboard123"},
		{"", ""},
		{"admin", ""},
		{"ADMIN", "dashboard123"},
	}
	for _, tc := range cases {
		if _, _, err := g.Login(ctx, tc.id, tc.password); err != identity.ErrInvalidCredentials {
			t.Fatalf("Login(%q, %q) err = %v, want ErrInvalidCredentials", tc.id, tc.password, err)
		}
	}
}

func TestStaticSignOut(t *testing.T) {
	g := NewStatic("admin", "dashboard123")
	ctx := context.Background()

	token, _, err := g.Login(ctx, "admin", "dashboard123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	g.SignOut(ctx, token)

	if got := g.Authorize(ContextWithToken(ctx, token)); got != DecisionRedirectLogin {
		t.Fatalf("Authorize() after sign-out = %v", got)
	}
	if sess := g.Session(ctx, token); sess.User != nil {
		t.Fatal("session survived sign-out")
	}
}

func TestTokenContext(t *testing.T) {
	ctx := context.Background()
	if _, ok := TokenFromContext(ctx); ok {
		t.Fatal("token found in empty context")
	}
	if got, ok := TokenFromContext(ContextWithToken(ctx, "abc")); !ok || got != "abc" {
		t.Fatalf("TokenFromContext = %q, %v", got, ok)
	}
	// Empty tokens are never attached.
	if _, ok := TokenFromContext(ContextWithToken(ctx, "")); ok {
		t.Fatal("empty token attached")
	}
}
