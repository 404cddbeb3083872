// Package gate decides whether the current caller may view admin-only
// content. Exactly one strategy is active per deployment: the static
// credential check or the delegated identity check.
package gate

import (
	"context"

	"buildpro.org/internal/identity"
)

// Decision is the outcome of an authorization check.
type Decision int

const (
	// DecisionLoading means the backing identity state has not resolved
	// yet; callers must render a loading state, not allow or deny.
	DecisionLoading Decision = iota
	// DecisionRedirectLogin means no authenticated identity is present.
	DecisionRedirectLogin
	// DecisionDenied means the caller is authenticated but lacks the
	// admin flag. Distinct from RedirectLogin on purpose.
	DecisionDenied
	// DecisionAllow grants access.
	DecisionAllow
)

func (d Decision) String() string {
	switch d {
	case DecisionLoading:
		return "loading"
	case DecisionRedirectLogin:
		return "redirect_login"
	case DecisionDenied:
		return "denied"
	case DecisionAllow:
		return "allow"
	}
	return "unknown"
}

// Gate authorizes access to admin-only views.
type Gate interface {
	Authorize(ctx context.Context) Decision
}

// Authenticator is the session surface both strategies expose to the
// HTTP layer: login, sign-out and session inspection.
type Authenticator interface {
	Login(ctx context.Context, id, password string) (string, identity.Session, error)
	Session(ctx context.Context, token string) identity.Session
	SignOut(ctx context.Context, token string)
}

type tokenContextKey struct{}

// ContextWithToken stores the caller's bearer token in the context.
func ContextWithToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenContextKey{}, token)
}

// TokenFromContext returns the bearer token if one was attached.
func TokenFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	v, ok := ctx.Value(tokenContextKey{}).(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
