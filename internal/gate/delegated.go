package gate

import (
	"context"

	"buildpro.org/internal/identity"
)

// Delegated defers to an external identity provider and reads only the
// presence of a user and the profile's admin flag.
type Delegated struct {
	provider identity.Provider
}

var _ Gate = (*Delegated)(nil)

// NewDelegated creates a gate over the given provider.
func NewDelegated(p identity.Provider) *Delegated {
	return &Delegated{provider: p}
}

// Authorize maps the provider's session snapshot to a decision. Admin
// access requires both a present user and profile.IsAdmin.
func (d *Delegated) Authorize(ctx context.Context) Decision {
	token, _ := TokenFromContext(ctx)
	sess := d.provider.Session(ctx, token)

	if sess.Loading {
		return DecisionLoading
	}
	if sess.User == nil {
		return DecisionRedirectLogin
	}
	if sess.Profile == nil || !sess.Profile.IsAdmin {
		return DecisionDenied
	}
	return DecisionAllow
}
