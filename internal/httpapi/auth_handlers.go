package httpapi

import (
	"errors"
	"net/http"

	"buildpro.org/internal/audit"
	"buildpro.org/internal/gate"
	"buildpro.org/internal/identity"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token   string           `json:"token"`
	Session identity.Session `json:"session"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, r, http.StatusBadRequest, "username and password are required")
		return
	}

	token, sess, err := a.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		_ = audit.LogEvent(r.Context(), "auth.login.failed", map[string]any{
			"username": req.Username,
		})
		if errors.Is(err, identity.ErrInvalidCredentials) {
			writeError(w, r, http.StatusUnauthorized, "invalid credentials")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "login failed")
		return
	}

	_ = audit.LogEvent(r.Context(), "auth.login.succeeded", map[string]any{
		"username": req.Username,
	})
	writeJSON(w, http.StatusOK, loginResponse{Token: token, Session: sess})
}

func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	token, ok := gate.TokenFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "bearer token required")
		return
	}
	a.auth.SignOut(r.Context(), token)
	_ = audit.LogEvent(r.Context(), "auth.logout", nil)
	w.WriteHeader(http.StatusNoContent)
}

// handleSession reports the provider's current view of the caller. It
// never errors: an absent or invalid token yields an unauthenticated
// snapshot, which the shell renders as the logged-out state.
func (a *API) handleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	token, _ := gate.TokenFromContext(r.Context())
	writeJSON(w, http.StatusOK, a.auth.Session(r.Context(), token))
}
