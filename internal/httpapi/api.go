// Package httpapi is the HTTP layer: routing, middleware, and the JSON
// contract of the booking and dashboard surfaces.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"buildpro.org/internal/audit"
	"buildpro.org/internal/booking"
	"buildpro.org/internal/gate"
	"buildpro.org/internal/obs"
	"buildpro.org/internal/stream"
)

const serviceName = "buildpro-api"

// API is the HTTP layer.
type API struct {
	mux     *http.ServeMux
	version string

	flow  booking.Flow
	store booking.Store
	gate  gate.Gate
	auth  gate.Authenticator
	strm  *stream.Stream

	rateBurst  int
	ratePerSec int
	maxBody    int64
}

// Option configures the API.
type Option func(*API)

// WithRateLimit overrides the per-IP rate limit.
func WithRateLimit(burst, perSec int) Option {
	return func(a *API) {
		if burst > 0 {
			a.rateBurst = burst
		}
		if perSec > 0 {
			a.ratePerSec = perSec
		}
	}
}

// WithMaxBodyBytes overrides the request body cap.
func WithMaxBodyBytes(n int64) Option {
	return func(a *API) {
		if n > 0 {
			a.maxBody = n
		}
	}
}

// New wires the routes. The gate and authenticator belong to the same
// deployment profile; exactly one strategy is ever active.
func New(version string, flow booking.Flow, store booking.Store, gt gate.Gate, auth gate.Authenticator, strm *stream.Stream, opts ...Option) *API {
	a := &API{
		mux:        http.NewServeMux(),
		version:    version,
		flow:       flow,
		store:      store,
		gate:       gt,
		auth:       auth,
		strm:       strm,
		rateBurst:  20,
		ratePerSec: 10,
		maxBody:    1 << 20,
	}
	for _, opt := range opts {
		opt(a)
	}

	a.mux.HandleFunc("/healthz", a.healthz)
	a.mux.HandleFunc("/readyz", a.ready)
	a.mux.HandleFunc("/v1/info", a.info)

	a.mux.Handle("/metrics", obs.Handler())

	a.mux.HandleFunc("/v1/services", a.handleServices)
	a.mux.HandleFunc("/v1/appointments", a.handleAppointments)
	a.mux.HandleFunc("/v1/appointments/stream", a.handleStream)

	a.mux.HandleFunc("/v1/auth/login", a.handleLogin)
	a.mux.HandleFunc("/v1/auth/logout", a.handleLogout)
	a.mux.HandleFunc("/v1/auth/session", a.handleSession)

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	return a
}

// Handler returns the fully wrapped http.Handler for the server.
func (a *API) Handler() http.Handler {
	var h http.Handler = a.mux
	h = withToken(h)
	h = LoggingJSON(h)
	h = MaxBodyBytes(h, a.maxBody)
	h = RateLimit(h, a.rateBurst, a.ratePerSec)
	h = CORS(h)
	h = SecurityHeaders(h)
	h = RequestID(h)
	return obs.Instrument(h)
}

// --- health/info ---

func (a *API) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": serviceName,
		"version": a.version,
	})
}

func (a *API) ready(w http.ResponseWriter, r *http.Request) {
	if err := a.store.Ping(r.Context()); err != nil {
		obs.SetReady(false)
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	obs.SetReady(true)
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}

func (a *API) info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    serviceName,
		"flow":    string(a.flow),
		"time":    time.Now().UTC().Format(time.RFC3339),
		"version": a.version,
	})
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	payload := map[string]any{
		"error": msg,
	}
	if rid := RequestIDFromContext(r.Context()); rid != "" {
		payload["request_id"] = rid
	}
	writeJSON(w, code, payload)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
}

// decodeJSON decodes one strict JSON body. The size cap is applied by the
// MaxBodyBytes middleware, never here.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return errors.New("unexpected data after JSON body")
		}
		return err
	}
	return nil
}

// requireAdmin maps the gate decision to the HTTP contract. The denied
// and unauthenticated outcomes are deliberately distinct: the former gets
// an explicit denial, the latter a pointer at the login entry point.
func (a *API) requireAdmin(w http.ResponseWriter, r *http.Request) (context.Context, bool) {
	ctx := r.Context()
	switch a.gate.Authorize(ctx) {
	case gate.DecisionAllow:
		if token, ok := gate.TokenFromContext(ctx); ok {
			if sess := a.auth.Session(ctx, token); sess.Profile != nil {
				ctx = audit.WithActor(ctx, sess.Profile.Username)
			}
		}
		return ctx, true
	case gate.DecisionLoading:
		w.Header().Set("Retry-After", "1")
		writeError(w, r, http.StatusServiceUnavailable, "session state is loading")
	case gate.DecisionRedirectLogin:
		w.Header().Set("WWW-Authenticate", `Bearer realm="buildpro"`)
		payload := map[string]any{
			"error": "authentication required",
			"login": "/v1/auth/login",
		}
		if rid := RequestIDFromContext(ctx); rid != "" {
			payload["request_id"] = rid
		}
		writeJSON(w, http.StatusUnauthorized, payload)
	case gate.DecisionDenied:
		writeJSON(w, http.StatusForbidden, map[string]any{
			"error":  "access denied",
			"detail": "You don't have permission to access this page. Admin access required.",
		})
	}
	return ctx, false
}
