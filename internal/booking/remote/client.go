// Package remote is a booking.Store backed by a running API instance over
// HTTP. The smoke binary and embedded deployments use it in place of a
// direct database connection.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"buildpro.org/internal/booking"
)

// Client talks to a remote booking API.
type Client struct {
	base  string
	token string
	http  *http.Client
}

// Option configures the client.
type Option func(*Client)

// WithToken attaches a bearer token to every request. Listing requires
// an admin session; submission does not.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New builds a client for the API at base, e.g. "http://localhost:8080".
func New(base string, opts ...Option) *Client {
	c := &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ booking.Store = (*Client)(nil)

type wireRecord struct {
	FullName    string  `json:"full_name"`
	Email       string  `json:"email"`
	Phone       *string `json:"phone,omitempty"`
	Service     *string `json:"service,omitempty"`
	Message     *string `json:"message,omitempty"`
	ScheduledAt string  `json:"scheduled_at,omitempty"`
}

// Insert submits the record through POST /v1/appointments.
func (c *Client) Insert(ctx context.Context, rec booking.Record) (booking.Appointment, error) {
	body, err := json.Marshal(wireRecord{
		FullName:    rec.FullName,
		Email:       rec.Email,
		Phone:       rec.Phone,
		Service:     rec.Service,
		Message:     rec.Message,
		ScheduledAt: rec.ScheduledAt.Format(time.RFC3339),
	})
	if err != nil {
		return booking.Appointment{}, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/v1/appointments", bytes.NewReader(body))
	if err != nil {
		return booking.Appointment{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return booking.Appointment{}, fmt.Errorf("%w: %v", booking.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated:
		var apt booking.Appointment
		if err := json.NewDecoder(resp.Body).Decode(&apt); err != nil {
			return booking.Appointment{}, err
		}
		return apt, nil
	case http.StatusBadRequest:
		return booking.Appointment{}, booking.ValidationError(c.errorMessage(resp.Body))
	default:
		return booking.Appointment{}, fmt.Errorf("%w: insert returned %d", booking.ErrUnavailable, resp.StatusCode)
	}
}

// List fetches all records through GET /v1/appointments. The configured
// token must carry an admin session.
func (c *Client) List(ctx context.Context) ([]booking.Appointment, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/v1/appointments", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", booking.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: list returned %d", booking.ErrUnavailable, resp.StatusCode)
	}
	var out struct {
		Items []booking.Appointment `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// Ping checks the remote readiness endpoint.
func (c *Client) Ping(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/readyz", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", booking.ErrUnavailable, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: readyz returned %d", booking.ErrUnavailable, resp.StatusCode)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func (c *Client) errorMessage(body io.Reader) string {
	var e struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(body).Decode(&e); err != nil || e.Error == "" {
		return "submission rejected"
	}
	return e.Error
}
