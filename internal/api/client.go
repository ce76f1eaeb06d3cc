package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	gerrors "github.com/dbmrq/globe/internal/errors"
	"github.com/dbmrq/globe/internal/logging"
)

// Authorizer supplies headers for authenticated requests.
type Authorizer interface {
	AuthHeaders() map[string]string
}

// Request describes one call.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	// Body is encoded as JSON when non-nil.
	Body any
}

// Client issues JSON requests to the backend.
type Client struct {
	http      *http.Client
	endpoints Endpoints
	auth      Authorizer
	log       *logging.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds every request. Zero keeps the transport default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithAuth sets the source of Authorization headers for country calls.
func WithAuth(a Authorizer) Option {
	return func(c *Client) { c.auth = a }
}

// WithLogger sets the logger used for failures.
func WithLogger(l *logging.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a Client for baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		http:      &http.Client{},
		endpoints: NewEndpoints(baseURL),
		log:       logging.With("component", "api"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoints returns the client's endpoint table.
func (c *Client) Endpoints() Endpoints {
	return c.endpoints
}

// errorBody is the failure shape returned by the backend.
type errorBody struct {
	Error string `json:"error"`
}

// Do sends req and decodes a 2xx JSON body into out (when out is non-nil).
// A non-2xx response fails with the server's "error" message, or
// "HTTP error! status: N" when the body has none. Every failure is logged.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	requestID := uuid.NewString()
	log := c.log.WithContext(logging.WithRequestID(ctx, requestID))

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return gerrors.Wrap(err, gerrors.ErrValidation, "failed to encode request")
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, body)
	if err != nil {
		log.Error("API call failed", "url", req.URL, "error", err)
		return gerrors.NetworkUnavailable(req.URL, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	httpReq.Header.Set("X-Request-ID", requestID)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		log.Error("API call failed", "url", req.URL, "error", err)
		return gerrors.NetworkUnavailable(req.URL, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("API call failed", "url", req.URL, "status", resp.StatusCode, "error", err)
		return gerrors.NetworkUnavailable(req.URL, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.Unmarshal(data, &eb)
		err := gerrors.ResponseStatus(req.URL, resp.StatusCode, eb.Error)
		log.Error("API call failed", "url", req.URL, "status", resp.StatusCode, "error", err.Message)
		return err
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		log.Error("API call failed", "url", req.URL, "status", resp.StatusCode, "error", err)
		return gerrors.DecodeFailure(req.URL, err)
	}
	return nil
}

func (c *Client) authHeaders() map[string]string {
	if c.auth == nil {
		return nil
	}
	return c.auth.AuthHeaders()
}

// IsUnauthorized reports whether err is a 401 from the backend.
func IsUnauthorized(err error) bool {
	return gerrors.IsUnauthorized(err)
}
