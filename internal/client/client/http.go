package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/dmitrijs2005/schoolconnect/internal/client/models"
	"github.com/dmitrijs2005/schoolconnect/internal/common"
	"github.com/dmitrijs2005/schoolconnect/internal/logging"
)

const (
	loginPath     = "/auth/login"
	registerPath  = "/register"
	directoryPath = "/usuario"

	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 4 << 20
)

var _ Client = (*HTTPClient)(nil)

type HTTPClient struct {
	baseURL string
	http    *http.Client
	store   CredentialStore
	log     logging.Logger
}

type Option func(*HTTPClient)

// WithHTTPClient replaces the default otelhttp-instrumented client.
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTPClient) {
		if c != nil {
			h.http = c
		}
	}
}

// WithTimeout sets the per-request timeout of the default client.
func WithTimeout(d time.Duration) Option {
	return func(h *HTTPClient) {
		if d > 0 {
			h.http.Timeout = d
		}
	}
}

// NewHTTPClient builds a client for the identity service at baseURL, e.g.
// "https://id.example.org/api".
func NewHTTPClient(baseURL string, store CredentialStore, log logging.Logger, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid identity service url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid identity service url %q: want http(s)://host[/path]", baseURL)
	}

	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   defaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		store: store,
		log:   log.With("component", "identity-client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Authenticate exchanges credentials for a token. When the answer carries
// both a token and a user they are persisted before Authenticate returns.
func (c *HTTPClient) Authenticate(ctx context.Context, email, password string) (*models.LoginResult, error) {
	const op = "authenticate"

	status, data, err := c.do(ctx, op, http.MethodPost, loginPath, credentials{Email: email, Password: password}, false)
	if err != nil {
		return nil, err
	}
	if !isSuccess(status) {
		return nil, rejection(ErrAuthentication, status, data, DefaultLoginMessage)
	}

	var resp loginResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}

	result := resp.normalize(email)
	if result.Token != "" && result.User != nil {
		if err := c.store.Save(ctx, result.Token, result.User); err != nil {
			return nil, fmt.Errorf("persist credentials: %w", err)
		}
	} else {
		c.log.Warn(ctx, "login answer is incomplete, nothing persisted",
			"has_token", result.Token != "", "has_user", result.User != nil)
	}

	return result, nil
}

// RegisterPrivilegedUser creates another account on behalf of the current
// session. The stored session is left untouched.
func (c *HTTPClient) RegisterPrivilegedUser(ctx context.Context, nu models.NewUser) (*models.User, error) {
	const op = "register"

	status, data, err := c.do(ctx, op, http.MethodPost, registerPath, nu, true)
	if err != nil {
		return nil, err
	}
	if !isSuccess(status) {
		return nil, rejection(ErrRegistration, status, data, DefaultRegisterMessage)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return &models.User{
			FirstName: models.StringPtr(nu.FirstName),
			LastName:  models.StringPtr(nu.LastName),
			Email:     nu.Email,
			Role:      nu.Role,
		}, nil
	}

	var wrapped wrappedUser
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	payload := wrapped.pick()
	if payload == nil {
		payload = &wireUser{}
		if err := json.Unmarshal(data, payload); err != nil {
			return nil, &TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
		}
	}

	u := payload.toModel(nu.Email)
	return &u, nil
}

// ListUsers fetches the user directory in the order the service returned it.
func (c *HTTPClient) ListUsers(ctx context.Context) ([]models.User, error) {
	const op = "list users"

	status, data, err := c.do(ctx, op, http.MethodGet, directoryPath, nil, true)
	if err != nil {
		return nil, err
	}
	if !isSuccess(status) {
		return nil, rejection(ErrDirectoryFetch, status, data, DefaultDirectoryMessage)
	}

	var payload []wireUser
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}

	users := make([]models.User, 0, len(payload))
	for i := range payload {
		users = append(users, payload[i].toModel(""))
	}
	return users, nil
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) do(ctx context.Context, op, method, path string, body any, authorized bool) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, nil, &TransportError{Op: op, Err: fmt.Errorf("encode request: %w", err)}
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, &TransportError{Op: op, Err: err}
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(common.RequestIDHeaderName, requestID)

	if authorized {
		token, err := c.store.LoadToken(ctx)
		if err != nil {
			c.log.Warn(ctx, "sending request without token", "op", op, "error", err)
		}
		if token != "" {
			req.Header.Set(common.AuthorizationHeaderName, common.BearerValue(token))
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, nil, &TransportError{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}

	c.log.Debug(ctx, "identity service call",
		"op", op, "status", resp.StatusCode, "request_id", requestID, "elapsed", time.Since(start))

	return resp.StatusCode, data, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

// rejection builds the error for a non-2xx answer. The service's message is
// kept verbatim; a body without one falls back to the default.
func rejection(kind error, status int, data []byte, fallback string) error {
	msg := fallback
	var body messageBody
	if err := json.Unmarshal(data, &body); err == nil && strings.TrimSpace(body.Message) != "" {
		msg = body.Message
	}
	return &ServiceError{Kind: kind, StatusCode: status, Message: msg}
}
