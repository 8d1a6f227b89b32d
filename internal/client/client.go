// Package client binds the server's authentication endpoints to the
// client-side session manager: successful signup/login adopt the issued
// token, failed requests leave session state untouched.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	goerrors "github.com/goliatone/go-errors"

	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/internal/session"
)

// Client talks to the inkpost server.
type Client struct {
	baseURL  string
	http     *http.Client
	sessions *session.Manager
	logger   auth.Logger
}

// Option customizes client construction.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client. Timeout and retry
// policy live there; failed requests are never retried here.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger overrides the default logger.
func WithLogger(logger auth.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New builds a client against the given base URL, bound to the session
// manager that owns the token.
func New(baseURL string, sessions *session.Manager, opts ...Option) *Client {
	c := &Client{
		baseURL:  baseURL,
		http:     &http.Client{},
		sessions: sessions,
		logger:   auth.DefaultLogger(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	return c
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token    string `json:"token"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Error    string `json:"error,omitempty"`
}

// PostsResponse is the protected feed payload.
type PostsResponse struct {
	Username string   `json:"username"`
	Posts    []string `json:"posts"`
}

// Signup registers a new identity and adopts the issued token.
func (c *Client) Signup(ctx context.Context, email, password, username string) error {
	var resp tokenResponse
	if err := c.post(ctx, "/user/signup", signupRequest{
		Email:    email,
		Password: password,
		Username: username,
	}, &resp); err != nil {
		return err
	}

	c.sessions.Login(ctx, resp.Token)
	return nil
}

// Login authenticates an existing identity and adopts the issued token.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var resp tokenResponse
	if err := c.post(ctx, "/user/login", loginRequest{
		Email:    email,
		Password: password,
	}, &resp); err != nil {
		return err
	}

	c.sessions.Login(ctx, resp.Token)
	return nil
}

// Logout clears the session. Purely client-side: the token simply ages out
// server-side.
func (c *Client) Logout(ctx context.Context) {
	c.sessions.Logout(ctx)
}

// Posts fetches the protected feed. A 401 means the held token no longer
// verifies (expired or tampered), so the session drops back to Anonymous
// and the caller should route to login.
func (c *Client) Posts(ctx context.Context) (*PostsResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/posts", nil)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "failed to build request")
	}
	req.Header.Set("Authorization", "Bearer "+c.sessions.Token())

	httpResp, err := c.http.Do(req)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "request failed")
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "failed to read response")
	}

	if httpResp.StatusCode == http.StatusUnauthorized {
		c.logger.Info("server rejected session token, logging out")
		c.sessions.Logout(ctx)
		return nil, remoteError(httpResp.StatusCode, data)
	}

	if httpResp.StatusCode >= 400 {
		return nil, remoteError(httpResp.StatusCode, data)
	}

	feed := &PostsResponse{}
	if err := json.Unmarshal(data, feed); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "failed to decode response")
	}

	return feed, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, out *tokenResponse) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to encode request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to build request")
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := c.http.Do(req)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "request failed")
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to read response")
	}

	if httpResp.StatusCode >= 400 {
		return remoteError(httpResp.StatusCode, data)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to decode response")
	}

	if out.Token == "" {
		return goerrors.New("server response is missing a token", goerrors.CategoryOperation)
	}

	return nil
}

// remoteError surfaces the server's error message with a category matching
// the status class, so callers can present it on the form as-is.
func remoteError(status int, body []byte) error {
	msg := fmt.Sprintf("request failed with status %d", status)

	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		msg = payload.Error
	}

	category := goerrors.CategoryOperation
	switch status {
	case http.StatusUnauthorized:
		category = goerrors.CategoryAuth
	case http.StatusConflict:
		category = goerrors.CategoryConflict
	case http.StatusBadRequest:
		category = goerrors.CategoryValidation
	}

	return goerrors.New(msg, category)
}
