package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/muurk/devterm/internal/config"
	"github.com/muurk/devterm/internal/logging"
	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the production platform API
	DefaultBaseURL = "https://api.devterm.dev"

	// SessionHeader carries the session secret on authenticated requests
	SessionHeader = "Devterm-Session"

	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 15 * time.Second

	// DefaultMaxRetries is the default number of retry attempts for idempotent requests
	DefaultMaxRetries = 2

	// DefaultRetryDelay is the initial delay between retry attempts
	DefaultRetryDelay = 500 * time.Millisecond

	// DefaultMaxRetryDelay caps the exponential backoff
	DefaultMaxRetryDelay = 5 * time.Second
)

// SessionStore persists the signed-in identity.
type SessionStore interface {
	Load() (*config.Session, error)
	Save(session config.Session) error
	Clear() error
}

// Client talks to the development platform API
type Client struct {
	// BaseURL is the API root (e.g., "https://api.devterm.dev")
	BaseURL string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	// Sessions stores the session secret between runs
	Sessions SessionStore

	// MaxRetries is the maximum number of retries for idempotent requests
	MaxRetries int

	// RetryDelay is the initial delay between retry attempts
	RetryDelay time.Duration

	// MaxRetryDelay is the maximum delay for exponential backoff
	MaxRetryDelay time.Duration

	// Prompter collects credentials during interactive sign-in
	Prompter Prompter
}

// NewClient creates a platform client rooted at baseURL
func NewClient(baseURL string, sessions SessionStore) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:       strings.TrimRight(baseURL, "/"),
		HTTPClient:    &http.Client{Timeout: DefaultTimeout},
		Sessions:      sessions,
		MaxRetries:    DefaultMaxRetries,
		RetryDelay:    DefaultRetryDelay,
		MaxRetryDelay: DefaultMaxRetryDelay,
		Prompter:      NewTerminalPrompter(nil, nil),
	}
}

// CurrentUsername returns the locally stored username without a network
// round trip. It returns "" when signed out or when the session file cannot
// be read.
func (c *Client) CurrentUsername() string {
	session, err := c.Sessions.Load()
	if err != nil {
		logging.Debug("Failed to load session", zap.Error(err))
		return ""
	}
	if session == nil {
		return ""
	}
	return session.Username
}

type userInfoResponse struct {
	Username string `json:"username"`
}

// Session asks the platform who the stored session belongs to. It returns
// "" when signed out. A session the platform rejects is cleared locally and
// reported as signed out.
func (c *Client) Session(ctx context.Context) (string, error) {
	session, err := c.Sessions.Load()
	if err != nil {
		return "", err
	}
	if session == nil {
		return "", nil
	}

	var info userInfoResponse
	err = c.doWithRetry(ctx, func() error {
		return c.do(ctx, http.MethodGet, "/v2/auth/userinfo", session.SessionSecret, nil, &info)
	})
	if IsAuthError(err) {
		logging.Info("Stored session rejected, signing out", zap.String("username", session.Username))
		return "", c.Sessions.Clear()
	}
	if err != nil {
		return "", err
	}

	if info.Username != "" && info.Username != session.Username {
		session.Username = info.Username
		if err := c.Sessions.Save(*session); err != nil {
			return "", err
		}
	}
	return session.Username, nil
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	SessionSecret string `json:"sessionSecret"`
	Username      string `json:"username"`
}

// Login exchanges credentials for a session and stores it
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "/v2/auth/login", "", loginRequest{Username: username, Password: password}, &resp)
	if err != nil {
		return "", err
	}
	return c.storeSession(resp, username)
}

// Register creates an account and stores the resulting session
func (c *Client) Register(ctx context.Context, email, username, password string) (string, error) {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "/v2/auth/register", "", registerRequest{Email: email, Username: username, Password: password}, &resp)
	if err != nil {
		return "", err
	}
	return c.storeSession(resp, username)
}

func (c *Client) storeSession(resp loginResponse, fallbackUsername string) (string, error) {
	if resp.SessionSecret == "" {
		return "", NewParseError("response did not include a session", nil)
	}
	username := resp.Username
	if username == "" {
		username = fallbackUsername
	}
	if err := c.Sessions.Save(config.Session{Username: username, SessionSecret: resp.SessionSecret}); err != nil {
		return "", err
	}
	logging.Info("Signed in", zap.String("username", username))
	return username, nil
}

// Logout revokes the session on the platform and forgets it locally. The
// local session is cleared even when the platform cannot be reached.
func (c *Client) Logout(ctx context.Context) error {
	session, err := c.Sessions.Load()
	if err != nil {
		return err
	}
	if session == nil {
		return nil
	}

	remoteErr := c.do(ctx, http.MethodPost, "/v2/auth/logout", session.SessionSecret, nil, nil)
	if remoteErr != nil && !IsAuthError(remoteErr) {
		logging.Warn("Failed to revoke session", zap.Error(remoteErr))
	}

	if err := c.Sessions.Clear(); err != nil {
		return err
	}
	logging.Info("Signed out", zap.String("username", session.Username))
	return nil
}

type sendLinkRequest struct {
	Recipient string `json:"emailOrPhone"`
	URL       string `json:"url"`
}

// SendLink asks the platform to deliver url to an email address or phone
// number. It requires a session.
func (c *Client) SendLink(ctx context.Context, recipient, url string) error {
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return NewValidationError("recipient must not be empty")
	}

	session, err := c.Sessions.Load()
	if err != nil {
		return err
	}
	if session == nil {
		return NewAuthError("sending a link requires signing in")
	}

	return c.do(ctx, http.MethodPost, "/v2/send-project", session.SessionSecret,
		sendLinkRequest{Recipient: recipient, URL: url}, nil)
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// do performs a single request. body and out may be nil.
func (c *Client) do(ctx context.Context, method, path, secret string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return NewNetworkError("failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if secret != "" {
		req.Header.Set(SessionHeader, secret)
	}

	logging.Debug("Platform request", zap.String("method", method), zap.String("path", path))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return NewNetworkError(method+" "+path+" failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return NewNetworkError("failed to read response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr errorResponse
		_ = json.Unmarshal(data, &apiErr)
		if resp.StatusCode == http.StatusUnauthorized {
			msg := apiErr.Error.Message
			if msg == "" {
				msg = "session rejected"
			}
			return NewAuthError(msg)
		}
		msg := apiErr.Error.Message
		if msg == "" {
			msg = fmt.Sprintf("unexpected status code: %d", resp.StatusCode)
		}
		return NewHTTPError(resp.StatusCode, apiErr.Error.Code, msg)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return NewParseError("failed to parse JSON response", err)
	}
	return nil
}

// doWithRetry retries fn with exponential backoff while it fails with a
// retryable error
func (c *Client) doWithRetry(ctx context.Context, fn func() error) error {
	var lastErr error
	delay := c.RetryDelay

	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
			if delay > c.MaxRetryDelay {
				delay = c.MaxRetryDelay
			}
		}

		lastErr = fn()
		if lastErr == nil || !IsRetryable(lastErr) {
			return lastErr
		}
		logging.Debug("Retrying platform request", zap.Int("attempt", attempt+1), zap.Error(lastErr))
	}

	return lastErr
}
