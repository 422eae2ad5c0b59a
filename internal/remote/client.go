// Package remote talks to the timesheet service over its JSON HTTP API.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/julianstephens/slotsheet/internal/constants"
	apperrors "github.com/julianstephens/slotsheet/internal/errors"
	"github.com/julianstephens/slotsheet/internal/logger"
	"github.com/julianstephens/slotsheet/internal/models"
)

// APIError is a non-2xx response from the service
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// Unwrap lets callers match every APIError against ErrRemoteRejected
func (e *APIError) Unwrap() error {
	return apperrors.ErrRemoteRejected
}

// ErrNotAuthenticated is returned for calls that need a signed-in user
var ErrNotAuthenticated = fmt.Errorf("%w: not signed in", apperrors.ErrRemoteRejected)

// Client wraps HTTP calls to the timesheet API
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	creds models.Credentials
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request transport timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithCredentials starts the client signed in
func WithCredentials(creds models.Credentials) Option {
	return func(c *Client) {
		c.creds = creds
	}
}

// NewClient creates a new API client with timeout
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = constants.DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: constants.DefaultClientTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Credentials returns the identity used for authorized calls
func (c *Client) Credentials() models.Credentials {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.creds
}

// SetCredentials replaces the identity used for authorized calls
func (c *Client) SetCredentials(creds models.Credentials) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.creds = creds
}

type authResponse struct {
	Token       string `json:"token"`
	AccessToken string `json:"accessToken"`
	Result      *struct {
		AccessToken string `json:"accessToken"`
	} `json:"result"`
}

func (a authResponse) token() string {
	switch {
	case a.Token != "":
		return a.Token
	case a.AccessToken != "":
		return a.AccessToken
	case a.Result != nil:
		return a.Result.AccessToken
	default:
		return ""
	}
}

type loginUserResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Email   string `json:"email"`
}

// Login authenticates and loads the signed-in user's profile. On success the
// client keeps the returned credentials for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (models.Credentials, error) {
	var auth authResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/Authenticate", "", body, &auth); err != nil {
		return models.Credentials{}, fmt.Errorf("authentication failed: %w", err)
	}

	token := auth.token()
	if token == "" {
		return models.Credentials{}, fmt.Errorf("%w: no token in authentication response", apperrors.ErrRemoteRejected)
	}

	var user loginUserResponse
	if err := c.do(ctx, http.MethodGet, "/LoginUser", token, nil, &user); err != nil {
		return models.Credentials{}, fmt.Errorf("failed to load user profile: %w", err)
	}

	creds := models.Credentials{
		Token:   token,
		UserID:  user.ID,
		Email:   firstNonEmpty(user.Email, email),
		Name:    user.Name,
		Surname: user.Surname,
	}
	c.SetCredentials(creds)
	logger.Info("Signed in", "user_id", creds.UserID, "email", creds.Email)
	return creds, nil
}

// DeleteRecord removes a persisted record
func (c *Client) DeleteRecord(ctx context.Context, recordID int64) error {
	creds, err := c.authorized()
	if err != nil {
		return err
	}
	path := "/UserJobDefinition/" + strconv.FormatInt(recordID, 10)
	if err := c.do(ctx, http.MethodDelete, path, creds.Token, nil, nil); err != nil {
		return fmt.Errorf("failed to delete record %d: %w", recordID, err)
	}
	return nil
}

func (c *Client) authorized() (models.Credentials, error) {
	creds := c.Credentials()
	if !creds.Valid() {
		return models.Credentials{}, ErrNotAuthenticated
	}
	return creds, nil
}

// do sends one request. A nil out discards the response body; 204 is success.
func (c *Client) do(ctx context.Context, method, path, token string, in, out interface{}) error {
	var reqBody io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrTransport, err)
	}
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-version", "1.0")
	req.Header.Set("language", "tr")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	logger.Debug("API request", "method", method, "path", path)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrTransport, err)
	}
	defer resp.Body.Close()
	logger.Debug("API response", "method", method, "path", path, "status", resp.StatusCode)

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", apperrors.ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(data)}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", apperrors.ErrTransport, err)
	}
	return nil
}

func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
