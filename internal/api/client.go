// Package api wraps the TaskFlow backend's REST surface. Every call
// attaches the bearer token held in local storage, normalizes failures
// into a single human-readable message, and reports 401 responses to a
// registered hook instead of redirecting behind the caller's back.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rajeshprivate007/taskflow-frontend/internal/storage"
)

const genericErrorMessage = "an unexpected error occurred"

// Error carries the normalized failure for one call. Status is zero for
// transport failures where no response was received.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// envelope is the backend's uniform response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type Client struct {
	baseURL        string
	httpClient     *http.Client
	kv             storage.Store
	onUnauthorized func()
	log            zerolog.Logger
}

type Option func(*Client)

// WithHTTPClient overrides the transport; timeouts are whatever the
// supplied client is configured with.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

func NewClient(baseURL string, kv storage.Store, opts ...Option) *Client {
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		kv:         kv,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// OnUnauthorized registers the hook invoked whenever any call comes back
// with status 401. The session layer subscribes here; the triggering
// call still returns its own error as usual.
func (c *Client) OnUnauthorized(hook func()) {
	c.onUnauthorized = hook
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var payload *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &Error{Message: err.Error()}
		}
		payload = bytes.NewReader(data)
	} else {
		payload = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, payload)
	if err != nil {
		return &Error{Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token, ok, err := c.kv.Get(storage.KeyToken); err == nil && ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug().Str("method", method).Str("path", path).Err(err).Msg("request failed")
		return &Error{Message: normalizeMessage("", err)}
	}
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	if resp.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil {
		c.onUnauthorized()
	}

	if resp.StatusCode >= 400 {
		message := env.Message
		if message == "" {
			message = normalizeMessage(http.StatusText(resp.StatusCode), nil)
		}
		c.log.Debug().
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Str("message", message).
			Msg("request rejected")
		return &Error{Status: resp.StatusCode, Message: message}
	}

	if decodeErr != nil {
		return &Error{Status: resp.StatusCode, Message: normalizeMessage("", decodeErr)}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &Error{Status: resp.StatusCode, Message: fmt.Sprintf("decode response: %v", err)}
		}
	}
	return nil
}

// normalizeMessage picks the server-supplied message first, then the
// transport error's message, then a generic string.
func normalizeMessage(serverMessage string, transportErr error) string {
	if serverMessage != "" {
		return serverMessage
	}
	if transportErr != nil {
		return transportErr.Error()
	}
	return genericErrorMessage
}

// Message extracts the normalized message from any error returned by
// this package; other errors pass through unchanged.
func Message(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
