package users

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines the operations the roster UI needs from the users API.
// This interface is implemented by *Client and can be used for testing.
type Service interface {
	List(ctx context.Context) ([]User, error)
	Create(ctx context.Context, user User) (User, error)
	Update(ctx context.Context, user User) (User, error)
	Delete(ctx context.Context, id int) error
}

// Ensure Client implements Service at compile time.
var _ Service = (*Client)(nil)

// Client talks to a JSON users API rooted at BasePath.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	logger    *zap.Logger
}

// Options tune a Client. Zero values use defaults.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Logger    *zap.Logger
}

// BasePath is the collection path every request is issued against.
const BasePath = "/users"

const (
	defaultBaseURL   = "https://jsonplaceholder.typicode.com"
	defaultUserAgent = "roster/0.1"
	requestTimeout   = 5 * time.Second
)

// NewClient builds a Client for the API at baseURL.
func NewClient(baseURL string, opts Options) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = requestTimeout
	}
	userAgent := strings.TrimSpace(opts.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: timeout,
		},
		userAgent: userAgent,
		logger:    logger,
	}, nil
}

// List retrieves the full collection in server order.
func (c *Client) List(ctx context.Context) ([]User, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []User
	if err := c.do(ctx, http.MethodGet, BasePath, nil, &payload); err != nil {
		return nil, wrap("list users", err)
	}
	return payload, nil
}

// Create posts a new record and returns what the server stored.
func (c *Client) Create(ctx context.Context, user User) (User, error) {
	if c == nil {
		return User{}, fmt.Errorf("client is nil")
	}
	var saved User
	if err := c.do(ctx, http.MethodPost, BasePath+"/", user, &saved); err != nil {
		return User{}, wrap("create user", err)
	}
	return saved, nil
}

// Update patches the record identified by user.ID with the full record.
func (c *Client) Update(ctx context.Context, user User) (User, error) {
	if c == nil {
		return User{}, fmt.Errorf("client is nil")
	}
	var saved User
	if err := c.do(ctx, http.MethodPatch, itemPath(user.ID), user, &saved); err != nil {
		return User{}, wrap(fmt.Sprintf("update user %d", user.ID), err)
	}
	return saved, nil
}

// Delete removes the record with the given id.
func (c *Client) Delete(ctx context.Context, id int) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if err := c.do(ctx, http.MethodDelete, itemPath(id), nil, nil); err != nil {
		return wrap(fmt.Sprintf("delete user %d", id), err)
	}
	return nil
}

func itemPath(id int) string {
	return BasePath + "/" + strconv.Itoa(id)
}

// wrap adds operation context. Cancellation is passed through untouched so
// IsCanceled keeps working and no message is ever built for it.
func wrap(op string, err error) error {
	if IsCanceled(err) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	reqURL := *c.baseURL
	reqURL.Path = strings.TrimSuffix(c.baseURL.Path, "/") + path

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log := c.logger.With(
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
	)
	started := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			log.Debug("request canceled")
			return &canceledError{cause: err}
		}
		log.Warn("request failed", zap.Error(err), zap.Duration("elapsed", time.Since(started)))
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	log.Info("request completed",
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(started)),
	)

	if resp.StatusCode >= 400 {
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode}
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			return &canceledError{cause: err}
		}
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse base url %q: missing host", raw)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
