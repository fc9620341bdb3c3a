package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/vadim/slack-threads/internal/domain/conversation/entity"
)

const (
	defaultBaseURL = "https://slack.com/api"
	defaultTimeout = 30 * time.Second

	requestIDHeader = "X-Request-ID"
)

// Client is a read-only Slack Web API client for conversations
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// ClientOption is a function that configures the Client
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the request timeout. A client passed through WithHTTPClient
// is copied, never modified.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		httpClient := *c.httpClient
		httpClient.Timeout = timeout
		c.httpClient = &httpClient
	}
}

// WithRateLimit caps outbound calls per minute. Zero disables the limiter.
func WithRateLimit(perMinute int) ClientOption {
	return func(c *Client) {
		if perMinute <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), perMinute)
	}
}

// WithLogger sets the logger used for outbound call logging
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a new Slack API client
func New(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents a failed Slack API call: either ok=false in the body or a non-2xx status
type APIError struct {
	Code       string
	StatusCode int
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	return fmt.Sprintf("slack API error: %s (status: %d)", e.Code, e.StatusCode)
}

// RateLimited reports whether Slack rejected the call with 429
func (e *APIError) RateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// envelope is the common part of every Slack Web API response
type envelope struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Conversation types accepted by conversations.list
const (
	TypePublicChannel  = "public_channel"
	TypePrivateChannel = "private_channel"
	TypeMPIM           = "mpim"
	TypeIM             = "im"
)

// ListConversationsInput represents input for conversations.list
type ListConversationsInput struct {
	Types           []string
	ExcludeArchived bool
	Limit           int
}

type listConversationsResponse struct {
	envelope
	Channels []entity.Conversation `json:"channels"`
}

// ListConversations returns a single page of conversations.
// GET /conversations.list
func (c *Client) ListConversations(ctx context.Context, token string, in ListConversationsInput) ([]entity.Conversation, error) {
	params := url.Values{}
	if len(in.Types) > 0 {
		params.Set("types", strings.Join(in.Types, ","))
	}
	if in.ExcludeArchived {
		params.Set("exclude_archived", "true")
	}
	if in.Limit > 0 {
		params.Set("limit", strconv.Itoa(in.Limit))
	}

	var out listConversationsResponse
	if err := c.get(ctx, token, "conversations.list", params, &out); err != nil {
		return nil, err
	}

	if out.Channels == nil {
		return []entity.Conversation{}, nil
	}
	return out.Channels, nil
}

// HistoryInput represents input for conversations.history
type HistoryInput struct {
	Channel string
	Limit   int
}

type historyResponse struct {
	envelope
	Messages []entity.RawMessage `json:"messages"`
}

// ConversationHistory returns the most recent messages of a conversation, newest first as Slack orders them.
// GET /conversations.history
func (c *Client) ConversationHistory(ctx context.Context, token string, in HistoryInput) ([]entity.RawMessage, error) {
	params := url.Values{}
	params.Set("channel", in.Channel)
	if in.Limit > 0 {
		params.Set("limit", strconv.Itoa(in.Limit))
	}

	var out historyResponse
	if err := c.get(ctx, token, "conversations.history", params, &out); err != nil {
		return nil, err
	}

	if out.Messages == nil {
		return []entity.RawMessage{}, nil
	}
	return out.Messages, nil
}

// get issues a GET for a Web API method and decodes the response
func (c *Client) get(ctx context.Context, token, method string, params url.Values, out interface{}) error {
	endpoint := fmt.Sprintf("%s/%s", c.baseURL, method)
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	return c.do(req, method, out)
}

// do executes an HTTP request and decodes the response
func (c *Client) do(req *http.Request, method string, out interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return fmt.Errorf("waiting for rate limiter: %w", err)
		}
	}

	requestID := uuid.NewString()
	req.Header.Set(requestIDHeader, requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.ErrorContext(req.Context(), "slack request failed",
			"method", method, "request_id", requestID, "error", err)
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	c.logger.DebugContext(req.Context(), "slack request",
		"method", method,
		"request_id", requestID,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return &APIError{
			Code:       "ratelimited",
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		if resp.StatusCode >= 400 {
			return &APIError{Code: http.StatusText(resp.StatusCode), StatusCode: resp.StatusCode}
		}
		return fmt.Errorf("decoding response: %w", err)
	}

	if resp.StatusCode >= 400 || !env.OK {
		code := env.Error
		if code == "" {
			code = "unknown_error"
		}
		return &APIError{Code: code, StatusCode: resp.StatusCode}
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}

func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
