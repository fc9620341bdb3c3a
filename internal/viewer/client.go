// Package viewer is the terminal rendition of the conversations UI:
// an endpoint client, an immutable view state and a text renderer.
package viewer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/vadim/slack-threads/internal/domain/conversation/entity"
)

// FetchError is returned when the endpoint answers with a non-2xx status
type FetchError struct {
	Message    string
	StatusCode int
}

func (e *FetchError) Error() string {
	return e.Message
}

// Client calls the conversations endpoint
type Client struct {
	endpoint   string
	anonKey    string
	httpClient *http.Client
}

// NewClient creates a client for the endpoint URL, authenticated with the hosting platform key
func NewClient(endpoint, anonKey string, timeout time.Duration) *Client {
	return &Client{
		endpoint:   endpoint,
		anonKey:    anonKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type conversationsBody struct {
	Conversations []entity.Conversation `json:"conversations"`
	Count         int                   `json:"count"`
}

type messagesBody struct {
	Messages []entity.Message `json:"messages"`
	Count    int              `json:"count"`
}

// Conversations fetches the conversation list
func (c *Client) Conversations(ctx context.Context) ([]entity.Conversation, error) {
	var body conversationsBody
	if err := c.get(ctx, nil, "Failed to fetch channels", &body); err != nil {
		return nil, err
	}
	return body.Conversations, nil
}

// Messages fetches the normalized messages of a conversation
func (c *Client) Messages(ctx context.Context, conversationID string) ([]entity.Message, error) {
	params := url.Values{}
	params.Set("channel_id", conversationID)

	var body messagesBody
	if err := c.get(ctx, params, "Failed to fetch messages", &body); err != nil {
		return nil, err
	}
	return body.Messages, nil
}

func (c *Client) get(ctx context.Context, params url.Values, failure string, out interface{}) error {
	target := c.endpoint
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if c.anonKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.anonKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &FetchError{Message: failure, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
