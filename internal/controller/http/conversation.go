package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vadim/slack-threads/internal/domain/conversation/entity"
	"github.com/vadim/slack-threads/internal/domain/conversation/policy"
	"github.com/vadim/slack-threads/internal/domain/conversation/service"
	"github.com/vadim/slack-threads/internal/httpx/response"
	"github.com/vadim/slack-threads/internal/httpx/upstream/slack"
)

// ConversationPolicy defines the interface for conversation operations
type ConversationPolicy interface {
	Authorize(ctx context.Context) error
	ListConversations(ctx context.Context) (*service.ListConversationsOutput, error)
	ListMessages(ctx context.Context, in policy.ListMessagesInput) (*service.ListMessagesOutput, error)
}

// ConversationHandler serves the single conversations endpoint
type ConversationHandler struct {
	policy ConversationPolicy
	logger *slog.Logger
}

// NewConversationHandler creates a new conversation handler
func NewConversationHandler(p ConversationPolicy, logger *slog.Logger) *ConversationHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConversationHandler{policy: p, logger: logger}
}

// RegisterRoutes mounts the endpoint on every given path
func (h *ConversationHandler) RegisterRoutes(r chi.Router, paths ...string) {
	for _, p := range paths {
		r.Get(p, h.Conversations())
	}
}

// ListConversationsResponse represents the response for listing conversations
type ListConversationsResponse struct {
	Conversations []entity.Conversation `json:"conversations"`
	Count         int                   `json:"count"`
}

// ListMessagesResponse represents the response for listing messages
type ListMessagesResponse struct {
	Messages []entity.Message `json:"messages"`
	Count    int              `json:"count"`
}

// Conversations handles GET <endpoint>[?channel_id=...&limit=...].
// Without channel_id it lists conversations, with it the normalized messages of that channel.
func (h *ConversationHandler) Conversations() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.policy.Authorize(r.Context()); err != nil {
			h.handleError(w, r, err)
			return
		}

		channelID := r.URL.Query().Get("channel_id")
		if channelID == "" {
			h.listConversations(w, r)
			return
		}

		limit := 0
		if l := r.URL.Query().Get("limit"); l != "" {
			parsed, err := strconv.Atoi(l)
			if err != nil || parsed < 1 || parsed > service.MaxMessageLimit {
				response.BadRequest(w, entity.ErrInvalidLimit.Error())
				return
			}
			limit = parsed
		}

		result, err := h.policy.ListMessages(r.Context(), policy.ListMessagesInput{
			ConversationID: channelID,
			Limit:          limit,
		})
		if err != nil {
			h.handleError(w, r, err)
			return
		}

		response.OK(w, ListMessagesResponse{
			Messages: result.Messages,
			Count:    result.Count,
		})
	}
}

func (h *ConversationHandler) listConversations(w http.ResponseWriter, r *http.Request) {
	result, err := h.policy.ListConversations(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	response.OK(w, ListConversationsResponse{
		Conversations: result.Conversations,
		Count:         result.Count,
	})
}

// handleError maps domain and provider errors to HTTP responses
func (h *ConversationHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *slack.APIError

	switch {
	case errors.Is(err, entity.ErrTokenNotConfigured):
		h.logger.ErrorContext(r.Context(), "slack token missing")
		response.InternalError(w, entity.ErrTokenNotConfigured.Error())
	case errors.Is(err, entity.ErrInvalidLimit), errors.Is(err, entity.ErrChannelRequired):
		response.BadRequest(w, err.Error())
	case errors.As(err, &apiErr):
		h.logger.WarnContext(r.Context(), "slack API request failed",
			"slack_error", apiErr.Code, "status", apiErr.StatusCode)
		status := http.StatusBadGateway
		if apiErr.RateLimited() {
			status = http.StatusTooManyRequests
			if apiErr.RetryAfter > 0 {
				w.Header().Set("Retry-After", strconv.Itoa(int(apiErr.RetryAfter.Seconds())))
			}
		}
		response.UpstreamError(w, status, "Slack API request failed", apiErr.Code)
	default:
		h.logger.ErrorContext(r.Context(), "slack request failed", "error", err)
		response.Error(w, http.StatusBadGateway, "Slack API request failed")
	}
}
