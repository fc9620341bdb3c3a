package service

import (
	"context"
	"fmt"

	"github.com/vadim/slack-threads/internal/domain/conversation/entity"
	"github.com/vadim/slack-threads/internal/domain/conversation/thread"
	"github.com/vadim/slack-threads/internal/httpx/upstream/slack"
)

const (
	// ConversationPageLimit caps conversations.list; larger workspaces are truncated to one page.
	ConversationPageLimit = 1000
	// DefaultMessageLimit is the history page size when the caller does not ask for one
	DefaultMessageLimit = 100
	// MaxMessageLimit is the largest history page Slack serves
	MaxMessageLimit = 1000
)

// SlackClient defines the Slack Web API operations used by the service
type SlackClient interface {
	ListConversations(ctx context.Context, token string, in slack.ListConversationsInput) ([]entity.Conversation, error)
	ConversationHistory(ctx context.Context, token string, in slack.HistoryInput) ([]entity.RawMessage, error)
}

// Service fetches conversations and messages from Slack.
// Both operations are single-shot and return at most one provider page.
type Service struct {
	slack SlackClient
}

// New creates a new conversation service
func New(client SlackClient) *Service {
	return &Service{slack: client}
}

// ListConversationsOutput represents output from listing conversations
type ListConversationsOutput struct {
	Conversations []entity.Conversation
	Count         int
}

// ListConversations returns public, private, MPIM and IM conversations, excluding archived ones
func (s *Service) ListConversations(ctx context.Context, token string) (*ListConversationsOutput, error) {
	convs, err := s.slack.ListConversations(ctx, token, slack.ListConversationsInput{
		Types: []string{
			slack.TypePublicChannel,
			slack.TypePrivateChannel,
			slack.TypeMPIM,
			slack.TypeIM,
		},
		ExcludeArchived: true,
		Limit:           ConversationPageLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("listing conversations: %w", err)
	}
	if convs == nil {
		convs = []entity.Conversation{}
	}

	return &ListConversationsOutput{
		Conversations: convs,
		Count:         len(convs),
	}, nil
}

// ListMessagesInput represents input for listing messages
type ListMessagesInput struct {
	ConversationID string
	Limit          int
}

// ListMessagesOutput represents output from listing messages
type ListMessagesOutput struct {
	Messages []entity.Message
	Count    int
}

// ListMessages returns the most recent messages of a conversation in the reference model.
// Order is the provider's (newest first); nothing is re-sorted.
func (s *Service) ListMessages(ctx context.Context, token string, in ListMessagesInput) (*ListMessagesOutput, error) {
	if in.ConversationID == "" {
		return nil, entity.ErrChannelRequired
	}

	limit := in.Limit
	if limit == 0 {
		limit = DefaultMessageLimit
	}
	if limit < 0 || limit > MaxMessageLimit {
		return nil, entity.ErrInvalidLimit
	}

	raw, err := s.slack.ConversationHistory(ctx, token, slack.HistoryInput{
		Channel: in.ConversationID,
		Limit:   limit,
	})
	if err != nil {
		return nil, fmt.Errorf("getting history of %s: %w", in.ConversationID, err)
	}

	messages := thread.Normalize(raw, in.ConversationID)

	return &ListMessagesOutput{
		Messages: messages,
		Count:    len(messages),
	}, nil
}
