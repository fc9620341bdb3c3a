package policy

import (
	"context"

	"github.com/vadim/slack-threads/internal/domain/conversation/entity"
	"github.com/vadim/slack-threads/internal/domain/conversation/service"
)

// TokenProvider provides the Slack user token used for provider calls
type TokenProvider interface {
	SlackToken(ctx context.Context) (string, error)
}

// ConversationService defines the interface for the conversation service
type ConversationService interface {
	ListConversations(ctx context.Context, token string) (*service.ListConversationsOutput, error)
	ListMessages(ctx context.Context, token string, in service.ListMessagesInput) (*service.ListMessagesOutput, error)
}

// Policy handles conversation reads with token resolution
type Policy struct {
	svc    ConversationService
	tokens TokenProvider
}

// New creates a new conversation policy
func New(svc ConversationService, tokens TokenProvider) *Policy {
	return &Policy{
		svc:    svc,
		tokens: tokens,
	}
}

// StaticToken is a TokenProvider backed by a pre-provisioned secret
type StaticToken string

// SlackToken returns the secret or ErrTokenNotConfigured when it is empty
func (t StaticToken) SlackToken(context.Context) (string, error) {
	if t == "" {
		return "", entity.ErrTokenNotConfigured
	}
	return string(t), nil
}

// Authorize checks that a token is configured without calling Slack
func (p *Policy) Authorize(ctx context.Context) error {
	_, err := p.token(ctx)
	return err
}

// ListConversations lists the workspace conversations
func (p *Policy) ListConversations(ctx context.Context) (*service.ListConversationsOutput, error) {
	token, err := p.token(ctx)
	if err != nil {
		return nil, err
	}
	return p.svc.ListConversations(ctx, token)
}

// ListMessagesInput represents input for listing messages
type ListMessagesInput struct {
	ConversationID string
	Limit          int
}

// ListMessages lists the normalized messages of a conversation
func (p *Policy) ListMessages(ctx context.Context, in ListMessagesInput) (*service.ListMessagesOutput, error) {
	token, err := p.token(ctx)
	if err != nil {
		return nil, err
	}
	return p.svc.ListMessages(ctx, token, service.ListMessagesInput{
		ConversationID: in.ConversationID,
		Limit:          in.Limit,
	})
}

func (p *Policy) token(ctx context.Context) (string, error) {
	token, err := p.tokens.SlackToken(ctx)
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", entity.ErrTokenNotConfigured
	}
	return token, nil
}
