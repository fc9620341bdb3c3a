package http_test

import (
	"context"

	"github.com/vadim/slack-threads/internal/domain/conversation/policy"
	"github.com/vadim/slack-threads/internal/domain/conversation/service"
)

type mockConversationPolicy struct {
	authorizeFn         func(ctx context.Context) error
	listConversationsFn func(ctx context.Context) (*service.ListConversationsOutput, error)
	listMessagesFn      func(ctx context.Context, in policy.ListMessagesInput) (*service.ListMessagesOutput, error)
}

func (m *mockConversationPolicy) Authorize(ctx context.Context) error {
	if m.authorizeFn != nil {
		return m.authorizeFn(ctx)
	}
	return nil
}

func (m *mockConversationPolicy) ListConversations(ctx context.Context) (*service.ListConversationsOutput, error) {
	if m.listConversationsFn != nil {
		return m.listConversationsFn(ctx)
	}
	return &service.ListConversationsOutput{}, nil
}

func (m *mockConversationPolicy) ListMessages(ctx context.Context, in policy.ListMessagesInput) (*service.ListMessagesOutput, error) {
	if m.listMessagesFn != nil {
		return m.listMessagesFn(ctx, in)
	}
	return &service.ListMessagesOutput{}, nil
}
