package policy_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/vadim/slack-threads/internal/domain/conversation/entity"
	"github.com/vadim/slack-threads/internal/domain/conversation/policy"
	"github.com/vadim/slack-threads/internal/domain/conversation/service"
)

type mockConversationService struct {
	listConversationsFn func(ctx context.Context, token string) (*service.ListConversationsOutput, error)
	listMessagesFn      func(ctx context.Context, token string, in service.ListMessagesInput) (*service.ListMessagesOutput, error)
}

func (m *mockConversationService) ListConversations(ctx context.Context, token string) (*service.ListConversationsOutput, error) {
	if m.listConversationsFn != nil {
		return m.listConversationsFn(ctx, token)
	}
	return &service.ListConversationsOutput{}, nil
}

func (m *mockConversationService) ListMessages(ctx context.Context, token string, in service.ListMessagesInput) (*service.ListMessagesOutput, error) {
	if m.listMessagesFn != nil {
		return m.listMessagesFn(ctx, token, in)
	}
	return &service.ListMessagesOutput{}, nil
}

var _ = Describe("Policy", func() {
	var (
		ctx   context.Context
		svc   *mockConversationService
		calls int
	)

	BeforeEach(func() {
		ctx = context.Background()
		calls = 0
		svc = &mockConversationService{
			listConversationsFn: func(_ context.Context, token string) (*service.ListConversationsOutput, error) {
				calls++
				Expect(token).To(Equal("xoxp-secret"))
				return &service.ListConversationsOutput{Conversations: []entity.Conversation{{ID: "C1"}}, Count: 1}, nil
			},
			listMessagesFn: func(_ context.Context, token string, in service.ListMessagesInput) (*service.ListMessagesOutput, error) {
				calls++
				Expect(token).To(Equal("xoxp-secret"))
				Expect(in.ConversationID).To(Equal("C1"))
				Expect(in.Limit).To(Equal(10))
				return &service.ListMessagesOutput{}, nil
			},
		}
	})

	It("passes the configured token to the service", func() {
		p := policy.New(svc, policy.StaticToken("xoxp-secret"))

		out, err := p.ListConversations(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(out.Count).To(Equal(1))

		_, err = p.ListMessages(ctx, policy.ListMessagesInput{ConversationID: "C1", Limit: 10})
		Expect(err).NotTo(HaveOccurred())
		Expect(calls).To(Equal(2))
	})

	It("fails before calling Slack when no token is configured", func() {
		p := policy.New(svc, policy.StaticToken(""))

		Expect(p.Authorize(ctx)).To(MatchError(entity.ErrTokenNotConfigured))

		_, err := p.ListConversations(ctx)
		Expect(err).To(MatchError(entity.ErrTokenNotConfigured))

		_, err = p.ListMessages(ctx, policy.ListMessagesInput{ConversationID: "C1"})
		Expect(err).To(MatchError(entity.ErrTokenNotConfigured))

		Expect(calls).To(BeZero())
	})
})
