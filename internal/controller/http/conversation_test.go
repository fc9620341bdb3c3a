package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/go-chi/chi/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	httpcontroller "github.com/vadim/slack-threads/internal/controller/http"
	"github.com/vadim/slack-threads/internal/domain/conversation/entity"
	"github.com/vadim/slack-threads/internal/domain/conversation/policy"
	"github.com/vadim/slack-threads/internal/domain/conversation/service"
	"github.com/vadim/slack-threads/internal/domain/conversation/thread"
	"github.com/vadim/slack-threads/internal/httpx/cors"
	"github.com/vadim/slack-threads/internal/httpx/upstream/slack"
)

const endpoint = "/functions/v1/slack-channels"

var _ = Describe("ConversationHandler", func() {
	var (
		router *chi.Mux
		pol    *mockConversationPolicy
	)

	serve := func(method, target string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(method, target, nil))
		return w
	}

	decode := func(w *httptest.ResponseRecorder) map[string]any {
		var body map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())
		return body
	}

	BeforeEach(func() {
		pol = &mockConversationPolicy{}
		router = chi.NewRouter()
		router.Use(cors.Handler)
		h := httpcontroller.NewConversationHandler(pol, nil)
		h.RegisterRoutes(router, endpoint, "/slack/conversations")
	})

	It("lists conversations when channel_id is absent", func() {
		pol.listConversationsFn = func(context.Context) (*service.ListConversationsOutput, error) {
			return &service.ListConversationsOutput{
				Conversations: []entity.Conversation{{ID: "C1", Name: "general"}, {ID: "D1", IsIM: true}},
				Count:         2,
			}, nil
		}

		w := serve(http.MethodGet, endpoint)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(Equal("application/json"))
		Expect(w.Header().Get("Access-Control-Allow-Origin")).To(Equal("*"))
		body := decode(w)
		Expect(body).To(HaveKey("conversations"))
		Expect(body["conversations"]).To(HaveLen(2))
		Expect(body["count"]).To(BeNumerically("==", 2))
	})

	It("serves the alias path", func() {
		w := serve(http.MethodGet, "/slack/conversations")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decode(w)).To(HaveKeyWithValue("count", BeNumerically("==", 0)))
	})

	It("returns normalized messages when channel_id is present", func() {
		pol.listMessagesFn = func(_ context.Context, in policy.ListMessagesInput) (*service.ListMessagesOutput, error) {
			Expect(in.ConversationID).To(Equal("C1"))
			Expect(in.Limit).To(BeZero())
			msgs := thread.Normalize([]entity.RawMessage{{TS: "2", ThreadTS: "1", Text: "b"}, {TS: "1", Text: "a"}}, in.ConversationID)
			return &service.ListMessagesOutput{Messages: msgs, Count: len(msgs)}, nil
		}

		w := serve(http.MethodGet, endpoint+"?channel_id=C1")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(`{
			"messages": [
				{"message_id":"2","conversation_id":"C1","text":"b","user":"","timestamp":"2",
				 "ref_message_ids":[{"message_id":"1","ref_type":"parent"}]},
				{"message_id":"1","conversation_id":"C1","text":"a","user":"","timestamp":"1",
				 "ref_message_ids":[]}
			],
			"count": 2
		}`))
	})

	It("passes a valid limit through", func() {
		var got int
		pol.listMessagesFn = func(_ context.Context, in policy.ListMessagesInput) (*service.ListMessagesOutput, error) {
			got = in.Limit
			return &service.ListMessagesOutput{Messages: []entity.Message{}}, nil
		}

		w := serve(http.MethodGet, endpoint+"?channel_id=C1&limit=20")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(got).To(Equal(20))
	})

	DescribeTable("rejects invalid limits",
		func(limit string) {
			w := serve(http.MethodGet, endpoint+"?channel_id=C1&limit="+limit)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		},
		Entry("zero", "0"),
		Entry("too large", "1001"),
		Entry("not a number", "abc"),
	)

	DescribeTable("returns 500 when the token is missing regardless of query",
		func(target string) {
			pol.authorizeFn = func(context.Context) error { return entity.ErrTokenNotConfigured }

			w := serve(http.MethodGet, target)

			Expect(w.Code).To(Equal(http.StatusInternalServerError))
			Expect(w.Body.String()).To(MatchJSON(`{"error":"SLACK_USER_TOKEN not configured"}`))
			Expect(w.Header().Get("Access-Control-Allow-Origin")).To(Equal("*"))
		},
		Entry("conversations", endpoint),
		Entry("messages", endpoint+"?channel_id=C1"),
		Entry("messages with bad limit", endpoint+"?channel_id=C1&limit=0"),
	)

	It("answers preflight with an empty 200", func() {
		pol.authorizeFn = func(context.Context) error { return entity.ErrTokenNotConfigured }

		w := serve(http.MethodOptions, endpoint)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.Len()).To(BeZero())
		Expect(w.Header().Get("Access-Control-Allow-Methods")).To(Equal("GET, POST, PUT, DELETE, OPTIONS"))
	})

	It("translates Slack errors into a structured 502", func() {
		pol.listConversationsFn = func(context.Context) (*service.ListConversationsOutput, error) {
			return nil, &slack.APIError{Code: "invalid_auth", StatusCode: http.StatusOK}
		}

		w := serve(http.MethodGet, endpoint)

		Expect(w.Code).To(Equal(http.StatusBadGateway))
		Expect(w.Body.String()).To(MatchJSON(`{"error":"Slack API request failed","slack_error":"invalid_auth"}`))
	})

	It("returns 429 with Retry-After when Slack rate limits", func() {
		pol.listMessagesFn = func(context.Context, policy.ListMessagesInput) (*service.ListMessagesOutput, error) {
			return nil, &slack.APIError{Code: "ratelimited", StatusCode: http.StatusTooManyRequests, RetryAfter: 20 * time.Second}
		}

		w := serve(http.MethodGet, endpoint+"?channel_id=C1")

		Expect(w.Code).To(Equal(http.StatusTooManyRequests))
		Expect(w.Header().Get("Retry-After")).To(Equal("20"))
		Expect(decode(w)).To(HaveKeyWithValue("slack_error", "ratelimited"))
	})

	It("returns 502 on transport failures", func() {
		pol.listConversationsFn = func(context.Context) (*service.ListConversationsOutput, error) {
			return nil, errors.New("dial tcp: timeout")
		}

		w := serve(http.MethodGet, endpoint)

		Expect(w.Code).To(Equal(http.StatusBadGateway))
		Expect(w.Body.String()).To(MatchJSON(`{"error":"Slack API request failed"}`))
	})
})
