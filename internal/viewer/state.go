package viewer

import (
	"errors"
	"sort"

	"github.com/vadim/slack-threads/internal/domain/conversation/entity"
)

// State is the view state of the conversations screen.
// Every transition returns a new value; the receiver is never modified.
type State struct {
	Conversations []entity.Conversation
	Error         string
	Loading       bool

	expanded map[string]bool
	loading  map[string]bool
	messages map[string][]entity.Message
}

// StartRefresh marks the conversation list as loading and clears the error banner
func (s State) StartRefresh() State {
	next := s.clone()
	next.Loading = true
	next.Error = ""
	return next
}

// ConversationsLoaded stores a fresh conversation list
func (s State) ConversationsLoaded(convs []entity.Conversation) State {
	next := s.clone()
	next.Loading = false
	next.Conversations = append([]entity.Conversation(nil), convs...)
	return next
}

// RefreshFailed stops loading and shows the error banner
func (s State) RefreshFailed(err error) State {
	next := s.clone()
	next.Loading = false
	next.Error = "Unknown error occurred"
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		next.Error = fetchErr.Message
	} else if err != nil {
		next.Error = err.Error()
	}
	return next
}

// Toggle expands or collapses a conversation.
// needsFetch is true when the conversation was expanded, has no cached messages and is not loading.
func (s State) Toggle(conversationID string) (next State, needsFetch bool) {
	next = s.clone()
	if next.expanded[conversationID] {
		delete(next.expanded, conversationID)
		return next, false
	}

	next.expanded[conversationID] = true
	_, cached := next.messages[conversationID]
	return next, !cached && !next.loading[conversationID]
}

// StartLoading marks a conversation's messages as being fetched
func (s State) StartLoading(conversationID string) State {
	next := s.clone()
	next.loading[conversationID] = true
	return next
}

// MessagesLoaded caches the messages of a conversation
func (s State) MessagesLoaded(conversationID string, msgs []entity.Message) State {
	next := s.clone()
	delete(next.loading, conversationID)
	next.messages[conversationID] = append([]entity.Message{}, msgs...)
	return next
}

// MessagesFailed clears the loading flag; message failures are not shown in the banner
func (s State) MessagesFailed(conversationID string) State {
	next := s.clone()
	delete(next.loading, conversationID)
	return next
}

// IsExpanded reports whether a conversation is expanded
func (s State) IsExpanded(conversationID string) bool {
	return s.expanded[conversationID]
}

// IsLoading reports whether a conversation's messages are being fetched
func (s State) IsLoading(conversationID string) bool {
	return s.loading[conversationID]
}

// Messages returns the cached messages of a conversation
func (s State) Messages(conversationID string) ([]entity.Message, bool) {
	msgs, ok := s.messages[conversationID]
	return msgs, ok
}

// Expanded returns the expanded conversation ids, sorted
func (s State) Expanded() []string {
	ids := make([]string, 0, len(s.expanded))
	for id := range s.expanded {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s State) clone() State {
	next := s
	next.expanded = make(map[string]bool, len(s.expanded))
	for k, v := range s.expanded {
		next.expanded[k] = v
	}
	next.loading = make(map[string]bool, len(s.loading))
	for k, v := range s.loading {
		next.loading[k] = v
	}
	next.messages = make(map[string][]entity.Message, len(s.messages))
	for k, v := range s.messages {
		next.messages[k] = v
	}
	return next
}
