package entity

// RefType is the kind of link between two messages
type RefType string

const (
	RefTypeParent RefType = "parent"
	// RefTypeReply is part of the model but never produced; replies are derived from parent links.
	RefTypeReply RefType = "reply"
)

// RawMessage is a message as returned by conversations.history.
// TS doubles as the message id and the sort key.
type RawMessage struct {
	TS       string `json:"ts"`
	ThreadTS string `json:"thread_ts,omitempty"`
	Text     string `json:"text,omitempty"`
	User     string `json:"user,omitempty"`
}

// IsThreadReply reports whether the message replies to another thread root
func (m RawMessage) IsThreadReply() bool {
	return m.ThreadTS != "" && m.ThreadTS != m.TS
}

// Reference points from one message to another
type Reference struct {
	MessageID string  `json:"message_id"`
	RefType   RefType `json:"ref_type"`
}

// Message is the provider-independent message model
type Message struct {
	MessageID      string      `json:"message_id"`
	ConversationID string      `json:"conversation_id"`
	Text           string      `json:"text"`
	User           string      `json:"user"`
	Timestamp      string      `json:"timestamp"`
	RefMessageIDs  []Reference `json:"ref_message_ids"`
}
