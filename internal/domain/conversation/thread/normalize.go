// Package thread converts provider messages into the reference model and
// derives parent/reply relationships from it.
package thread

import (
	"github.com/vadim/slack-threads/internal/domain/conversation/entity"
)

// Normalize converts a page of raw messages into normalized messages for a conversation.
// Output has the same length and order as the input.
func Normalize(raw []entity.RawMessage, conversationID string) []entity.Message {
	out := make([]entity.Message, 0, len(raw))
	for _, m := range raw {
		refs := []entity.Reference{}
		if m.IsThreadReply() {
			refs = append(refs, entity.Reference{
				MessageID: m.ThreadTS,
				RefType:   entity.RefTypeParent,
			})
		}

		out = append(out, entity.Message{
			MessageID:      m.TS,
			ConversationID: conversationID,
			Text:           m.Text,
			User:           m.User,
			Timestamp:      m.TS,
			RefMessageIDs:  refs,
		})
	}
	return out
}
