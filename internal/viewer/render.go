package viewer

import (
	"fmt"
	"io"
	"strings"

	"github.com/vadim/slack-threads/internal/domain/conversation/entity"
	"github.com/vadim/slack-threads/internal/domain/conversation/thread"
)

var kindIcons = map[entity.Kind]string{
	entity.KindDirectMessage:  "@",
	entity.KindGroupDM:        "&",
	entity.KindPrivateChannel: "!",
	entity.KindPublicChannel:  "#",
}

// Render writes the screen for a state
func Render(w io.Writer, s State) error {
	var b strings.Builder

	b.WriteString("Slack Conversations\n")

	switch {
	case s.Loading:
		b.WriteString("Loading...\n")
	case len(s.Conversations) > 0:
		fmt.Fprintf(&b, "%d conversation%s found\n", len(s.Conversations), plural(len(s.Conversations)))
	}

	if s.Error != "" {
		fmt.Fprintf(&b, "Error: %s\n", s.Error)
	}

	if len(s.Conversations) == 0 && !s.Loading && s.Error == "" {
		b.WriteString("No conversations loaded\n")
	}

	for _, conv := range s.Conversations {
		renderConversation(&b, s, conv)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func renderConversation(b *strings.Builder, s State, conv entity.Conversation) {
	marker := "+"
	if s.IsExpanded(conv.ID) {
		marker = "-"
	}

	kind := conv.Kind()
	fmt.Fprintf(b, "%s %s %s  [%s]", marker, kindIcons[kind], conv.DisplayName(), kind.Label())
	if conv.NumMembers != nil {
		fmt.Fprintf(b, "  %d member%s", *conv.NumMembers, plural(*conv.NumMembers))
	}
	if conv.IsMember {
		b.WriteString("  Joined")
	}
	b.WriteString("\n")

	if !s.IsExpanded(conv.ID) {
		return
	}

	if s.IsLoading(conv.ID) {
		b.WriteString("    Loading messages...\n")
		return
	}

	msgs, ok := s.Messages(conv.ID)
	if !ok {
		return
	}
	if len(msgs) == 0 {
		b.WriteString("    No messages\n")
		return
	}

	idx := thread.NewIndex(msgs)
	idx.Walk(func(m entity.Message, depth int) {
		renderMessage(b, idx, m, depth+1)
	})
}

func renderMessage(b *strings.Builder, idx *thread.Index, m entity.Message, depth int) {
	author := m.User
	if author == "" {
		author = "unknown"
	}

	indent := strings.Repeat("    ", depth)
	replies := idx.Replies(m.MessageID)

	fmt.Fprintf(b, "%s%s (%s): %s", indent, author, m.Timestamp, oneLine(m.Text))
	if len(replies) > 0 {
		fmt.Fprintf(b, "  [%d repl%s]", len(replies), pluralY(len(replies)))
	}
	b.WriteString("\n")
}

func oneLine(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func pluralY(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
