package thread

import (
	"github.com/vadim/slack-threads/internal/domain/conversation/entity"
)

// ParentOf returns the id of the message's thread root, if any
func ParentOf(m entity.Message) (string, bool) {
	for _, ref := range m.RefMessageIDs {
		if ref.RefType == entity.RefTypeParent {
			return ref.MessageID, true
		}
	}
	return "", false
}

// RepliesOf returns the ids of messages in all whose parent is m, in batch order.
// It scans the whole batch; use Index when rendering many rows.
func RepliesOf(m entity.Message, all []entity.Message) []string {
	replies := []string{}
	for _, other := range all {
		if parent, ok := ParentOf(other); ok && parent == m.MessageID {
			replies = append(replies, other.MessageID)
		}
	}
	return replies
}

// Index is a parent->children lookup built once per message batch
type Index struct {
	messages []entity.Message
	byID     map[string]int
	children map[string][]int
}

// NewIndex builds an index over a batch of normalized messages
func NewIndex(all []entity.Message) *Index {
	idx := &Index{
		messages: all,
		byID:     make(map[string]int, len(all)),
		children: make(map[string][]int),
	}

	for i, m := range all {
		if _, seen := idx.byID[m.MessageID]; !seen {
			idx.byID[m.MessageID] = i
		}
		if parent, ok := ParentOf(m); ok {
			idx.children[parent] = append(idx.children[parent], i)
		}
	}

	return idx
}

// Get returns the message with the given id
func (idx *Index) Get(id string) (entity.Message, bool) {
	i, ok := idx.byID[id]
	if !ok {
		return entity.Message{}, false
	}
	return idx.messages[i], true
}

// Replies returns the ids of messages whose parent is id, in batch order
func (idx *Index) Replies(id string) []string {
	positions := idx.children[id]
	if len(positions) == 0 {
		return nil
	}
	replies := make([]string, 0, len(positions))
	for _, i := range positions {
		replies = append(replies, idx.messages[i].MessageID)
	}
	return replies
}

// Roots returns the messages to render at the top level, in batch order.
// A reply whose root is not part of the batch is treated as a root.
func (idx *Index) Roots() []entity.Message {
	roots := make([]entity.Message, 0, len(idx.messages))
	for i, m := range idx.messages {
		if idx.isRoot(i) {
			roots = append(roots, m)
		}
	}
	return roots
}

// Walk visits every message of the batch exactly once, depth first from the
// roots in batch order. Messages no root reaches, such as members of a reply
// cycle, are visited afterwards starting at depth zero.
func (idx *Index) Walk(visit func(m entity.Message, depth int)) {
	seen := make([]bool, len(idx.messages))

	var walk func(i, depth int)
	walk = func(i, depth int) {
		seen[i] = true
		visit(idx.messages[i], depth)
		for _, child := range idx.children[idx.messages[i].MessageID] {
			if !seen[child] {
				walk(child, depth+1)
			}
		}
	}

	for i := range idx.messages {
		if !seen[i] && idx.isRoot(i) {
			walk(i, 0)
		}
	}
	for i := range idx.messages {
		if !seen[i] {
			walk(i, 0)
		}
	}
}

func (idx *Index) isRoot(i int) bool {
	parent, ok := ParentOf(idx.messages[i])
	if !ok {
		return true
	}
	_, inBatch := idx.byID[parent]
	return !inBatch
}

// Len returns the number of messages in the batch
func (idx *Index) Len() int {
	return len(idx.messages)
}
