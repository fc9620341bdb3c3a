package entity

import (
	"encoding/json"
)

// Kind is the display classification of a conversation
type Kind string

const (
	KindDirectMessage  Kind = "direct_message"
	KindGroupDM        Kind = "group_dm"
	KindPrivateChannel Kind = "private_channel"
	KindPublicChannel  Kind = "public_channel"
)

// Label returns the human readable name of the kind
func (k Kind) Label() string {
	switch k {
	case KindDirectMessage:
		return "Direct Message"
	case KindGroupDM:
		return "Group DM"
	case KindPrivateChannel:
		return "Private Channel"
	default:
		return "Public Channel"
	}
}

// Conversation represents a Slack channel, group or DM as returned by conversations.list.
// Flags are provider-supplied and not re-validated.
type Conversation struct {
	ID         string `json:"id"`
	Name       string `json:"name,omitempty"`
	IsChannel  bool   `json:"is_channel,omitempty"`
	IsGroup    bool   `json:"is_group,omitempty"`
	IsIM       bool   `json:"is_im,omitempty"`
	IsMPIM     bool   `json:"is_mpim,omitempty"`
	IsPrivate  bool   `json:"is_private,omitempty"`
	IsMember   bool   `json:"is_member,omitempty"`
	NumMembers *int   `json:"num_members,omitempty"`
	User       string `json:"user,omitempty"`

	// Raw keeps the provider object so the endpoint can pass it through untouched
	Raw json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the known fields and keeps the original payload
func (c *Conversation) UnmarshalJSON(data []byte) error {
	type plain Conversation
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = Conversation(p)
	c.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON writes the provider payload when available
func (c Conversation) MarshalJSON() ([]byte, error) {
	if len(c.Raw) > 0 {
		return c.Raw, nil
	}
	type plain Conversation
	return json.Marshal(plain(c))
}

// Kind classifies the conversation for display.
// IM wins over MPIM, which wins over private, the rest are public channels.
func (c Conversation) Kind() Kind {
	switch {
	case c.IsIM:
		return KindDirectMessage
	case c.IsMPIM:
		return KindGroupDM
	case c.IsPrivate:
		return KindPrivateChannel
	default:
		return KindPublicChannel
	}
}

// DisplayName returns the name shown in conversation lists
func (c Conversation) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	if c.IsIM {
		return "Direct Message"
	}
	if c.IsMPIM {
		return "Group Message"
	}
	return c.ID
}
