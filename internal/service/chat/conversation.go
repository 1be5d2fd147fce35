package chat

import (
	"strings"
	"time"

	"github.com/zhouzirui/codex-landing/backend/internal/model/chat"
	"github.com/zhouzirui/codex-landing/backend/internal/responder"
)

// Replier computes the assistant reply for raw user input.
type Replier interface {
	Reply(raw string) string
}

// Exchange is the user/assistant pair appended by one submission.
type Exchange struct {
	User      chat.Message `json:"user"`
	Assistant chat.Message `json:"assistant"`
}

// Conversation owns the message log and the draft of a single session.
// It is not safe for concurrent use.
type Conversation struct {
	messages []chat.Message
	draft    string
	nextID   int64
	replier  Replier
	now      func() time.Time
}

// ConversationOption customises a Conversation.
type ConversationOption func(*Conversation)

// WithClock overrides the timestamp source for new messages.
func WithClock(now func() time.Time) ConversationOption {
	return func(c *Conversation) {
		if now != nil {
			c.now = now
		}
	}
}

func newConversation(replier Replier, opts []ConversationOption) *Conversation {
	if replier == nil {
		replier = responder.Default()
	}
	c := &Conversation{
		replier: replier,
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewConversation seeds a conversation with the assistant greeting (id 0)
// and an initial draft.
func NewConversation(greeting, draft string, replier Replier, opts ...ConversationOption) *Conversation {
	c := newConversation(replier, opts)
	c.messages = make([]chat.Message, 0, 16)
	c.messages = append(c.messages, chat.Message{
		ID:        0,
		Sender:    chat.SenderAssistant,
		Text:      greeting,
		CreatedAt: c.now(),
	})
	c.nextID = 1
	c.draft = draft
	return c
}

// RestoreConversation rebuilds a conversation from a stored snapshot.
func RestoreConversation(snapshot chat.Snapshot, replier Replier, opts ...ConversationOption) *Conversation {
	c := newConversation(replier, opts)
	c.messages = append([]chat.Message(nil), snapshot.Messages...)
	c.draft = snapshot.Draft
	c.nextID = snapshot.NextID
	if n := len(c.messages); n > 0 && c.nextID <= c.messages[n-1].ID {
		c.nextID = c.messages[n-1].ID + 1
	}
	return c
}

// Draft returns the not-yet-submitted input.
func (c *Conversation) Draft() string {
	return c.draft
}

// SetDraft replaces the draft, as typing into the input would.
func (c *Conversation) SetDraft(text string) {
	c.draft = text
}

// SelectPrompt replaces the draft with a quick prompt. The conversation is untouched.
func (c *Conversation) SelectPrompt(prompt string) {
	c.draft = prompt
}

// Messages returns the log oldest first.
func (c *Conversation) Messages() []chat.Message {
	return append([]chat.Message(nil), c.messages...)
}

// Len reports the number of messages in the log.
func (c *Conversation) Len() int {
	return len(c.messages)
}

// Submit appends the trimmed draft as a user message followed by the reply
// computed from the untrimmed draft, then clears the draft. A blank draft
// is ignored and reported with ok == false.
func (c *Conversation) Submit() (Exchange, bool) {
	raw := c.draft
	text := strings.TrimSpace(raw)
	if text == "" {
		return Exchange{}, false
	}

	now := c.now()
	user := chat.Message{ID: c.takeID(), Sender: chat.SenderUser, Text: text, CreatedAt: now}
	assistant := chat.Message{ID: c.takeID(), Sender: chat.SenderAssistant, Text: c.replier.Reply(raw), CreatedAt: now}

	c.messages = append(c.messages, user, assistant)
	c.draft = ""
	return Exchange{User: user, Assistant: assistant}, true
}

// Snapshot captures the conversation state; the session field is left empty.
func (c *Conversation) Snapshot() chat.Snapshot {
	return chat.Snapshot{
		Messages: c.Messages(),
		Draft:    c.draft,
		NextID:   c.nextID,
	}
}

func (c *Conversation) takeID() int64 {
	id := c.nextID
	c.nextID++
	return id
}
