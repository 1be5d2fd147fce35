package chat

import "time"

// Session captures a transient anonymous conversation.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

// Snapshot is the serialisable state of one session's conversation.
type Snapshot struct {
	Session  Session   `json:"session"`
	Messages []Message `json:"messages"`
	Draft    string    `json:"draft"`
	NextID   int64     `json:"nextId"`
}

// Clone returns a copy that shares no slice memory with s.
func (s Snapshot) Clone() Snapshot {
	s.Messages = append([]Message(nil), s.Messages...)
	return s
}
