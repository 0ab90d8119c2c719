package core

import "time"

// MessageRole identifies the author of a message.
type MessageRole string

const (
	// RoleUser marks messages posted by the user.
	RoleUser MessageRole = "user"
	// RoleAssistant marks messages produced by an agent run.
	RoleAssistant MessageRole = "assistant"
)

// SortOrder selects the ordering of message listings by creation time.
type SortOrder string

const (
	// Ascending lists the oldest message first.
	Ascending SortOrder = "asc"
	// Descending lists the newest message first.
	Descending SortOrder = "desc"
)

// Thread is an ordered conversation container.
type Thread struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// Message is an immutable entry of a thread.
type Message struct {
	ID        string      `json:"id"`
	ThreadID  string      `json:"thread_id"`
	Role      MessageRole `json:"role"`
	Parts     []Part      `json:"-"`
	CreatedAt time.Time   `json:"created_at"`
}

// Texts returns the text segments of the message in order.
func (m Message) Texts() []string {
	texts := make([]string, 0, len(m.Parts))
	for _, p := range m.Parts {
		if tp, ok := p.(TextPart); ok {
			texts = append(texts, tp.Text)
		}
	}
	return texts
}

// LastText returns the final text segment and whether one exists.
func (m Message) LastText() (string, bool) {
	texts := m.Texts()
	if len(texts) == 0 {
		return "", false
	}
	return texts[len(texts)-1], true
}

// NewTextMessage builds a message holding a single text segment.
func NewTextMessage(threadID string, role MessageRole, text string) Message {
	return Message{
		ID:        NewID(),
		ThreadID:  threadID,
		Role:      role,
		Parts:     []Part{TextPart{Text: text}},
		CreatedAt: time.Now().UTC(),
	}
}
