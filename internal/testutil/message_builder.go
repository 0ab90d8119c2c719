package testutil

import (
	"time"

	"github.com/hupe1980/agenttriage/core"
)

// MessageBuilder provides a fluent helper for constructing messages in tests.
// Example:
//
//	msg := NewMessageBuilder("thread_1").Assistant().Text("a").Text("b").Build()
type MessageBuilder struct {
	msg core.Message
}

// NewMessageBuilder creates a builder for a user message on threadID.
func NewMessageBuilder(threadID string) *MessageBuilder {
	return &MessageBuilder{msg: core.Message{ID: core.NewID(), ThreadID: threadID, Role: core.RoleUser, CreatedAt: time.Now().UTC()}}
}

// ID overrides the generated message id (chainable).
func (b *MessageBuilder) ID(id string) *MessageBuilder { b.msg.ID = id; return b }

// Assistant sets the role to assistant (chainable).
func (b *MessageBuilder) Assistant() *MessageBuilder { b.msg.Role = core.RoleAssistant; return b }

// Text appends a text segment (chainable).
func (b *MessageBuilder) Text(t string) *MessageBuilder {
	b.msg.Parts = append(b.msg.Parts, core.TextPart{Text: t})
	return b
}

// File appends a file segment (chainable).
func (b *MessageBuilder) File(id string) *MessageBuilder {
	b.msg.Parts = append(b.msg.Parts, core.FilePart{FileID: id})
	return b
}

// At overrides the creation time (chainable).
func (b *MessageBuilder) At(ts time.Time) *MessageBuilder { b.msg.CreatedAt = ts; return b }

// Build returns the message.
func (b *MessageBuilder) Build() core.Message { return b.msg }
