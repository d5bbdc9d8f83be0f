// Package domain contains core concepts of the chat system.
// This file defines Message values and their wire conversion rules.
// Messages are immutable once constructed and safe to share across mailboxes.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// SenderServer is the reserved display name for server-originated notices
// (join/leave announcements, command replies).
const SenderServer = "SERVER"

// Message represents one immutable chat event. A single instance is handed
// to every recipient of a broadcast, so it must never be mutated after creation.
type Message struct {
	ID       uuid.UUID
	Username string
	Text     string
	Emoji    string
	SentAt   time.Time
}

// NewMessage builds a Message stamped with the current UTC time.
func NewMessage(username, text, emoji string) Message {
	return Message{
		ID:       uuid.New(),
		Username: username,
		Text:     text,
		Emoji:    emoji,
		SentAt:   time.Now().UTC(),
	}
}

// IsRegistration reports whether the frame is a registration frame:
// the first message of a connection carries identity and an empty text.
func (m Message) IsRegistration() bool {
	return m.Text == ""
}

// TimestampMillis returns the wire representation of SentAt.
func (m Message) TimestampMillis() int64 {
	return m.SentAt.UnixMilli()
}

// FromMillis converts a wire timestamp back to a UTC time.
func FromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
