package runtime

import (
	"chat-relay/domain"
	"chat-relay/errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMailbox_PutThenReceive(t *testing.T) {
	req := require.New(t)
	mailbox := NewMailbox(4)
	msg := domain.NewMessage("Alice", "hello", "🙂")

	// When a message is enqueued
	req.NoError(mailbox.Put(msg))

	// Then the consumer receives the same instance
	got, ok := mailbox.Receive(time.Second)
	req.True(ok)
	req.Equal(msg, got)
}

func TestMailbox_ReceiveTimesOutOnEmpty(t *testing.T) {
	req := require.New(t)
	mailbox := NewMailbox(4)

	start := time.Now()
	_, ok := mailbox.Receive(20 * time.Millisecond)

	// Then the bounded wait elapses without a message
	req.False(ok)
	req.GreaterOrEqual(time.Since(start), 20*time.Millisecond)
}

func TestMailbox_PutOnFullNeverBlocks(t *testing.T) {
	req := require.New(t)
	mailbox := NewMailbox(1)

	// Given a full mailbox
	req.NoError(mailbox.Put(domain.NewMessage("Alice", "first", "")))

	// When another message arrives
	err := mailbox.Put(domain.NewMessage("Alice", "second", ""))

	// Then it is rejected instead of blocking the producer
	req.ErrorIs(err, errors.ErrMailboxFull)
	req.Equal(1, mailbox.Len())

	// And the first message is still delivered
	got, ok := mailbox.Receive(time.Second)
	req.True(ok)
	req.Equal("first", got.Text)
}
