package runtime

import (
	"chat-relay/domain"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func TestBroadcaster_ExcludesTheSender(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	registry := NewRegistry()
	broadcaster := NewBroadcaster(log, registry)

	alice := &Client{Name: "Alice", Mailbox: NewMailbox(4)}
	bob := &Client{Name: "Bob", Mailbox: NewMailbox(4)}
	clara := &Client{Name: "Clara", Mailbox: NewMailbox(4)}
	registry.Register(alice)
	registry.Register(bob)
	registry.Register(clara)

	// When Bob's message is broadcast excluding Bob
	broadcaster.Broadcast("Bob", "hi", "🐱", "Bob")

	// Then exactly the N-1 other mailboxes receive it
	got, ok := alice.Mailbox.Receive(time.Second)
	req.True(ok)
	req.Equal("Bob", got.Username)
	req.Equal("hi", got.Text)

	fromClara, ok := clara.Mailbox.Receive(time.Second)
	req.True(ok)

	// And both recipients share the same Message instance
	req.Equal(got.ID, fromClara.ID)
	req.Equal(got.SentAt, fromClara.SentAt)

	// And the sender's own mailbox stays empty
	_, ok = bob.Mailbox.Receive(20 * time.Millisecond)
	req.False(ok)
}

func TestBroadcaster_AbsentExcludeDeliversToEveryone(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	registry := NewRegistry()
	broadcaster := NewBroadcaster(log, registry)

	alice := &Client{Name: "Alice", Mailbox: NewMailbox(4)}
	bob := &Client{Name: "Bob", Mailbox: NewMailbox(4)}
	registry.Register(alice)
	registry.Register(bob)

	// When the excluded name is not registered
	broadcaster.Broadcast(domain.SenderServer, "notice", "", "Nobody")

	// Then all N clients receive it
	_, ok := alice.Mailbox.Receive(time.Second)
	req.True(ok)
	_, ok = bob.Mailbox.Receive(time.Second)
	req.True(ok)
}

func TestBroadcaster_FullMailboxNeverAbortsTheFanout(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	registry := NewRegistry()
	broadcaster := NewBroadcaster(log, registry)

	// Given a slow client with a saturated mailbox
	slow := &Client{Name: "Slow", Mailbox: NewMailbox(1)}
	req.NoError(slow.Mailbox.Put(domain.NewMessage("x", "filler", "")))
	healthy := &Client{Name: "Healthy", Mailbox: NewMailbox(4)}
	registry.Register(slow)
	registry.Register(healthy)

	// When a broadcast hits the full mailbox
	broadcaster.Broadcast(domain.SenderServer, "notice", "", "")

	// Then the failure is swallowed and the other recipient is served
	got, ok := healthy.Mailbox.Receive(time.Second)
	req.True(ok)
	req.Equal("notice", got.Text)
}

func TestBroadcaster_ReplacedHandleReceivesNothing(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	registry := NewRegistry()
	broadcaster := NewBroadcaster(log, registry)

	// Given a name that was re-registered with a fresh handle
	old := &Client{Name: "Alice", Mailbox: NewMailbox(4)}
	replacement := &Client{Name: "Alice", Mailbox: NewMailbox(4)}
	registry.Register(old)
	registry.Register(replacement)

	// When a broadcast goes out
	broadcaster.Broadcast(domain.SenderServer, "notice", "", "")

	// Then only the replacement handle's mailbox is served
	_, ok := replacement.Mailbox.Receive(time.Second)
	req.True(ok)
	_, ok = old.Mailbox.Receive(20 * time.Millisecond)
	req.False(ok)
}
