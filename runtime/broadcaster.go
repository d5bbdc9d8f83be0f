package runtime

import (
	"chat-relay/domain"
	"log/slog"
)

// Broadcaster fans one message out to every registered mailbox.
//
// It provides best-effort delivery with no guarantees regarding ordering
// across racing broadcast calls, durability, or retries. Within one call,
// every live recipient receives the same Message instance.
type Broadcaster struct {
	log      *slog.Logger
	registry *Registry
}

func NewBroadcaster(log *slog.Logger, registry *Registry) *Broadcaster {
	return &Broadcaster{log: log, registry: registry}
}

// Broadcast builds one Message and enqueues it into the mailbox of every
// registered client whose name differs from exclude. An empty exclude
// delivers to everyone. A failed enqueue (full mailbox, recipient already
// torn down) is logged and swallowed so it never aborts delivery to the
// remaining recipients.
func (b *Broadcaster) Broadcast(sender, text, emoji, exclude string) {
	msg := domain.NewMessage(sender, text, emoji)

	for _, c := range b.registry.Snapshot() {
		if c.Name == exclude {
			continue
		}
		if err := c.Mailbox.Put(msg); err != nil {
			b.log.Warn("Dropping message for slow recipient",
				"recipient", c.Name,
				"sender", sender,
				"error", err)
		}
	}
}
