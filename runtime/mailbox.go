package runtime

import (
	"chat-relay/domain"
	"chat-relay/errors"
	"time"
)

// Mailbox buffers outbound messages between production (broadcast) and
// consumption (the owning connection's write loop). Any broadcaster may
// enqueue; only the owning write loop ever receives.
type Mailbox struct {
	pending chan domain.Message
}

func NewMailbox(size int) *Mailbox {
	return &Mailbox{pending: make(chan domain.Message, size)}
}

// Put never blocks. A full mailbox rejects the message so one slow client
// cannot stall a broadcast to everyone else.
func (m *Mailbox) Put(msg domain.Message) error {
	select {
	case m.pending <- msg:
		return nil
	default:
		return errors.ErrMailboxFull
	}
}

// Receive waits up to wait for a pending message. The bounded wait lets the
// write loop re-check connection liveness between polls instead of blocking
// indefinitely on an abandoned mailbox.
func (m *Mailbox) Receive(wait time.Duration) (domain.Message, bool) {
	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case msg := <-m.pending:
		return msg, true
	case <-timer.C:
		return domain.Message{}, false
	}
}

func (m *Mailbox) Len() int {
	return len(m.pending)
}
