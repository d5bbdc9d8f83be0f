package runtime

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/moderation"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/abadojack/whatlanggo"
	"github.com/google/uuid"
)

// SessionState tracks the lifecycle of one connection.
type SessionState int32

const (
	StateUnregistered SessionState = iota
	StateRegistered
	StateTerminating
	StateClosed
)

const (
	// CommandSentinel marks a frame as a command rather than chat text.
	CommandSentinel = "!"

	defaultEmoji = "🙂"

	// readJoinTimeout bounds how long the write side waits for the read
	// side to finish before releasing connection resources.
	readJoinTimeout = 2 * time.Second
)

// Session drives one client's lifecycle over a bidirectional stream:
// registration on the first inbound frame, the relay loop on the read side,
// the delivery loop on the write side, and a single-shot teardown.
//
// Two goroutines run for the lifetime of a connection. The read side owns
// every session field; the write side only drains the mailbox and re-checks
// the closed flag, so it notices a dead read side within one poll interval.
type Session struct {
	log         *slog.Logger
	stream      contract.MessageStream
	registry    *Registry
	broadcaster *Broadcaster
	dispatcher  contract.IDispatcher
	moderator   *moderation.Moderator

	mailbox      *Mailbox
	pollInterval time.Duration

	mu    sync.RWMutex
	name  string
	emoji string

	state    atomic.Int32
	closed   atomic.Bool
	teardown sync.Once
}

func NewSession(
	log *slog.Logger,
	stream contract.MessageStream,
	registry *Registry,
	broadcaster *Broadcaster,
	dispatcher contract.IDispatcher,
	moderator *moderation.Moderator,
	mailboxSize int,
	pollInterval time.Duration,
) *Session {
	return &Session{
		log:          log,
		stream:       stream,
		registry:     registry,
		broadcaster:  broadcaster,
		dispatcher:   dispatcher,
		moderator:    moderator,
		mailbox:      NewMailbox(mailboxSize),
		pollInterval: pollInterval,
	}
}

func (s *Session) State() SessionState {
	return SessionState(s.state.Load())
}

// Run blocks until the connection ends. It starts the read loop in its own
// goroutine, drains the mailbox on the calling goroutine, then waits briefly
// for the read side before releasing the session.
func (s *Session) Run() error {
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		s.readLoop()
	}()

	s.writeLoop()

	select {
	case <-readDone:
	case <-time.After(readJoinTimeout):
		s.log.Warn("Read side did not finish in time", "client", s.displayName())
	}

	s.state.Store(int32(StateClosed))
	return nil
}

// Terminate runs the session teardown exactly once: idempotent registry
// removal plus a single leave notice, no matter how many triggers race
// (read error, write error, external shutdown).
func (s *Session) Terminate() {
	s.teardown.Do(func() {
		s.state.Store(int32(StateTerminating))
		s.closed.Store(true)

		name := s.displayName()
		if name == "" {
			// Never registered, nothing to announce.
			return
		}
		s.registry.Unregister(name)
		s.broadcaster.Broadcast(domain.SenderServer, fmt.Sprintf("%s left", name), "", name)
		s.log.Info("Client left", "client", name)
	})
}

// readLoop consumes inbound frames and drives the state machine. Any way
// the stream ends (clean close, transport error) funnels into Terminate.
func (s *Session) readLoop() {
	defer s.Terminate()

	for {
		frame, err := s.stream.Recv()
		if err != nil {
			s.log.Warn("Inbound stream ended", "client", s.displayName(), "error", err)
			return
		}

		if s.State() == StateUnregistered {
			s.register(frame)
			continue
		}
		s.handle(frame.Text)
	}
}

// register transitions Unregistered -> Registered from the first inbound
// frame: resolve identity, publish the handle, announce the join to everyone
// but the newcomer.
func (s *Session) register(frame domain.Message) {
	name := strings.TrimSpace(frame.Username)
	if name == "" {
		name = "User_" + uuid.NewString()[:8]
	}
	emoji := frame.Emoji
	if emoji == "" {
		emoji = defaultEmoji
	}

	s.mu.Lock()
	s.name = name
	s.emoji = emoji
	s.mu.Unlock()

	s.registry.Register(&Client{Name: name, Emoji: emoji, Mailbox: s.mailbox})
	s.state.Store(int32(StateRegistered))
	s.log.Info("Client joined", "client", name)
	if !frame.IsRegistration() {
		s.log.Debug("Registration frame carried text, ignored", "client", name)
	}

	s.broadcaster.Broadcast(domain.SenderServer, fmt.Sprintf("%s %s joined", name, emoji), "", name)
}

// handle routes one registered-state frame: command dispatch for sentinel
// text, moderated relay for everything else. The sender never receives its
// own relayed message back; the client displays its own text locally.
func (s *Session) handle(text string) {
	if strings.HasPrefix(text, CommandSentinel) {
		s.dispatch(text)
		return
	}

	info := whatlanggo.Detect(text)
	s.log.Debug("Relaying message",
		"client", s.displayName(),
		"lang", info.Lang.Iso6391())

	s.broadcaster.Broadcast(s.displayName(), s.moderator.Censor(text), s.displayEmoji(), s.displayName())
}

// dispatch resolves the first whitespace-delimited token, case-insensitively.
// A known command's reply goes to everyone including the sender, prefixed
// with the original command text. An unknown command produces a help-pointer
// notice to everyone except the sender.
func (s *Session) dispatch(text string) {
	token := strings.ToLower(strings.TrimPrefix(strings.Fields(text)[0], CommandSentinel))

	producer, ok := s.dispatcher.Lookup(token)
	if !ok {
		s.broadcaster.Broadcast(domain.SenderServer,
			fmt.Sprintf("unknown command %q, try %shelp", token, CommandSentinel),
			"", s.displayName())
		return
	}

	reply, err := produce(producer)
	if err != nil {
		s.log.Warn("Command producer failed", "token", token, "error", err)
		reply = "command failed, try again later"
	}
	s.broadcaster.Broadcast(domain.SenderServer, fmt.Sprintf("%s → %s", text, reply), "", "")
}

// produce shields the session from a misbehaving command producer: a panic
// becomes an error and, one level up, a broadcast notice.
func produce(p contract.Producer) (reply string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("command panicked: %v", r)
		}
	}()
	return p(), nil
}

// writeLoop drains this session's mailbox and pushes frames to the transport.
// It polls with a bounded wait and re-checks the closed flag and the stream
// context, so it exits within one poll interval of the read side dying.
func (s *Session) writeLoop() {
	for {
		if s.closed.Load() || s.stream.Context().Err() != nil {
			return
		}

		msg, ok := s.mailbox.Receive(s.pollInterval)
		if !ok {
			continue
		}
		if err := s.stream.Send(msg); err != nil {
			s.log.Warn("Outbound stream failed", "client", s.displayName(), "error", err)
			s.Terminate()
			return
		}
	}
}

func (s *Session) displayName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *Session) displayEmoji() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.emoji
}
