package grpc

import (
	"chat-relay/contract"
	"chat-relay/moderation"
	pb "chat-relay/proto/chat"
	"chat-relay/runtime"
	"log/slog"
	"time"
)

type ChatServer struct {
	pb.UnimplementedChatServiceServer
	log          *slog.Logger
	registry     *runtime.Registry
	broadcaster  *runtime.Broadcaster
	dispatcher   contract.IDispatcher
	moderator    *moderation.Moderator
	mailboxSize  int
	pollInterval time.Duration
}

func NewChatServer(
	log *slog.Logger,
	registry *runtime.Registry,
	broadcaster *runtime.Broadcaster,
	dispatcher contract.IDispatcher,
	moderator *moderation.Moderator,
	mailboxSize int,
	pollInterval time.Duration,
) *ChatServer {
	return &ChatServer{
		log:          log,
		registry:     registry,
		broadcaster:  broadcaster,
		dispatcher:   dispatcher,
		moderator:    moderator,
		mailboxSize:  mailboxSize,
		pollInterval: pollInterval,
	}
}

// ChatStream runs one connection session over the bidirectional stream.
// This method blocks until the client disconnects or a network error occurs.
// The session guarantees exactly one unregistration and leave notice no
// matter how the stream ends, so a dying connection never leaks a registry
// entry or double-announces.
func (s *ChatServer) ChatStream(stream pb.ChatService_ChatStreamServer) error {
	session := runtime.NewSession(
		s.log,
		NewStreamTransport(stream),
		s.registry,
		s.broadcaster,
		s.dispatcher,
		s.moderator,
		s.mailboxSize,
		s.pollInterval,
	)
	return session.Run()
}
