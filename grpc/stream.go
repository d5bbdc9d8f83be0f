package grpc

import (
	"chat-relay/domain"
	pb "chat-relay/proto/chat"
	"context"

	"github.com/samber/lo"
)

// StreamTransport adapts one gRPC bidirectional stream to the session's
// MessageStream contract, converting between wire frames and domain messages.
type StreamTransport struct {
	stream pb.ChatService_ChatStreamServer
}

func NewStreamTransport(stream pb.ChatService_ChatStreamServer) *StreamTransport {
	return &StreamTransport{stream: stream}
}

func (t *StreamTransport) Recv() (domain.Message, error) {
	frame, err := t.stream.Recv()
	if err != nil {
		return domain.Message{}, err
	}
	return domain.Message{
		Username: frame.GetUsername(),
		Text:     frame.GetText(),
		Emoji:    frame.GetEmoji(),
		SentAt:   domain.FromMillis(frame.GetTimestamp()),
	}, nil
}

func (t *StreamTransport) Send(m domain.Message) error {
	return t.stream.Send(lo.ToPtr(toWire(m)))
}

func (t *StreamTransport) Context() context.Context {
	return t.stream.Context()
}

func toWire(m domain.Message) pb.ChatMessage {
	return pb.ChatMessage{
		Username:  m.Username,
		Text:      m.Text,
		Emoji:     m.Emoji,
		Timestamp: m.TimestampMillis(),
	}
}
