//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chat-relay/domain"
	"context"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// MessageStream is the transport seam of a connection session.
// The session only ever sees this contract: a bidirectional frame stream
// with a context carrying the connection's liveness.
type MessageStream interface {
	Recv() (domain.Message, error)
	Send(m domain.Message) error
	Context() context.Context
}

// Producer turns a recognized command token into its reply text.
// Producers are side-effect-free except for reading the ambient clock,
// RNG or process metrics.
type Producer func() string

type IDispatcher interface {
	Lookup(token string) (Producer, bool)
}
