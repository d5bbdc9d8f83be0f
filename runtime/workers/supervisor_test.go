package workers

import (
	"chat-relay/mocks"
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestSupervisor_RestartsAfterPanic(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	worker := mocks.NewMockWorker(ctrl)
	gomock.InOrder(
		worker.EXPECT().Run(gomock.Any()).DoAndReturn(func(context.Context) error {
			panic("worker exploded")
		}),
		worker.EXPECT().Run(gomock.Any()).Return(nil),
	)

	sup := NewSupervisor(log, 10*time.Millisecond)
	sup.Add(worker)

	done := make(chan struct{})
	go func() {
		defer close(done)
		sup.Run(context.Background())
	}()

	// The panic is recovered and the worker restarted until it finishes
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		req.Fail("supervisor did not finish in time")
	}
}

func TestSupervisor_RestartsAfterError(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	worker := mocks.NewMockWorker(ctrl)
	gomock.InOrder(
		worker.EXPECT().Run(gomock.Any()).Return(fmt.Errorf("transient failure")),
		worker.EXPECT().Run(gomock.Any()).Return(nil),
	)

	sup := NewSupervisor(log, 10*time.Millisecond)
	sup.Add(worker)

	done := make(chan struct{})
	go func() {
		defer close(done)
		sup.Run(context.Background())
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		req.Fail("supervisor did not finish in time")
	}
}

func TestSupervisor_CleanFinishIsNeverRestarted(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	// Exactly one Run call: returning nil must not trigger a restart
	worker := mocks.NewMockWorker(ctrl)
	worker.EXPECT().Run(gomock.Any()).Return(nil).Times(1)

	sup := NewSupervisor(log, 10*time.Millisecond)
	sup.Add(worker)

	done := make(chan struct{})
	go func() {
		defer close(done)
		sup.Run(context.Background())
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		req.Fail("supervisor did not finish in time")
	}
}

func TestSupervisor_StopCancelsBlockedWorkers(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	started := make(chan struct{})
	worker := mocks.NewMockWorker(ctrl)
	worker.EXPECT().Run(gomock.Any()).DoAndReturn(func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	})

	sup := NewSupervisor(log, 10*time.Millisecond)
	sup.Add(worker)

	done := make(chan struct{})
	go func() {
		defer close(done)
		sup.Run(context.Background())
	}()

	// Given the worker is blocked on its context
	select {
	case <-started:
	case <-time.After(time.Second):
		req.Fail("worker never started")
	}

	// When the supervisor is stopped
	sup.Stop()

	// Then the worker unblocks and the supervisor drains without a restart
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		req.Fail("supervisor did not stop in time")
	}
}
