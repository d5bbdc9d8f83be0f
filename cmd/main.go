package main

import (
	"chat-relay/commands"
	grpc2 "chat-relay/grpc"
	"chat-relay/moderation"
	pb "chat-relay/proto/chat"
	"chat-relay/runtime"
	"chat-relay/runtime/workers"
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
	"google.golang.org/grpc"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and centralizes error reporting.
// This pattern is preferred over calling os.Exit or panic directly because:
// 1. It ensures all 'defer' statements are executed before the program exits.
// 2. It improves testability by decoupling the initialization logic from the main entry point.
// 3. It provides a structured way to handle graceful shutdowns for gRPC and background workers.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	replacement, err := CharacterRune(config.CharReplacement)
	if err != nil {
		return err
	}

	// 2. Moderation dictionary (embedded)
	dict, err := runtime.LoadDictionary()
	if err != nil {
		return fmt.Errorf("loading moderation dictionary: %w", err)
	}
	log.Info(fmt.Sprintf("%d censored words loaded [%s]",
		len(dict.Words), strings.Join(dict.Languages, ",")))

	moderator, err := moderation.NewModerator(dict.Words, replacement)
	if err != nil {
		return fmt.Errorf("building moderator: %w", err)
	}

	// 3. Core engine: registry, broadcaster, command table
	registry := runtime.NewRegistry()
	broadcaster := runtime.NewBroadcaster(log, registry)

	dispatcher := commands.NewDispatcher(log)
	dispatcher.Register("users", commands.UsersTable(func() []commands.User {
		return lo.Map(registry.Snapshot(), func(c *runtime.Client, _ int) commands.User {
			return commands.User{Name: c.Name, Emoji: c.Emoji}
		})
	}))

	// 4. Supervision: background telemetry under the supervisor
	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(workers.NewTelemetryWorker(log, registry, config.MetricInterval))

	// 5. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sup.Run(ctx)

	// 6. gRPC Server Setup
	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", address, err)
	}

	s := grpc.NewServer()
	server := grpc2.NewChatServer(log, registry, broadcaster, dispatcher, moderator,
		config.ConnectionBufferSize, config.PollInterval)
	pb.RegisterChatServiceServer(s, server)

	// Use an error channel to capture Serve() issues
	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting chat server", "address", address, "at", time.Now().UTC())
		if err := s.Serve(listener); err != nil && err != grpc.ErrServerStopped {
			errChan <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	// 7. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	// 8. Final Cleanup
	s.GracefulStop()
	sup.Stop()
	log.Info("Program stopped cleanly")

	return nil
}
