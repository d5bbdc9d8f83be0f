package main

import (
	"bufio"
	"chat-relay/domain"
	pb "chat-relay/proto/chat"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

// run handles configuration loading, the reconnect loop, and the chat
// session lifecycle. This pattern ensures clean resource management and
// error propagation.
func run() (int, error) {
	_ = godotenv.Load()
	cfg, err := LoadConfig()
	if err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(cfg.LogLevel)

	if strings.TrimSpace(cfg.Username) == "" {
		cfg.Username = promptUsername()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	for attempt := 0; ; attempt++ {
		err := chat(ctx, log, cfg)
		if ctx.Err() != nil || err == nil {
			fmt.Println("👋 Session ended")
			return exitOK, nil
		}
		if !cfg.AutoReconnect || attempt+1 >= cfg.MaxAttempts {
			return exitRuntime, err
		}

		delay := cfg.ReconnectDelay * (1 << attempt)
		log.Warn("Connection lost, reconnecting", "attempt", attempt+1, "delay", delay)
		select {
		case <-ctx.Done():
			return exitOK, nil
		case <-time.After(delay):
		}
	}
}

// chat runs one full session: dial, register, then pump stdin and the
// stream concurrently until either side ends.
func chat(ctx context.Context, log *slog.Logger, cfg Config) error {
	conn, err := grpc.NewClient(cfg.ServerAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("could not connect to server at %s: %w", cfg.ServerAddr, err)
	}
	defer func() { _ = conn.Close() }()

	stream, err := pb.NewChatServiceClient(conn).ChatStream(ctx)
	if err != nil {
		return fmt.Errorf("failed to open stream: %w", err)
	}

	// Registration frame: identity only, empty text.
	if err := stream.Send(&pb.ChatMessage{
		Username:  cfg.Username,
		Emoji:     cfg.Emoji,
		Timestamp: time.Now().UnixMilli(),
	}); err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	log.Info("Connected", "server", cfg.ServerAddr, "as", cfg.Username)
	fmt.Println("=== Chat started! Type messages (exit/quit to leave) ===")

	recvDone := make(chan error, 1)
	go receiveLoop(stream, recvDone)

	lines := readLines(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-recvDone:
			return err
		case text, ok := <-lines:
			if !ok {
				_ = stream.CloseSend()
				return nil
			}
			if text == "" {
				continue
			}
			if isQuit(text) {
				_ = stream.CloseSend()
				return nil
			}
			if err := stream.Send(&pb.ChatMessage{
				Username:  cfg.Username,
				Text:      text,
				Emoji:     cfg.Emoji,
				Timestamp: time.Now().UnixMilli(),
			}); err != nil {
				return fmt.Errorf("send failed: %w", err)
			}
			// The server never echoes our own message back.
			printLine(cfg.Username, cfg.Emoji, text, time.Now())
		}
	}
}

func receiveLoop(stream pb.ChatService_ChatStreamClient, done chan<- error) {
	for {
		msg, err := stream.Recv()
		if err != nil {
			if err == io.EOF {
				done <- nil
			} else {
				done <- fmt.Errorf("stream error: %w", err)
			}
			return
		}
		printLine(msg.GetUsername(), msg.GetEmoji(), msg.GetText(), domain.FromMillis(msg.GetTimestamp()))
	}
}

// readLines pumps stdin into a channel so the main loop can also watch the
// stream and the termination signal.
func readLines(ctx context.Context) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			select {
			case lines <- strings.TrimSpace(scanner.Text()):
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}

func printLine(username, emoji, text string, at time.Time) {
	ts := color.FgCyan.Render(at.Local().Format(time.TimeOnly))
	name := color.FgGreen.Render(username)
	if username == domain.SenderServer {
		name = color.FgYellow.Render(username)
	}
	fmt.Printf("[%s] %s %s: %s\n", ts, emoji, name, text)
}

func promptUsername() string {
	fmt.Print("Enter your name: ")
	scanner := bufio.NewScanner(os.Stdin)
	if scanner.Scan() {
		if name := strings.TrimSpace(scanner.Text()); name != "" {
			return name
		}
	}
	return fmt.Sprintf("User_%d", os.Getpid())
}

func isQuit(text string) bool {
	switch strings.ToLower(text) {
	case "exit", "quit", "/quit":
		return true
	}
	return false
}
