package commands

import (
	"log/slog"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func newDispatcher() *Dispatcher {
	return NewDispatcher(logs.GetLoggerFromLevel(slog.LevelDebug))
}

func TestDispatcher_LookupIsCaseInsensitive(t *testing.T) {
	req := require.New(t)
	d := newDispatcher()

	for _, token := range []string{"time", "TIME", "Time"} {
		_, ok := d.Lookup(token)
		req.True(ok, "token %q should resolve", token)
	}
}

func TestDispatcher_UnknownTokenIsReported(t *testing.T) {
	req := require.New(t)
	d := newDispatcher()

	producer, ok := d.Lookup("bogus")
	req.False(ok)
	req.Nil(producer)
}

func TestDispatcher_RegisterReplacesExistingToken(t *testing.T) {
	req := require.New(t)
	d := newDispatcher()

	// Given a custom producer registered with mixed casing
	d.Register("Echo", func() string { return "first" })
	d.Register("echo", func() string { return "second" })

	// Then the later registration wins, resolved lowercase
	producer, ok := d.Lookup("ECHO")
	req.True(ok)
	req.Equal("second", producer())
}

func TestDispatcher_TimeAndDateProduceParseableReplies(t *testing.T) {
	req := require.New(t)
	d := newDispatcher()

	produceTime, ok := d.Lookup("time")
	req.True(ok)
	_, err := time.Parse(time.TimeOnly, produceTime())
	req.NoError(err)

	produceDate, ok := d.Lookup("date")
	req.True(ok)
	_, err = time.Parse(time.DateOnly, produceDate())
	req.NoError(err)
}

func TestDispatcher_RandomStaysInRange(t *testing.T) {
	req := require.New(t)
	d := newDispatcher()

	producer, ok := d.Lookup("random")
	req.True(ok)
	for range 50 {
		n, err := strconv.Atoi(producer())
		req.NoError(err)
		req.GreaterOrEqual(n, 0)
		req.LessOrEqual(n, 100)
	}
}

func TestDispatcher_CoinFlipsHeadsOrTails(t *testing.T) {
	req := require.New(t)
	d := newDispatcher()

	producer, ok := d.Lookup("coin")
	req.True(ok)
	for range 20 {
		req.Contains([]string{"heads", "tails"}, producer())
	}
}

func TestDispatcher_HelpListsEveryTokenSorted(t *testing.T) {
	req := require.New(t)
	d := newDispatcher()

	producer, ok := d.Lookup("help")
	req.True(ok)
	req.Equal("available commands: !coin, !date, !help, !random, !stats, !time", producer())
}

func TestUsersTable_RendersSnapshot(t *testing.T) {
	req := require.New(t)

	producer := UsersTable(func() []User {
		return []User{
			{Name: "Alice", Emoji: "🙂"},
			{Name: "Bob", Emoji: "🐱"},
		}
	})

	out := producer()
	req.True(strings.HasPrefix(out, "2 connected\n"), "got %q", out)
	req.Contains(out, "Alice")
	req.Contains(out, "Bob")
	req.Contains(out, "USER")
}

func TestUsersTable_EmptyRoom(t *testing.T) {
	req := require.New(t)

	producer := UsersTable(func() []User { return nil })

	req.True(strings.HasPrefix(producer(), "0 connected\n"))
}
