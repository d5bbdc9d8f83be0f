// Package commands holds the slash-command table: a stable mapping from a
// command token to a pure string-producing capability. The session core only
// depends on the Lookup contract, so the table stays replaceable in tests.
package commands

import (
	"bytes"
	"chat-relay/contract"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
	"github.com/shirou/gopsutil/process"
)

type Dispatcher struct {
	log       *slog.Logger
	producers map[string]contract.Producer
}

// NewDispatcher builds the table with the built-in producers. Callers may
// Register additional producers (e.g. a closure over the client registry)
// before wiring the dispatcher into sessions.
func NewDispatcher(log *slog.Logger) *Dispatcher {
	d := &Dispatcher{log: log, producers: make(map[string]contract.Producer)}

	d.Register("time", func() string { return time.Now().Format(time.TimeOnly) })
	d.Register("date", func() string { return time.Now().Format(time.DateOnly) })
	d.Register("random", func() string { return strconv.Itoa(rand.IntN(101)) })
	d.Register("coin", flipCoin)
	d.Register("stats", selfStats)
	d.Register("help", d.help)
	return d
}

// Register binds a producer to a token. Tokens are stored lowercase;
// a later registration under the same token replaces the earlier one.
func (d *Dispatcher) Register(token string, p contract.Producer) {
	d.producers[strings.ToLower(token)] = p
}

// Lookup resolves a token case-insensitively. The second return reports
// whether the command is known.
func (d *Dispatcher) Lookup(token string) (contract.Producer, bool) {
	p, ok := d.producers[strings.ToLower(token)]
	return p, ok
}

func (d *Dispatcher) help() string {
	tokens := lo.Keys(d.producers)
	sort.Strings(tokens)
	return "available commands: !" + strings.Join(tokens, ", !")
}

func flipCoin() string {
	if rand.IntN(2) == 0 {
		return "heads"
	}
	return "tails"
}

// selfStats reports the server's own resource usage.
func selfStats() string {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return "stats unavailable"
	}
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return "stats unavailable"
	}
	cpu, err := p.CPUPercent()
	if err != nil {
		return "stats unavailable"
	}
	return fmt.Sprintf("cpu %.1f%% | ram %d MB | pid %d",
		cpu, memInfo.RSS>>20, os.Getpid())
}

// User is the row shape for the users table, decoupled from the registry's
// internal handle type.
type User struct {
	Name  string
	Emoji string
}

// UsersTable builds the producer for the users command from a snapshot
// function, rendered as an ASCII table.
func UsersTable(snapshot func() []User) contract.Producer {
	return func() string {
		users := snapshot()

		var buf bytes.Buffer
		table := tablewriter.NewWriter(&buf)
		table.SetHeader([]string{"#", "User", "Emoji"})
		for i, u := range users {
			table.Append([]string{strconv.Itoa(i + 1), u.Name, u.Emoji})
		}
		table.Render()
		return fmt.Sprintf("%d connected\n%s", len(users), buf.String())
	}
}
