package workers

import (
	"chat-relay/contract"
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"
)

// Ensure *TelemetryWorker implements the contract.Worker interface at compile time.
var _ contract.Worker = (*TelemetryWorker)(nil)

// ClientCounter reports how many clients are currently registered.
type ClientCounter interface {
	Size() int
}

// TelemetryWorker periodically logs the connected-client count together
// with the server's own CPU and memory usage.
type TelemetryWorker struct {
	log      *slog.Logger
	clients  ClientCounter
	interval time.Duration
}

func NewTelemetryWorker(log *slog.Logger, clients ClientCounter, interval time.Duration) *TelemetryWorker {
	return &TelemetryWorker{log: log, clients: clients, interval: interval}
}

func (w *TelemetryWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	self, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping telemetry worker")
			return ctx.Err()
		case <-ticker.C:
			rss, cpu, err := selfStats(self)
			if err != nil {
				w.log.Error("Failed to collect self stats", "err", err)
				continue
			}
			w.log.Info("Server telemetry",
				"clients", w.clients.Size(),
				"cpu_percent", cpu,
				"ram_bytes", rss)
		}
	}
}

// selfStats retrieves memory and CPU metrics for the given process.
func selfStats(p *process.Process) (uint64, float64, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, err
	}
	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return 0, 0, err
	}
	return memInfo.RSS, cpuPercent, nil
}
