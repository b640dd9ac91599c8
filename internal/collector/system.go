package collector

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/nozo-moto/netrate/pkg/types"
)

// SystemCollector reads host CPU and memory usage plus netrate's own RSS.
type SystemCollector struct {
	clock   clock.Clock
	timeout time.Duration
	self    *process.Process
}

func NewSystemCollector(clk clock.Clock, timeout time.Duration) *SystemCollector {
	if clk == nil {
		clk = clock.New()
	}
	if timeout <= 0 {
		timeout = DefaultSampleTimeout
	}
	sc := &SystemCollector{clock: clk, timeout: timeout}
	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		sc.self = p
	}
	return sc
}

func (sc *SystemCollector) Collect(ctx context.Context) (*types.SystemStats, error) {
	return bounded(ctx, sc.timeout, sc.collect)
}

func (sc *SystemCollector) collect(ctx context.Context) (*types.SystemStats, error) {
	// interval 0 compares against the previous call instead of sleeping
	cpuPercent, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return nil, fmt.Errorf("failed to get CPU usage: %w", err)
	}

	memInfo, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get memory info: %w", err)
	}

	stats := &types.SystemStats{
		MemoryUsed:  memInfo.Used,
		MemoryTotal: memInfo.Total,
		MemoryPerc:  memInfo.UsedPercent,
		Goroutines:  runtime.NumGoroutine(),
		Timestamp:   sc.clock.Now(),
	}
	if len(cpuPercent) > 0 {
		stats.CPUPercent = cpuPercent[0]
	}
	if sc.self != nil {
		if info, err := sc.self.MemoryInfoWithContext(ctx); err == nil {
			stats.SelfRSS = info.RSS
		}
	}

	return stats, nil
}
