package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	psnet "github.com/shirou/gopsutil/v3/net"

	"github.com/nozo-moto/netrate/pkg/types"
)

// DefaultSampleTimeout bounds one counter read.
const DefaultSampleTimeout = 500 * time.Millisecond

func readIOCounters(ctx context.Context) ([]psnet.IOCountersStat, error) {
	return psnet.IOCountersWithContext(ctx, true)
}

// NetworkCollector reads per-interface byte counters from the OS.
type NetworkCollector struct {
	clock   clock.Clock
	filter  Filter
	timeout time.Duration
	read    func(ctx context.Context) ([]psnet.IOCountersStat, error)
	list    func(ctx context.Context) (psnet.InterfaceStatList, error)
}

func NewNetworkCollector(clk clock.Clock, filter Filter, timeout time.Duration) *NetworkCollector {
	if clk == nil {
		clk = clock.New()
	}
	if timeout <= 0 {
		timeout = DefaultSampleTimeout
	}
	return &NetworkCollector{
		clock:   clk,
		filter:  filter,
		timeout: timeout,
		read:    readIOCounters,
		list:    psnet.InterfacesWithContext,
	}
}

// Sample returns one InterfaceSample per allowed interface, all stamped with
// the same time.
func (nc *NetworkCollector) Sample(ctx context.Context) ([]types.InterfaceSample, error) {
	counters, err := bounded(ctx, nc.timeout, nc.read)
	if err != nil {
		return nil, fmt.Errorf("failed to get network counters: %w", err)
	}

	now := nc.clock.Now()
	samples := make([]types.InterfaceSample, 0, len(counters))
	for _, counter := range counters {
		if !nc.filter.Allow(counter.Name) {
			continue
		}

		samples = append(samples, types.InterfaceSample{
			Interface:   counter.Name,
			BytesRecv:   counter.BytesRecv,
			BytesSent:   counter.BytesSent,
			PacketsRecv: counter.PacketsRecv,
			PacketsSent: counter.PacketsSent,
			Errin:       counter.Errin,
			Errout:      counter.Errout,
			Dropin:      counter.Dropin,
			Dropout:     counter.Dropout,
			Timestamp:   now,
		})
	}

	return samples, nil
}

// ActiveInterfaces lists the interface names the filter admits. The listing
// is bounded like a counter read.
func (nc *NetworkCollector) ActiveInterfaces(ctx context.Context) ([]string, error) {
	interfaces, err := bounded(ctx, nc.timeout, nc.list)
	if err != nil {
		return nil, fmt.Errorf("failed to list interfaces: %w", err)
	}

	var active []string
	for _, iface := range interfaces {
		if nc.filter.Allow(iface.Name) {
			active = append(active, iface.Name)
		}
	}

	return active, nil
}
