// Package rate turns cumulative interface counters into per-second rates.
package rate

import (
	"sort"

	"github.com/nozo-moto/netrate/internal/logging"
	"github.com/nozo-moto/netrate/pkg/types"
)

// DefaultGraceTicks is how long an interface may vanish before its baseline is dropped.
const DefaultGraceTicks = 3

type interfaceState struct {
	last   types.InterfaceSample
	missed int
}

// Engine keeps the previous sample of every interface it has seen.
// It is not safe for concurrent use; the render loop is its only caller.
type Engine struct {
	graceTicks int
	states     map[string]*interfaceState
}

func NewEngine(graceTicks int) *Engine {
	if graceTicks < 0 {
		graceTicks = DefaultGraceTicks
	}
	return &Engine{
		graceTicks: graceTicks,
		states:     make(map[string]*interfaceState),
	}
}

// Update consumes one tick of samples and returns the rates it can derive,
// sorted by interface name. A newly seen interface only records its baseline.
func (e *Engine) Update(samples []types.InterfaceSample) []types.RatePoint {
	log := logging.WithComponent("rate")
	seen := make(map[string]bool, len(samples))
	points := make([]types.RatePoint, 0, len(samples))

	for _, s := range samples {
		seen[s.Interface] = true

		st, ok := e.states[s.Interface]
		if !ok {
			e.states[s.Interface] = &interfaceState{last: s}
			log.WithField("iface", s.Interface).Debug("baseline recorded")
			continue
		}
		st.missed = 0

		elapsed := s.Timestamp.Sub(st.last.Timestamp).Seconds()
		if elapsed <= 0 {
			log.WithField("iface", s.Interface).Debug("non-positive elapsed time, skipping")
			continue
		}

		down, downReset := delta(st.last.BytesRecv, s.BytesRecv)
		up, upReset := delta(st.last.BytesSent, s.BytesSent)
		if downReset || upReset {
			log.WithField("iface", s.Interface).Info("counter decreased, rebaselining")
		}
		st.last = s

		points = append(points, types.RatePoint{
			Interface:   s.Interface,
			Download:    float64(down) / elapsed,
			Upload:      float64(up) / elapsed,
			PacketsRecv: s.PacketsRecv,
			PacketsSent: s.PacketsSent,
			Errin:       s.Errin,
			Errout:      s.Errout,
			Timestamp:   s.Timestamp,
		})
	}

	for name, st := range e.states {
		if seen[name] {
			continue
		}
		st.missed++
		if st.missed > e.graceTicks {
			delete(e.states, name)
			log.WithField("iface", name).Info("interface gone, baseline dropped")
		}
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].Interface < points[j].Interface
	})
	return points
}

// delta returns cur-prev, or zero with reset=true when the counter went backwards.
func delta(prev, cur uint64) (d uint64, reset bool) {
	if cur < prev {
		return 0, true
	}
	return cur - prev, false
}

// Tracked lists the interfaces that currently hold a baseline.
func (e *Engine) Tracked() []string {
	names := make([]string, 0, len(e.states))
	for name := range e.states {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
