// Package aggregate combines per-interface rates into the series the dashboard shows.
package aggregate

import (
	"sort"
	"time"

	"github.com/nozo-moto/netrate/pkg/types"
)

// MissingPolicy decides what a series records on a tick without a rate.
type MissingPolicy int

const (
	// MissingZero appends 0.
	MissingZero MissingPolicy = iota
	// MissingHold repeats the last appended value.
	MissingHold
)

// ParseMissingPolicy maps "zero" and "hold"; anything else is MissingZero.
func ParseMissingPolicy(s string) MissingPolicy {
	if s == "hold" {
		return MissingHold
	}
	return MissingZero
}

type Options struct {
	// Interface selects one interface; empty sums every interface.
	Interface   string
	Missing     MissingPolicy
	HistorySize int
	// StaleTicks drops table rows not refreshed for longer than this many ingests.
	StaleTicks int
}

// Snapshot is a point-in-time copy of the aggregated state. It shares no
// memory with the Aggregator.
type Snapshot struct {
	Selection       string
	Download        float64
	Upload          float64
	DownloadHistory []float64
	UploadHistory   []float64
	// Interfaces holds the latest rate per interface, busiest first.
	Interfaces []types.RatePoint
	System     *types.SystemStats
	Ticks      uint64
	UpdatedAt  time.Time
}

// HasData reports whether any rate has been recorded yet.
func (s Snapshot) HasData() bool {
	return len(s.DownloadHistory) > 0
}

type row struct {
	point types.RatePoint
	tick  uint64
}

type Aggregator struct {
	opts     Options
	download *History
	upload   *History
	rows     map[string]row
	system   *types.SystemStats
	ticks    uint64
	updated  time.Time
}

func New(opts Options) *Aggregator {
	if opts.HistorySize < 1 {
		opts.HistorySize = 60
	}
	if opts.StaleTicks < 0 {
		opts.StaleTicks = 0
	}
	return &Aggregator{
		opts:     opts,
		download: NewHistory(opts.HistorySize),
		upload:   NewHistory(opts.HistorySize),
		rows:     make(map[string]row),
	}
}

// Ingest folds one tick of rate points into the histories.
func (a *Aggregator) Ingest(points []types.RatePoint) {
	a.ticks++

	var down, up float64
	// newest timestamp of the tick, whether or not the point is selected
	var at time.Time
	found := false
	for _, p := range points {
		a.rows[p.Interface] = row{point: p, tick: a.ticks}
		if p.Timestamp.After(at) {
			at = p.Timestamp
		}
		if a.opts.Interface != "" && p.Interface != a.opts.Interface {
			continue
		}
		down += p.Download
		up += p.Upload
		found = true
	}

	for name, r := range a.rows {
		if a.ticks-r.tick > uint64(a.opts.StaleTicks) {
			delete(a.rows, name)
		}
	}

	if found {
		a.append(at, down, up)
		return
	}

	// nothing to hold or zero-fill before the first real value
	lastDown, ok := a.download.Last()
	if !ok {
		return
	}
	lastUp, _ := a.upload.Last()
	if at.IsZero() {
		at = lastDown.Time
	}
	switch a.opts.Missing {
	case MissingHold:
		a.append(at, lastDown.Value, lastUp.Value)
	default:
		a.append(at, 0, 0)
	}
}

func (a *Aggregator) append(at time.Time, down, up float64) {
	a.download.Push(Sample{Time: at, Value: down})
	a.upload.Push(Sample{Time: at, Value: up})
	a.updated = at
}

// SetSystem records the latest host statistics.
func (a *Aggregator) SetSystem(stats *types.SystemStats) {
	if stats == nil {
		a.system = nil
		return
	}
	s := *stats
	a.system = &s
}

func (a *Aggregator) Current() Snapshot {
	snap := Snapshot{
		Selection:       a.opts.Interface,
		DownloadHistory: a.download.Values(),
		UploadHistory:   a.upload.Values(),
		Interfaces:      make([]types.RatePoint, 0, len(a.rows)),
		Ticks:           a.ticks,
		UpdatedAt:       a.updated,
	}
	if d, ok := a.download.Last(); ok {
		snap.Download = d.Value
	}
	if u, ok := a.upload.Last(); ok {
		snap.Upload = u.Value
	}
	if a.system != nil {
		s := *a.system
		snap.System = &s
	}

	for _, r := range a.rows {
		snap.Interfaces = append(snap.Interfaces, r.point)
	}
	sort.Slice(snap.Interfaces, func(i, j int) bool {
		ti, tj := snap.Interfaces[i].Total(), snap.Interfaces[j].Total()
		if ti != tj {
			return ti > tj
		}
		return snap.Interfaces[i].Interface < snap.Interfaces[j].Interface
	})

	return snap
}
