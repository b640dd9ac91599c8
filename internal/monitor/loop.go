// Package monitor drives the sample, rate, aggregate and draw cycle.
package monitor

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/nozo-moto/netrate/internal/aggregate"
	"github.com/nozo-moto/netrate/internal/logging"
	"github.com/nozo-moto/netrate/internal/rate"
	"github.com/nozo-moto/netrate/internal/ui"
	"github.com/nozo-moto/netrate/pkg/types"
)

// State is the render loop lifecycle.
type State int32

const (
	Running State = iota
	Stopping
	Stopped
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Stopping:
		return "stopping"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// CounterSource returns the current cumulative counters of every active interface.
type CounterSource interface {
	Sample(ctx context.Context) ([]types.InterfaceSample, error)
}

// SystemSource returns host statistics for the header.
type SystemSource interface {
	Collect(ctx context.Context) (*types.SystemStats, error)
}

type Renderer interface {
	Draw(snap aggregate.Snapshot) error
}

// Input delivers user commands. A nil channel means no input.
type Input interface {
	Commands() <-chan ui.Command
}

// Releaser is a resource held for the loop's lifetime, such as the terminal.
type Releaser interface {
	Restore() error
}

type Config struct {
	Interval time.Duration
	// SampleBudget is one deadline shared by every read in a cycle; zero
	// leaves the reads to their own bounds.
	SampleBudget time.Duration
	Clock        clock.Clock

	Source   CounterSource
	System   SystemSource
	Engine   *rate.Engine
	Agg      *aggregate.Aggregator
	Renderer Renderer
	Input    Input
	// Release is called in order during shutdown.
	Release []Releaser
}

// Loop owns all mutable monitoring state; nothing else writes to the engine
// or aggregator while it runs.
type Loop struct {
	interval time.Duration
	budget   time.Duration
	clock    clock.Clock
	source   CounterSource
	system   SystemSource
	engine   *rate.Engine
	agg      *aggregate.Aggregator
	renderer Renderer
	commands <-chan ui.Command
	release  []Releaser

	state        atomic.Int32
	shutdownOnce sync.Once
	shutdownErr  error
	log          *logrus.Entry
}

func New(cfg Config) *Loop {
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	if cfg.Engine == nil {
		cfg.Engine = rate.NewEngine(rate.DefaultGraceTicks)
	}
	if cfg.Agg == nil {
		cfg.Agg = aggregate.New(aggregate.Options{StaleTicks: rate.DefaultGraceTicks})
	}

	l := &Loop{
		interval: cfg.Interval,
		budget:   cfg.SampleBudget,
		clock:    cfg.Clock,
		source:   cfg.Source,
		system:   cfg.System,
		engine:   cfg.Engine,
		agg:      cfg.Agg,
		renderer: cfg.Renderer,
		release:  cfg.Release,
		log:      logging.WithComponent("loop"),
	}
	if cfg.Input != nil {
		l.commands = cfg.Input.Commands()
	}
	l.state.Store(int32(Running))
	return l
}

func (l *Loop) State() State {
	return State(l.state.Load())
}

// Run samples and redraws every interval until a quit command arrives or ctx
// is cancelled, then releases resources. It returns nil on a clean stop and
// the combined release error otherwise. A panic still releases resources
// before it propagates.
func (l *Loop) Run(ctx context.Context) error {
	defer l.shutdown()

	ticker := l.clock.Ticker(l.interval)
	defer ticker.Stop()

	l.Step(ctx)
	for l.State() == Running {
		select {
		case <-ctx.Done():
			l.log.WithField("reason", ctx.Err()).Info("stopping")
			l.stop()
		case cmd, ok := <-l.commands:
			if !ok {
				l.commands = nil
				continue
			}
			l.handle(cmd)
		case <-ticker.C:
			l.Step(ctx)
		}
	}

	return l.shutdown()
}

// Step runs one cycle: pending input is drained first so a queued quit wins
// over sampling, then the counters are sampled and the frame redrawn.
func (l *Loop) Step(ctx context.Context) {
	l.pollInput()
	if ctx.Err() != nil {
		l.stop()
	}
	if l.State() != Running {
		return
	}
	l.cycle(ctx)
}

func (l *Loop) pollInput() {
	for {
		select {
		case cmd, ok := <-l.commands:
			if !ok {
				l.commands = nil
				return
			}
			l.handle(cmd)
		default:
			return
		}
	}
}

func (l *Loop) handle(cmd ui.Command) {
	switch cmd {
	case ui.CommandQuit:
		l.log.Info("quit requested")
		l.stop()
	case ui.CommandRedraw:
		if l.State() == Running {
			l.draw()
		}
	}
}

func (l *Loop) cycle(ctx context.Context) {
	if l.budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.budget)
		defer cancel()
	}

	samples, err := l.source.Sample(ctx)
	if err != nil {
		// keep the previous frame; the next tick retries
		l.log.WithError(err).Debug("sample skipped")
		return
	}

	points := l.engine.Update(samples)
	l.agg.Ingest(points)

	if l.system != nil {
		if stats, err := l.system.Collect(ctx); err != nil {
			l.log.WithError(err).Debug("system stats skipped")
		} else {
			l.agg.SetSystem(stats)
		}
	}

	l.draw()
}

func (l *Loop) draw() {
	if l.renderer == nil {
		return
	}
	if err := l.renderer.Draw(l.agg.Current()); err != nil {
		l.log.WithError(err).Debug("frame skipped")
	}
}

// Snapshot returns the current aggregated state.
func (l *Loop) Snapshot() aggregate.Snapshot {
	return l.agg.Current()
}

func (l *Loop) stop() {
	l.state.CompareAndSwap(int32(Running), int32(Stopping))
}

func (l *Loop) shutdown() error {
	l.shutdownOnce.Do(func() {
		l.state.Store(int32(Stopping))
		for _, r := range l.release {
			l.shutdownErr = multierr.Append(l.shutdownErr, r.Restore())
		}
		l.state.Store(int32(Stopped))
		if l.shutdownErr != nil {
			l.log.WithError(l.shutdownErr).Error("release failed")
		}
	})
	return l.shutdownErr
}
