package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/benbjohnson/clock"
	"github.com/sirupsen/logrus"

	"github.com/nozo-moto/netrate/internal/aggregate"
	"github.com/nozo-moto/netrate/internal/collector"
	"github.com/nozo-moto/netrate/internal/config"
	"github.com/nozo-moto/netrate/internal/logging"
	"github.com/nozo-moto/netrate/internal/monitor"
	"github.com/nozo-moto/netrate/internal/rate"
	"github.com/nozo-moto/netrate/internal/ui"
)

const (
	exitOK = iota
	exitTerminal
	exitConfig
)

// closerReleaser lets the loop close the log file during shutdown.
type closerReleaser struct{ io.Closer }

func (c closerReleaser) Restore() error { return c.Close() }

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "netrate: %v\n", err)
		return exitConfig
	}

	var release []monitor.Releaser
	if cfg.Logging.File != "" {
		closer, err := logging.EnableFileLogging(cfg.Logging.File, cfg.Logging.MaxSize, cfg.Logging.MaxBackups, cfg.Logging.MaxAge)
		if err != nil {
			fmt.Fprintf(os.Stderr, "netrate: %v\n", err)
			return exitConfig
		}
		defer closer.Close()
		release = append(release, closerReleaser{closer})
	}
	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "netrate: %v\n", err)
		return exitConfig
	}
	logging.SetLevel(level)

	log := logging.WithComponent("main")
	log.WithFields(logrus.Fields{
		"interval":  cfg.Interval,
		"history":   cfg.HistorySize,
		"interface": cfg.Interface,
		"missing":   cfg.Missing,
	}).Info("starting")

	clk := clock.New()
	source := collector.NewNetworkCollector(clk, collector.Filter{
		IncludeLoopback: cfg.IncludeLoopback,
		IncludeVirtual:  cfg.IncludeVirtual,
		Always:          cfg.Interface,
	}, cfg.SampleTimeout)

	if cfg.Interface != "" {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.SampleTimeout)
		active, err := source.ActiveInterfaces(ctx)
		cancel()
		if err == nil && !slices.Contains(active, cfg.Interface) {
			log.WithField("interface", cfg.Interface).Warn("selected interface is not present yet")
		}
	}

	term, err := ui.NewTerminal()
	if err != nil {
		log.WithError(err).Error("cannot acquire terminal")
		fmt.Fprintf(os.Stderr, "netrate: %v\n", err)
		return exitTerminal
	}
	defer term.Restore()
	// terminal first so the screen is back before anything else can fail
	release = append([]monitor.Releaser{term}, release...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	loop := monitor.New(monitor.Config{
		Interval:     cfg.Interval,
		SampleBudget: cfg.SampleTimeout,
		Clock:        clk,
		Source:       source,
		System:       collector.NewSystemCollector(clk, cfg.SampleTimeout),
		Engine:       rate.NewEngine(cfg.GraceTicks),
		Agg: aggregate.New(aggregate.Options{
			Interface:   cfg.Interface,
			Missing:     aggregate.ParseMissingPolicy(cfg.Missing),
			HistorySize: cfg.HistorySize,
			StaleTicks:  cfg.GraceTicks,
		}),
		Renderer: ui.NewDisplay(term, cfg.Interval),
		Input:    term,
		Release:  release,
	})

	if err := loop.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "netrate: shutdown: %v\n", err)
		return exitTerminal
	}
	return exitOK
}
