// Package ui renders aggregated throughput onto a terminal backend.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/tview"

	"github.com/nozo-moto/netrate/internal/aggregate"
)

const maxTableRows = 20

// Display turns snapshots into panel contents. It only reads the snapshot.
type Display struct {
	backend  Backend
	interval time.Duration
}

func NewDisplay(backend Backend, interval time.Duration) *Display {
	return &Display{backend: backend, interval: interval}
}

// Draw renders one frame. Any failure, including a panic inside the
// backend, aborts the frame and is reported as ErrFrameSkipped.
func (d *Display) Draw(snap aggregate.Snapshot) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrFrameSkipped, r)
		}
	}()

	if err := d.backend.Clear(); err != nil {
		return fmt.Errorf("%w: %w", ErrFrameSkipped, err)
	}

	contents := map[Panel]string{
		PanelHeader:     d.header(snap),
		PanelDownload:   d.graph(PanelDownload, snap.Download, snap.DownloadHistory, snap.HasData()),
		PanelUpload:     d.graph(PanelUpload, snap.Upload, snap.UploadHistory, snap.HasData()),
		PanelInterfaces: d.table(snap),
	}
	for _, p := range Panels {
		if err := d.backend.Draw(p, contents[p]); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrFrameSkipped, p, err)
		}
	}

	if err := d.backend.Show(); err != nil {
		return fmt.Errorf("%w: %w", ErrFrameSkipped, err)
	}
	return nil
}

func (d *Display) header(snap aggregate.Snapshot) string {
	selection := "total"
	if snap.Selection != "" {
		selection = tview.Escape(snap.Selection)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[yellow]live[white] (q:quit)   refresh: %s   ifaces: %d   showing: [cyan]%s[white]",
		d.interval, len(snap.Interfaces), selection)
	if !snap.UpdatedAt.IsZero() {
		fmt.Fprintf(&b, "   updated: %s", snap.UpdatedAt.Format("15:04:05"))
	}
	b.WriteString("\n")

	if s := snap.System; s != nil {
		fmt.Fprintf(&b, "[yellow]CPU:[white] %.1f%%   [yellow]Memory:[white] %s / %s (%.1f%%)   [yellow]netrate:[white] %s RSS, %d goroutines",
			s.CPUPercent,
			formatBytes(s.MemoryUsed),
			formatBytes(s.MemoryTotal),
			s.MemoryPerc,
			formatBytes(s.SelfRSS),
			s.Goroutines,
		)
	} else {
		b.WriteString("[gray]Collecting system data...[white]")
	}
	return b.String()
}

func (d *Display) graph(p Panel, current float64, history []float64, hasData bool) string {
	if !hasData {
		return "[gray]Collecting traffic data..."
	}

	color, arrow := "[green]", "▼"
	if p == PanelUpload {
		color, arrow = "[red]", "▲"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s%s %s[white]   peak %s\n", color, arrow, FormatRate(current), FormatRate(Peak(history)))

	width, height := d.backend.PanelSize(p)
	rows := Sparkline(history, width, height-1)
	if len(rows) > 0 {
		b.WriteString(color)
		b.WriteString(strings.Join(rows, "\n"))
		b.WriteString("[white]")
	}
	return b.String()
}

func (d *Display) table(snap aggregate.Snapshot) string {
	if len(snap.Interfaces) == 0 {
		return "[gray]No interface rates yet"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[yellow]%-16s %12s %12s %10s %10s %8s %8s[white]\n",
		"INTERFACE", "RX/s", "TX/s", "PKTS In", "PKTS Out", "Err In", "Err Out")

	for i, r := range snap.Interfaces {
		if i >= maxTableRows {
			fmt.Fprintf(&b, "[gray]... and %d more interfaces", len(snap.Interfaces)-maxTableRows)
			break
		}

		name := runewidth.FillRight(runewidth.Truncate(r.Interface, 15, "..."), 15)
		marker := " "
		if r.Interface == snap.Selection {
			marker = "*"
		}
		fmt.Fprintf(&b, "%s%s %12s %12s %10s %10s %8d %8d\n",
			marker,
			tview.Escape(name),
			FormatRate(r.Download),
			FormatRate(r.Upload),
			formatNumber(r.PacketsRecv),
			formatNumber(r.PacketsSent),
			r.Errin,
			r.Errout,
		)
	}
	return b.String()
}
