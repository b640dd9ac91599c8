package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nozo-moto/netrate/pkg/types"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func point(name string, down, up float64, tick int) types.RatePoint {
	return types.RatePoint{
		Interface: name,
		Download:  down,
		Upload:    up,
		Timestamp: epoch.Add(time.Duration(tick) * time.Second),
	}
}

func TestTotalSumsInterfaces(t *testing.T) {
	a := New(Options{HistorySize: 10, StaleTicks: 3})

	a.Ingest([]types.RatePoint{point("eth0", 100, 10, 1), point("wlan0", 50, 5, 1)})
	snap := a.Current()

	assert.Equal(t, 150.0, snap.Download)
	assert.Equal(t, 15.0, snap.Upload)
	assert.Equal(t, []float64{150}, snap.DownloadHistory)
	assert.Equal(t, []float64{15}, snap.UploadHistory)
	assert.Equal(t, epoch.Add(time.Second), snap.UpdatedAt)
	assert.True(t, snap.HasData())
}

func TestSelectedInterfacePassesThrough(t *testing.T) {
	a := New(Options{Interface: "wlan0", HistorySize: 10, StaleTicks: 3})

	a.Ingest([]types.RatePoint{point("eth0", 100, 10, 1), point("wlan0", 50, 5, 1)})
	snap := a.Current()

	assert.Equal(t, "wlan0", snap.Selection)
	assert.Equal(t, 50.0, snap.Download)
	assert.Equal(t, 5.0, snap.Upload)
	assert.Len(t, snap.Interfaces, 2, "the table still lists every interface")
}

func TestNothingAppendedBeforeFirstValue(t *testing.T) {
	a := New(Options{Interface: "eth0", HistorySize: 10, Missing: MissingHold})

	a.Ingest(nil)
	a.Ingest([]types.RatePoint{point("wlan0", 1, 1, 1)})

	snap := a.Current()
	assert.False(t, snap.HasData())
	assert.Equal(t, uint64(2), snap.Ticks)
}

func TestMissingZeroPolicy(t *testing.T) {
	a := New(Options{Interface: "eth0", HistorySize: 10, Missing: MissingZero})

	a.Ingest([]types.RatePoint{point("eth0", 100, 10, 1)})
	a.Ingest(nil)

	snap := a.Current()
	assert.Equal(t, []float64{100, 0}, snap.DownloadHistory)
	assert.Equal(t, []float64{10, 0}, snap.UploadHistory)
	assert.Zero(t, snap.Download)
}

func TestMissingHoldPolicy(t *testing.T) {
	a := New(Options{Interface: "eth0", HistorySize: 10, Missing: MissingHold})

	a.Ingest([]types.RatePoint{point("eth0", 100, 10, 1)})
	a.Ingest([]types.RatePoint{point("wlan0", 7, 7, 2)})
	a.Ingest(nil)

	snap := a.Current()
	assert.Equal(t, []float64{100, 100, 100}, snap.DownloadHistory)
	assert.Equal(t, []float64{10, 10, 10}, snap.UploadHistory)
	assert.Equal(t, 100.0, snap.Download)
}

func TestMissingEntryUsesTickTimestamp(t *testing.T) {
	a := New(Options{Interface: "eth0", HistorySize: 10, Missing: MissingZero})

	a.Ingest([]types.RatePoint{point("eth0", 100, 10, 1)})
	a.Ingest([]types.RatePoint{point("wlan0", 7, 7, 5)})

	snap := a.Current()
	assert.Equal(t, []float64{100, 0}, snap.DownloadHistory)
	assert.Equal(t, epoch.Add(5*time.Second), snap.UpdatedAt)

	a.Ingest(nil)
	assert.Equal(t, epoch.Add(5*time.Second), a.Current().UpdatedAt, "an empty tick has no newer time")
}

func TestHistoryCapacityIsRespected(t *testing.T) {
	a := New(Options{HistorySize: 3})

	for i := 1; i <= 5; i++ {
		a.Ingest([]types.RatePoint{point("eth0", float64(i), 0, i)})
	}

	assert.Equal(t, []float64{3, 4, 5}, a.Current().DownloadHistory)
}

func TestSnapshotIsIsolated(t *testing.T) {
	a := New(Options{HistorySize: 5})
	a.Ingest([]types.RatePoint{point("eth0", 1, 1, 1)})
	a.SetSystem(&types.SystemStats{CPUPercent: 10})

	snap := a.Current()
	snap.DownloadHistory[0] = 42
	snap.Interfaces[0].Download = 42
	snap.System.CPUPercent = 42

	a.Ingest([]types.RatePoint{point("eth0", 2, 2, 2)})
	assert.Equal(t, []float64{1}, snap.UploadHistory, "older snapshot does not see new ingests")

	fresh := a.Current()
	assert.Equal(t, []float64{1, 2}, fresh.DownloadHistory)
	assert.Equal(t, 2.0, fresh.Interfaces[0].Download)
	assert.Equal(t, 10.0, fresh.System.CPUPercent)
}

func TestInterfacesSortedByTraffic(t *testing.T) {
	a := New(Options{HistorySize: 5, StaleTicks: 3})

	a.Ingest([]types.RatePoint{
		point("eth0", 10, 10, 1),
		point("wlan0", 500, 0, 1),
		point("eth1", 10, 10, 1),
	})

	rows := a.Current().Interfaces
	require.Len(t, rows, 3)
	assert.Equal(t, "wlan0", rows[0].Interface)
	assert.Equal(t, "eth0", rows[1].Interface)
	assert.Equal(t, "eth1", rows[2].Interface)
}

func TestStaleRowsAreDropped(t *testing.T) {
	a := New(Options{HistorySize: 5, StaleTicks: 1})

	a.Ingest([]types.RatePoint{point("eth0", 1, 1, 1), point("wlan0", 1, 1, 1)})
	a.Ingest([]types.RatePoint{point("eth0", 1, 1, 2)})
	assert.Len(t, a.Current().Interfaces, 2)

	a.Ingest([]types.RatePoint{point("eth0", 1, 1, 3)})
	rows := a.Current().Interfaces
	require.Len(t, rows, 1)
	assert.Equal(t, "eth0", rows[0].Interface)
}

func TestParseMissingPolicy(t *testing.T) {
	assert.Equal(t, MissingHold, ParseMissingPolicy("hold"))
	assert.Equal(t, MissingZero, ParseMissingPolicy("zero"))
	assert.Equal(t, MissingZero, ParseMissingPolicy(""))
}
