package types

import "time"

// InterfaceSample is one reading of an interface's cumulative counters.
type InterfaceSample struct {
	Interface   string
	BytesRecv   uint64
	BytesSent   uint64
	PacketsRecv uint64
	PacketsSent uint64
	Errin       uint64
	Errout      uint64
	Dropin      uint64
	Dropout     uint64
	Timestamp   time.Time
}

// RatePoint is the throughput of one interface between two samples, in bytes per second.
type RatePoint struct {
	Interface   string
	Download    float64
	Upload      float64
	PacketsRecv uint64
	PacketsSent uint64
	Errin       uint64
	Errout      uint64
	Timestamp   time.Time
}

// Total returns the combined download and upload rate.
func (p RatePoint) Total() float64 {
	return p.Download + p.Upload
}

type SystemStats struct {
	CPUPercent  float64
	MemoryUsed  uint64
	MemoryTotal uint64
	MemoryPerc  float64
	SelfRSS     uint64
	Goroutines  int
	Timestamp   time.Time
}
