package ui

import (
	"fmt"
	"math"
)

var rateUnits = []string{"KB/s", "MB/s", "GB/s"}

// FormatRate renders bytes per second with 1024-based units. Rates below one
// byte per second show as "--". Unit and precision are chosen from the value
// as printed, so 1023.6 B/s reads "1.0 KB/s" rather than "1024 B/s".
func FormatRate(bps float64) string {
	if bps < 1 {
		return "--"
	}
	if math.Round(bps) < 1024 {
		return fmt.Sprintf("%.0f B/s", bps)
	}

	v := bps / 1024
	i := 0
	for shown(v) >= 1024 && i < len(rateUnits)-1 {
		v /= 1024
		i++
	}

	if v >= wholeThreshold {
		return fmt.Sprintf("%.0f %s", v, rateUnits[i])
	}
	return fmt.Sprintf("%.1f %s", v, rateUnits[i])
}

// values that print as 100.0 or more drop the decimal
const wholeThreshold = 99.95

// shown returns v rounded the way FormatRate prints it.
func shown(v float64) float64 {
	if v >= wholeThreshold {
		return math.Round(v)
	}
	return math.Round(v*10) / 10
}

func formatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func formatNumber(n uint64) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	if n < 1000000 {
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	}
	if n < 1000000000 {
		return fmt.Sprintf("%.1fM", float64(n)/1000000)
	}
	return fmt.Sprintf("%.1fG", float64(n)/1000000000)
}
