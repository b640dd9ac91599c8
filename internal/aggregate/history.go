package aggregate

import "time"

// Sample is one entry of a History.
type Sample struct {
	Time  time.Time
	Value float64
}

// History is a fixed-capacity ring; once full, each Push evicts the oldest entry.
type History struct {
	buf   []Sample
	start int
	size  int
}

func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{buf: make([]Sample, capacity)}
}

func (h *History) Push(s Sample) {
	end := (h.start + h.size) % len(h.buf)
	h.buf[end] = s
	if h.size < len(h.buf) {
		h.size++
		return
	}
	h.start = (h.start + 1) % len(h.buf)
}

func (h *History) Len() int { return h.size }

func (h *History) Cap() int { return len(h.buf) }

// Last returns the newest entry.
func (h *History) Last() (Sample, bool) {
	if h.size == 0 {
		return Sample{}, false
	}
	return h.buf[(h.start+h.size-1)%len(h.buf)], true
}

// Samples returns a copy of the entries, oldest first.
func (h *History) Samples() []Sample {
	out := make([]Sample, h.size)
	for i := range out {
		out[i] = h.buf[(h.start+i)%len(h.buf)]
	}
	return out
}

// Values returns a copy of the entry values, oldest first.
func (h *History) Values() []float64 {
	out := make([]float64, h.size)
	for i := range out {
		out[i] = h.buf[(h.start+i)%len(h.buf)].Value
	}
	return out
}
