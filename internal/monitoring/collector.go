package monitoring

import (
	"sync"
	"time"
)

// Snapshot holds recommendation health over the window since the previous
// collection.
type Snapshot struct {
	Requests     int            `json:"requests"`
	AI           int            `json:"ai"`
	Fallback     int            `json:"fallback"`
	FallbackRate float64        `json:"fallback_rate"`
	Failures     map[string]int `json:"failures"`
	CircuitOpen  bool           `json:"circuit_open"`

	Window      time.Duration `json:"window"`
	CollectedAt time.Time     `json:"collected_at"`
}

// TotalsReader exposes cumulative counters. *Metrics implements it.
type TotalsReader interface {
	Totals() Totals
}

// Collector turns cumulative counters into windowed snapshots.
type Collector struct {
	src TotalsReader
	now func() time.Time

	mu     sync.Mutex
	last   Totals
	lastAt time.Time
}

// NewCollector creates a collector whose first window starts now.
func NewCollector(src TotalsReader) *Collector {
	c := &Collector{src: src, now: time.Now}
	c.last = src.Totals()
	c.lastAt = c.now().UTC()
	return c
}

// Collect returns the deltas since the previous call and starts a new
// window.
func (c *Collector) Collect() *Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur := c.src.Totals()
	now := c.now().UTC()

	snap := &Snapshot{
		AI:          int(cur.AI - c.last.AI),
		Fallback:    int(cur.Fallback - c.last.Fallback),
		Failures:    make(map[string]int),
		CircuitOpen: cur.CircuitState == circuitStateOpen,
		Window:      now.Sub(c.lastAt),
		CollectedAt: now,
	}
	snap.Requests = snap.AI + snap.Fallback
	if snap.Requests > 0 {
		snap.FallbackRate = float64(snap.Fallback) / float64(snap.Requests)
	}
	for kind, v := range cur.Failures {
		if d := int(v - c.last.Failures[kind]); d > 0 {
			snap.Failures[kind] = d
		}
	}

	c.last = cur
	c.lastAt = now
	return snap
}
