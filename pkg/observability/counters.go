package observability

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Counters is an in-memory implementation of both SolveHooks and CacheHooks.
// The API server exposes its snapshot on /v1/stats.
type Counters struct {
	solves     atomic.Int64
	failures   atomic.Int64
	infeasible atomic.Int64
	renders    atomic.Int64

	mu        sync.Mutex
	solveTime time.Duration
	hits      map[string]int64
	misses    map[string]int64
	writes    map[string]int64
	bytes     int64
}

// NewCounters returns zeroed counters.
func NewCounters() *Counters {
	return &Counters{
		hits:   make(map[string]int64),
		misses: make(map[string]int64),
		writes: make(map[string]int64),
	}
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Solves       int64            `json:"solves"`
	Failures     int64            `json:"failures"`
	Infeasible   int64            `json:"infeasible"`
	Renders      int64            `json:"renders"`
	MeanSolveMS  float64          `json:"mean_solve_ms"`
	CacheHits    map[string]int64 `json:"cache_hits"`
	CacheMisses  map[string]int64 `json:"cache_misses"`
	CacheWrites  map[string]int64 `json:"cache_writes"`
	BytesWritten int64            `json:"bytes_written"`
}

func (c *Counters) OnSolveStart(context.Context, string) {}

func (c *Counters) OnSolveComplete(_ context.Context, _ string, _ int, converged bool, d time.Duration, err error) {
	c.solves.Add(1)
	switch {
	case err != nil:
		c.failures.Add(1)
	case !converged:
		c.infeasible.Add(1)
	}
	c.mu.Lock()
	c.solveTime += d
	c.mu.Unlock()
}

func (c *Counters) OnRenderComplete(_ context.Context, _ []string, _ time.Duration, err error) {
	if err == nil {
		c.renders.Add(1)
	}
}

func (c *Counters) OnCacheHit(_ context.Context, keyType string) {
	c.mu.Lock()
	c.hits[keyType]++
	c.mu.Unlock()
}

func (c *Counters) OnCacheMiss(_ context.Context, keyType string) {
	c.mu.Lock()
	c.misses[keyType]++
	c.mu.Unlock()
}

func (c *Counters) OnCacheSet(_ context.Context, keyType string, size int) {
	c.mu.Lock()
	c.writes[keyType]++
	c.bytes += int64(size)
	c.mu.Unlock()
}

// Snapshot copies the current values.
func (c *Counters) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		Solves:       c.solves.Load(),
		Failures:     c.failures.Load(),
		Infeasible:   c.infeasible.Load(),
		Renders:      c.renders.Load(),
		CacheHits:    copyCounts(c.hits),
		CacheMisses:  copyCounts(c.misses),
		CacheWrites:  copyCounts(c.writes),
		BytesWritten: c.bytes,
	}
	if s.Solves > 0 {
		s.MeanSolveMS = float64(c.solveTime.Microseconds()) / 1000 / float64(s.Solves)
	}
	return s
}

func copyCounts(m map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

var (
	_ SolveHooks = (*Counters)(nil)
	_ CacheHooks = (*Counters)(nil)
)
