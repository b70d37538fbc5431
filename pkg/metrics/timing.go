// Package metrics records how long the hot paths of a browsing session take:
// flattening the tree, fitting the window, rendering a frame, loading the
// file and resolving the selection.
//
// Timings are collected in memory with atomic operations. Collection is on by
// default and can be disabled with H5NAV_METRICS=0.
//
//	func render() string {
//	    defer metrics.Timer(metrics.Render)()
//	    ...
//	}
package metrics

import (
	"io"
	"os"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
)

var enabled atomic.Bool

func init() {
	enabled.Store(os.Getenv("H5NAV_METRICS") != "0")
}

// Enabled returns whether metrics collection is enabled.
func Enabled() bool {
	return enabled.Load()
}

// SetEnabled turns collection on or off.
func SetEnabled(e bool) {
	enabled.Store(e)
}

// TimingMetric accumulates timings for one named operation.
type TimingMetric struct {
	name    string
	count   atomic.Int64
	totalNs atomic.Int64
	maxNs   atomic.Int64
	minNs   atomic.Int64 // 0 until the first sample
}

func newTimingMetric(name string) *TimingMetric {
	return &TimingMetric{name: name}
}

// Record adds one sample.
func (m *TimingMetric) Record(d time.Duration) {
	if !Enabled() {
		return
	}
	ns := d.Nanoseconds()
	m.count.Add(1)
	m.totalNs.Add(ns)

	for {
		old := m.maxNs.Load()
		if ns <= old || m.maxNs.CompareAndSwap(old, ns) {
			break
		}
	}
	for {
		old := m.minNs.Load()
		if old != 0 && ns >= old {
			break
		}
		if m.minNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// Name returns the metric name.
func (m *TimingMetric) Name() string { return m.name }

// Count returns the number of samples.
func (m *TimingMetric) Count() int64 { return m.count.Load() }

// Stats returns a snapshot of the metric.
func (m *TimingMetric) Stats() TimingStats {
	count := m.count.Load()
	total := m.totalNs.Load()
	var avg int64
	if count > 0 {
		avg = total / count
	}
	return TimingStats{
		Name:    m.name,
		Count:   count,
		TotalMs: nsToMs(total),
		AvgMs:   nsToMs(avg),
		MaxMs:   nsToMs(m.maxNs.Load()),
		MinMs:   nsToMs(m.minNs.Load()),
	}
}

func nsToMs(ns int64) float64 { return float64(ns) / 1e6 }

// Reset clears all samples.
func (m *TimingMetric) Reset() {
	m.count.Store(0)
	m.totalNs.Store(0)
	m.maxNs.Store(0)
	m.minNs.Store(0)
}

// TimingStats is a snapshot of one metric.
type TimingStats struct {
	Name    string  `json:"name"`
	Count   int64   `json:"count"`
	TotalMs float64 `json:"total_ms"`
	AvgMs   float64 `json:"avg_ms"`
	MaxMs   float64 `json:"max_ms"`
	MinMs   float64 `json:"min_ms,omitempty"`
}

// Timer starts timing m and returns the function that records the sample.
func Timer(m *TimingMetric) func() {
	if !Enabled() || m == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		m.Record(time.Since(start))
	}
}

var (
	Flatten = newTimingMetric("flatten")
	Window  = newTimingMetric("window")
	Render  = newTimingMetric("render")
	Load    = newTimingMetric("load")
	Resolve = newTimingMetric("resolve")
	Detail  = newTimingMetric("detail_markdown")
)

// AllTimingMetrics returns every registered metric.
func AllTimingMetrics() []*TimingMetric {
	return []*TimingMetric{Flatten, Window, Render, Load, Resolve, Detail}
}

// ResetAll clears every metric.
func ResetAll() {
	for _, m := range AllTimingMetrics() {
		m.Reset()
	}
}

// AllTimingStats returns snapshots of the metrics that have samples.
func AllTimingStats() []TimingStats {
	all := AllTimingMetrics()
	stats := make([]TimingStats, 0, len(all))
	for _, m := range all {
		if m.Count() > 0 {
			stats = append(stats, m.Stats())
		}
	}
	return stats
}

// WriteJSON writes AllTimingStats to w as indented JSON.
func WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{"timings": AllTimingStats()})
}
