package main

import (
	"runtime"
	"sync"
	"time"
)

// Metrics collects qcalc server operational metrics.
type Metrics struct {
	mu          sync.Mutex
	Evaluations int64            `json:"evaluations"`
	Failures    map[string]int64 `json:"failures"`
	Definitions int64            `json:"definitions"`
	StartedAt   time.Time        `json:"-"`
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{
		Failures:  make(map[string]int64),
		StartedAt: time.Now(),
	}
}

// RecordEvaluation increments the successful evaluation counter.
func (m *Metrics) RecordEvaluation() {
	m.mu.Lock()
	m.Evaluations++
	m.mu.Unlock()
}

// RecordFailure counts a failed request by error kind.
func (m *Metrics) RecordFailure(kind string) {
	m.mu.Lock()
	m.Failures[kind]++
	m.mu.Unlock()
}

// RecordDefinitions counts request-scoped definitions applied.
func (m *Metrics) RecordDefinitions(n int) {
	m.mu.Lock()
	m.Definitions += int64(n)
	m.mu.Unlock()
}

// MetricsSnapshot is a point-in-time metrics report.
type MetricsSnapshot struct {
	Evaluations   int64            `json:"evaluations"`
	Failures      map[string]int64 `json:"failures"`
	Definitions   int64            `json:"definitions"`
	UptimeSeconds int              `json:"uptime_seconds"`
	Goroutines    int              `json:"goroutines"`
	HeapAllocMB   float64          `json:"heap_alloc_mb"`
}

// Snapshot returns a point-in-time copy of all metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	failures := make(map[string]int64, len(m.Failures))
	for k, v := range m.Failures {
		failures[k] = v
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return MetricsSnapshot{
		Evaluations:   m.Evaluations,
		Failures:      failures,
		Definitions:   m.Definitions,
		UptimeSeconds: int(time.Since(m.StartedAt).Seconds()),
		Goroutines:    runtime.NumGoroutine(),
		HeapAllocMB:   float64(memStats.HeapAlloc) / (1024 * 1024),
	}
}
