package server

import (
	"runtime"
	"sync"
	"time"
)

// Metrics collects evaluation counters.
type Metrics struct {
	mu          sync.Mutex
	Evaluations int64
	Successes   int64
	Failures    map[string]int64 // by error kind, or "range" for non-finite results
	Rejected    int64            // requests without an expression
	WSConns     int64
	StartedAt   time.Time
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{
		Failures:  make(map[string]int64),
		StartedAt: time.Now(),
	}
}

// RecordSuccess counts an evaluation that produced a value.
func (m *Metrics) RecordSuccess() {
	m.mu.Lock()
	m.Evaluations++
	m.Successes++
	m.mu.Unlock()
}

// RecordFailure counts an evaluation that failed with the given kind.
func (m *Metrics) RecordFailure(kind string) {
	m.mu.Lock()
	m.Evaluations++
	m.Failures[kind]++
	m.mu.Unlock()
}

// RecordRejected counts a request which carried no expression. It is not an
// evaluation.
func (m *Metrics) RecordRejected() {
	m.mu.Lock()
	m.Rejected++
	m.mu.Unlock()
}

// RecordWSOpen and RecordWSClose track open websocket connections.
func (m *Metrics) RecordWSOpen() {
	m.mu.Lock()
	m.WSConns++
	m.mu.Unlock()
}

func (m *Metrics) RecordWSClose() {
	m.mu.Lock()
	if m.WSConns > 0 {
		m.WSConns--
	}
	m.mu.Unlock()
}

// MetricsSnapshot is a point-in-time metrics report.
type MetricsSnapshot struct {
	Evaluations   int64            `json:"evaluations"`
	Successes     int64            `json:"successes"`
	Failures      map[string]int64 `json:"failures"`
	Rejected      int64            `json:"rejected"`
	WSConns       int64            `json:"websocket_connections"`
	UptimeSeconds int              `json:"uptime_seconds"`
	Goroutines    int              `json:"goroutines"`
}

// Snapshot returns a point-in-time copy of all metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	failures := make(map[string]int64, len(m.Failures))
	for k, v := range m.Failures {
		failures[k] = v
	}
	return MetricsSnapshot{
		Evaluations:   m.Evaluations,
		Successes:     m.Successes,
		Failures:      failures,
		Rejected:      m.Rejected,
		WSConns:       m.WSConns,
		UptimeSeconds: int(time.Since(m.StartedAt).Seconds()),
		Goroutines:    runtime.NumGoroutine(),
	}
}
