package observability

import (
	"sort"
	"strconv"
	"sync"
	"time"
)

// Metrics keeps in-process request counters per route.
type Metrics struct {
	mu       sync.Mutex
	started  time.Time
	requests map[string]*routeStats
	errors   map[string]int64
}

type routeStats struct {
	count   int64
	total   time.Duration
	maximum time.Duration
}

// RouteMetric is one row of a metrics snapshot.
type RouteMetric struct {
	Key       string  `json:"key"`
	Count     int64   `json:"count"`
	AvgMillis float64 `json:"avg_ms"`
	MaxMillis float64 `json:"max_ms"`
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	UptimeSeconds int64            `json:"uptime_seconds"`
	Requests      []RouteMetric    `json:"requests"`
	Errors        map[string]int64 `json:"errors"`
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		started:  time.Now(),
		requests: make(map[string]*routeStats),
		errors:   make(map[string]int64),
	}
}

// RecordRequest counts a finished request and its latency.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := method + " " + route + " " + strconv.Itoa(status)
	m.mu.Lock()
	defer m.mu.Unlock()
	stats, ok := m.requests[key]
	if !ok {
		stats = &routeStats{}
		m.requests[key] = stats
	}
	stats.count++
	stats.total += duration
	if duration > stats.maximum {
		stats.maximum = duration
	}
}

// RecordError counts an error response by code.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	key := method + " " + route + " " + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[key]++
}

// Snapshot copies the current counters, sorted by key.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{Errors: map[string]int64{}}
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		UptimeSeconds: int64(time.Since(m.started).Seconds()),
		Requests:      make([]RouteMetric, 0, len(m.requests)),
		Errors:        make(map[string]int64, len(m.errors)),
	}
	for key, stats := range m.requests {
		row := RouteMetric{Key: key, Count: stats.count, MaxMillis: millis(stats.maximum)}
		if stats.count > 0 {
			row.AvgMillis = millis(stats.total) / float64(stats.count)
		}
		snap.Requests = append(snap.Requests, row)
	}
	sort.Slice(snap.Requests, func(i, j int) bool { return snap.Requests[i].Key < snap.Requests[j].Key })
	for key, count := range m.errors {
		snap.Errors[key] = count
	}
	return snap
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
