package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/api/sales", "GET", 200, 10*time.Millisecond)
	m.RecordRequest("/api/sales", "GET", 200, 30*time.Millisecond)
	m.RecordRequest("/api/properties", "GET", 200, 5*time.Millisecond)
	m.RecordError("/api/sales", "POST", "CONFLICT")

	snap := m.Snapshot()
	require.Len(t, snap.Requests, 2)
	assert.Equal(t, "GET /api/properties 200", snap.Requests[0].Key)

	sales := snap.Requests[1]
	assert.Equal(t, int64(2), sales.Count)
	assert.InDelta(t, 20.0, sales.AvgMillis, 0.001)
	assert.InDelta(t, 30.0, sales.MaxMillis, 0.001)
	assert.Equal(t, int64(1), snap.Errors["POST /api/sales CONFLICT"])
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, time.Millisecond)
	m.RecordError("/", "GET", "X")
	assert.Empty(t, m.Snapshot().Requests)
}
