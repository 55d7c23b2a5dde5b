package observability

import (
	"testing"
	"time"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/tickets", "GET", 200, time.Millisecond)
	m.RecordRequest("/tickets", "GET", 200, time.Millisecond)
	m.RecordError("/api/tickets", "GET", "RETRIEVAL_FAILED")
	m.RecordLoad("fixed", 2, false)
	m.RecordLoad("fixed", 0, true)

	snap := m.Snapshot()
	if snap.Requests["/tickets|GET|200"] != 2 {
		t.Errorf("requests = %v", snap.Requests)
	}
	if snap.Errors["/api/tickets|GET|RETRIEVAL_FAILED"] != 1 {
		t.Errorf("errors = %v", snap.Errors)
	}
	if snap.Loads["fixed"] != 2 || snap.TicketsEmitted["fixed"] != 2 || snap.LoadFailures["fixed"] != 1 {
		t.Errorf("loads = %v emitted = %v failures = %v", snap.Loads, snap.TicketsEmitted, snap.LoadFailures)
	}

	// Snapshots are copies.
	snap.Loads["fixed"] = 100
	if m.Snapshot().Loads["fixed"] != 2 {
		t.Error("snapshot mutation leaked into metrics")
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, 0)
	m.RecordError("/", "GET", "X")
	m.RecordLoad("all", 1, false)
	if snap := m.Snapshot(); snap.Loads != nil {
		t.Errorf("nil metrics snapshot = %+v", snap)
	}
}
