package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestMetrics_IncAndSnapshot(t *testing.T) {
	m := New()
	m.Inc(EventConnected)
	m.Inc(EventConnected)
	m.Inc(EventForwardDropped)

	if got := m.Get(EventConnected); got != 2 {
		t.Fatalf("expected 2 connected events, got %d", got)
	}

	snap := m.Snapshot()
	snap[EventConnected] = 99
	if m.Get(EventConnected) != 2 {
		t.Fatalf("snapshot must be a copy")
	}
}

func TestMetrics_NilIsSafe(t *testing.T) {
	var m *Metrics
	m.Inc(EventConnected) // must not panic
}

func TestPrometheusHandler_Exposition(t *testing.T) {
	m := New()
	m.Inc(EventRoomCreated)

	rec := httptest.NewRecorder()
	PrometheusHandler(m).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	if !strings.Contains(body, "# TYPE peerdrop_signaling_events_total counter") {
		t.Fatalf("missing TYPE line:\n%s", body)
	}
	if !strings.Contains(body, `peerdrop_signaling_events_total{event="room_created"} 1`) {
		t.Fatalf("missing counter line:\n%s", body)
	}
}
