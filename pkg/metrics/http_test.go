package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRequestCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.ObserveRequest("GET", "/v1/cart", "200", 25*time.Millisecond)
	m.ObserveRequest("GET", "/v1/cart", "200", 30*time.Millisecond)
	m.ObserveRequest("PATCH", "/v1/orders/{orderId}", "422", 5*time.Millisecond)

	got := testutil.ToFloat64(m.requests.WithLabelValues("GET", "/v1/cart", "200"))
	if got != 2 {
		t.Fatalf("expected 2 GET cart requests, got %v", got)
	}
	got = testutil.ToFloat64(m.requests.WithLabelValues("PATCH", "/v1/orders/{orderId}", "422"))
	if got != 1 {
		t.Fatalf("expected 1 PATCH order request, got %v", got)
	}
}

func TestObserveRequestNormalizesEmptyLabels(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.ObserveRequest("", "", "", time.Millisecond)

	got := testutil.ToFloat64(m.requests.WithLabelValues("unknown", "unknown", "unknown"))
	if got != 1 {
		t.Fatalf("expected empty labels to normalize, got %v", got)
	}
}

func TestNilRegistererIsSafe(t *testing.T) {
	m := NewHTTPMetrics(nil)
	m.ObserveRequest("GET", "/", "200", time.Millisecond)
	m.IncInFlight()
	m.DecInFlight()
}
