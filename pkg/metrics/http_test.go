package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRequestCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.ObserveRequest("GET", "/api/v1/products", 200, 5*time.Millisecond)
	m.ObserveRequest("GET", "/api/v1/products", 200, 7*time.Millisecond)
	m.ObserveRequest("POST", "/api/v1/products", 400, time.Millisecond)

	expected := `
# HELP http_requests_total Count of handled HTTP requests.
# TYPE http_requests_total counter
http_requests_total{method="GET",route="/api/v1/products",status="200"} 2
http_requests_total{method="POST",route="/api/v1/products",status="400"} 1
`
	if err := testutil.CollectAndCompare(reg, strings.NewReader(expected), "http_requests_total"); err != nil {
		t.Fatalf("unexpected counter state: %v", err)
	}
}

func TestNilReceiverAndRegistererAreNoOps(t *testing.T) {
	var nilMetrics *HTTPMetrics
	nilMetrics.ObserveRequest("GET", "/", 200, time.Millisecond)

	m := NewHTTPMetrics(nil)
	m.ObserveRequest("GET", "/", 200, time.Millisecond)
}
