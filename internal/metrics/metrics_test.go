package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRequestCountsByStatusClass(t *testing.T) {
	m := New()

	m.Request("GET", "GET /api/items/{id}", 200, 3*time.Millisecond)
	m.Request("GET", "GET /api/items/{id}", 404, time.Millisecond)
	m.Request("GET", "GET /api/items/{id}", 410, time.Millisecond)
	m.Request("POST", "POST /api/items", 500, time.Millisecond)

	if got := testutil.ToFloat64(m.requests.WithLabelValues("GET", "GET /api/items/{id}", "4xx")); got != 2 {
		t.Errorf("expected 2 client errors, got %v", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues("POST", "POST /api/items", "5xx")); got != 1 {
		t.Errorf("expected 1 server error, got %v", got)
	}
}

func TestMutationCounter(t *testing.T) {
	m := New()
	m.Mutation("create")
	m.Mutation("create")
	m.Mutation("delete")

	if got := testutil.ToFloat64(m.mutations.WithLabelValues("create")); got != 2 {
		t.Errorf("expected 2 creates, got %v", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.Mutation("update")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `listing_mutations_total{op="update"} 1`) {
		t.Errorf("expected mutation counter in exposition, got:\n%s", body)
	}
}

func TestStatusClass(t *testing.T) {
	tests := map[int]string{200: "2xx", 201: "2xx", 302: "3xx", 400: "4xx", 503: "5xx", 0: "unknown"}
	for status, want := range tests {
		if got := statusClass(status); got != want {
			t.Errorf("statusClass(%d) = %q, want %q", status, got, want)
		}
	}
}
