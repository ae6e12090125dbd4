package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()
	m.ObserveSettlement("RENEWED")
	m.ObserveSettlement("RENEWED")
	m.ObserveScan(ScanGated)
	m.ObserveAlert("OVERDUE")
	m.ObserveDeliveryFailure("notification")
	m.ObserveReport()

	if got := testutil.ToFloat64(m.settlements.WithLabelValues("RENEWED")); got != 2 {
		t.Errorf("expected 2 renewals, got %v", got)
	}
	if got := testutil.ToFloat64(m.scans.WithLabelValues(ScanGated)); got != 1 {
		t.Errorf("expected 1 gated scan, got %v", got)
	}
	if got := testutil.ToFloat64(m.reportsDelivered); got != 1 {
		t.Errorf("expected 1 report, got %v", got)
	}
}

func TestRouter(t *testing.T) {
	m := NewMetrics()
	m.ObserveAlert("UPCOMING")
	srv := httptest.NewServer(NewRouter(m))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `church_finance_reminder_alerts_total{bucket="UPCOMING"} 1`) {
		t.Fatalf("alert counter missing from exposition:\n%s", body)
	}
}
