package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/AchilleasB/classbank/ledger-service/internal/core/domain"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordOperation_Outcomes(t *testing.T) {
	m := New()

	m.RecordOperation("purchase", nil, time.Millisecond)
	m.RecordOperation("purchase", domain.Wrap("purchase", domain.ErrInsufficientFunds), time.Millisecond)
	m.RecordOperation("purchase", errors.New("disk full"), time.Millisecond)

	for _, outcome := range []string{"ok", "rejected", "failed"} {
		if got := testutil.ToFloat64(m.operations.WithLabelValues("purchase", outcome)); got != 1 {
			t.Errorf("outcome %s: expected 1, got %v", outcome, got)
		}
	}
}

func TestInstrument_LabelsByPattern(t *testing.T) {
	m := New()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /admin/classes/{class}/orders", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	handler := m.Instrument(mux)

	for _, class := range []string{"5A", "6B"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/classes/"+class+"/orders", nil))
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	if got := testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "GET /admin/classes/{class}/orders", "418")); got != 2 {
		t.Errorf("expected 2 requests on the pattern, got %v", got)
	}
	if got := testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "unmatched", "404")); got != 1 {
		t.Errorf("expected 1 unmatched request, got %v", got)
	}
}

func TestHandler_ExposesMetrics(t *testing.T) {
	m := New()
	m.RecordOperation("deposit_to_savings", nil, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "classbank_ledger_operations_total") {
		t.Error("expected ledger operation metric in output")
	}
}

func TestRegistry_CountsSeries(t *testing.T) {
	m := New()
	m.RecordOperation("credit_balance", nil, time.Millisecond)
	m.RecordOperation("approve_order", domain.ErrNotFound, time.Millisecond)

	n, err := testutil.GatherAndCount(m.Registry(), "classbank_ledger_operations_total")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 operation series, got %d", n)
	}
}
