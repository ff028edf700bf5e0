package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectorsAreIndependent(t *testing.T) {
	a := NewCollector("healthcare-booking")
	b := NewCollector("healthcare-booking")

	a.AppointmentsTotal.WithLabelValues(OutcomeBooked).Inc()

	if got := testutil.ToFloat64(a.AppointmentsTotal.WithLabelValues(OutcomeBooked)); got != 1 {
		t.Fatalf("a booked = %v, want 1", got)
	}
	if got := testutil.ToFloat64(b.AppointmentsTotal.WithLabelValues(OutcomeBooked)); got != 0 {
		t.Fatalf("b booked = %v, want 0", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	c := NewCollector("healthcare-booking")
	c.AvailabilityChecks.Inc()

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "healthcare_booking_scheduling_availability_checks_total 1") {
		t.Fatalf("metric missing from exposition:\n%s", body)
	}
}
