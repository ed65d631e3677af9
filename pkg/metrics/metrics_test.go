package metrics

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_ObserveBooking(t *testing.T) {
	m := NewWithRegisterer("test", prometheus.NewRegistry())

	m.ObserveBooking("slot", "success")
	m.ObserveBooking("slot", "success")
	m.ObserveBooking("slot", "conflict")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.BookingsTotal.WithLabelValues("slot", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BookingsTotal.WithLabelValues("slot", "conflict")))
}

func TestMetrics_ObserveHTTPAndPool(t *testing.T) {
	m := NewWithRegisterer("test", prometheus.NewRegistry())

	m.ObserveHTTP(http.MethodPost, "/api/v1/appointments", http.StatusCreated, 20*time.Millisecond)
	m.SetPoolStats(10, 3, 7)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues(http.MethodPost, "/api/v1/appointments", "201")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.DBInUseConnections.WithLabelValues()))
}

func TestMetrics_NilIsSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveBooking("slot", "success")
		m.ObserveSweepItem("reminders", "processed")
		m.ObserveQuery("exec", time.Millisecond)
		m.SetPoolStats(1, 1, 0)
	})
}
