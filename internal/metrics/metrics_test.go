package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestBookingMetricsCount(t *testing.T) {
	m := NewBookingMetrics(prometheus.NewRegistry())

	m.ObserveCreated(true)
	m.ObserveCreated(false)
	m.ObserveCreated(false)
	m.ObserveConflict()
	m.ObserveNoBox()
	m.ObserveTransition("confirmed")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.created.WithLabelValues("guest")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.created.WithLabelValues("customer")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.conflicts))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.noBox))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transitions.WithLabelValues("confirmed")))
}

func TestHTTPMetricsCustomRegistry(t *testing.T) {
	m := NewHTTPMetrics(prometheus.NewRegistry())
	m.Observe("/api/services", "GET", "200", 0.01)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("/api/services", "GET", "200")))
}

func TestMetricsNilSafe(t *testing.T) {
	var b *BookingMetrics
	b.ObserveCreated(true)
	b.ObserveConflict()
	b.ObserveNoBox()
	b.ObserveTransition("completed")

	var h *HTTPMetrics
	h.Observe("/", "GET", "200", 0.1)
}
