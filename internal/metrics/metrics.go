package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics counts booking outcomes.
type BookingMetrics struct {
	created     *prometheus.CounterVec
	conflicts   prometheus.Counter
	noBox       prometheus.Counter
	transitions *prometheus.CounterVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		created: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sto",
			Subsystem: "booking",
			Name:      "created_total",
			Help:      "Appointments created, by customer kind",
		}, []string{"kind"}),
		conflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sto",
			Subsystem: "booking",
			Name:      "allocation_conflicts_total",
			Help:      "Box allocations lost to a concurrent booking",
		}),
		noBox: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sto",
			Subsystem: "booking",
			Name:      "no_box_available_total",
			Help:      "Bookings rejected because no box was free",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sto",
			Subsystem: "booking",
			Name:      "status_transitions_total",
			Help:      "Appointment status changes, by target status",
		}, []string{"status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.created, m.conflicts, m.noBox, m.transitions)
	return m
}

func (m *BookingMetrics) ObserveCreated(guest bool) {
	if m == nil {
		return
	}
	kind := "customer"
	if guest {
		kind = "guest"
	}
	m.created.WithLabelValues(kind).Inc()
}

func (m *BookingMetrics) ObserveConflict() {
	if m == nil {
		return
	}
	m.conflicts.Inc()
}

func (m *BookingMetrics) ObserveNoBox() {
	if m == nil {
		return
	}
	m.noBox.Inc()
}

func (m *BookingMetrics) ObserveTransition(status string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(status).Inc()
}

// HTTPMetrics records request latency per route.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	m := &HTTPMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sto",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status",
		}, []string{"route", "method", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sto",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.requests, m.latency)
	return m
}

func (m *HTTPMetrics) Observe(route, method, status string, seconds float64) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, method, status).Inc()
	m.latency.WithLabelValues(route, method).Observe(seconds)
}
