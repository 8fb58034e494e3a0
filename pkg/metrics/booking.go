package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// BookingMetrics counts admission and lifecycle outcomes.
type BookingMetrics struct {
	admissions  *prometheus.CounterVec
	transitions *prometheus.CounterVec
	conflicts   *prometheus.CounterVec
}

// NewBookingMetrics registers the booking metrics on the provided registerer.
func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	if reg == nil {
		return &BookingMetrics{}
	}
	admissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_admissions_total",
		Help: "Admission attempts by reservation kind and outcome.",
	}, []string{"kind", "outcome"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_transitions_total",
		Help: "Lifecycle transitions by action and outcome.",
	}, []string{"action", "outcome"})
	conflicts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_conflicts_total",
		Help: "Admissions or confirmations refused because the range was taken.",
	}, []string{"source"})
	reg.MustRegister(admissions, transitions, conflicts)
	return &BookingMetrics{
		admissions:  admissions,
		transitions: transitions,
		conflicts:   conflicts,
	}
}

// ObserveAdmission records the outcome of one admission attempt.
func (b *BookingMetrics) ObserveAdmission(kind, outcome string) {
	if b == nil || b.admissions == nil {
		return
	}
	b.admissions.WithLabelValues(normalizeLabel(kind), normalizeLabel(outcome)).Inc()
}

// ObserveTransition records the outcome of one lifecycle action.
func (b *BookingMetrics) ObserveTransition(action, outcome string) {
	if b == nil || b.transitions == nil {
		return
	}
	b.transitions.WithLabelValues(normalizeLabel(action), normalizeLabel(outcome)).Inc()
}

// IncConflict counts a refusal caused by an overlapping reservation or lock.
func (b *BookingMetrics) IncConflict(source string) {
	if b == nil || b.conflicts == nil {
		return
	}
	b.conflicts.WithLabelValues(normalizeLabel(source)).Inc()
}
