package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the sensitive field gates.
type Metrics struct {
	// Entitlement lookups by result: "granted", "denied", "error"
	EntitlementChecks *prometheus.CounterVec

	// Queries whose filter tree was rewritten, by query variant
	QueriesRewritten *prometheus.CounterVec

	ConditionsStripped prometheus.Counter

	RecordsRedacted prometheus.Counter

	// Best-effort notifications that could not be delivered
	NotificationFailures prometheus.Counter
}

// New creates a Metrics instance registered on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		EntitlementChecks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sensitive_gate_entitlement_checks_total",
			Help: "Total protected role lookups by result",
		}, []string{"result"}),

		QueriesRewritten: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sensitive_gate_queries_rewritten_total",
			Help: "Total queries with protected attribute filters stripped, by query variant",
		}, []string{"variant"}),

		ConditionsStripped: factory.NewCounter(prometheus.CounterOpts{
			Name: "sensitive_gate_conditions_stripped_total",
			Help: "Total filter conditions on the protected attribute removed from queries",
		}),

		RecordsRedacted: factory.NewCounter(prometheus.CounterOpts{
			Name: "sensitive_gate_records_redacted_total",
			Help: "Total secret records whose protected attribute was masked",
		}),

		NotificationFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "sensitive_gate_notification_failures_total",
			Help: "Total filter-stripped notifications that failed to deliver",
		}),
	}
}

// IncrementEntitlementCheck records a role lookup result.
func (m *Metrics) IncrementEntitlementCheck(result string) {
	if m != nil {
		m.EntitlementChecks.WithLabelValues(result).Inc()
	}
}

// ObserveRewrite records a rewritten query and how many conditions were removed.
func (m *Metrics) ObserveRewrite(variant string, removed int) {
	if m != nil {
		m.QueriesRewritten.WithLabelValues(variant).Inc()
		m.ConditionsStripped.Add(float64(removed))
	}
}

// AddRecordsRedacted records masked records.
func (m *Metrics) AddRecordsRedacted(n int) {
	if m != nil && n > 0 {
		m.RecordsRedacted.Add(float64(n))
	}
}

// IncrementNotificationFailure records a failed notification.
func (m *Metrics) IncrementNotificationFailure() {
	if m != nil {
		m.NotificationFailures.Inc()
	}
}
