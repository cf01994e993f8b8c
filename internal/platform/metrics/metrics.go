package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the platform-level Prometheus metrics.
type Metrics struct {
	LoginsIssued       prometheus.Counter
	LoginsRejected     prometheus.Counter
	CitizensRegistered prometheus.Counter
	AccountsRegistered prometheus.Counter
	RequestsCreated    prometheus.Counter
	RequestsApproved   prometheus.Counter
	RequestsRejected   prometheus.Counter
}

// New creates and registers all platform metrics.
func New() *Metrics {
	return &Metrics{
		LoginsIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "nadra_logins_issued_total",
			Help: "Total number of credentials successfully issued",
		}),
		LoginsRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "nadra_logins_rejected_total",
			Help: "Total number of rejected login attempts",
		}),
		CitizensRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "nadra_citizens_registered_total",
			Help: "Total number of citizen records created",
		}),
		AccountsRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "nadra_accounts_registered_total",
			Help: "Total number of subject accounts created",
		}),
		RequestsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "nadra_change_requests_created_total",
			Help: "Total number of field-change requests filed",
		}),
		RequestsApproved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "nadra_change_requests_approved_total",
			Help: "Total number of field-change requests approved",
		}),
		RequestsRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "nadra_change_requests_rejected_total",
			Help: "Total number of field-change requests rejected",
		}),
	}
}
