package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics defines per-transition confirmation metrics
type BusinessMetrics struct {
	TransactionQueuedTotal   prometheus.Counter
	TransactionRejectedTotal prometheus.Counter
	HashDeliveredTotal       prometheus.Counter
	WrongPasswordTotal       prometheus.Counter
	RetryResetTotal          prometheus.Counter
	HardFailureTotal         *prometheus.CounterVec
	DiscardedTotal           prometheus.Counter
	QueueDepth               prometheus.Gauge
}

// Global Metrics Instance
var Business *BusinessMetrics

// InitBusinessMetrics initializes the business metrics
func InitBusinessMetrics() {
	Business = &BusinessMetrics{
		TransactionQueuedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "confirm_transaction_queued_total",
			Help: "Total number of transactions queued for confirmation",
		}),
		TransactionRejectedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "confirm_transaction_rejected_total",
			Help: "Total number of transactions rejected before queueing (invalid destination)",
		}),
		HashDeliveredTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "confirm_hash_delivered_total",
			Help: "Total number of transaction hashes delivered to the messaging subsystem",
		}),
		WrongPasswordTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "confirm_wrong_password_total",
			Help: "Total number of wrong-password unlock failures",
		}),
		RetryResetTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "confirm_retry_reset_total",
			Help: "Total number of retry-ceiling resets",
		}),
		HardFailureTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "confirm_hard_failure_total",
			Help: "Total number of unrecoverable unlock failures",
		}, []string{"code"}),
		DiscardedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "confirm_discarded_total",
			Help: "Total number of transactions discarded (denied or signer-initiated)",
		}),
		QueueDepth: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "confirm_queue_depth",
			Help: "Number of transactions currently awaiting accept/deny",
		}),
	}
}
