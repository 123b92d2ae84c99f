// Package metrics holds the process-wide Prometheus instruments.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	BillsCreated        prometheus.Counter
	NotificationsSent   prometheus.Counter
	NotificationsFailed prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		BillsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "flatbill_bills_created_total",
			Help: "Number of bills successfully created.",
		}),
		NotificationsSent: factory.NewCounter(prometheus.CounterOpts{
			Name: "flatbill_notifications_sent_total",
			Help: "Number of bill notifications delivered.",
		}),
		NotificationsFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "flatbill_notifications_failed_total",
			Help: "Number of bill notifications that failed to deliver.",
		}),
	}
}
