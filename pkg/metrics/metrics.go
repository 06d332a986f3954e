// Package metrics provides Prometheus metrics for the bot service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MessagesRoutedTotal tracks inbound messages by matched intent
	MessagesRoutedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reagent",
			Subsystem: "router",
			Name:      "messages_total",
			Help:      "Total number of inbound messages by matched intent",
		},
		[]string{"intent"},
	)

	// BookingsTotal tracks booking attempts by outcome
	BookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reagent",
			Subsystem: "booking",
			Name:      "attempts_total",
			Help:      "Total number of booking attempts by outcome",
		},
		[]string{"outcome"},
	)

	// StoreCallDuration tracks data access call duration in seconds
	StoreCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "reagent",
			Subsystem: "store",
			Name:      "call_duration_seconds",
			Help:      "Duration of store calls in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"table", "operation"},
	)

	// OutboundMessagesTotal tracks messages sent through the provider client
	OutboundMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "reagent",
			Subsystem: "whatsapp",
			Name:      "outbound_messages_total",
			Help:      "Total number of outbound provider sends by status",
		},
		[]string{"status"},
	)

	// WebhookDuplicatesTotal tracks deduplicated provider retries
	WebhookDuplicatesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "reagent",
			Subsystem: "webhook",
			Name:      "duplicates_total",
			Help:      "Total number of inbound messages dropped as provider retries",
		},
	)
)
