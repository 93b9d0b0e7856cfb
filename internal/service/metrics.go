package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	orderTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_order_transitions_total",
			Help: "Order status transitions",
		},
		[]string{"from", "to"},
	)

	verificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_verifications_total",
			Help: "Reference verifications by outcome",
		},
		[]string{"outcome"},
	)

	verificationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bridge_verification_duration_seconds",
			Help:    "Verifier call latency",
			Buckets: prometheus.DefBuckets,
		},
	)

	coolingPromotions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bridge_cooling_promotions_total",
			Help: "Ledger entries moved out of cooling",
		},
	)

	settlementsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_settlements_total",
			Help: "Merchant settlements by result",
		},
		[]string{"result"},
	)

	persistFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bridge_state_persist_failures_total",
			Help: "Failed state snapshot writes",
		},
	)
)
