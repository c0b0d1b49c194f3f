// Package metrics defines and registers the custom Prometheus metrics of the
// marketplace API. HTTP request metrics come from the echoprometheus
// middleware; these cover the business operations behind them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "marketplace"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Resource metrics ──────────────────────────────────────────────────────────

// ResourcesCreatedTotal counts records created through the API.
// Label:
//   - resource: "card", "publication", "photo", "cart_item", "transaction",
//     "notification", "visit", "catalog"
var ResourcesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "resources_created_total",
		Help:      "Total number of records created, by resource type.",
	},
	[]string{"resource"},
)

// VisitsDedupTotal counts deduplication decisions on visit recording.
// Label:
//   - result: "hit" (earlier visit returned) or "miss" (new visit stored)
var VisitsDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "visits_dedup_total",
		Help:      "Total number of visit dedup checks, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// VisitQueueDroppedTotal counts publication views dropped because the
// recording queue was full.
var VisitQueueDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "visit_queue_dropped_total",
		Help:      "Total number of publication views dropped by a full visit queue.",
	},
)
