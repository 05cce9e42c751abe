// Package metrics defines and registers the Prometheus metrics of the
// shipment tracker. All metrics live in the default registry via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tracking"

// ── Registry metrics ──────────────────────────────────────────────────────────

// ShipmentsAddedTotal counts add attempts.
// Label:
//   - result: "ok" or the failure kind (e.g. "InvalidInput", "DuplicateId")
var ShipmentsAddedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "shipments_added_total",
		Help:      "Total number of add-shipment attempts, by result.",
	},
	[]string{"result"},
)

// StatusUpdatesTotal counts successful status changes.
// Label:
//   - status: the new status (free-form, e.g. "In Transit")
var StatusUpdatesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_updates_total",
		Help:      "Total number of applied status updates, by new status.",
	},
	[]string{"status"},
)

// ── Query metrics ─────────────────────────────────────────────────────────────

// QueriesTotal counts location and ETA queries.
// Labels:
//   - query: "location" or "eta"
//   - outcome: "fix", "estimate", "terminal", or the failure kind
var QueriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "queries_total",
		Help:      "Total number of tracking queries, by query and outcome.",
	},
	[]string{"query", "outcome"},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// NotificationsTotal counts notification outcomes.
// Label:
//   - result: "sent", "failed", "duplicate", or "dropped" (queue full)
var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total number of status notifications, by result.",
	},
	[]string{"result"},
)

// NotificationQueueDepth tracks pending notices per dispatcher worker.
// Label:
//   - worker_id: numeric worker index
var NotificationQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notification_queue_depth",
		Help:      "Current number of notices pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
