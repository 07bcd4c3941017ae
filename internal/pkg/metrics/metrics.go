// Package metrics defines and registers all custom Prometheus metrics for the
// Flipiri API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry at package
// init via promauto; the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "flipiri"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Labels:
//   - portal: "user" or "admin"
//   - result: "success", "invalid_credentials", "forbidden", "invalid_input", "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by portal and result.",
	},
	[]string{"portal", "result"},
)

// GuardRejectionsTotal counts requests stopped by the access guard.
// Label:
//   - reason: "missing_token", "invalid_token", "unknown_account",
//     "unauthenticated" or "role"
var GuardRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_rejections_total",
		Help:      "Total number of requests rejected by the access guard.",
	},
	[]string{"reason"},
)

// ── Content metrics ───────────────────────────────────────────────────────────

// ResourceMutationsTotal counts successful content writes.
// Labels:
//   - kind: "project", "client", "contact", "subscriber"
//   - op:   "create", "update", "delete"
var ResourceMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "resource_mutations_total",
		Help:      "Total number of successful content mutations, by kind and operation.",
	},
	[]string{"kind", "op"},
)

// ListCacheTotal counts public list cache lookups.
// Label:
//   - result: "hit", "miss", "error" or "stale" (loaded list dropped
//     because a write landed while loading)
var ListCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "list_cache_total",
		Help:      "Total number of public list cache lookups, labelled by result.",
	},
	[]string{"result"},
)

// ── Media metrics ─────────────────────────────────────────────────────────────

// MediaOperationsTotal counts calls to external image storage.
// Labels:
//   - op:     "upload" or "destroy"
//   - result: "ok" or "error"
var MediaOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "media_operations_total",
		Help:      "Total number of external media storage operations, by operation and result.",
	},
	[]string{"op", "result"},
)

// MediaUploadDuration measures how long an image upload takes.
var MediaUploadDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "media_upload_duration_seconds",
		Help:      "Duration of image uploads to external storage.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
)
