// Package metrics defines and registers all custom Prometheus metrics for the
// SpendSmart expense API. It is the single source of truth for metric names,
// labels, and help strings. Metrics register with the default registry at
// import time via promauto; the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "spendsmart"

// ExpensesCreatedTotal counts successfully created expenses.
// Label:
//   - category: the expense category as submitted by the user
var ExpensesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "expenses_created_total",
		Help:      "Total number of expenses created, by category.",
	},
	[]string{"category"},
)

// CSVExportsTotal counts completed CSV export requests.
var CSVExportsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "csv_exports_total",
		Help:      "Total number of CSV exports served.",
	},
)

// StatsCacheTotal counts admin stats cache lookups.
// Label:
//   - result: "hit" (served from cache) or "miss" (recomputed)
var StatsCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stats_cache_total",
		Help:      "Total number of admin stats cache lookups, by result.",
	},
	[]string{"result"},
)

// UsersDeletedTotal counts admin user deletions (including the cascade).
var UsersDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_deleted_total",
		Help:      "Total number of users deleted by administrators.",
	},
)
