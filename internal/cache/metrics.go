package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Tier labels used in metrics.
const (
	tierMemory  = "memory"
	tierRemote  = "remote"
	tierDurable = "durable"
)

var cacheOperations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "botstore_cache_operations_total",
		Help: "Cache operations by tier, operation and outcome (hit, miss, success, error).",
	},
	[]string{"tier", "operation", "status"},
)

func recordOp(tier, operation, status string) {
	cacheOperations.WithLabelValues(tier, operation, status).Inc()
}
