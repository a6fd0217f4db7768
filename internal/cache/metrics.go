package cache

import (
	"github.com/prometheus/client_golang/prometheus"
)

var invalidationFailures = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "cache_invalidation_failures_total",
		Help: "Total cache invalidation attempts that returned an error",
	},
)

func init() {
	prometheus.MustRegister(invalidationFailures)
}
