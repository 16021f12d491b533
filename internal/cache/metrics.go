package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK       = "success"
	outcomeNotFound = "not_found"
	outcomeError    = "upstream_error"
)

var fetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "pronounproxy_upstream_fetches_total",
	Help: "Upstream fetch attempts by resource kind and outcome",
}, []string{"resource", "outcome"})

var notDueTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "pronounproxy_refresh_not_due_total",
	Help: "Refresh attempts skipped because the cached data was still fresh",
}, []string{"resource"})

var sweptTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "pronounproxy_users_swept_total",
	Help: "User cache entries removed by the eviction sweeper",
})
