package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors exported on /metrics
type Metrics struct {
	CacheHits    prometheus.Counter
	CacheMisses  prometheus.Counter
	HTTPRequests *prometheus.CounterVec
}

// New creates the collectors and registers them on reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "usercache_cache_hits_total",
			Help: "User lookups served from the cache.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "usercache_cache_misses_total",
			Help: "User lookups that fell back to the repository.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "usercache_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
	}

	reg.MustRegister(m.CacheHits, m.CacheMisses, m.HTTPRequests)
	return m
}
