// Package metrics declares the prometheus instruments for lookup and
// upstream fetch activity, exposed at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warranty_lookups_total",
		Help: "Total warranty lookups by outcome (hit, filled, sentinel)",
	}, []string{"outcome"})

	UpstreamFetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warranty_upstream_fetches_total",
		Help: "Total upstream fetch attempts by source and status",
	}, []string{"source", "status"})

	UpstreamFetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "warranty_upstream_fetch_duration_seconds",
		Help:    "Upstream fetch duration in seconds by source",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"source"})
)
