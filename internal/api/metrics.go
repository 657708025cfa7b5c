package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	recommendRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ecoselect_recommend_requests_total",
		Help: "Recommendation requests served, by outcome.",
	}, []string{"outcome"})

	detailRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ecoselect_material_detail_requests_total",
		Help: "Material detail requests served, by outcome.",
	}, []string{"outcome"})

	recommendResults = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ecoselect_recommend_result_count",
		Help:    "Number of materials returned per recommendation request.",
		Buckets: prometheus.ExponentialBuckets(1, 4, 6),
	})
)
