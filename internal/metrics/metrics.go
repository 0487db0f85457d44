// Package metrics 定義服務的 Prometheus 指標
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	LabelMethod    = "method"
	LabelRoute     = "route"
	LabelStatus    = "status"
	LabelOperation = "operation"
)

// HTTP 指標
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vtuber_wiki_http_requests_total",
			Help: "Total number of HTTP requests by method, route and status",
		},
		[]string{LabelMethod, LabelRoute, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vtuber_wiki_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{LabelMethod, LabelRoute},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vtuber_wiki_http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		},
	)
)

// 業務指標
var (
	// VTuberMutations 以 create、update、delete 計算成功寫入的紀錄數
	VTuberMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vtuber_wiki_mutations_total",
			Help: "Number of VTuber records written, by operation",
		},
		[]string{LabelOperation},
	)

	ChangeFeedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vtuber_wiki_change_feed_clients",
			Help: "Number of connected change feed websocket clients",
		},
	)
)
