package common

import "github.com/prometheus/client_golang/prometheus"

const (
	HTTPRequestTotal           = "http_requests_total"
	HTTPRequestDurationSeconds = "http_request_duration_seconds"
	FriendsSubscriptionsOpen   = "friends_subscriptions_open"
	FriendsAggregationFailures = "friends_aggregation_failures_total"
)

var (
	PromGauges = map[string]*prometheus.GaugeVec{
		FriendsSubscriptionsOpen: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: FriendsSubscriptionsOpen,
			Help: "Number of live friends subscriptions",
		}, []string{}),
	}

	PromCounters = map[string]*prometheus.CounterVec{
		HTTPRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: HTTPRequestTotal,
			Help: "Count of all HTTP requests",
		}, []string{"method", "status_code"}),
		FriendsAggregationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: FriendsAggregationFailures,
			Help: "Count of per-friend loads that failed and were skipped",
		}, []string{}),
	}

	PromHistograms = map[string]*prometheus.HistogramVec{
		HTTPRequestDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: HTTPRequestDurationSeconds,
			Help: "Duration of all HTTP requests",
		}, []string{"method", "status_code"}),
	}
)
