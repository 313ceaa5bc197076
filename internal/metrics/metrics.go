package metrics

import "github.com/prometheus/client_golang/prometheus"

// NewRateLimitExceededTotal returns a Prometheus counter for the number of rejected HTTP requests due to rate limiting
func NewRateLimitExceededTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rate_limit_exceeded_total",
		Help: "Total number of rejected HTTP requests due to rate limiting",
	})
}

// NewGatewayRetriesTotal returns a Prometheus counter for the number of retry attempts against the provider API
func NewGatewayRetriesTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wm_gateway_retries_total",
		Help: "Total number of retry attempts performed against the provider API",
	})
}

// NewPickupsAdjustedTotal returns a Prometheus counter for pickup dates moved by a holiday delay
func NewPickupsAdjustedTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pickups_adjusted_total",
		Help: "Total number of pickup dates shifted by holiday delays",
	})
}

// NewDelayNoticesPublishedTotal returns a Prometheus counter for delay notices written to Kafka
func NewDelayNoticesPublishedTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "delay_notices_published_total",
		Help: "Total number of pickup delay notices published",
	})
}
