package app

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"wm-pickup/internal/metrics"
)

type countersOut struct {
	dig.Out
	RateLimitExceeded prometheus.Counter `name:"rate_limit_exceeded_total"`
	GatewayRetries    prometheus.Counter `name:"wm_gateway_retries_total"`
	PickupsAdjusted   prometheus.Counter `name:"pickups_adjusted_total"`
	NoticesPublished  prometheus.Counter `name:"delay_notices_published_total"`
}

func newCounters(reg prometheus.Registerer) (countersOut, error) {
	var out countersOut
	var err error
	if out.RateLimitExceeded, err = registerCounter(reg, metrics.NewRateLimitExceededTotal()); err != nil {
		return out, err
	}
	if out.GatewayRetries, err = registerCounter(reg, metrics.NewGatewayRetriesTotal()); err != nil {
		return out, err
	}
	if out.PickupsAdjusted, err = registerCounter(reg, metrics.NewPickupsAdjustedTotal()); err != nil {
		return out, err
	}
	if out.NoticesPublished, err = registerCounter(reg, metrics.NewDelayNoticesPublishedTotal()); err != nil {
		return out, err
	}
	return out, nil
}

// registerCounter registers c, reusing an identical counter that is already
// registered.
func registerCounter(reg prometheus.Registerer, c prometheus.Counter) (prometheus.Counter, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
		}
		return nil, err
	}
	return c, nil
}
