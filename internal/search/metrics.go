package search

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var searchOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "physio_live_search_total",
	Help: "Live searches by outcome (ok, superseded, stale, error)",
}, []string{"outcome"})

func observe(err error) error {
	switch err {
	case nil:
		searchOutcomes.WithLabelValues("ok").Inc()
	case ErrSuperseded:
		searchOutcomes.WithLabelValues("superseded").Inc()
	case ErrStale:
		searchOutcomes.WithLabelValues("stale").Inc()
	default:
		searchOutcomes.WithLabelValues("error").Inc()
	}
	return err
}
