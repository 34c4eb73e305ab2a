// Package metrics exposes Prometheus collectors for game activity.
// A nil *Collector is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector groups the cowbull counters and histograms.
type Collector struct {
	gamesCreated  *prometheus.CounterVec
	guesses       *prometheus.CounterVec
	gamesFinished *prometheus.CounterVec
	storeDuration *prometheus.HistogramVec
	storeErrors   *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		gamesCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cowbull_games_created_total",
				Help: "Total number of games created",
			},
			[]string{"mode"},
		),
		guesses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cowbull_guesses_total",
				Help: "Total number of guesses scored",
			},
			[]string{"mode"},
		),
		gamesFinished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cowbull_games_finished_total",
				Help: "Total number of games decided, by result",
			},
			[]string{"mode", "result"},
		),
		storeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cowbull_store_duration_seconds",
				Help:    "Duration of session store operations",
				Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
			},
			[]string{"op"},
		),
		storeErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cowbull_store_errors_total",
				Help: "Total number of failed session store operations",
			},
			[]string{"op"},
		),
	}
	reg.MustRegister(c.gamesCreated, c.guesses, c.gamesFinished, c.storeDuration, c.storeErrors)
	return c
}

func (c *Collector) GameCreated(mode string) {
	if c == nil {
		return
	}
	c.gamesCreated.WithLabelValues(mode).Inc()
}

func (c *Collector) GuessScored(mode string) {
	if c == nil {
		return
	}
	c.guesses.WithLabelValues(mode).Inc()
}

// GameFinished records a terminal status ("won" or "lost").
func (c *Collector) GameFinished(mode, result string) {
	if c == nil {
		return
	}
	c.gamesFinished.WithLabelValues(mode, result).Inc()
}

// ObserveStore records one store call started at start.
func (c *Collector) ObserveStore(op string, start time.Time, err error) {
	if c == nil {
		return
	}
	c.storeDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		c.storeErrors.WithLabelValues(op).Inc()
	}
}
