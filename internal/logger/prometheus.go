package logger

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

var (
	statements     *prometheus.CounterVec //nolint:gochecknoglobals
	statementsOnce sync.Once              //nolint:gochecknoglobals
)

// PrometheusHook counts log statements per level in log_statements_total.
type PrometheusHook struct {
	counter *prometheus.CounterVec
}

// Run implements zerolog.Hook.
func (h PrometheusHook) Run(_ *zerolog.Event, level zerolog.Level, _ string) {
	if level == zerolog.NoLevel || h.counter == nil {
		return
	}

	h.counter.WithLabelValues(level.String()).Inc()
}

// NewPrometheusHook registers the counter on first use. promauto panics on a
// second registration, so the service and app labels of the first call stick.
func NewPrometheusHook(serviceName, appName string) PrometheusHook {
	statementsOnce.Do(func() {
		statements = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "log_statements_total",
				Help: "Number of log statements, differentiated by log level.",
				ConstLabels: prometheus.Labels{
					"service": serviceName,
					"app":     appName,
				},
			},
			[]string{"level"},
		)
	})

	return PrometheusHook{counter: statements}
}
