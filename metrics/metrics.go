// Package metrics records validation runs as Prometheus metrics. A
// *Collector is a model.Observer: install it with model.WithObserver.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	modelkit "github.com/reoring/modelkit"
	"github.com/reoring/modelkit/model"
)

// Namespace prefixes every metric name.
const Namespace = "modelkit"

// Outcome label values.
const (
	OutcomeValid   = "valid"
	OutcomeInvalid = "invalid"
)

// IllegalField labels errors recorded under keys the schema does not declare,
// such as unknown keys rejected in strict mode.
const IllegalField = "_illegal"

// Collector holds the validation metrics.
type Collector struct {
	ValidationsTotal   *prometheus.CounterVec
	FieldErrorsTotal   *prometheus.CounterVec
	ValidationDuration *prometheus.HistogramVec
}

// New registers the metrics on the default registerer.
func New() *Collector { return NewWithRegistry(prometheus.DefaultRegisterer) }

// NewWithRegistry registers the metrics on reg.
func NewWithRegistry(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		ValidationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "validations_total",
				Help:      "Total number of validation runs",
			},
			[]string{"schema", "outcome"},
		),
		FieldErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "field_errors_total",
				Help:      "Total number of failing top-level fields by declared name",
			},
			[]string{"schema", "field"},
		),
		ValidationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "validation_duration_seconds",
				Help:      "Validation run duration in seconds",
				Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05, .1, .5, 1, 5},
			},
			[]string{"schema"},
		),
	}
}

// ObserveValidation implements model.Observer.
// Field labels are limited to the names the schema declares; list indices,
// dict keys and unknown input keys never become label values.
func (c *Collector) ObserveValidation(s *model.Schema, elapsed time.Duration, err *modelkit.ModelValidationError) {
	schema := s.Name()
	c.ValidationDuration.WithLabelValues(schema).Observe(elapsed.Seconds())
	if err.Empty() {
		c.ValidationsTotal.WithLabelValues(schema, OutcomeValid).Inc()
		return
	}
	c.ValidationsTotal.WithLabelValues(schema, OutcomeInvalid).Inc()
	for _, key := range err.Keys() {
		name, ok := s.ByWireName(key)
		if !ok {
			name = IllegalField
		}
		c.FieldErrorsTotal.WithLabelValues(schema, name).Inc()
	}
}
