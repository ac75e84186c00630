/*
	Copyright 2024 Google Inc.

	Licensed under the Apache License, Version 2.0 (the "License");
	you may not use this file except in compliance with the License.
	You may obtain a copy of the License at

			http://www.apache.org/licenses/LICENSE-2.0

	Unless required by applicable law or agreed to in writing, software
	distributed under the License is distributed on an "AS IS" BASIS,
	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
	See the License for the specific language governing permissions and
	limitations under the License.
*/

package criticalpath

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ilhamster/critpath/graph"
)

// Computation outcomes reported by Metrics.
const (
	outcomeOK        = "ok"
	outcomeViolation = "invariant_violation"
	outcomeError     = "error"
)

const (
	metricsNamespace = "critpath"
	metricsStrategy  = "strategy"
	metricsOutcome   = "outcome"
)

// Metrics holds Prometheus collectors describing critical path
// computations.  A nil *Metrics records nothing.
type Metrics struct {
	computations *prometheus.CounterVec
	unresolved   *prometheus.CounterVec
	depth        *prometheus.HistogramVec
}

// NewMetrics creates a Metrics whose collectors are registered with the
// provided registerer.  If reg is nil, the collectors are not registered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		computations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "computations_total",
			Help:      "Critical path computations, by strategy and outcome",
		}, []string{metricsStrategy, metricsOutcome}),
		unresolved: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "unresolved_blockings_total",
			Help:      "Blocking edges for which no wakeup source was found",
		}, []string{metricsStrategy}),
		depth: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "resolution_depth",
			Help:      "Deepest nested blocking resolution per computation",
			Buckets:   []float64{0, 1, 2, 4, 8, 16, 64, 256},
		}, []string{metricsStrategy}),
	}
}

func (m *Metrics) observe(strategy Strategy, err error, unresolved, depth int) {
	if m == nil {
		return
	}
	outcome := outcomeOK
	switch {
	case errors.Is(err, graph.ErrGraphInvariantViolation):
		outcome = outcomeViolation
	case err != nil:
		outcome = outcomeError
	}
	m.computations.WithLabelValues(strategy.String(), outcome).Inc()
	if err != nil {
		return
	}
	m.unresolved.WithLabelValues(strategy.String()).Add(float64(unresolved))
	m.depth.WithLabelValues(strategy.String()).Observe(float64(depth))
}
