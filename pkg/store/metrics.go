/*
 * Copyright (c) 2019 OysterPack, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package store

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// metric names
const (
	MetricActionsTotal    = "isowords_store_actions_total"
	MetricEffectsInFlight = "isowords_store_effects_in_flight"
)

// Metrics are the store's prometheus metrics. A nil *Metrics is valid and records nothing.
type Metrics struct {
	actions         *prometheus.CounterVec
	effectsInFlight prometheus.Gauge
}

// NewMetrics constructs the store metrics and registers them with the specified registerer
func NewMetrics(registerer prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricActionsTotal,
			Help: "Number of actions reduced by the store, by action type",
		}, []string{"action"}),
		effectsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: MetricEffectsInFlight,
			Help: "Number of effects that are scheduled or running",
		}),
	}
	for _, c := range []prometheus.Collector{m.actions, m.effectsInFlight} {
		if err := registerer.Register(c); err != nil {
			return nil, errors.Wrap(err, "failed to register store metric")
		}
	}
	return m, nil
}

func (m *Metrics) actionReceived(action string) {
	if m == nil {
		return
	}
	m.actions.WithLabelValues(action).Inc()
}

func (m *Metrics) effectStarted() {
	if m == nil {
		return
	}
	m.effectsInFlight.Inc()
}

func (m *Metrics) effectFinished() {
	if m == nil {
		return
	}
	m.effectsInFlight.Dec()
}
