/*
 *
 * Copyright 2023 gRPC authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

package affinitypool

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// pickOutcome classifies which branch of the selection policy served a
// call, for the affinitypool.pick_count counter's "outcome" attribute.
type pickOutcome string

const (
	pickOutcomeAffinityHit pickOutcome = "affinity_hit"
	pickOutcomeLeastLoaded pickOutcome = "least_loaded"
	pickOutcomeGrown       pickOutcome = "grown"
	pickOutcomeSaturated   pickOutcome = "saturated"
)

// Metrics records optional OpenTelemetry instrumentation for a
// ChannelPool: how many channels it holds, how many affinity bindings are
// outstanding, and which branch of the selection policy served each pick.
// Per-channel active-stream counts are not recorded. Attaching a Metrics is purely
// observational — nothing in the selection or binding logic depends on it.
type Metrics struct {
	channels  metric.Int64ObservableGauge
	bindings  metric.Int64ObservableGauge
	pickCount metric.Int64Counter

	pool *ChannelPool
}

// NewMetrics builds a Metrics recorder against the given meter, naming
// instruments the way the teacher's GCPFallback names its OpenTelemetry
// instruments ("eef.*" prefix replaced with "affinitypool.*" for this
// package's domain).
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	pickCount, err := meter.Int64Counter(
		"affinitypool.pick_count",
		metric.WithDescription("Number of channel selections, by outcome."),
		metric.WithUnit("{pick}"),
	)
	if err != nil {
		return nil, err
	}
	m.pickCount = pickCount

	channels, err := meter.Int64ObservableGauge(
		"affinitypool.channels",
		metric.WithDescription("Number of member channels currently in the pool."),
		metric.WithUnit("{channel}"),
		metric.WithInt64Callback(m.observeChannels),
	)
	if err != nil {
		return nil, err
	}
	m.channels = channels

	bindings, err := meter.Int64ObservableGauge(
		"affinitypool.affinity_bindings",
		metric.WithDescription("Number of distinct affinity keys currently bound."),
		metric.WithUnit("{binding}"),
		metric.WithInt64Callback(m.observeBindings),
	)
	if err != nil {
		return nil, err
	}
	m.bindings = bindings

	return m, nil
}

// attach associates m with the pool it instruments. Called once, from
// WithMetrics during New.
func (m *Metrics) attach(p *ChannelPool) {
	m.pool = p
}

func (m *Metrics) observeChannels(ctx context.Context, o metric.Int64Observer) error {
	if m.pool == nil {
		return nil
	}
	o.Observe(int64(m.pool.NumberOfChannels()))
	return nil
}

func (m *Metrics) observeBindings(ctx context.Context, o metric.Int64Observer) error {
	if m.pool == nil {
		return nil
	}
	o.Observe(int64(m.pool.registry.Size()))
	return nil
}

func (m *Metrics) recordPick(outcome pickOutcome) {
	m.pickCount.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("outcome", string(outcome)),
	))
}
