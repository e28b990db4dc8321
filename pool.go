/*
 *
 * Copyright 2019 gRPC authors.
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
	"fmt"
	"os"
	"sort"
	"sync"

	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/grpclog"
)

var logger = grpclog.Component("affinitypool")

// ChannelPool multiplexes calls across a bounded set of Channels, routing
// by affinity key when one applies and by least-active-streams otherwise.
// It owns the pool lock (guarding channels and every member's
// activeStreams counter) and a disjoint AffinityRegistry that owns the
// bind lock; the two locks are never held together.
type ChannelPool struct {
	mu       sync.Mutex
	channels []*ChannelRef
	nextID   int

	builder ChannelBuilder
	cfg     *Config

	registry *AffinityRegistry
	metrics  *Metrics
}

// New constructs a ChannelPool using builder to dial channels and cfg for
// limits and method affinity. A nil cfg is equivalent to DefaultConfig.
// Exactly one Channel is created eagerly, so Authority and State are
// always well-defined immediately after construction.
func New(builder ChannelBuilder, cfg *Config, opts ...Option) (*ChannelPool, error) {
	if builder == nil {
		return nil, fmt.Errorf("affinitypool: builder is required")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}

	p := &ChannelPool{
		builder:  builder,
		cfg:      cfg,
		registry: NewAffinityRegistry(),
	}
	for _, opt := range opts {
		opt(p)
	}

	if _, err := p.grow(); err != nil {
		return nil, fmt.Errorf("affinitypool: creating initial channel: %w", err)
	}
	return p, nil
}

// Option configures optional ChannelPool behavior.
type Option func(*ChannelPool)

// WithMetrics attaches an optional Metrics recorder. Pools created
// without this option record nothing.
func WithMetrics(m *Metrics) Option {
	return func(p *ChannelPool) {
		p.metrics = m
		m.attach(p)
	}
}

// NewFromFile is a convenience constructor that loads the config document
// at path (falling back to defaults and logging once on a missing or
// malformed file) before calling New.
func NewFromFile(builder ChannelBuilder, path string, opts ...Option) (*ChannelPool, error) {
	cfg, err := Load(path)
	if err != nil {
		logger.Warningf("affinitypool: failed to load config %q, using defaults: %v", path, err)
		cfg = DefaultConfig()
	} else if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		logger.Warningf("affinitypool: config %q not found, using defaults", path)
	}
	return New(builder, cfg, opts...)
}

// MaxSize returns the pool's capacity cap.
func (p *ChannelPool) MaxSize() int {
	return p.cfg.MaxSize
}

// StreamsLowWatermark returns the per-channel growth threshold.
func (p *ChannelPool) StreamsLowWatermark() int {
	return p.cfg.StreamsLowWatermark
}

// NumberOfChannels returns the current number of member channels.
func (p *ChannelPool) NumberOfChannels() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.channels)
}

// Authority delegates to the first channel, which always exists once the
// pool is constructed.
func (p *ChannelPool) Authority() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.channels[0].channel.Authority()
}

// pick implements the pool's selection policy: route by affinity key
// when one is bound, otherwise to the least-loaded channel, growing the
// pool when every member is at or above the low watermark and the pool
// has room to grow. An empty key is treated as unkeyed. Affinity lookup
// happens entirely under the registry's bind lock; everything else
// happens entirely under the pool lock; the two are never held together.
func (p *ChannelPool) pick(key string) *ChannelRef {
	if key != "" {
		if ref, ok := p.registry.Lookup(key); ok {
			p.recordPick(pickOutcomeAffinityHit)
			return ref
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	sort.Slice(p.channels, func(i, j int) bool {
		if p.channels[i].activeStreams != p.channels[j].activeStreams {
			return p.channels[i].activeStreams < p.channels[j].activeStreams
		}
		return p.channels[i].id < p.channels[j].id
	})

	if len(p.channels) > 0 && p.channels[0].activeStreams < p.cfg.StreamsLowWatermark {
		p.recordPick(pickOutcomeLeastLoaded)
		return p.channels[0]
	}

	if len(p.channels) < p.cfg.MaxSize {
		ref, err := p.growLocked()
		if err == nil {
			p.recordPick(pickOutcomeGrown)
			return ref
		}
		logger.Warningf("affinitypool: failed to grow pool, reusing least-loaded channel: %v", err)
	}

	if len(p.channels) == 0 {
		return nil
	}
	p.recordPick(pickOutcomeSaturated)
	return p.channels[0]
}

// grow dials and appends one new ChannelRef, taking the pool lock itself.
func (p *ChannelPool) grow() (*ChannelRef, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.growLocked()
}

// growLocked is grow's body; the caller must already hold p.mu.
func (p *ChannelPool) growLocked() (*ChannelRef, error) {
	ch, err := p.builder.Build()
	if err != nil {
		return nil, err
	}
	ref := newChannelRef(ch, p.nextID)
	p.nextID++
	p.channels = append(p.channels, ref)
	return ref, nil
}

// Shutdown initiates a graceful shutdown of every member channel and
// returns immediately. Idempotent.
func (p *ChannelPool) Shutdown() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, ref := range p.channels {
		ref.channel.Shutdown()
	}
}

// ShutdownNow forces an immediate shutdown of every member channel that
// has not yet terminated. Idempotent.
func (p *ChannelPool) ShutdownNow() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, ref := range p.channels {
		if !ref.channel.IsTerminated() {
			ref.channel.ShutdownNow()
		}
	}
}

// IsShutdown reports whether every member channel has been shut down.
func (p *ChannelPool) IsShutdown() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, ref := range p.channels {
		if !ref.channel.IsShutdown() {
			return false
		}
	}
	return true
}

// IsTerminated reports whether every member channel has fully terminated.
func (p *ChannelPool) IsTerminated() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.isTerminatedLocked()
}

func (p *ChannelPool) isTerminatedLocked() bool {
	for _, ref := range p.channels {
		if !ref.channel.IsTerminated() {
			return false
		}
	}
	return true
}

// AwaitTermination waits on each member channel in turn until ctx is done
// or all channels have terminated, returning IsTerminated's final value.
// It is the only blocking pool operation.
func (p *ChannelPool) AwaitTermination(ctx context.Context) bool {
	p.mu.Lock()
	channels := append([]*ChannelRef(nil), p.channels...)
	p.mu.Unlock()

	for _, ref := range channels {
		if ref.channel.IsTerminated() {
			continue
		}
		if ctx.Err() != nil {
			break
		}
		ref.channel.AwaitTermination(ctx)
	}
	return p.IsTerminated()
}

// State tallies every member channel's connectivity state and returns the
// first non-zero bucket in priority order READY > CONNECTING >
// TRANSIENT_FAILURE > IDLE > SHUTDOWN. An empty pool returns
// connectivity.Shutdown as the "no state" sentinel.
func (p *ChannelPool) State(requestConnection bool) connectivity.State {
	p.mu.Lock()
	channels := append([]*ChannelRef(nil), p.channels...)
	p.mu.Unlock()

	var ready, connecting, transientFailure, idle, shutdown int
	for _, ref := range channels {
		switch ref.channel.GetState(requestConnection) {
		case connectivity.Ready:
			ready++
		case connectivity.Connecting:
			connecting++
		case connectivity.TransientFailure:
			transientFailure++
		case connectivity.Idle:
			idle++
		case connectivity.Shutdown:
			shutdown++
		}
	}

	switch {
	case ready > 0:
		return connectivity.Ready
	case connecting > 0:
		return connectivity.Connecting
	case transientFailure > 0:
		return connectivity.TransientFailure
	case idle > 0:
		return connectivity.Idle
	default:
		return connectivity.Shutdown
	}
}

func (p *ChannelPool) recordPick(outcome pickOutcome) {
	if p.metrics == nil {
		return
	}
	p.metrics.recordPick(outcome)
}
