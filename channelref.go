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

	"google.golang.org/grpc/connectivity"
)

// Channel is the out-of-scope transport channel this module pools. A real
// binding dials, frames and serializes; affinitypool only ever sees this
// interface.
type Channel interface {
	// Shutdown initiates a graceful close and returns immediately.
	Shutdown()
	// ShutdownNow forces an immediate close.
	ShutdownNow()
	// IsShutdown reports whether Shutdown or ShutdownNow has been called.
	IsShutdown() bool
	// IsTerminated reports whether the channel has fully drained and closed.
	IsTerminated() bool
	// AwaitTermination blocks until the channel terminates or ctx is done,
	// returning whether it terminated.
	AwaitTermination(ctx context.Context) bool
	// GetState reports the channel's current connectivity state. When
	// requestConnection is true, an idle channel is nudged to connect.
	GetState(requestConnection bool) connectivity.State
	// Authority returns the channel's authority string.
	Authority() string
}

// ChannelBuilder dials a new Channel on demand. Pool growth calls Build
// exactly once per new member.
type ChannelBuilder interface {
	Build() (Channel, error)
}

// ChannelRef wraps one pooled Channel with the two counters the selection
// policy and the affinity registry need. Its counters are plain ints: the
// pool lock guards activeStreams, the registry's bind lock guards
// affinityCount (see the locking notes on ChannelPool). A
// ChannelRef never locks itself.
type ChannelRef struct {
	channel       Channel
	id            int
	activeStreams int
	affinityCount int
}

func newChannelRef(ch Channel, id int) *ChannelRef {
	return &ChannelRef{channel: ch, id: id}
}

// ID returns the ChannelRef's stable, non-negative identity.
func (c *ChannelRef) ID() int {
	return c.id
}

// Channel returns the wrapped transport channel.
func (c *ChannelRef) Channel() Channel {
	return c.channel
}

// Streams returns the current active-stream count.
func (c *ChannelRef) Streams() int {
	return c.activeStreams
}

// Affinity returns the current affinity-binding count.
func (c *ChannelRef) Affinity() int {
	return c.affinityCount
}

func (c *ChannelRef) incrStreams() {
	c.activeStreams++
}

func (c *ChannelRef) decrStreams() {
	if c.activeStreams == 0 {
		return
	}
	c.activeStreams--
}

func (c *ChannelRef) incrAffinity() {
	c.affinityCount++
}

func (c *ChannelRef) decrAffinity() {
	if c.affinityCount == 0 {
		return
	}
	c.affinityCount--
}
