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

import "sync"

// Call decorates a single outbound RPC invocation, driving the affinity
// binding state machine. Applications drive it through the lifecycle
// methods below; it never retries and never touches the underlying RPC
// mechanics beyond exposing the chosen Channel.
type Call struct {
	pool        *ChannelPool
	method      string
	affinity    AffinityConfig
	hasAffinity bool

	once   sync.Once
	ref    *ChannelRef
	reqKey string
}

// NewCall starts a call to method. If method has a configured
// AffinityConfig, the call runs in affinity mode; otherwise it routes
// unkeyed.
func (p *ChannelPool) NewCall(method string) *Call {
	c := &Call{pool: p, method: method}
	c.affinity, c.hasAffinity = p.cfg.MethodAffinity[method]
	return c
}

// Channel returns the Channel this call is bound to. It selects the
// channel on first invocation: for unkeyed calls and for BOUND/UNBIND
// affinity, that happens immediately; for BIND affinity, selection is
// also immediate and unkeyed, since the binding itself is only
// established later, from the response, in OnResponse.
func (c *Call) Channel(req interface{}) Channel {
	c.once.Do(func() {
		key := ""
		if c.hasAffinity && (c.affinity.Command == CommandBound || c.affinity.Command == CommandUnbind) {
			key = extractKey(req, c.affinity.KeyPath)
		}
		c.reqKey = key
		c.ref = c.pool.pick(key)
		if c.ref != nil {
			c.pool.mu.Lock()
			c.ref.incrStreams()
			c.pool.mu.Unlock()
		}
	})
	if c.ref == nil {
		return nil
	}
	return c.ref.channel
}

// OnResponse runs the response-time half of affinity mode: for BIND, it
// extracts the key from the successful response and establishes the
// binding. Call with every successful response; for unary/
// server-streaming there is exactly one, so calling it once is correct.
// Calling it for a failed response is a caller error; OnTerminal still
// runs correctly regardless.
func (c *Call) OnResponse(resp interface{}) {
	if !c.hasAffinity || c.affinity.Command != CommandBind || c.ref == nil {
		return
	}
	key := extractKey(resp, c.affinity.KeyPath)
	if key == "" {
		return
	}
	c.pool.registry.Bind(c.ref, key)
}

// OnTerminal runs the call's terminal event: decrement the active stream
// count, and if the call was UNBIND-affinitized, release the binding.
// Safe to call even if Channel was never invoked (e.g. the call was
// cancelled before sending). Call exactly once; it is the call's
// terminal event.
func (c *Call) OnTerminal() {
	if c.ref == nil {
		return
	}
	c.pool.mu.Lock()
	c.ref.decrStreams()
	c.pool.mu.Unlock()

	if c.hasAffinity && c.affinity.Command == CommandUnbind && c.reqKey != "" {
		c.pool.registry.Unbind(c.reqKey)
	}
}

// StreamCall decorates a client-streaming or bidirectional call. Channel
// selection is deferred to the first Send: for BOUND/UNBIND affinity the
// routing key can only be read off the first request message.
type StreamCall struct {
	call     *Call
	recvOnce sync.Once
	termOnce sync.Once
}

// NewStreamCall starts a streaming call to method.
func (p *ChannelPool) NewStreamCall(method string) *StreamCall {
	return &StreamCall{call: p.NewCall(method)}
}

// Send selects the channel on the first call (using req for affinity-key
// extraction when applicable) and is a no-op for routing on subsequent
// calls, since the channel is pinned for the stream's lifetime.
func (s *StreamCall) Send(req interface{}) Channel {
	return s.call.Channel(req)
}

// Recv runs the BIND-side extraction exactly once, on the first
// successful response.
func (s *StreamCall) Recv(resp interface{}) {
	s.recvOnce.Do(func() {
		s.call.OnResponse(resp)
	})
}

// Close is the stream's terminal event; safe to call multiple times, it
// only takes effect once.
func (s *StreamCall) Close() {
	s.termOnce.Do(func() {
		s.call.OnTerminal()
	})
}
