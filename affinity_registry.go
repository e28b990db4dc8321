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

// AffinityRegistry maps affinity keys to the ChannelRef currently holding
// them. It owns the bind lock referenced throughout the package: bind,
// unbind and lookup all serialize under it, and it is the only place that
// mutates a ChannelRef's affinity counter.
type AffinityRegistry struct {
	mu    sync.Mutex
	byKey map[string]*ChannelRef
}

// NewAffinityRegistry returns an empty registry.
func NewAffinityRegistry() *AffinityRegistry {
	return &AffinityRegistry{byKey: make(map[string]*ChannelRef)}
}

// Lookup returns the ChannelRef bound to key, if any.
func (r *AffinityRegistry) Lookup(key string) (*ChannelRef, bool) {
	if key == "" {
		return nil, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	ref, ok := r.byKey[key]
	return ref, ok
}

// Bind associates key with ref. The first binding of a given key wins:
// if key is already bound, Bind only increments the counter of whichever
// ChannelRef it is already bound to, it never rebinds the key to ref.
func (r *AffinityRegistry) Bind(ref *ChannelRef, key string) {
	if ref == nil || key == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	bound, ok := r.byKey[key]
	if !ok {
		r.byKey[key] = ref
		bound = ref
	}
	bound.incrAffinity()
}

// Unbind releases one holder of key. When the bound ChannelRef's affinity
// count reaches zero, every key still mapping to it is purged, since no
// logical holder of that channel remains.
func (r *AffinityRegistry) Unbind(key string) {
	if key == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	ref, ok := r.byKey[key]
	if !ok {
		return
	}
	ref.decrAffinity()
	if ref.affinityCount != 0 {
		return
	}
	for k, v := range r.byKey {
		if v == ref {
			delete(r.byKey, k)
		}
	}
}

// Size returns the number of bound keys. Used by tests and diagnostics.
func (r *AffinityRegistry) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byKey)
}
