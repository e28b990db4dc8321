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
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// DefaultMaxSize is the pool capacity cap applied when the config omits
// channelPool.maxSize or sets it to zero.
const DefaultMaxSize = 10

// DefaultStreamsLowWatermark is the per-channel active-stream threshold
// applied when the config omits channelPool.maxConcurrentStreamsLowWatermark
// or sets it to zero.
const DefaultStreamsLowWatermark = 100

// Config holds the decoded pool limits and method-affinity table. The
// zero Config is not valid; use DefaultConfig or Load/Decode.
type Config struct {
	MaxSize             int
	StreamsLowWatermark int
	MethodAffinity      MethodAffinityTable
}

// DefaultConfig returns the configuration a pool gets when none is
// supplied: default limits and an empty affinity table.
func DefaultConfig() *Config {
	return &Config{
		MaxSize:             DefaultMaxSize,
		StreamsLowWatermark: DefaultStreamsLowWatermark,
		MethodAffinity:      MethodAffinityTable{},
	}
}

// configDoc is the wire shape of the JSON config document. Field names
// match the documented JSON keys; unknown fields are ignored by
// encoding/json by default.
type configDoc struct {
	ChannelPool *channelPoolDoc `json:"channelPool"`
	Method      []methodDoc     `json:"method"`
}

type channelPoolDoc struct {
	MaxSize                          int `json:"maxSize"`
	MaxConcurrentStreamsLowWatermark int `json:"maxConcurrentStreamsLowWatermark"`
}

type methodDoc struct {
	Name     []string     `json:"name"`
	Affinity *affinityDoc `json:"affinity"`
}

type affinityDoc struct {
	AffinityKey string `json:"affinityKey"`
	Command     string `json:"command"`
}

// Load reads and decodes a config document from path. A missing file is
// not an error: it returns DefaultConfig.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, &ConfigError{Path: path, Err: err}
	}
	defer f.Close()
	cfg, err := Decode(f)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}
	return cfg, nil
}

// Decode decodes a config document from r: non-zero overrides win over
// defaults, and method entries whose affinity is unset are ignored.
func Decode(r io.Reader) (*Config, error) {
	var doc configDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("affinitypool: malformed config: %w", err)
	}

	cfg := DefaultConfig()
	if doc.ChannelPool != nil {
		if doc.ChannelPool.MaxSize != 0 {
			cfg.MaxSize = doc.ChannelPool.MaxSize
		}
		if doc.ChannelPool.MaxConcurrentStreamsLowWatermark != 0 {
			cfg.StreamsLowWatermark = doc.ChannelPool.MaxConcurrentStreamsLowWatermark
		}
	}

	for _, m := range doc.Method {
		if m.Affinity == nil {
			continue
		}
		cmd, err := ParseCommand(m.Affinity.Command)
		if err != nil {
			return nil, fmt.Errorf("affinitypool: method %v: %w", m.Name, err)
		}
		affinity := AffinityConfig{KeyPath: m.Affinity.AffinityKey, Command: cmd}
		if affinity.isZero() {
			continue
		}
		for _, name := range m.Name {
			cfg.MethodAffinity[name] = affinity
		}
	}
	return cfg, nil
}

// Encode writes cfg back out as a config document in the shape Decode
// reads, so effective pool configuration can be introspected and diffed
// rather than only ever flowing one way from disk.
func (cfg *Config) Encode(w io.Writer) error {
	doc := configDoc{
		ChannelPool: &channelPoolDoc{
			MaxSize:                          cfg.MaxSize,
			MaxConcurrentStreamsLowWatermark: cfg.StreamsLowWatermark,
		},
	}
	byAffinity := make(map[AffinityConfig][]string)
	for name, affinity := range cfg.MethodAffinity {
		byAffinity[affinity] = append(byAffinity[affinity], name)
	}
	for affinity, names := range byAffinity {
		doc.Method = append(doc.Method, methodDoc{
			Name: names,
			Affinity: &affinityDoc{
				AffinityKey: affinity.KeyPath,
				Command:     affinity.Command.String(),
			},
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// ConfigError wraps a config-loading failure with the path that produced
// it. NewFromFile never surfaces this upward: it logs it once via grpclog
// and proceeds with defaults. Callers using Load directly get this
// instead; Decode returns its errors without this wrapper.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("affinitypool: config %q: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
