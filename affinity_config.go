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

import "fmt"

// Command is an affinity directive attached to a method.
type Command int

const (
	// CommandUnspecified is the zero value: the method has no affinity
	// behavior. The config loader ignores an entry with this command only
	// when its key path is also empty.
	CommandUnspecified Command = iota
	// CommandBind establishes a new binding from the call's response.
	CommandBind
	// CommandUnbind routes by the call's request key and releases the
	// binding once the call completes.
	CommandUnbind
	// CommandBound routes by the call's request key and preserves the
	// binding.
	CommandBound
)

func (c Command) String() string {
	switch c {
	case CommandBind:
		return "BIND"
	case CommandUnbind:
		return "UNBIND"
	case CommandBound:
		return "BOUND"
	default:
		return "UNSPECIFIED"
	}
}

// ParseCommand parses the string enum used in the config document.
func ParseCommand(s string) (Command, error) {
	switch s {
	case "", "UNSPECIFIED":
		return CommandUnspecified, nil
	case "BIND":
		return CommandBind, nil
	case "UNBIND":
		return CommandUnbind, nil
	case "BOUND":
		return CommandBound, nil
	default:
		return CommandUnspecified, fmt.Errorf("affinitypool: unknown affinity command %q", s)
	}
}

// AffinityConfig is the per-method affinity directive: a dotted key path
// into the request/response message, and the command describing how that
// key drives channel selection and binding.
type AffinityConfig struct {
	KeyPath string
	Command Command
}

// isZero reports whether cfg is the default/unset affinity, which the
// config loader ignores.
func (cfg AffinityConfig) isZero() bool {
	return cfg.Command == CommandUnspecified && cfg.KeyPath == ""
}

// MethodAffinityTable maps a fully-qualified method name to its affinity
// directive.
type MethodAffinityTable map[string]AffinityConfig
