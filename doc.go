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

/*
Package affinitypool provides a client-side RPC channel pool with
affinity-based routing. It multiplexes logical calls across a bounded set
of Channels, routing a call either to the Channel already bound to an
application-supplied affinity key, or to the least-loaded Channel when no
affinity applies.

Note: "channel" here means a logical, long-lived transport connection;
dialing, TLS, and wire framing are the caller's concern (see Channel and
ChannelBuilder).

Usage:

1. Initialize configuration, either from a JSON document:

	// some_api_config.json
	{
		"channelPool": {
			"maxSize": 10,
			"maxConcurrentStreamsLowWatermark": 1
		},
		"method": [
			{
				"name": [ "/some.api.v1/Method1" ],
				"affinity": { "command": "BIND", "affinityKey": "key1" }
			},
			{
				"name": [ "/some.api.v1/Method2" ],
				"affinity": { "command": "BOUND", "affinityKey": "key2" }
			},
			{
				"name": [ "/some.api.v1/Method3" ],
				"affinity": { "command": "UNBIND", "affinityKey": "key3" }
			}
		]
	}

	cfg, err := affinitypool.Load("some_api_config.json")

or directly:

	cfg := &affinitypool.Config{
		MaxSize:             10,
		StreamsLowWatermark: 1,
		MethodAffinity: affinitypool.MethodAffinityTable{
			"/some.api.v1/Method1": {KeyPath: "key1", Command: affinitypool.CommandBind},
			"/some.api.v1/Method2": {KeyPath: "key2", Command: affinitypool.CommandBound},
			"/some.api.v1/Method3": {KeyPath: "key3", Command: affinitypool.CommandUnbind},
		},
	}

2. Construct the pool with a ChannelBuilder that dials real connections:

	pool, err := affinitypool.New(myBuilder, cfg)

3. Drive calls through the affinity state machine:

	call := pool.NewCall("/some.api.v1/Method1")
	ch := call.Channel(req)       // selects/creates the channel
	// ... invoke the RPC on ch, however that's done ...
	call.OnResponse(resp)         // binds the key for BIND methods
	call.OnTerminal()             // decrements streams, unbinds for UNBIND methods
*/
package affinitypool // import "github.com/affinitypool/affinitypool"
