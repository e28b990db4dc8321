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

import "github.com/affinitypool/affinitypool/internal/fieldpath"

// extractKey returns the string value found by walking msg along the
// dotted keyPath, or "" if the path does not resolve to a string leaf.
func extractKey(msg interface{}, keyPath string) string {
	key, ok := fieldpath.Lookup(msg, keyPath)
	if !ok {
		return ""
	}
	return key
}
