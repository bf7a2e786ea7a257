// Copyright 2025 trailmark.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// https://github.com/trailmark/reactor/blob/main/licenses/LICENSE.apache.md
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package reactor

import "github.com/trailmark/reactor/internal/xid"

// Identity is an opaque, process-wide unique id assigned to a subscription
// or subscriber. It exists purely for debugging and hashing purposes (e.g.
// grouping log lines from the same pipeline run, or using a subscription as
// a map key without relying on pointer identity leaking into logs).
type Identity uint64

// NewIdentity allocates the next Identity in the process-wide sequence.
func NewIdentity() Identity {
	return Identity(xid.Next())
}

// String implements fmt.Stringer.
func (id Identity) String() string {
	return "#" + uitoa(uint64(id))
}

func uitoa(v uint64) string {
	if v == 0 {
		return "0"
	}

	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}

	return string(buf[i:])
}
