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

// Package xid generates process-wide unique identity values. It is the
// same pattern samber/ro uses for its subject observer indices
// (publishSubjectImpl.observerIndex, atomic.AddUint32), generalized to a
// single global 64-bit counter shared by every identity-bearing type in
// the engine (subscriptions, subscribers, conduits).
package xid

import "sync/atomic"

var counter uint64

// Next returns the next value in the process-wide identity sequence. It is
// safe for concurrent use. The zero value is never returned, so 0 can be
// used as an internal "unset" sentinel by callers.
func Next() uint64 {
	return atomic.AddUint64(&counter, 1)
}
