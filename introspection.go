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

import "sync"

// IntrospectionMethod names the protocol entry point an IntrospectionEvent
// was raised around (C17, spec §4.12).
type IntrospectionMethod string

const (
	MethodSubscribe          IntrospectionMethod = "subscribe"
	MethodRequest            IntrospectionMethod = "request"
	MethodCancel             IntrospectionMethod = "cancel"
	MethodReceiveValue       IntrospectionMethod = "receive_value"
	MethodReceiveCompletion  IntrospectionMethod = "receive_completion"
)

// IntrospectionPhase distinguishes the "about to run" and "just ran" sides
// of a tapped call.
type IntrospectionPhase uint8

const (
	PhaseWill IntrospectionPhase = iota
	PhaseDid
)

// IntrospectionEvent describes one tapped protocol call.
type IntrospectionEvent struct {
	Source Identity
	Method IntrospectionMethod
	Phase  IntrospectionPhase
	Demand Demand // populated for Method == MethodRequest
}

// IntrospectionObserver receives every tapped event from every installed
// observer's perspective — there is no ordering guarantee between multiple
// observers (spec §4.12).
type IntrospectionObserver interface {
	Observe(ev IntrospectionEvent)
}

// IntrospectionObserverFunc adapts a plain function to IntrospectionObserver.
type IntrospectionObserverFunc func(ev IntrospectionEvent)

func (f IntrospectionObserverFunc) Observe(ev IntrospectionEvent) { f(ev) }

// introspectionRegistry is the process-wide mutable observer set. It is
// lazily initialized and guarded by its own mutex, per spec §4.12/§9's
// "Global hook registry" design note. The other process-wide mutable state
// is the identity counter in internal/xid and the error/dropped-notification
// hooks in errors.go.
var introspectionRegistry struct {
	mu        sync.RWMutex
	observers map[*introspectionHandle]IntrospectionObserver
}

type introspectionHandle struct{}

// RegisterIntrospectionObserver installs o and returns a Cancellable that
// removes it. Installing the first observer (or removing the last one) is
// the only time this registry's mutex sees write contention; with zero
// observers installed, every tapped call pays only two read-locked length
// checks (see introspectWillDid).
func RegisterIntrospectionObserver(o IntrospectionObserver) Cancellable {
	h := &introspectionHandle{}

	introspectionRegistry.mu.Lock()
	if introspectionRegistry.observers == nil {
		introspectionRegistry.observers = make(map[*introspectionHandle]IntrospectionObserver)
	}
	introspectionRegistry.observers[h] = o
	introspectionRegistry.mu.Unlock()

	return NewCancellable(func() {
		introspectionRegistry.mu.Lock()
		delete(introspectionRegistry.observers, h)
		introspectionRegistry.mu.Unlock()
	})
}

// introspectionActive is the fast-path guard: a single read-locked map
// length check, no allocation.
func introspectionActive() bool {
	introspectionRegistry.mu.RLock()
	n := len(introspectionRegistry.observers)
	introspectionRegistry.mu.RUnlock()
	return n > 0
}

func introspectionNotify(ev IntrospectionEvent) {
	introspectionRegistry.mu.RLock()
	defer introspectionRegistry.mu.RUnlock()
	for _, o := range introspectionRegistry.observers {
		o.Observe(ev)
	}
}

// introspectWillDid runs action, surrounding it with will_*/did_* events
// when at least one observer is installed. It checks introspectionActive
// twice — once before action, once after — rather than caching the result,
// which is the "exactly two guarded checks in the fast path" the spec
// calls for: with no observers installed, this costs two RLock/len checks
// and nothing else.
func introspectWillDid(source Identity, method IntrospectionMethod, d Demand, action func()) {
	if introspectionActive() {
		introspectionNotify(IntrospectionEvent{Source: source, Method: method, Phase: PhaseWill, Demand: d})
	}
	action()
	if introspectionActive() {
		introspectionNotify(IntrospectionEvent{Source: source, Method: method, Phase: PhaseDid, Demand: d})
	}
}
