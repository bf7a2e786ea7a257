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

import (
	"context"
	"fmt"

	"github.com/trailmark/reactor/internal/xsync"
)

// conduit is the per-downstream node inside a broadcast hub (C10): it owns
// one subscriber's demand accounting and, for the current-value variant,
// whether the current value has been synthesized to this conduit yet
// (spec §3/§4.6). It plays the Subscription role towards its downstream
// subscriber and is driven by the hub on the Subscriber side.
//
// Locking discipline (spec §5): the conduit's own lock is always taken
// before calling into the downstream, which is always done with the lock
// released ("release internal lock, hold downstream call, call downstream,
// re-acquire internal lock to apply returned demand" — the same monitor
// discipline samber/ro's subscriberImpl.NextWithContext uses around its
// mutex).
type conduit[T any] struct {
	mu         xsync.Mutex
	id         Identity
	downstream Subscriber[T]
	demand     Demand
	terminal   bool
	detach     func(Identity)

	// synthesizeCurrent, when non-nil, is called the first time this
	// conduit's demand goes from zero to non-zero. It returns the value to
	// synthesize and whether one is available. Only set by the
	// current-value hub variant.
	synthesizeCurrent func() (T, bool)
	synthesized       bool
}

var _ Subscription = (*conduit[int])(nil)

func newConduit[T any](downstream Subscriber[T], detach func(Identity), synthesizeCurrent func() (T, bool)) *conduit[T] {
	return &conduit[T]{
		mu:                xsync.NewMutexWithLock(),
		id:                NewIdentity(),
		downstream:        downstream,
		detach:            detach,
		synthesizeCurrent: synthesizeCurrent,
	}
}

// Request implements Subscription. It accumulates demand and, for the
// current-value variant, synthesizes the initial delivery the first time
// demand becomes available (spec §4.6: "on its first non-zero request,
// synthesizes a delivery of the current value").
func (c *conduit[T]) Request(d Demand) {
	requestMustBeNonZero(d)

	introspectWillDid(c.id, MethodRequest, d, func() {
		c.mu.Lock()
		if c.terminal {
			c.mu.Unlock()
			return
		}

		c.demand = c.demand.Add(d)

		var synth T
		doSynthesize := false
		if c.synthesizeCurrent != nil && !c.synthesized && c.demand.AtLeastOne() {
			if v, ok := c.synthesizeCurrent(); ok {
				synth = v
				doSynthesize = true
				c.synthesized = true
				c.demand = c.demand.Sub(NewDemand(1))
			}
		}
		c.mu.Unlock()

		if doSynthesize {
			more := c.downstream.OnNext(context.Background(), synth)
			c.mu.Lock()
			if !c.terminal {
				c.demand = c.demand.Add(more)
			}
			c.mu.Unlock()
		}
	})
}

// Cancel implements Subscription: detaches this conduit from its hub.
// Idempotent (testable property #7).
func (c *conduit[T]) Cancel() {
	introspectWillDid(c.id, MethodCancel, None, func() {
		c.mu.Lock()
		if c.terminal {
			c.mu.Unlock()
			return
		}
		c.terminal = true
		c.mu.Unlock()

		if c.detach != nil {
			c.detach(c.id)
		}
	})
}

// offer delivers v to this conduit if it has outstanding demand. If demand
// is zero, the value is dropped for this conduit only (the pass-through
// semantics). For the current-value variant, a zero-demand drop instead
// marks the current value as not-yet-delivered to this conduit (spec §3:
// "deferred until demand arrives (current-value variant, which retains the
// latest)"; §4.6: "mark 'current value not yet delivered'"), so the next
// Request re-synthesizes the now-updated retained value instead of the
// stale one it already delivered.
func (c *conduit[T]) offer(ctx context.Context, v T) {
	introspectWillDid(c.id, MethodReceiveValue, None, func() {
		c.mu.Lock()
		if c.terminal {
			c.mu.Unlock()
			return
		}

		if !c.demand.AtLeastOne() {
			if c.synthesizeCurrent != nil {
				c.synthesized = false
			}
			c.mu.Unlock()
			OnDroppedNotification(ctx, NewNotificationNext(v))
			return
		}

		c.demand = c.demand.Sub(NewDemand(1))
		c.mu.Unlock()

		more := c.downstream.OnNext(ctx, v)

		c.mu.Lock()
		if !c.terminal {
			c.demand = c.demand.Add(more)
		}
		c.mu.Unlock()
	})
}

// deliverCompletion delivers a terminal signal unconditionally (terminal
// delivery bypasses demand gating, spec §4.7's "errors bypass backpressure"
// generalized to every hub completion) and marks the conduit terminal. The
// hub itself drops its whole conduit table when it completes.
func (c *conduit[T]) deliverCompletion(ctx context.Context, comp Completion) {
	introspectWillDid(c.id, MethodReceiveCompletion, None, func() {
		c.mu.Lock()
		if c.terminal {
			c.mu.Unlock()
			return
		}
		c.terminal = true
		c.mu.Unlock()

		c.downstream.OnCompletion(ctx, comp)
	})
}

// notification is a minimal fmt.Stringer adapter so dropped values/
// completions can be reported through OnDroppedNotification without
// resurrecting the teacher's full Notification[T] union (this engine's
// Completion already covers the terminal half).
type notification[T any] struct {
	isValue bool
	value   T
	comp    Completion
}

func (n notification[T]) String() string {
	if n.isValue {
		return "Next(...)"
	}
	return n.comp.String()
}

// NewNotificationNext builds a droppable-notification view of a value, for
// reporting through OnDroppedNotification.
func NewNotificationNext[T any](value T) fmt.Stringer {
	return notification[T]{isValue: true, value: value}
}

// NewNotificationCompletion builds a droppable-notification view of a
// Completion, for reporting through OnDroppedNotification.
func NewNotificationCompletion[T any](c Completion) fmt.Stringer {
	return notification[T]{comp: c}
}
