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
	"runtime"

	"github.com/trailmark/reactor/internal/xsync"
)

// Subject is a broadcast hub (spec §4.6, C10): a Publisher that is also
// directly driven by imperative SendValue/SendCompletion calls and
// multicasts to every attached conduit. A Subject can itself be subscribed
// to an upstream Publisher (it implements Subscriber), in which case it
// acts as an upstream feeder multiplexer: feeders are requested Unlimited
// so the hub observes every value, and backpressure is enforced per
// downstream conduit instead (spec §3's "Broadcast hub conduits"
// invariants).
type Subject[T any] interface {
	Publisher[T]
	Subscriber[T]

	SendValue(ctx context.Context, value T)
	SendCompletion(ctx context.Context, c Completion)
}

// hubCore is the shared skeleton behind both broadcast-hub variants
// (pass-through and current-value). Grounded on samber/ro's
// publishSubjectImpl (subject_publish.go): a status field, a collection of
// attached downstreams, and a stored terminal Completion replayed to late
// subscribers — generalized here with per-conduit demand accounting
// instead of samber/ro's unconditional fanout, and with the ability to
// retain upstream feeder Subscriptions (spec §4.6's "Upstream feeder
// handling").
type hubCore[T any] struct {
	mu         xsync.Mutex
	conduits   map[Identity]*conduit[T]
	completed  bool
	completion Completion

	upstreamFeeders *CancellableBag

	// synthesizeCurrent is nil for the pass-through variant; for the
	// current-value variant it reads the retained current value under the
	// hub's own value lock (see subject_current_value.go).
	synthesizeCurrent func() (T, bool)
}

func newHubCore[T any](synthesizeCurrent func() (T, bool)) hubCore[T] {
	h := hubCore[T]{
		mu:                xsync.NewMutexWithLock(),
		conduits:          make(map[Identity]*conduit[T]),
		upstreamFeeders:   NewCancellableBag(),
		synthesizeCurrent: synthesizeCurrent,
	}
	return h
}

// Subscribe implements Publisher. If the hub has already observed a
// completion, the new subscriber is synthesized an empty Subscription
// followed immediately by the stored completion (spec §4.6, testable
// property #11). Otherwise a conduit is attached and handed to the
// subscriber as its Subscription.
func (h *hubCore[T]) subscribe(ctx context.Context, sub Subscriber[T]) {
	id := NewIdentity()
	introspectWillDid(id, MethodSubscribe, None, func() {
		h.mu.Lock()
		if h.completed {
			comp := h.completion
			h.mu.Unlock()

			sub.OnSubscribe(ctx, EmptySubscription())
			sub.OnCompletion(ctx, comp)
			return
		}

		c := newConduit(sub, h.detach, h.synthesizeCurrent)
		h.conduits[c.id] = c
		h.mu.Unlock()

		sub.OnSubscribe(ctx, c)
	})
}

func (h *hubCore[T]) detach(id Identity) {
	h.mu.Lock()
	delete(h.conduits, id)
	h.mu.Unlock()
}

// sendValue fans v out to every attached conduit. A no-op once the hub has
// completed (spec §3: "subsequent send(value) calls are no-ops").
func (h *hubCore[T]) sendValue(ctx context.Context, v T) {
	h.mu.Lock()
	if h.completed {
		h.mu.Unlock()
		OnDroppedNotification(ctx, NewNotificationNext(v))
		return
	}

	targets := make([]*conduit[T], 0, len(h.conduits))
	for _, c := range h.conduits {
		targets = append(targets, c)
	}
	h.mu.Unlock()

	for _, c := range targets {
		c.offer(ctx, v)
	}
}

// sendCompletion transitions the hub to completed, flushes the completion
// to every currently attached conduit, and retains it for replay to any
// future subscriber.
func (h *hubCore[T]) sendCompletion(ctx context.Context, comp Completion) {
	h.mu.Lock()
	if h.completed {
		h.mu.Unlock()
		OnDroppedNotification(ctx, NewNotificationCompletion[T](comp))
		return
	}

	h.completed = true
	h.completion = comp
	targets := make([]*conduit[T], 0, len(h.conduits))
	for _, c := range h.conduits {
		targets = append(targets, c)
	}
	h.conduits = nil
	h.mu.Unlock()

	for _, c := range targets {
		c.deliverCompletion(ctx, comp)
	}

	// Hub dealloc cancels all upstream feeders it has retained (spec
	// §4.6); since the hub has permanently stopped accepting values there
	// is nothing left for a feeder to deliver.
	h.upstreamFeeders.Cancel()
}

// onUpstreamSubscribe implements the Subscriber half of Subject: an
// upstream feeder's Subscription is retained and requested Unlimited
// unconditionally, per the specification's adopted resolution of its own
// open question (spec §9: "the specification adopts the [simpler]
// unconditional request(∞) from every feeder at attach time").
func (h *hubCore[T]) onUpstreamSubscribe(ctx context.Context, feeder Subscription) {
	h.mu.Lock()
	completed := h.completed
	h.mu.Unlock()

	if completed {
		feeder.Cancel()
		return
	}

	h.upstreamFeeders.Add(feeder)
	feeder.Request(Unlimited)
}

// attachFinalizer arms a best-effort GC finalizer that cancels retained
// upstream feeders if the hub is never explicitly completed or closed,
// approximating "hub deallocation cancels all upstream feeders" in a
// language without deterministic destructors (see DESIGN.md).
func (h *hubCore[T]) attachFinalizer(owner any) {
	runtime.SetFinalizer(owner, func(o any) {
		h.upstreamFeeders.Cancel()
	})
}

// CountConduits returns the number of currently attached downstream
// conduits. Exposed for tests and introspection.
func (h *hubCore[T]) CountConduits() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conduits)
}
