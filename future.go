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
	"sync"
)

// Resolve is the promise handed to a Future's fulfillment closure. Calling
// it a second time is a no-op (spec §4.7, "the fulfillment closure resolves
// at most once").
type Resolve[O any] func(value O, err error)

// Future is a single-shot cache (C11, spec §4.7): a Publisher that invokes
// its fulfillment closure eagerly, exactly once, at construction time — not
// on first Subscribe, unlike an ordinary lazy Publisher. The closure's
// result (whichever of value/err arrives first through Resolve) is memoized
// and replayed to every subscriber, including ones that attach after
// resolution. A resolved error bypasses demand entirely; a resolved value
// is only delivered once a subscriber has requested at least one.
//
// Grounded on samber/ro's subject/future shape (status-gated, single
// terminal delivery, replay-on-late-subscribe) generalized from a
// multi-value hub down to exactly one value, with the conduit bypass rules
// specific to a single-shot cache instead of a broadcast stream.
type Future[O any] struct {
	mu        sync.Mutex
	fulfilled bool
	value     O
	err       error
	pending   map[Identity]*futureConduit[O]
}

var _ Publisher[int] = (*Future[int])(nil)

// NewFuture creates a Future and eagerly invokes fulfill with its Resolve
// callback. fulfill may call resolve synchronously or spawn its own
// goroutine to call it later; Future imposes no concurrency model of its
// own beyond memoizing whichever outcome arrives first.
func NewFuture[O any](fulfill func(resolve Resolve[O])) *Future[O] {
	f := &Future[O]{pending: make(map[Identity]*futureConduit[O])}
	fulfill(f.resolve)
	return f
}

// Subscribe implements Publisher.
func (f *Future[O]) Subscribe(ctx context.Context, sub Subscriber[O]) {
	f.mu.Lock()
	if f.fulfilled {
		value, err := f.value, f.err
		f.mu.Unlock()

		if err != nil {
			sub.OnSubscribe(ctx, EmptySubscription())
			sub.OnCompletion(ctx, Failure(err))
			return
		}

		c := newFutureConduit(f, sub)
		sub.OnSubscribe(ctx, c)
		return
	}

	c := newFutureConduit(f, sub)
	f.pending[c.id] = c
	f.mu.Unlock()

	sub.OnSubscribe(ctx, c)
}

func (f *Future[O]) detach(id Identity) {
	f.mu.Lock()
	delete(f.pending, id)
	f.mu.Unlock()
}

// resolve is the Resolve callback passed to the fulfillment closure. It is
// idempotent: only the first call has any effect.
func (f *Future[O]) resolve(value O, err error) {
	f.mu.Lock()
	if f.fulfilled {
		f.mu.Unlock()
		return
	}
	f.fulfilled = true
	f.value = value
	f.err = err
	targets := make([]*futureConduit[O], 0, len(f.pending))
	for _, c := range f.pending {
		targets = append(targets, c)
	}
	f.pending = nil
	f.mu.Unlock()

	ctx := context.Background()
	if err != nil {
		for _, c := range targets {
			c.deliverFailure(ctx, err)
		}
		return
	}
	for _, c := range targets {
		c.tryDeliverValue(ctx, value)
	}
}

// futureConduit is the per-subscriber Subscription for a Future. Unlike a
// broadcast hub's conduit, it delivers at most once and only on its own
// downstream's demand (success case) or unconditionally (failure case).
type futureConduit[O any] struct {
	mu        sync.Mutex
	future    *Future[O]
	id        Identity
	downstream Subscriber[O]
	demanded  bool
	done      bool
}

var _ Subscription = (*futureConduit[int])(nil)

func newFutureConduit[O any](future *Future[O], downstream Subscriber[O]) *futureConduit[O] {
	return &futureConduit[O]{future: future, id: NewIdentity(), downstream: downstream}
}

// Request implements Subscription. If the Future has already resolved, a
// non-zero request immediately attempts delivery; otherwise the demand is
// simply recorded and resolve will attempt delivery once the outcome is
// known.
func (c *futureConduit[O]) Request(d Demand) {
	requestMustBeNonZero(d)

	c.mu.Lock()
	if c.done {
		c.mu.Unlock()
		return
	}
	c.demanded = true
	c.mu.Unlock()

	c.future.mu.Lock()
	fulfilled := c.future.fulfilled
	value, err := c.future.value, c.future.err
	c.future.mu.Unlock()

	if !fulfilled {
		return
	}
	if err != nil {
		c.deliverFailure(context.Background(), err)
		return
	}
	c.tryDeliverValue(context.Background(), value)
}

// Cancel implements Subscription. Idempotent.
func (c *futureConduit[O]) Cancel() {
	c.mu.Lock()
	if c.done {
		c.mu.Unlock()
		return
	}
	c.done = true
	c.mu.Unlock()

	c.future.detach(c.id)
}

func (c *futureConduit[O]) tryDeliverValue(ctx context.Context, value O) bool {
	c.mu.Lock()
	if c.done || !c.demanded {
		c.mu.Unlock()
		return false
	}
	c.done = true
	c.mu.Unlock()

	c.downstream.OnNext(ctx, value)
	c.downstream.OnCompletion(ctx, Finished)
	return true
}

func (c *futureConduit[O]) deliverFailure(ctx context.Context, err error) {
	c.mu.Lock()
	if c.done {
		c.mu.Unlock()
		return
	}
	c.done = true
	c.mu.Unlock()

	c.downstream.OnCompletion(ctx, Failure(err))
}
