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

import "context"

// AnySubscriber is a type-erased Subscriber: it wraps any concrete
// Subscriber[T] behind a single concrete type (spec §4.5, C8).
type AnySubscriber[T any] struct {
	inner Subscriber[T]
}

var _ Subscriber[int] = AnySubscriber[int]{}

// NewAnySubscriber erases sub's concrete type. Erasing an already-erased
// AnySubscriber returns an equivalent value without double-boxing
// (testable property #6).
func NewAnySubscriber[T any](sub Subscriber[T]) AnySubscriber[T] {
	if already, ok := sub.(AnySubscriber[T]); ok {
		return already
	}
	return AnySubscriber[T]{inner: sub}
}

// NewAnySubscriberFuncs builds an AnySubscriber directly from three
// closures, mirroring samber/ro's NewObserverWithContext construction
// style. Absent closures default to no-ops / Demand=None, per spec §4.5.
func NewAnySubscriberFuncs[T any](
	onSubscribe func(ctx context.Context, sub Subscription),
	onNext func(ctx context.Context, value T) Demand,
	onCompletion func(ctx context.Context, c Completion),
) AnySubscriber[T] {
	return AnySubscriber[T]{inner: NewSubscriberFuncs(onSubscribe, onNext, onCompletion)}
}

// OnSubscribe implements Subscriber by forwarding to the wrapped Subscriber.
func (s AnySubscriber[T]) OnSubscribe(ctx context.Context, sub Subscription) {
	s.inner.OnSubscribe(ctx, sub)
}

// OnNext implements Subscriber by forwarding to the wrapped Subscriber.
func (s AnySubscriber[T]) OnNext(ctx context.Context, value T) Demand {
	return s.inner.OnNext(ctx, value)
}

// OnCompletion implements Subscriber by forwarding to the wrapped Subscriber.
func (s AnySubscriber[T]) OnCompletion(ctx context.Context, c Completion) {
	s.inner.OnCompletion(ctx, c)
}
