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

// Subscriber is the consumer end of a pipeline. Its three methods are
// invoked in a strict order by the Publisher it is attached to (spec §4.2):
//
//  1. OnSubscribe is called exactly once, first. The Subscriber MUST either
//     retain the Subscription (to later Request or Cancel) or Cancel it
//     immediately. The Subscriber MUST call Request at least once or no
//     values will ever flow — delivery is strictly pull-driven (testable
//     property #10).
//  2. OnNext is called zero or more times, bounded by the cumulative demand
//     the Subscriber has requested (testable property #2). Its return
//     value is an *additional* demand increment, added to whatever is
//     still outstanding; returning None does not revoke existing demand.
//  3. OnCompletion is called at most once, last. No further OnNext call
//     follows it (testable property #1).
//
// Violating this ordering or cardinality from the Publisher side is a
// programming error. The stages in this package do not assert it: a second
// OnSubscribe has its Subscription cancelled and a repeated OnCompletion is
// ignored. Only a zero-demand Request panics with a ContractViolationError.
//
// Grounded on samber/ro's Observer (observer.go — Next/Error/Complete, each
// called at most once/zero-or-more/at-most-once), generalized here to the
// demand-returning OnNext required by the pull model.
type Subscriber[T any] interface {
	OnSubscribe(ctx context.Context, sub Subscription)
	OnNext(ctx context.Context, value T) Demand
	OnCompletion(ctx context.Context, c Completion)
}

// subscriberFuncs adapts three closures into a Subscriber, mirroring
// samber/ro's NewObserverWithContext. Any nil closure defaults to a no-op
// (OnNext's default returns None), per spec §4.5's AnySubscriber
// construction rule.
type subscriberFuncs[T any] struct {
	onSubscribe  func(ctx context.Context, sub Subscription)
	onNext       func(ctx context.Context, value T) Demand
	onCompletion func(ctx context.Context, c Completion)
}

var _ Subscriber[int] = (*subscriberFuncs[int])(nil)

// NewSubscriberFuncs builds a Subscriber from three closures. A nil
// onSubscribe is a no-op (so no demand is requested); a nil onNext returns
// None; a nil onCompletion is a no-op. Sink is the constructor that
// requests Unlimited on subscribe.
func NewSubscriberFuncs[T any](
	onSubscribe func(ctx context.Context, sub Subscription),
	onNext func(ctx context.Context, value T) Demand,
	onCompletion func(ctx context.Context, c Completion),
) Subscriber[T] {
	if onSubscribe == nil {
		onSubscribe = func(ctx context.Context, sub Subscription) {}
	}
	if onNext == nil {
		onNext = func(ctx context.Context, value T) Demand { return None }
	}
	if onCompletion == nil {
		onCompletion = func(ctx context.Context, c Completion) {}
	}

	return &subscriberFuncs[T]{onSubscribe: onSubscribe, onNext: onNext, onCompletion: onCompletion}
}

func (s *subscriberFuncs[T]) OnSubscribe(ctx context.Context, sub Subscription) {
	s.onSubscribe(ctx, sub)
}

func (s *subscriberFuncs[T]) OnNext(ctx context.Context, value T) Demand {
	return s.onNext(ctx, value)
}

func (s *subscriberFuncs[T]) OnCompletion(ctx context.Context, c Completion) {
	s.onCompletion(ctx, c)
}

// Sink builds a terminal Subscriber that requests Unlimited on subscribe
// and forwards every event to the given callbacks. This is the common case
// at the end of a pipeline (the teacher's PrintObserver/OnNext/OnError/
// OnComplete partial-observer family, collapsed into one constructor since
// the demand-driven model always needs an explicit Request policy).
func Sink[T any](onNext func(value T), onError func(err error), onComplete func()) Subscriber[T] {
	if onNext == nil {
		onNext = func(T) {}
	}
	if onError == nil {
		onError = func(error) {}
	}
	if onComplete == nil {
		onComplete = func() {}
	}

	return NewSubscriberFuncs(
		func(ctx context.Context, sub Subscription) { sub.Request(Unlimited) },
		func(ctx context.Context, value T) Demand {
			onNext(value)
			return None
		},
		func(ctx context.Context, c Completion) {
			if c.IsFailure() {
				onError(c.Err)
			} else {
				onComplete()
			}
		},
	)
}

// NoopSubscriber returns a Subscriber that requests Unlimited and discards
// every value and terminal signal. Useful for firing a pipeline purely for
// its side effects.
func NoopSubscriber[T any]() Subscriber[T] {
	return Sink[T](nil, nil, nil)
}
