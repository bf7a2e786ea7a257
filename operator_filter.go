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

// Map transforms every value with fn, one-to-one, using the filter-stage
// skeleton (C12).
func Map[Input, Output any](upstream Publisher[Input], fn func(Input) Output) Publisher[Output] {
	return PublisherFunc[Output](func(ctx context.Context, down Subscriber[Output]) {
		stage := NewFilterStage[Input, Output](down, func(ctx context.Context, v Input) FilterResult[Output] {
			return FilterEmit(fn(v))
		})
		upstream.Subscribe(ctx, stage)
	})
}

// Filter forwards only the values for which predicate returns true. Skipped
// values cause the stage to pull one extra item upstream so the
// downstream's demand still gets satisfied.
func Filter[T any](upstream Publisher[T], predicate func(T) bool) Publisher[T] {
	return PublisherFunc[T](func(ctx context.Context, down Subscriber[T]) {
		stage := NewFilterStage[T, T](down, func(ctx context.Context, v T) FilterResult[T] {
			if predicate(v) {
				return FilterEmit(v)
			}
			return FilterSkip[T]()
		})
		upstream.Subscribe(ctx, stage)
	})
}

// RemoveDuplicates forwards a value only when it differs from the
// immediately preceding one seen on this subscription (per-subscription
// state, held in the hook closure rather than on the operator itself so two
// concurrent subscribers never share a "last value").
func RemoveDuplicates[T comparable](upstream Publisher[T]) Publisher[T] {
	return PublisherFunc[T](func(ctx context.Context, down Subscriber[T]) {
		var last T
		hasLast := false
		stage := NewFilterStage[T, T](down, func(ctx context.Context, v T) FilterResult[T] {
			if hasLast && last == v {
				return FilterSkip[T]()
			}
			last = v
			hasLast = true
			return FilterEmit(v)
		})
		upstream.Subscribe(ctx, stage)
	})
}

// PrefixWhile forwards values as long as predicate holds, then finishes the
// stream the moment it first sees a value that fails it (that failing value
// itself is not forwarded).
func PrefixWhile[T any](upstream Publisher[T], predicate func(T) bool) Publisher[T] {
	return PublisherFunc[T](func(ctx context.Context, down Subscriber[T]) {
		stage := NewFilterStage[T, T](down, func(ctx context.Context, v T) FilterResult[T] {
			if !predicate(v) {
				return FilterFinish[T](Finished)
			}
			return FilterEmit(v)
		})
		upstream.Subscribe(ctx, stage)
	})
}

// FirstWhere completes with the first value satisfying predicate, then
// terminates without waiting for upstream to finish on its own.
func FirstWhere[T any](upstream Publisher[T], predicate func(T) bool) Publisher[T] {
	return PublisherFunc[T](func(ctx context.Context, down Subscriber[T]) {
		stage := NewFilterStage[T, T](down, func(ctx context.Context, v T) FilterResult[T] {
			if predicate(v) {
				return FilterEmitThenFinish(v, Finished)
			}
			return FilterSkip[T]()
		})
		upstream.Subscribe(ctx, stage)
	})
}
