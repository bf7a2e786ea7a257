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

	"golang.org/x/exp/constraints"
)

// Number is the constraint satisfied by any type Sum/Average can
// accumulate.
type Number interface {
	constraints.Integer | constraints.Float
}

// Count emits the number of values upstream produced, once upstream
// finishes, using the reduce-stage skeleton (C13).
func Count[T any](upstream Publisher[T]) Publisher[int] {
	return PublisherFunc[int](func(ctx context.Context, down Subscriber[int]) {
		stage := NewReduceStage[T, int](down, 0, func(ctx context.Context, acc int, v T) (int, ReduceOutcome) {
			return acc + 1, ReduceContinue()
		})
		upstream.Subscribe(ctx, stage)
	})
}

// Sum emits the total of every value upstream produced.
func Sum[T Number](upstream Publisher[T]) Publisher[T] {
	return PublisherFunc[T](func(ctx context.Context, down Subscriber[T]) {
		stage := NewReduceStage[T, T](down, 0, func(ctx context.Context, acc T, v T) (T, ReduceOutcome) {
			return acc + v, ReduceContinue()
		})
		upstream.Subscribe(ctx, stage)
	})
}

// averageAccumulator is Average's running (sum, count) pair; it is folded
// by one reduce-stage and then unwrapped to a float64 by a chained
// filter-stage, rather than inventing a third stage skeleton.
type averageAccumulator struct {
	sum   float64
	count int
}

// Average emits the arithmetic mean of every value upstream produced, or 0
// if upstream finished without producing any.
func Average[T Number](upstream Publisher[T]) Publisher[float64] {
	return PublisherFunc[float64](func(ctx context.Context, down Subscriber[float64]) {
		unwrap := NewFilterStage[averageAccumulator, float64](down, func(ctx context.Context, acc averageAccumulator) FilterResult[float64] {
			if acc.count == 0 {
				return FilterEmit(0.0)
			}
			return FilterEmit(acc.sum / float64(acc.count))
		})

		reduce := NewReduceStage[T, averageAccumulator](unwrap, averageAccumulator{}, func(ctx context.Context, acc averageAccumulator, v T) (averageAccumulator, ReduceOutcome) {
			acc.sum += float64(v)
			acc.count++
			return acc, ReduceContinue()
		})
		upstream.Subscribe(ctx, reduce)
	})
}

// optionAccumulator tracks whether any value has been folded yet, so
// Min/Max can tell "upstream was empty" apart from "the smallest value so
// far happens to be the zero value".
type optionAccumulator[T any] struct {
	hasValue bool
	value    T
}

func minMax[T constraints.Ordered](upstream Publisher[T], replace func(current, candidate T) bool) Publisher[T] {
	return PublisherFunc[T](func(ctx context.Context, down Subscriber[T]) {
		unwrap := NewFilterStage[optionAccumulator[T], T](down, func(ctx context.Context, acc optionAccumulator[T]) FilterResult[T] {
			if !acc.hasValue {
				return FilterFinish[T](Finished)
			}
			return FilterEmit(acc.value)
		})

		reduce := NewReduceStage[T, optionAccumulator[T]](unwrap, optionAccumulator[T]{}, func(ctx context.Context, acc optionAccumulator[T], v T) (optionAccumulator[T], ReduceOutcome) {
			if !acc.hasValue || replace(acc.value, v) {
				return optionAccumulator[T]{hasValue: true, value: v}, ReduceContinue()
			}
			return acc, ReduceContinue()
		})
		upstream.Subscribe(ctx, reduce)
	})
}

// Min emits the smallest value upstream produced, or completes with no
// value if upstream was empty.
func Min[T constraints.Ordered](upstream Publisher[T]) Publisher[T] {
	return minMax(upstream, func(current, candidate T) bool { return candidate < current })
}

// Max emits the largest value upstream produced, or completes with no
// value if upstream was empty.
func Max[T constraints.Ordered](upstream Publisher[T]) Publisher[T] {
	return minMax(upstream, func(current, candidate T) bool { return candidate > current })
}

// AllSatisfy emits false (and stops) as soon as a value fails predicate, or
// true once upstream finishes having never failed it.
func AllSatisfy[T any](upstream Publisher[T], predicate func(T) bool) Publisher[bool] {
	return PublisherFunc[bool](func(ctx context.Context, down Subscriber[bool]) {
		stage := NewReduceStage[T, bool](down, true, func(ctx context.Context, acc bool, v T) (bool, ReduceOutcome) {
			if !predicate(v) {
				return false, ReduceFinish(Finished)
			}
			return acc, ReduceContinue()
		})
		upstream.Subscribe(ctx, stage)
	})
}
