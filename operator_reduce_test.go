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
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestCount(t *testing.T) {
	defer goleak.VerifyNone(t)
	t.Parallel()
	is := assert.New(t)
	ctx := context.Background()

	pub := Count(FromSlice([]string{"a", "b", "c"}))
	sub := newRecordingSubscriber[int]()
	pub.Subscribe(ctx, sub)
	sub.request(Unlimited)

	values, comp := sub.snapshot()
	is.Equal([]int{3}, values)
	if is.NotNil(comp) {
		is.True(comp.IsFinished())
	}
}

func TestSum(t *testing.T) {
	defer goleak.VerifyNone(t)
	t.Parallel()
	is := assert.New(t)
	ctx := context.Background()

	pub := Sum(FromSlice([]int{1, 2, 3, 4}))
	sub := newRecordingSubscriber[int]()
	pub.Subscribe(ctx, sub)
	sub.request(Unlimited)

	values, _ := sub.snapshot()
	is.Equal([]int{10}, values)
}

func TestAverage(t *testing.T) {
	defer goleak.VerifyNone(t)
	t.Parallel()
	is := assert.New(t)
	ctx := context.Background()

	pub := Average(FromSlice([]int{1, 2, 3, 4}))
	sub := newRecordingSubscriber[float64]()
	pub.Subscribe(ctx, sub)
	sub.request(Unlimited)

	values, _ := sub.snapshot()
	is.Equal([]float64{2.5}, values)
}

func TestAverage_Empty(t *testing.T) {
	defer goleak.VerifyNone(t)
	t.Parallel()
	is := assert.New(t)
	ctx := context.Background()

	pub := Average(FromSlice([]int{}))
	sub := newRecordingSubscriber[float64]()
	pub.Subscribe(ctx, sub)
	sub.request(Unlimited)

	values, comp := sub.snapshot()
	is.Equal([]float64{0}, values)
	if is.NotNil(comp) {
		is.True(comp.IsFinished())
	}
}

func TestMinMax(t *testing.T) {
	defer goleak.VerifyNone(t)
	t.Parallel()
	is := assert.New(t)
	ctx := context.Background()

	minSub := newRecordingSubscriber[int]()
	Min(FromSlice([]int{5, 1, 9, 3})).Subscribe(ctx, minSub)
	minSub.request(Unlimited)
	minValues, _ := minSub.snapshot()
	is.Equal([]int{1}, minValues)

	maxSub := newRecordingSubscriber[int]()
	Max(FromSlice([]int{5, 1, 9, 3})).Subscribe(ctx, maxSub)
	maxSub.request(Unlimited)
	maxValues, _ := maxSub.snapshot()
	is.Equal([]int{9}, maxValues)
}

func TestMinMax_EmptyCompletesWithNoValue(t *testing.T) {
	defer goleak.VerifyNone(t)
	t.Parallel()
	is := assert.New(t)
	ctx := context.Background()

	sub := newRecordingSubscriber[int]()
	Min(FromSlice([]int{})).Subscribe(ctx, sub)
	sub.request(Unlimited)

	values, comp := sub.snapshot()
	is.Empty(values)
	if is.NotNil(comp) {
		is.True(comp.IsFinished())
	}
}

func TestAllSatisfy(t *testing.T) {
	defer goleak.VerifyNone(t)
	t.Parallel()
	is := assert.New(t)
	ctx := context.Background()

	allEven := AllSatisfy(FromSlice([]int{2, 4, 6}), func(v int) bool { return v%2 == 0 })
	sub := newRecordingSubscriber[bool]()
	allEven.Subscribe(ctx, sub)
	sub.request(Unlimited)
	values, _ := sub.snapshot()
	is.Equal([]bool{true}, values)

	notAllEven := AllSatisfy(FromSlice([]int{2, 3, 6}), func(v int) bool { return v%2 == 0 })
	sub2 := newRecordingSubscriber[bool]()
	notAllEven.Subscribe(ctx, sub2)
	sub2.request(Unlimited)
	values2, _ := sub2.snapshot()
	is.Equal([]bool{false}, values2)
}
