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

func TestMap(t *testing.T) {
	defer goleak.VerifyNone(t)
	t.Parallel()
	is := assert.New(t)
	ctx := context.Background()

	pub := Map[int, string](FromSlice([]int{1, 2, 3}), func(v int) string {
		if v == 1 {
			return "one"
		}
		return "?"
	})
	sub := newRecordingSubscriber[string]()
	pub.Subscribe(ctx, sub)
	sub.request(Unlimited)

	values, comp := sub.snapshot()
	is.Equal([]string{"one", "?", "?"}, values)
	if is.NotNil(comp) {
		is.True(comp.IsFinished())
	}
}

func TestFilter(t *testing.T) {
	defer goleak.VerifyNone(t)
	t.Parallel()
	is := assert.New(t)
	ctx := context.Background()

	pub := Filter(FromSlice([]int{1, 2, 3, 4, 5, 6}), func(v int) bool { return v%2 == 0 })
	sub := newRecordingSubscriber[int]()
	pub.Subscribe(ctx, sub)
	sub.request(Unlimited)

	values, comp := sub.snapshot()
	is.Equal([]int{2, 4, 6}, values)
	if is.NotNil(comp) {
		is.True(comp.IsFinished())
	}
}

func TestRemoveDuplicates(t *testing.T) {
	defer goleak.VerifyNone(t)
	t.Parallel()
	is := assert.New(t)
	ctx := context.Background()

	pub := RemoveDuplicates(FromSlice([]int{1, 1, 2, 2, 2, 3, 1}))
	sub := newRecordingSubscriber[int]()
	pub.Subscribe(ctx, sub)
	sub.request(Unlimited)

	values, _ := sub.snapshot()
	is.Equal([]int{1, 2, 3, 1}, values)
}

func TestPrefixWhile(t *testing.T) {
	defer goleak.VerifyNone(t)
	t.Parallel()
	is := assert.New(t)
	ctx := context.Background()

	pub := PrefixWhile(FromSlice([]int{1, 2, 3, 4, 1}), func(v int) bool { return v < 4 })
	sub := newRecordingSubscriber[int]()
	pub.Subscribe(ctx, sub)
	sub.request(Unlimited)

	values, comp := sub.snapshot()
	is.Equal([]int{1, 2, 3}, values)
	if is.NotNil(comp) {
		is.True(comp.IsFinished())
	}
}

func TestFirstWhere(t *testing.T) {
	defer goleak.VerifyNone(t)
	t.Parallel()
	is := assert.New(t)
	ctx := context.Background()

	pub := FirstWhere(FromSlice([]int{1, 2, 3, 4, 5}), func(v int) bool { return v > 2 })
	sub := newRecordingSubscriber[int]()
	pub.Subscribe(ctx, sub)
	sub.request(Unlimited)

	values, comp := sub.snapshot()
	is.Equal([]int{3}, values)
	if is.NotNil(comp) {
		is.True(comp.IsFinished())
	}
}

func TestFirstWhere_NoMatchStillFinishes(t *testing.T) {
	defer goleak.VerifyNone(t)
	t.Parallel()
	is := assert.New(t)
	ctx := context.Background()

	pub := FirstWhere(FromSlice([]int{1, 2}), func(v int) bool { return v > 10 })
	sub := newRecordingSubscriber[int]()
	pub.Subscribe(ctx, sub)
	sub.request(Unlimited)

	values, comp := sub.snapshot()
	is.Empty(values)
	if is.NotNil(comp) {
		is.True(comp.IsFinished())
	}
}
