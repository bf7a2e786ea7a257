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

func TestFromSlice_DeliversExactlyWhatWasRequested(t *testing.T) {
	defer goleak.VerifyNone(t)
	t.Parallel()
	is := assert.New(t)
	ctx := context.Background()

	pub := FromSlice([]int{1, 2, 3, 4, 5})
	sub := newRecordingSubscriber[int]()
	pub.Subscribe(ctx, sub)

	sub.request(NewDemand(2))
	values, comp := sub.snapshot()
	is.Equal([]int{1, 2}, values)
	is.Nil(comp)

	sub.request(NewDemand(3))
	values, comp = sub.snapshot()
	is.Equal([]int{1, 2, 3, 4, 5}, values)
	if is.NotNil(comp) {
		is.True(comp.IsFinished())
	}
}

// TestFromSlice_SaturatesDemandOverALargeSequence covers scenario S5: a
// subscriber requesting Unlimited demand up front against a 1000-value
// source observes every value exactly once, in order, followed by exactly
// one Finished.
func TestFromSlice_SaturatesDemandOverALargeSequence(t *testing.T) {
	defer goleak.VerifyNone(t)
	t.Parallel()
	is := assert.New(t)
	ctx := context.Background()

	const n = 1000
	values := make([]int, n)
	for i := range values {
		values[i] = i
	}

	pub := FromSlice(values)
	sub := newRecordingSubscriber[int]()
	pub.Subscribe(ctx, sub)
	sub.request(Unlimited)

	got, comp := sub.snapshot()
	is.Len(got, n)
	is.Equal(values, got)
	if is.NotNil(comp) {
		is.True(comp.IsFinished())
	}
}

func TestFromSlice_EachSubscriptionIndependent(t *testing.T) {
	defer goleak.VerifyNone(t)
	t.Parallel()
	is := assert.New(t)
	ctx := context.Background()

	pub := FromSlice([]int{1, 2, 3})
	a := newRecordingSubscriber[int]()
	b := newRecordingSubscriber[int]()
	pub.Subscribe(ctx, a)
	pub.Subscribe(ctx, b)

	a.request(NewDemand(1))
	b.request(Unlimited)

	av, _ := a.snapshot()
	bv, _ := b.snapshot()
	is.Equal([]int{1}, av)
	is.Equal([]int{1, 2, 3}, bv)
}
