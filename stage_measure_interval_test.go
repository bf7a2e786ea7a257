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

func TestMeasureInterval_EmitsOneStridePerValue(t *testing.T) {
	defer goleak.VerifyNone(t)

	source := FromSlice([]int{1, 2, 3})
	measured := MeasureInterval[int](source, NewImmediateScheduler())

	sink := &recordingSubscriber[Stride]{}
	ctx := context.Background()
	measured.Subscribe(ctx, sink)
	sink.request(Unlimited)

	values, completion := sink.snapshot()
	assert.Len(t, values, 3)
	assert.True(t, completion.IsFinished())
	for _, v := range values {
		assert.GreaterOrEqual(t, v.Duration().Nanoseconds(), int64(0))
	}
}

func TestMeasureInterval_EachSubscriptionStartsItsOwnClock(t *testing.T) {
	defer goleak.VerifyNone(t)

	source := FromSlice([]int{1})
	measured := MeasureInterval[int](source, NewImmediateScheduler())

	a := &recordingSubscriber[Stride]{}
	b := &recordingSubscriber[Stride]{}
	ctx := context.Background()
	measured.Subscribe(ctx, a)
	measured.Subscribe(ctx, b)
	a.request(Unlimited)
	b.request(Unlimited)

	aValues, _ := a.snapshot()
	bValues, _ := b.snapshot()
	assert.Len(t, aValues, 1)
	assert.Len(t, bValues, 1)
}
