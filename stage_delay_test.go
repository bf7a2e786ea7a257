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
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestDelay_ValuesAndTerminalArriveAfterInterval(t *testing.T) {
	defer goleak.VerifyNone(t)

	source := FromSlice([]int{1, 2, 3})
	sched := NewImmediateScheduler()
	delayed := Delay[int](source, Milliseconds(10), Nanoseconds(0), sched, SchedulerOptions{})

	sink := &recordingSubscriber[int]{}
	ctx := context.Background()
	delayed.Subscribe(ctx, sink)
	sink.request(Unlimited)

	values, completion := sink.snapshot()
	assert.Empty(t, values, "delivery must not be synchronous")
	assert.Nil(t, completion)

	assert.Eventually(t, func() bool {
		_, c := sink.snapshot()
		return c != nil
	}, time.Second, time.Millisecond)

	values, completion = sink.snapshot()
	assert.Equal(t, []int{1, 2, 3}, values)
	assert.True(t, completion.IsFinished())
}

func TestDelay_TerminalWithNoPendingValuesIsAlsoDelayed(t *testing.T) {
	defer goleak.VerifyNone(t)

	source := FromSlice([]int{})
	sched := NewImmediateScheduler()
	delayed := Delay[int](source, Milliseconds(10), Nanoseconds(0), sched, SchedulerOptions{})

	sink := &recordingSubscriber[int]{}
	ctx := context.Background()
	delayed.Subscribe(ctx, sink)
	sink.request(Unlimited)

	_, completion := sink.snapshot()
	assert.Nil(t, completion, "even an empty source's completion should be delayed")

	assert.Eventually(t, func() bool {
		_, c := sink.snapshot()
		return c != nil
	}, time.Second, time.Millisecond)

	_, completion = sink.snapshot()
	assert.True(t, completion.IsFinished())
}
