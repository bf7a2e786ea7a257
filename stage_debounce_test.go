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

// Three values arriving faster than dueTime must collapse into a single
// emission of the last one.
func TestDebounce_RapidValuesCollapseToLast(t *testing.T) {
	defer goleak.VerifyNone(t)

	// The source stays open until the debounced value has been emitted:
	// an upstream completion invalidates any still-pending timer.
	source := NewPassthroughSubject[int]()
	sched := NewImmediateScheduler()
	debounced := Debounce[int](source, Milliseconds(20), Nanoseconds(0), sched, SchedulerOptions{})

	sink := &recordingSubscriber[int]{}
	ctx := context.Background()
	debounced.Subscribe(ctx, sink)
	sink.request(Unlimited)

	source.SendValue(ctx, 1)
	source.SendValue(ctx, 2)
	source.SendValue(ctx, 3)

	assert.Eventually(t, func() bool {
		v, _ := sink.snapshot()
		return len(v) > 0
	}, time.Second, time.Millisecond)

	source.SendCompletion(ctx, Finished)

	assert.Eventually(t, func() bool {
		_, c := sink.snapshot()
		return c != nil
	}, time.Second, time.Millisecond)

	values, completion := sink.snapshot()
	assert.Equal(t, []int{3}, values)
	assert.True(t, completion.IsFinished())
}

func TestDebounce_SingleValuePassesThroughOnceDue(t *testing.T) {
	defer goleak.VerifyNone(t)

	sched := newQueueScheduler()
	source := &countingSource{values: []int{1}}
	debounced := Debounce[int](source, Milliseconds(1), Nanoseconds(0), sched, SchedulerOptions{})

	sink := &recordingSubscriber[int]{}
	ctx := context.Background()
	debounced.Subscribe(ctx, sink)
	sink.request(Unlimited)

	sched.Resume()

	values, _ := sink.snapshot()
	assert.Equal(t, []int{1}, values)
}
