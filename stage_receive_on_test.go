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

// Cancelling downstream while values sit queued on a paused scheduler must
// drop them silently and propagate exactly one cancellation upstream.
func TestReceiveOn_CancelDuringQueuedDeliveryDropsValues(t *testing.T) {
	defer goleak.VerifyNone(t)

	source := &countingSource{values: []int{1, 2, 3}}
	mapped := Map[int, int](source, func(v int) int { return v })
	sched := newQueueScheduler()
	dispatched := ReceiveOn[int](mapped, sched, SchedulerOptions{})

	sink := &recordingSubscriber[int]{}
	ctx := context.Background()
	dispatched.Subscribe(ctx, sink)

	sink.request(NewDemand(5))

	preValues, _ := sink.snapshot()
	assert.Empty(t, preValues)

	sink.sub.Cancel()

	sched.Resume()

	values, completion := sink.snapshot()
	assert.Empty(t, values)
	assert.Nil(t, completion)
	assert.Equal(t, 1, source.Cancelled())
}

func TestReceiveOn_DeliversAfterResume(t *testing.T) {
	defer goleak.VerifyNone(t)

	source := &countingSource{values: []int{1, 2, 3}}
	sched := newQueueScheduler()
	dispatched := ReceiveOn[int](source, sched, SchedulerOptions{})

	sink := &recordingSubscriber[int]{}
	ctx := context.Background()
	dispatched.Subscribe(ctx, sink)

	sink.request(NewDemand(3))
	preValues, _ := sink.snapshot()
	assert.Empty(t, preValues)

	sched.Resume()

	values, _ := sink.snapshot()
	assert.Equal(t, []int{1, 2, 3}, values)
}
