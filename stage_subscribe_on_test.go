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

func TestSubscribeOn_AttachIsDeferredUntilScheduled(t *testing.T) {
	defer goleak.VerifyNone(t)

	source := &countingSource{values: []int{1, 2, 3}}
	sched := newQueueScheduler()
	delayed := SubscribeOn[int](source, sched, SchedulerOptions{})

	sink := &recordingSubscriber[int]{}
	ctx := context.Background()
	delayed.Subscribe(ctx, sink)

	sink.mu.Lock()
	sub := sink.sub
	sink.mu.Unlock()
	assert.Nil(t, sub, "attach must not have happened yet")

	sched.Resume()

	sink.mu.Lock()
	sub = sink.sub
	sink.mu.Unlock()
	assert.NotNil(t, sub, "attach should have run once the scheduler resumed")
}

func TestSubscribeOn_RequestAndCancelAreDispatched(t *testing.T) {
	defer goleak.VerifyNone(t)

	source := &countingSource{values: []int{1, 2, 3}}
	sched := newQueueScheduler()
	delayed := SubscribeOn[int](source, sched, SchedulerOptions{})

	sink := &recordingSubscriber[int]{}
	ctx := context.Background()
	delayed.Subscribe(ctx, sink)
	sched.Resume()

	sink.request(NewDemand(3))
	values, _ := sink.snapshot()
	assert.Empty(t, values, "request should have been queued, not run synchronously")

	sched.Resume()
	values, _ = sink.snapshot()
	assert.Equal(t, []int{1, 2, 3}, values)

	sink.sub.Cancel()
	assert.Equal(t, 0, source.Cancelled(), "cancel should also be queued until resumed")
	sched.Resume()
	assert.Equal(t, 1, source.Cancelled())
}
