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
	"sync"
)

// queueScheduler is a test-only Scheduler whose Schedule/ScheduleAfter
// calls are held until Resume is called, letting a test pause delivery at
// a precise point (e.g. to exercise cancellation racing a scheduled
// delivery, scenario S4).
type queueScheduler struct {
	mu    sync.Mutex
	queue []Action
}

func newQueueScheduler() *queueScheduler { return &queueScheduler{} }

func (q *queueScheduler) Now() Time { return WallClockNow() }

func (q *queueScheduler) MinTolerance() Stride { return Nanoseconds(0) }

func (q *queueScheduler) Schedule(opts SchedulerOptions, action Action) {
	q.mu.Lock()
	q.queue = append(q.queue, action)
	q.mu.Unlock()
}

func (q *queueScheduler) ScheduleAfter(date Time, tolerance Stride, opts SchedulerOptions, action Action) {
	q.Schedule(opts, action)
}

func (q *queueScheduler) ScheduleRepeating(date Time, interval Stride, tolerance Stride, opts SchedulerOptions, action Action) Cancellable {
	return NewCancellable(nil)
}

// Resume runs every action queued so far, in order. Actions scheduled by
// those actions are not drained recursively.
func (q *queueScheduler) Resume() {
	q.mu.Lock()
	pending := q.queue
	q.queue = nil
	q.mu.Unlock()

	for _, a := range pending {
		a()
	}
}

// countingSource is a minimal upstream that delivers a fixed set of values
// synchronously the first time it is requested (ignoring how much demand
// was actually asked for, since these tests only care about cancellation
// propagation) and counts how many times it has been cancelled.
type countingSource struct {
	mu          sync.Mutex
	values      []int
	cancelCount int
}

func (c *countingSource) Subscribe(ctx context.Context, sub Subscriber[int]) {
	s := &countingSourceSubscription{source: c, values: c.values, downstream: sub}
	sub.OnSubscribe(ctx, s)
}

func (c *countingSource) Cancelled() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancelCount
}

type countingSourceSubscription struct {
	source     *countingSource
	values     []int
	downstream Subscriber[int]

	mu       sync.Mutex
	index    int
	terminal bool
}

var _ Subscription = (*countingSourceSubscription)(nil)

func (s *countingSourceSubscription) Request(d Demand) {
	s.mu.Lock()
	if s.terminal {
		s.mu.Unlock()
		return
	}
	pending := s.values[s.index:]
	s.index = len(s.values)
	s.mu.Unlock()

	ctx := context.Background()
	for _, v := range pending {
		s.downstream.OnNext(ctx, v)
	}
}

func (s *countingSourceSubscription) Cancel() {
	s.mu.Lock()
	if s.terminal {
		s.mu.Unlock()
		return
	}
	s.terminal = true
	s.mu.Unlock()

	s.source.mu.Lock()
	s.source.cancelCount++
	s.source.mu.Unlock()
}
