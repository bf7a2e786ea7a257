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

// DebounceStage latches the most recent value and only forwards it once
// dueTime has elapsed without a newer one arriving (C15, spec §4.10's
// debounce). Every incoming value bumps a generation counter and schedules
// a fresh timer; when a timer fires it forwards the latched value only if
// its generation is still current — an older, superseded timer simply
// finds itself stale and no-ops, which is this engine's equivalent of
// "cancelling the prior timer" given Scheduler.ScheduleAfter is
// fire-and-forget by design.
type DebounceStage[T any] struct {
	state      stageState
	downstream Subscriber[T]
	scheduler  Scheduler
	dueTime    Stride
	tolerance  Stride
	opts       SchedulerOptions

	mu         sync.Mutex
	generation uint64
	latched    T
	hasLatched bool
}

var _ Subscription = (*DebounceStage[int])(nil)

// Debounce builds a Publisher forwarding only values from upstream that
// were not immediately followed by another within dueTime.
func Debounce[T any](upstream Publisher[T], dueTime Stride, tolerance Stride, scheduler Scheduler, opts SchedulerOptions) Publisher[T] {
	return PublisherFunc[T](func(ctx context.Context, down Subscriber[T]) {
		stage := &DebounceStage[T]{
			state:      newStageState(),
			downstream: down,
			scheduler:  scheduler,
			dueTime:    dueTime,
			tolerance:  tolerance,
			opts:       opts,
		}
		upstream.Subscribe(ctx, stage)
	})
}

// OnSubscribe implements Subscriber.
func (s *DebounceStage[T]) OnSubscribe(ctx context.Context, sub Subscription) {
	s.state.Lock()
	ok := s.state.onSubscribeLocked(sub)
	s.state.Unlock()
	if !ok {
		sub.Cancel()
		return
	}
	s.downstream.OnSubscribe(ctx, s)
}

// Request implements Subscription: forwarded upstream unchanged.
func (s *DebounceStage[T]) Request(d Demand) {
	requestMustBeNonZero(d)

	s.state.Lock()
	if s.state.isTerminalLocked() {
		s.state.Unlock()
		return
	}
	up := s.state.upstreamLocked()
	s.state.Unlock()

	if up != nil {
		up.Request(d)
	}
}

// Cancel implements Subscription.
func (s *DebounceStage[T]) Cancel() {
	s.state.Lock()
	up, ok := s.state.finishLocked()
	s.state.Unlock()
	if ok && up != nil {
		up.Cancel()
	}
}

// OnNext implements Subscriber by latching v and (re)scheduling its timer.
func (s *DebounceStage[T]) OnNext(ctx context.Context, v T) Demand {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.latched = v
	s.hasLatched = true
	s.mu.Unlock()

	due := s.scheduler.Now().Add(s.dueTime)
	s.scheduler.ScheduleAfter(due, s.tolerance, s.opts, func() {
		s.fire(ctx, gen)
	})
	return None
}

func (s *DebounceStage[T]) fire(ctx context.Context, gen uint64) {
	s.state.Lock()
	terminal := s.state.isTerminalLocked()
	up := s.state.upstreamLocked()
	s.state.Unlock()
	if terminal {
		return
	}

	s.mu.Lock()
	if gen != s.generation || !s.hasLatched {
		s.mu.Unlock()
		return
	}
	value := s.latched
	s.hasLatched = false
	s.mu.Unlock()

	more := s.downstream.OnNext(ctx, value)

	s.state.Lock()
	stillOpen := !s.state.isTerminalLocked()
	s.state.Unlock()
	if stillOpen && up != nil && !more.IsZero() {
		up.Request(more)
	}
}

// OnCompletion implements Subscriber: invalidates any pending timer (by
// advancing the generation past what it could ever match), then schedules
// the completion itself.
func (s *DebounceStage[T]) OnCompletion(ctx context.Context, c Completion) {
	s.mu.Lock()
	s.generation++
	s.mu.Unlock()

	s.scheduler.Schedule(s.opts, func() {
		s.state.Lock()
		_, ok := s.state.finishLocked()
		s.state.Unlock()
		if !ok {
			return
		}
		s.downstream.OnCompletion(ctx, c)
	})
}
