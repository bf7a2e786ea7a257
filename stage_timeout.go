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

// TimeoutStage arms a timer for interval on attach and every time a value
// arrives; if the timer ever fires without having been reset since, the
// stage cancels upstream and delivers either a caller-supplied failure or
// plain Finished (C15, spec §4.10's timeout). As with DebounceStage, timer
// invalidation is generation-counter based rather than a literal
// Cancellable, since Scheduler.ScheduleAfter does not return one.
type TimeoutStage[T any] struct {
	state        stageState
	downstream   Subscriber[T]
	scheduler    Scheduler
	interval     Stride
	tolerance    Stride
	opts         SchedulerOptions
	onTimeoutErr func() error

	mu         sync.Mutex
	generation uint64
}

var _ Subscription = (*TimeoutStage[int])(nil)

// Timeout builds a Publisher that fails (or finishes) if upstream goes
// silent for interval. onTimeoutErr may be nil, in which case the stage
// delivers plain Finished instead of a Failure when it times out.
func Timeout[T any](upstream Publisher[T], interval Stride, tolerance Stride, scheduler Scheduler, opts SchedulerOptions, onTimeoutErr func() error) Publisher[T] {
	return PublisherFunc[T](func(ctx context.Context, down Subscriber[T]) {
		stage := &TimeoutStage[T]{
			state:        newStageState(),
			downstream:   down,
			scheduler:    scheduler,
			interval:     interval,
			tolerance:    tolerance,
			opts:         opts,
			onTimeoutErr: onTimeoutErr,
		}
		upstream.Subscribe(ctx, stage)
	})
}

// OnSubscribe implements Subscriber and arms the initial deadline.
func (s *TimeoutStage[T]) OnSubscribe(ctx context.Context, sub Subscription) {
	s.state.Lock()
	ok := s.state.onSubscribeLocked(sub)
	s.state.Unlock()
	if !ok {
		sub.Cancel()
		return
	}
	s.downstream.OnSubscribe(ctx, s)
	s.armTimer()
}

func (s *TimeoutStage[T]) armTimer() {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	due := s.scheduler.Now().Add(s.interval)
	s.scheduler.ScheduleAfter(due, s.tolerance, s.opts, func() {
		s.fireTimeout(gen)
	})
}

func (s *TimeoutStage[T]) fireTimeout(gen uint64) {
	s.mu.Lock()
	current := s.generation
	s.mu.Unlock()
	if gen != current {
		return
	}

	s.state.Lock()
	up, ok := s.state.finishLocked()
	s.state.Unlock()
	if !ok {
		return
	}
	if up != nil {
		up.Cancel()
	}

	comp := Finished
	if s.onTimeoutErr != nil {
		comp = Failure(s.onTimeoutErr())
	}
	s.downstream.OnCompletion(context.Background(), comp)
}

// Request implements Subscription: forwarded upstream unchanged.
func (s *TimeoutStage[T]) Request(d Demand) {
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
func (s *TimeoutStage[T]) Cancel() {
	s.state.Lock()
	up, ok := s.state.finishLocked()
	s.state.Unlock()
	if ok && up != nil {
		up.Cancel()
	}
}

// OnNext implements Subscriber: resets the deadline, then dispatches the
// value through the scheduler like every other event passing through this
// stage.
func (s *TimeoutStage[T]) OnNext(ctx context.Context, v T) Demand {
	s.armTimer()

	s.scheduler.Schedule(s.opts, func() {
		s.state.Lock()
		if s.state.isTerminalLocked() {
			s.state.Unlock()
			return
		}
		up := s.state.upstreamLocked()
		s.state.Unlock()

		more := s.downstream.OnNext(ctx, v)

		s.state.Lock()
		stillOpen := !s.state.isTerminalLocked()
		s.state.Unlock()
		if stillOpen && up != nil && !more.IsZero() {
			up.Request(more)
		}
	})
	return None
}

// OnCompletion implements Subscriber: invalidates the pending deadline and
// dispatches the completion through the scheduler.
func (s *TimeoutStage[T]) OnCompletion(ctx context.Context, c Completion) {
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
