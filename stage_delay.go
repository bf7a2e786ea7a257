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

// DelayStage holds every value and the terminal signal for interval before
// delivering them downstream, each via its own scheduler.ScheduleAfter
// (C15, spec §4.10's delay). A terminal arriving while values are still in
// flight is held until they have all been delivered, so ordering is
// preserved; the stage's PendingTerminal state records that case.
type DelayStage[T any] struct {
	state      stageState
	downstream Subscriber[T]
	scheduler  Scheduler
	interval   Stride
	tolerance  Stride
	opts       SchedulerOptions

	mu                 sync.Mutex
	pendingValues      int
	pendingTerminal    bool
	terminalCompletion Completion
}

var _ Subscription = (*DelayStage[int])(nil)

// Delay builds a Publisher that delays every value and the terminal signal
// of upstream by interval, via scheduler.
func Delay[T any](upstream Publisher[T], interval Stride, tolerance Stride, scheduler Scheduler, opts SchedulerOptions) Publisher[T] {
	return PublisherFunc[T](func(ctx context.Context, down Subscriber[T]) {
		stage := &DelayStage[T]{
			state:      newStageState(),
			downstream: down,
			scheduler:  scheduler,
			interval:   interval,
			tolerance:  tolerance,
			opts:       opts,
		}
		upstream.Subscribe(ctx, stage)
	})
}

// OnSubscribe implements Subscriber.
func (s *DelayStage[T]) OnSubscribe(ctx context.Context, sub Subscription) {
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
func (s *DelayStage[T]) Request(d Demand) {
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
func (s *DelayStage[T]) Cancel() {
	s.state.Lock()
	up, ok := s.state.finishLocked()
	s.state.Unlock()
	if ok && up != nil {
		up.Cancel()
	}
}

// OnNext implements Subscriber by scheduling a delayed delivery of v.
func (s *DelayStage[T]) OnNext(ctx context.Context, v T) Demand {
	s.mu.Lock()
	s.pendingValues++
	s.mu.Unlock()

	due := s.scheduler.Now().Add(s.interval)
	s.scheduler.ScheduleAfter(due, s.tolerance, s.opts, func() {
		s.state.Lock()
		terminal := s.state.isTerminalLocked()
		s.state.Unlock()

		if !terminal {
			more := s.downstream.OnNext(ctx, v)

			s.state.Lock()
			up := s.state.upstreamLocked()
			stillOpen := !s.state.isTerminalLocked()
			s.state.Unlock()

			if stillOpen && up != nil && !more.IsZero() {
				up.Request(more)
			}
		}

		s.mu.Lock()
		s.pendingValues--
		flush := s.pendingValues == 0 && s.pendingTerminal
		comp := s.terminalCompletion
		s.mu.Unlock()

		if flush {
			s.deliverTerminal(ctx, comp)
		}
	})
	return None
}

// OnCompletion implements Subscriber. If values are still in flight, the
// completion is latched and flushed once the last one has been delivered;
// otherwise it is scheduled for delivery after interval, like every other
// event passing through this stage.
func (s *DelayStage[T]) OnCompletion(ctx context.Context, c Completion) {
	s.mu.Lock()
	if s.pendingValues > 0 {
		s.pendingTerminal = true
		s.terminalCompletion = c
		s.mu.Unlock()

		s.state.Lock()
		s.state.beginPendingTerminalLocked()
		s.state.Unlock()
		return
	}
	s.mu.Unlock()

	due := s.scheduler.Now().Add(s.interval)
	s.scheduler.ScheduleAfter(due, s.tolerance, s.opts, func() {
		s.deliverTerminal(ctx, c)
	})
}

func (s *DelayStage[T]) deliverTerminal(ctx context.Context, c Completion) {
	s.state.Lock()
	_, ok := s.state.finishLocked()
	s.state.Unlock()
	if !ok {
		return
	}
	s.downstream.OnCompletion(ctx, c)
}
