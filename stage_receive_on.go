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

import "context"

// ReceiveOnStage re-dispatches values and completions through a Scheduler
// before they reach the downstream (C15, spec §4.10's receive-on). Only
// the delivery of values/completions is scheduled; OnSubscribe is not, and
// request/cancel from downstream are forwarded upstream synchronously.
// Demand accounting happens after the scheduled delivery runs, using the
// downstream's returned demand to re-request upstream.
type ReceiveOnStage[T any] struct {
	state      stageState
	downstream Subscriber[T]
	scheduler  Scheduler
	opts       SchedulerOptions
}

var _ Subscription = (*ReceiveOnStage[int])(nil)

// ReceiveOn builds a Publisher that delivers upstream's values and
// completion through scheduler.
func ReceiveOn[T any](upstream Publisher[T], scheduler Scheduler, opts SchedulerOptions) Publisher[T] {
	return PublisherFunc[T](func(ctx context.Context, down Subscriber[T]) {
		stage := &ReceiveOnStage[T]{state: newStageState(), downstream: down, scheduler: scheduler, opts: opts}
		upstream.Subscribe(ctx, stage)
	})
}

// OnSubscribe implements Subscriber. Not scheduled.
func (s *ReceiveOnStage[T]) OnSubscribe(ctx context.Context, sub Subscription) {
	s.state.Lock()
	ok := s.state.onSubscribeLocked(sub)
	s.state.Unlock()
	if !ok {
		sub.Cancel()
		return
	}
	s.downstream.OnSubscribe(ctx, s)
}

// Request implements Subscription: forwarded upstream synchronously.
func (s *ReceiveOnStage[T]) Request(d Demand) {
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

// Cancel implements Subscription: forwarded upstream synchronously.
func (s *ReceiveOnStage[T]) Cancel() {
	s.state.Lock()
	up, ok := s.state.finishLocked()
	s.state.Unlock()
	if ok && up != nil {
		up.Cancel()
	}
}

// OnNext implements Subscriber by scheduling the downstream delivery. The
// demand returned here is always None; the real demand increment is
// applied to upstream once the scheduled delivery has actually run.
func (s *ReceiveOnStage[T]) OnNext(ctx context.Context, v T) Demand {
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

// OnCompletion implements Subscriber by scheduling the terminal delivery.
func (s *ReceiveOnStage[T]) OnCompletion(ctx context.Context, c Completion) {
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
