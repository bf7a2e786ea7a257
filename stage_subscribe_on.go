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

// SubscribeOnStage schedules the initial attach to upstream, plus every
// request/cancel from downstream, through a Scheduler (C15, spec §4.10's
// subscribe-on). Values and completions flow back to the downstream
// synchronously — there is no second execution-context hop on the data
// path, only on the control path.
type SubscribeOnStage[T any] struct {
	state      stageState
	downstream Subscriber[T]
	scheduler  Scheduler
	opts       SchedulerOptions
}

var _ Subscription = (*SubscribeOnStage[int])(nil)

// SubscribeOn builds a Publisher whose attach to upstream, and whose
// downstream's request/cancel calls, are dispatched through scheduler.
func SubscribeOn[T any](upstream Publisher[T], scheduler Scheduler, opts SchedulerOptions) Publisher[T] {
	return PublisherFunc[T](func(ctx context.Context, down Subscriber[T]) {
		stage := &SubscribeOnStage[T]{state: newStageState(), downstream: down, scheduler: scheduler, opts: opts}
		scheduler.Schedule(opts, func() {
			upstream.Subscribe(ctx, stage)
		})
	})
}

// OnSubscribe implements Subscriber.
func (s *SubscribeOnStage[T]) OnSubscribe(ctx context.Context, sub Subscription) {
	s.state.Lock()
	ok := s.state.onSubscribeLocked(sub)
	s.state.Unlock()
	if !ok {
		sub.Cancel()
		return
	}
	s.downstream.OnSubscribe(ctx, s)
}

// Request implements Subscription: dispatched through the scheduler.
func (s *SubscribeOnStage[T]) Request(d Demand) {
	requestMustBeNonZero(d)

	s.scheduler.Schedule(s.opts, func() {
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
	})
}

// Cancel implements Subscription: dispatched through the scheduler.
func (s *SubscribeOnStage[T]) Cancel() {
	s.scheduler.Schedule(s.opts, func() {
		s.state.Lock()
		up, ok := s.state.finishLocked()
		s.state.Unlock()
		if ok && up != nil {
			up.Cancel()
		}
	})
}

// OnNext implements Subscriber: passed through synchronously.
func (s *SubscribeOnStage[T]) OnNext(ctx context.Context, v T) Demand {
	return s.downstream.OnNext(ctx, v)
}

// OnCompletion implements Subscriber: passed through synchronously.
func (s *SubscribeOnStage[T]) OnCompletion(ctx context.Context, c Completion) {
	s.state.Lock()
	_, ok := s.state.finishLocked()
	s.state.Unlock()
	if !ok {
		return
	}
	s.downstream.OnCompletion(ctx, c)
}
