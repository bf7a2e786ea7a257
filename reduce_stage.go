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

// ReduceOutcome is what a ReduceHook returns after folding one value into
// the accumulator: either "keep going", or "stop now" with a given
// Completion (spec §4.9's early-termination hook, used by operators like
// AllSatisfy that can decide the final answer before upstream finishes).
type ReduceOutcome struct {
	finished   bool
	completion Completion
}

// ReduceContinue requests more values.
func ReduceContinue() ReduceOutcome { return ReduceOutcome{} }

// ReduceFinish stops accumulation immediately with completion c, cancelling
// upstream.
func ReduceFinish(c Completion) ReduceOutcome { return ReduceOutcome{finished: true, completion: c} }

// ReduceHook folds one upstream value into the accumulator and returns the
// new accumulator plus whether to keep going. Like FilterHook, this is a
// closure parameter rather than a method to override.
type ReduceHook[Input, Output any] func(ctx context.Context, acc Output, v Input) (Output, ReduceOutcome)

// ReduceStage is the abstract many-in-one-out intermediate stage (C13,
// spec §4.9). It always requests Unlimited demand from upstream at attach
// time (accumulation has to observe every value regardless of how much the
// downstream has asked for), and only emits its single accumulated result
// once both the downstream has requested at least one value AND upstream
// has completed (or the hook requested early termination).
type ReduceStage[Input, Output any] struct {
	state stageState
	hook  ReduceHook[Input, Output]
	seed  Output

	downstream          Subscriber[Output]
	result              Output
	hasResult           bool
	downstreamRequested bool
	upstreamCompleted   bool
	upstreamCompletion  Completion
}

var _ Subscription = (*ReduceStage[int, int])(nil)

// NewReduceStage builds a reduce-stage seeded with seed, driven by hook,
// delivering its single result to downstream. The seed counts as the
// result, so an upstream that finishes without values emits seed.
func NewReduceStage[Input, Output any](downstream Subscriber[Output], seed Output, hook ReduceHook[Input, Output]) *ReduceStage[Input, Output] {
	return &ReduceStage[Input, Output]{state: newStageState(), hook: hook, seed: seed, result: seed, hasResult: true, downstream: downstream}
}

// OnSubscribe implements Subscriber.
func (s *ReduceStage[Input, Output]) OnSubscribe(ctx context.Context, sub Subscription) {
	s.state.Lock()
	ok := s.state.onSubscribeLocked(sub)
	s.state.Unlock()
	if !ok {
		sub.Cancel()
		return
	}
	s.downstream.OnSubscribe(ctx, s)
	sub.Request(Unlimited)
}

// Request implements Subscription. Reduce-stage demand does not flow
// upstream (upstream was already asked for Unlimited); it only gates when
// the accumulated result may finally be emitted.
func (s *ReduceStage[Input, Output]) Request(d Demand) {
	requestMustBeNonZero(d)

	s.state.Lock()
	if s.state.isTerminalLocked() {
		s.state.Unlock()
		return
	}
	s.downstreamRequested = true
	s.state.Unlock()

	s.attemptEmit(context.Background())
}

// Cancel implements Subscription. Idempotent.
func (s *ReduceStage[Input, Output]) Cancel() {
	s.state.Lock()
	up, ok := s.state.finishLocked()
	s.state.Unlock()
	if ok && up != nil {
		up.Cancel()
	}
}

// OnNext implements Subscriber by folding v into the accumulator.
func (s *ReduceStage[Input, Output]) OnNext(ctx context.Context, v Input) Demand {
	s.state.Lock()
	if s.state.isTerminalLocked() {
		s.state.Unlock()
		return None
	}
	acc := s.result
	s.state.Unlock()

	newAcc, outcome := s.invokeHook(ctx, acc, v)

	s.state.Lock()
	if s.state.isTerminalLocked() {
		s.state.Unlock()
		return None
	}
	s.result = newAcc
	s.hasResult = true
	s.state.Unlock()

	if outcome.finished {
		s.completeEarly(ctx, outcome.completion)
	}
	return None
}

// OnCompletion implements Subscriber.
func (s *ReduceStage[Input, Output]) OnCompletion(ctx context.Context, c Completion) {
	s.state.Lock()
	if s.state.isTerminalLocked() {
		s.state.Unlock()
		return
	}
	s.upstreamCompleted = true
	s.upstreamCompletion = c
	s.state.Unlock()

	s.attemptEmit(ctx)
}

func (s *ReduceStage[Input, Output]) completeEarly(ctx context.Context, c Completion) {
	s.state.Lock()
	if s.state.isTerminalLocked() {
		s.state.Unlock()
		return
	}
	up := s.state.upstreamLocked()
	s.upstreamCompleted = true
	s.upstreamCompletion = c
	s.state.Unlock()

	if up != nil {
		up.Cancel()
	}
	s.attemptEmit(ctx)
}

// attemptEmit delivers the accumulated result exactly once, gated on
// downstream_requested && upstream_completed (spec §4.9). The stage's own
// terminal transition is the single-emission guard.
func (s *ReduceStage[Input, Output]) attemptEmit(ctx context.Context) {
	s.state.Lock()
	if s.state.isTerminalLocked() || !s.downstreamRequested || !s.upstreamCompleted {
		s.state.Unlock()
		return
	}
	_, ok := s.state.finishLocked()
	if !ok {
		s.state.Unlock()
		return
	}
	result := s.result
	hasResult := s.hasResult
	comp := s.upstreamCompletion
	s.state.Unlock()

	if comp.IsFailure() {
		s.downstream.OnCompletion(ctx, comp)
		return
	}
	if hasResult {
		s.downstream.OnNext(ctx, result)
	}
	s.downstream.OnCompletion(ctx, Finished)
}

func (s *ReduceStage[Input, Output]) invokeHook(ctx context.Context, acc Output, v Input) (result Output, outcome ReduceOutcome) {
	defer func() {
		if r := recover(); r != nil {
			result = acc
			outcome = ReduceOutcome{finished: true, completion: Failure(recoverToStageError(r))}
		}
	}()
	return s.hook(ctx, acc, v)
}
