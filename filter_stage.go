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

// filterAction is the outcome tag of a FilterHook invocation.
type filterAction uint8

const (
	filterSkip filterAction = iota
	filterEmit
	filterFinish
	filterEmitThenFinish
)

// FilterResult is what a FilterHook returns for one upstream value: skip it
// (produce nothing, but keep the pipeline open), emit a transformed value,
// or terminate the stage early with a given Completion (spec §4.8's
// "receive_new may itself signal completion", used by operators like
// PrefixWhile that stop based on the value they just saw rather than
// waiting for upstream to finish).
type FilterResult[Output any] struct {
	action     filterAction
	output     Output
	completion Completion
}

// FilterSkip discards the current input without producing an output.
func FilterSkip[Output any]() FilterResult[Output] {
	return FilterResult[Output]{action: filterSkip}
}

// FilterEmit forwards output downstream.
func FilterEmit[Output any](output Output) FilterResult[Output] {
	return FilterResult[Output]{action: filterEmit, output: output}
}

// FilterFinish terminates the stage immediately with c, cancelling upstream
// without waiting for it to complete on its own.
func FilterFinish[Output any](c Completion) FilterResult[Output] {
	return FilterResult[Output]{action: filterFinish, completion: c}
}

// FilterEmitThenFinish forwards output downstream and then immediately
// terminates the stage with c, without waiting for another input (used by
// operators such as FirstWhere that stop right after their first match).
func FilterEmitThenFinish[Output any](output Output, c Completion) FilterResult[Output] {
	return FilterResult[Output]{action: filterEmitThenFinish, output: output, completion: c}
}

// FilterHook is the single point every filter-stage operator (Map, Filter,
// RemoveDuplicates, PrefixWhile, ...) customizes. It is a plain closure
// rather than a method a concrete type overrides, per the "capability
// parameter" style spec §9 calls for in place of inheritance.
type FilterHook[Input, Output any] func(ctx context.Context, v Input) FilterResult[Output]

// FilterStage is the abstract one-in-one-or-zero-out intermediate stage
// (C12, spec §4.8). It is simultaneously upstream's Subscriber and
// downstream's Subscription. Demand passes through 1:1 except that a
// skipped input does not count against what was requested, so the stage
// requests one extra item upstream to compensate and keep downstream's
// outstanding demand satisfiable.
type FilterStage[Input, Output any] struct {
	state      stageState
	hook       FilterHook[Input, Output]
	downstream Subscriber[Output]
}

var _ Subscription = (*FilterStage[int, int])(nil)

// NewFilterStage builds a filter-stage driven by hook, delivering to
// downstream.
func NewFilterStage[Input, Output any](downstream Subscriber[Output], hook FilterHook[Input, Output]) *FilterStage[Input, Output] {
	return &FilterStage[Input, Output]{state: newStageState(), hook: hook, downstream: downstream}
}

// OnSubscribe implements Subscriber: records the upstream Subscription and
// hands the stage itself to downstream as its Subscription.
func (s *FilterStage[Input, Output]) OnSubscribe(ctx context.Context, sub Subscription) {
	s.state.Lock()
	ok := s.state.onSubscribeLocked(sub)
	s.state.Unlock()
	if !ok {
		sub.Cancel()
		return
	}
	s.downstream.OnSubscribe(ctx, s)
}

// Request implements Subscription by forwarding demand upstream unchanged.
func (s *FilterStage[Input, Output]) Request(d Demand) {
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

// Cancel implements Subscription: terminates the stage and cancels
// upstream. Idempotent.
func (s *FilterStage[Input, Output]) Cancel() {
	s.state.Lock()
	up, ok := s.state.finishLocked()
	s.state.Unlock()
	if ok && up != nil {
		up.Cancel()
	}
}

// OnNext implements Subscriber by running hook and acting on its verdict.
func (s *FilterStage[Input, Output]) OnNext(ctx context.Context, v Input) Demand {
	s.state.Lock()
	terminal := s.state.isTerminalLocked()
	s.state.Unlock()
	if terminal {
		return None
	}

	result := s.invokeHook(ctx, v)

	switch result.action {
	case filterSkip:
		return NewDemand(1)
	case filterEmit:
		return s.downstream.OnNext(ctx, result.output)
	case filterFinish:
		s.finish(ctx, result.completion)
		return None
	case filterEmitThenFinish:
		s.downstream.OnNext(ctx, result.output)
		s.finish(ctx, result.completion)
		return None
	default:
		return None
	}
}

// OnCompletion implements Subscriber.
func (s *FilterStage[Input, Output]) OnCompletion(ctx context.Context, c Completion) {
	s.finish(ctx, c)
}

func (s *FilterStage[Input, Output]) finish(ctx context.Context, c Completion) {
	s.state.Lock()
	up, ok := s.state.finishLocked()
	s.state.Unlock()
	if !ok {
		return
	}
	if up != nil {
		up.Cancel()
	}
	s.downstream.OnCompletion(ctx, c)
}

func (s *FilterStage[Input, Output]) invokeHook(ctx context.Context, v Input) (result FilterResult[Output]) {
	defer func() {
		if r := recover(); r != nil {
			result = FilterResult[Output]{action: filterFinish, completion: Failure(recoverToStageError(r))}
		}
	}()
	return s.hook(ctx, v)
}
