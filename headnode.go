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

// Connectable is implemented by head publishers whose underlying source is
// shared across every subscriber — an auto-broadcasting timer, a
// notification center — instead of started fresh per subscription (spec
// §4.11's connectable-publisher pattern). Subscribe only registers the
// subscriber in a dispatch table; the source itself is started by Connect,
// and dropping the returned Cancellable stops the source and detaches
// every subscriber.
type Connectable interface {
	Connect() Cancellable
}

// headNodeSubscription is the shared skeleton behind a head-node publisher
// that bridges a single-result external source (C16, spec §4.11): a
// network request, a one-shot file read. The subscription object registers
// with the source itself, implements Subscription, and every inbound event
// checks demand before delivering.
//
// Registration is deferred to the first Request call (spec's "network
// requests defer work to first request"); Cancel deregisters from the
// source (via the stored cancel closure) and nils out the downstream
// reference, breaking the cycle the same way every stage's finishLocked
// does.
type headNodeSubscription[T any] struct {
	mu         sync.Mutex
	downstream Subscriber[T]
	demand     Demand
	started    bool
	terminal   bool

	// start is invoked exactly once, on the first Request with non-zero
	// demand. It should perform the actual registration with the external
	// source (issue the HTTP request, start the filesystem watch, ...) and
	// eventually call deliverValue/deliverFailure/deliverFinished.
	start func()

	// cancelSource deregisters from the external source. May be nil for
	// sources with nothing to deregister from (already-resolved values).
	cancelSource func()
}

var _ Subscription = (*headNodeSubscription[int])(nil)

func newHeadNodeSubscription[T any](downstream Subscriber[T], start func(), cancelSource func()) *headNodeSubscription[T] {
	return &headNodeSubscription[T]{downstream: downstream, start: start, cancelSource: cancelSource}
}

// Request implements Subscription. The source is registered with on the
// first call; every call accumulates demand.
func (s *headNodeSubscription[T]) Request(d Demand) {
	requestMustBeNonZero(d)

	s.mu.Lock()
	if s.terminal {
		s.mu.Unlock()
		return
	}
	s.demand = s.demand.Add(d)
	shouldStart := !s.started
	s.started = true
	s.mu.Unlock()

	if shouldStart && s.start != nil {
		s.start()
	}
}

// Cancel implements Subscription: deregisters from the source and nils the
// downstream reference so the subscription cannot retain it past teardown.
func (s *headNodeSubscription[T]) Cancel() {
	s.mu.Lock()
	if s.terminal {
		s.mu.Unlock()
		return
	}
	s.terminal = true
	s.downstream = nil
	cancelSource := s.cancelSource
	s.mu.Unlock()

	if cancelSource != nil {
		cancelSource()
	}
}

// deliverValue offers v to the downstream if demand allows. Without
// outstanding demand the value is not kept for a later Request: it is
// dropped and reported to OnDroppedNotification. Returns true if it was
// delivered or dropped for lack of demand, false if the subscription was
// already terminal.
func (s *headNodeSubscription[T]) deliverValue(ctx context.Context, v T) bool {
	s.mu.Lock()
	if s.terminal {
		s.mu.Unlock()
		return false
	}
	if !s.demand.AtLeastOne() {
		s.mu.Unlock()
		OnDroppedNotification(ctx, NewNotificationNext(v))
		return true
	}
	s.demand = s.demand.Sub(NewDemand(1))
	down := s.downstream
	s.mu.Unlock()

	more := down.OnNext(ctx, v)

	s.mu.Lock()
	if !s.terminal {
		s.demand = s.demand.Add(more)
	}
	s.mu.Unlock()
	return true
}

// deliverCompletion delivers a terminal signal unconditionally (terminal
// delivery bypasses demand gating) and marks the subscription terminal.
func (s *headNodeSubscription[T]) deliverCompletion(ctx context.Context, c Completion) {
	s.mu.Lock()
	if s.terminal {
		s.mu.Unlock()
		return
	}
	s.terminal = true
	down := s.downstream
	s.downstream = nil
	s.mu.Unlock()

	if down != nil {
		down.OnCompletion(ctx, c)
	}
}

func (s *headNodeSubscription[T]) isTerminal() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.terminal
}
