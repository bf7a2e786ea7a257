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

// FromSlice builds a Publisher that replays a fixed, already-known sequence
// of values strictly on demand: no more than requested is ever delivered,
// values are produced synchronously as demand allows, and a Finished
// follows the last one. Each Subscribe gets its own independent walk
// through a defensive copy of values.
func FromSlice[T any](values []T) Publisher[T] {
	return PublisherFunc[T](func(ctx context.Context, down Subscriber[T]) {
		cp := make([]T, len(values))
		copy(cp, values)
		sub := &sequenceSubscription[T]{values: cp, downstream: down}
		down.OnSubscribe(ctx, sub)
	})
}

// sequenceSubscription drains values one at a time as demand is requested.
// Request may be called re-entrantly from inside a downstream OnNext (a
// subscriber that immediately requests more); draining guards against
// recursing into drain() and instead lets the running loop pick the new
// demand up on its next iteration.
type sequenceSubscription[T any] struct {
	mu         sync.Mutex
	values     []T
	index      int
	demand     Demand
	terminal   bool
	draining   bool
	downstream Subscriber[T]
}

var _ Subscription = (*sequenceSubscription[int])(nil)

func (s *sequenceSubscription[T]) Request(d Demand) {
	requestMustBeNonZero(d)

	s.mu.Lock()
	if s.terminal {
		s.mu.Unlock()
		return
	}
	s.demand = s.demand.Add(d)
	if s.draining {
		s.mu.Unlock()
		return
	}
	s.draining = true
	s.mu.Unlock()

	s.drain()
}

func (s *sequenceSubscription[T]) drain() {
	ctx := context.Background()
	for {
		s.mu.Lock()
		if s.terminal {
			s.draining = false
			s.mu.Unlock()
			return
		}
		if s.index >= len(s.values) {
			s.terminal = true
			s.draining = false
			s.mu.Unlock()
			s.downstream.OnCompletion(ctx, Finished)
			return
		}
		if !s.demand.AtLeastOne() {
			s.draining = false
			s.mu.Unlock()
			return
		}

		v := s.values[s.index]
		s.index++
		s.demand = s.demand.Sub(NewDemand(1))
		s.mu.Unlock()

		more := s.downstream.OnNext(ctx, v)

		s.mu.Lock()
		if !s.terminal {
			s.demand = s.demand.Add(more)
		}
		s.mu.Unlock()
	}
}

// Cancel implements Subscription. Idempotent.
func (s *sequenceSubscription[T]) Cancel() {
	s.mu.Lock()
	s.terminal = true
	s.mu.Unlock()
}
