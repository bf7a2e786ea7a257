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

// CurrentValueSubject is the retained-value broadcast hub variant: it
// always holds a current value, and a new subscriber is synthesized a
// delivery of it on its first non-zero request — without needing a value
// to have arrived after it subscribed (spec §4.6, scenario S2). SendValue
// both updates the retained value and multicasts it like
// PassthroughSubject.
//
// Grounded on samber/ro's publishSubjectImpl the same way
// PassthroughSubject is, with the retained-value half modeled on the
// spec's "current-value hub" being a conduit[T] consumer rather than a
// distinct broadcast mechanism — this is exactly the synthesizeCurrent hook
// conduit.Request already knows how to drive.
type CurrentValueSubject[T any] struct {
	core hubCore[T]

	valueMu sync.RWMutex
	value   T
}

var (
	_ Subject[int]    = (*CurrentValueSubject[int])(nil)
	_ Publisher[int]  = (*CurrentValueSubject[int])(nil)
	_ Subscriber[int] = (*CurrentValueSubject[int])(nil)
)

// NewCurrentValueSubject creates a hub retaining initial as its current
// value.
func NewCurrentValueSubject[T any](initial T) *CurrentValueSubject[T] {
	s := &CurrentValueSubject[T]{value: initial}
	s.core = newHubCore[T](s.readCurrent)
	s.core.attachFinalizer(s)
	return s
}

func (s *CurrentValueSubject[T]) readCurrent() (T, bool) {
	s.valueMu.RLock()
	defer s.valueMu.RUnlock()
	return s.value, true
}

// Value returns the currently retained value.
func (s *CurrentValueSubject[T]) Value() T {
	s.valueMu.RLock()
	defer s.valueMu.RUnlock()
	return s.value
}

// SetValue updates the retained value without producing a send to
// downstream conduits. Used when a value needs to be available for future
// synthesis (e.g. seeding) without notifying current subscribers — SendValue
// is the call that both updates and notifies.
func (s *CurrentValueSubject[T]) SetValue(v T) {
	s.valueMu.Lock()
	s.value = v
	s.valueMu.Unlock()
}

// Subscribe implements Publisher.
func (s *CurrentValueSubject[T]) Subscribe(ctx context.Context, sub Subscriber[T]) {
	s.core.subscribe(ctx, sub)
}

// SendValue updates the retained current value and multicasts it to every
// conduit with outstanding demand.
func (s *CurrentValueSubject[T]) SendValue(ctx context.Context, value T) {
	s.SetValue(value)
	s.core.sendValue(ctx, value)
}

// SendCompletion terminates the hub, as PassthroughSubject.SendCompletion.
func (s *CurrentValueSubject[T]) SendCompletion(ctx context.Context, comp Completion) {
	s.core.sendCompletion(ctx, comp)
}

// OnSubscribe implements Subscriber; see PassthroughSubject.OnSubscribe.
func (s *CurrentValueSubject[T]) OnSubscribe(ctx context.Context, sub Subscription) {
	s.core.onUpstreamSubscribe(ctx, sub)
}

// OnNext implements Subscriber by updating the retained value and
// re-broadcasting it.
func (s *CurrentValueSubject[T]) OnNext(ctx context.Context, v T) Demand {
	s.SendValue(ctx, v)
	return None
}

// OnCompletion implements Subscriber; see PassthroughSubject.OnCompletion.
func (s *CurrentValueSubject[T]) OnCompletion(ctx context.Context, comp Completion) {
	s.core.sendCompletion(ctx, comp)
}

// ConduitCount reports how many subscribers are currently attached.
func (s *CurrentValueSubject[T]) ConduitCount() int {
	return s.core.CountConduits()
}
