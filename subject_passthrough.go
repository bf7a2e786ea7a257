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

// PassthroughSubject is the plain broadcast hub variant: values sent before
// a subscriber attaches are simply missed by that subscriber (spec §4.6,
// scenario S1's "pull discipline" requirement — a subscriber with zero
// demand observes nothing until it requests). It carries no retained value
// of its own.
//
// Grounded on samber/ro's publishSubjectImpl (subject_publish.go), whose
// status+observer-map+broadcast shape this reuses, generalized from
// unconditional fanout to per-conduit demand accounting.
type PassthroughSubject[T any] struct {
	core hubCore[T]
}

var (
	_ Subject[int]    = (*PassthroughSubject[int])(nil)
	_ Publisher[int]  = (*PassthroughSubject[int])(nil)
	_ Subscriber[int] = (*PassthroughSubject[int])(nil)
)

// NewPassthroughSubject creates an empty passthrough hub.
func NewPassthroughSubject[T any]() *PassthroughSubject[T] {
	s := &PassthroughSubject[T]{core: newHubCore[T](nil)}
	s.core.attachFinalizer(s)
	return s
}

// Subscribe implements Publisher.
func (s *PassthroughSubject[T]) Subscribe(ctx context.Context, sub Subscriber[T]) {
	s.core.subscribe(ctx, sub)
}

// SendValue multicasts value to every conduit with outstanding demand;
// conduits with none simply drop it (reported via OnDroppedNotification).
func (s *PassthroughSubject[T]) SendValue(ctx context.Context, value T) {
	s.core.sendValue(ctx, value)
}

// SendCompletion terminates the hub: every attached conduit receives comp
// immediately regardless of demand, and any future subscriber is replayed
// comp instead of being attached.
func (s *PassthroughSubject[T]) SendCompletion(ctx context.Context, comp Completion) {
	s.core.sendCompletion(ctx, comp)
}

// OnSubscribe implements Subscriber, allowing the hub to sit downstream of
// another Publisher and multiplex its values onward. The upstream feeder is
// requested Unlimited immediately.
func (s *PassthroughSubject[T]) OnSubscribe(ctx context.Context, sub Subscription) {
	s.core.onUpstreamSubscribe(ctx, sub)
}

// OnNext implements Subscriber by re-broadcasting v to every downstream
// conduit. The hub always has outstanding capacity from its own point of
// view (it requested Unlimited upstream), so it always returns None here —
// per-conduit backpressure is enforced independently on the way out.
func (s *PassthroughSubject[T]) OnNext(ctx context.Context, v T) Demand {
	s.core.sendValue(ctx, v)
	return None
}

// OnCompletion implements Subscriber by forwarding comp to every downstream
// conduit and latching the hub terminal.
func (s *PassthroughSubject[T]) OnCompletion(ctx context.Context, comp Completion) {
	s.core.sendCompletion(ctx, comp)
}

// ConduitCount reports how many subscribers are currently attached.
// Exposed for tests and introspection, not part of the Subject interface.
func (s *PassthroughSubject[T]) ConduitCount() int {
	return s.core.CountConduits()
}
