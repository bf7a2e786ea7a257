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

// Publisher declares that a type can produce a sequence of values over
// time, delivered to a Subscriber (spec §4.3). Subscribe constructs
// whatever internal node(s) are needed, hands a Subscription to sub, and
// arranges for values to flow in response to sub's Request calls. A chain
// built from operators is constructed from the downstream terminus up to
// the source: each operator's Subscribe is invoked by the next operator
// downstream, passing an internal stage object that plays both roles —
// Subscriber to its upstream, Subscription to its downstream.
type Publisher[T any] interface {
	Subscribe(ctx context.Context, sub Subscriber[T])
}

// PublisherFunc adapts a plain function into a Publisher, the simplest way
// to build a source from scratch (grounded on samber/ro's
// NewObservableWithContext constructor style).
type PublisherFunc[T any] func(ctx context.Context, sub Subscriber[T])

// Subscribe implements Publisher.
func (f PublisherFunc[T]) Subscribe(ctx context.Context, sub Subscriber[T]) {
	f(ctx, sub)
}

// Subscribe attaches sub to pub using context.Background(). It is a
// convenience for call sites that don't need a subscription-scoped
// context.
func Subscribe[T any](pub Publisher[T], sub Subscriber[T]) {
	pub.Subscribe(context.Background(), sub)
}
