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

// AnyPublisher is a type-erased Publisher: it wraps any concrete Publisher[T]
// implementation behind a single concrete type, so an operator chain's
// static type does not grow with every stage (spec §4.5, C8).
type AnyPublisher[T any] struct {
	inner Publisher[T]
}

var _ Publisher[int] = AnyPublisher[int]{}

// NewAnyPublisher erases pub's concrete type. Erasing an already-erased
// AnyPublisher returns an equivalent value without double-boxing
// (testable property #6): the inner handle is reused directly instead of
// being wrapped a second time.
func NewAnyPublisher[T any](pub Publisher[T]) AnyPublisher[T] {
	if already, ok := pub.(AnyPublisher[T]); ok {
		return already
	}
	return AnyPublisher[T]{inner: pub}
}

// Subscribe implements Publisher by forwarding to the wrapped Publisher.
func (p AnyPublisher[T]) Subscribe(ctx context.Context, sub Subscriber[T]) {
	p.inner.Subscribe(ctx, sub)
}
