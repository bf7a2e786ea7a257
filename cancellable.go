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
	"runtime"
	"sync"

	"github.com/trailmark/reactor/internal/xerrors"
)

// Cancellable is anything whose Cancel tears down a pipeline (or any other
// resource) at most once.
type Cancellable interface {
	Cancel()
}

// CancelFunc is a teardown closure. It is called at most once by the
// AnyCancellable that wraps it.
type CancelFunc func()

// AnyCancellable is a type-erased handle around an at-most-once teardown
// closure. Calling Cancel runs the closure; so does garbage collection of
// the AnyCancellable if Cancel was never called, which approximates the
// reference source's "runs on drop" semantics in a language without
// deterministic destructors (see DESIGN.md for the tradeoff). Two
// AnyCancellables are equal iff they are the same instance (pointer
// identity), which makes *AnyCancellable usable directly as a map key — the
// idiomatic Go substitute for the reference source's hashable-by-identity
// requirement.
//
// Grounded on samber/ro's subscriptionImpl (subscription.go): the same
// "collect finalizers, run once under a mutex, convert teardown panics to
// errors" discipline, narrowed here to a single teardown instead of a bag
// (the bag is CancellableBag, below).
type AnyCancellable struct {
	mu       sync.Mutex
	done     bool
	teardown CancelFunc
}

var _ Cancellable = (*AnyCancellable)(nil)

// NewCancellable wraps teardown in an AnyCancellable. A nil teardown is
// legal and produces a handle whose Cancel is a no-op.
func NewCancellable(teardown CancelFunc) *AnyCancellable {
	c := &AnyCancellable{teardown: teardown}
	if teardown != nil {
		runtime.SetFinalizer(c, (*AnyCancellable).finalize)
	}
	return c
}

// NewAnyCancellableFrom erases any Cancellable into an *AnyCancellable.
// Erasing an already-erased *AnyCancellable returns it unchanged rather
// than double-boxing it behind a second layer (testable property #6).
func NewAnyCancellableFrom(c Cancellable) *AnyCancellable {
	if already, ok := c.(*AnyCancellable); ok {
		return already
	}
	return NewCancellable(c.Cancel)
}

// Cancel runs the teardown closure if it has not already run. Idempotent:
// a second call observes no effect (testable property #7).
func (c *AnyCancellable) Cancel() {
	c.mu.Lock()
	if c.done {
		c.mu.Unlock()
		return
	}
	c.done = true
	teardown := c.teardown
	c.teardown = nil
	c.mu.Unlock()

	if teardown != nil {
		runtime.SetFinalizer(c, nil)
		teardown()
	}
}

// IsCancelled reports whether Cancel has already run.
func (c *AnyCancellable) IsCancelled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}

func (c *AnyCancellable) finalize() {
	c.Cancel()
}

// StoreIn appends c to bag. This is the idiomatic Go substitute for the
// reference source's "cancellables.insert(in:)" convenience: when bag is
// itself cancelled (or dropped, see CancellableBag), every AnyCancellable
// stored in it is cancelled too.
func (c *AnyCancellable) StoreIn(bag *CancellableBag) {
	bag.Add(c)
}

// CancellableBag is an ordered, RAII-style collection of cancellables: the
// "store in a set/sequence" discipline from spec §4.4/§6. Cancelling the
// bag cancels every cancellable it holds, in insertion order. The bag
// itself can be stored as a struct field so an owner's teardown cancels
// its whole pipeline fan-out with one call.
type CancellableBag struct {
	mu       sync.Mutex
	done     bool
	children []Cancellable
}

// NewCancellableBag creates an empty bag.
func NewCancellableBag() *CancellableBag {
	return &CancellableBag{}
}

// Add stores c in the bag. If the bag has already been cancelled, c is
// cancelled immediately instead of being retained.
func (b *CancellableBag) Add(c Cancellable) {
	if c == nil {
		return
	}

	b.mu.Lock()
	if b.done {
		b.mu.Unlock()
		c.Cancel()
		return
	}
	b.children = append(b.children, c)
	b.mu.Unlock()
}

// Cancel cancels every cancellable currently in the bag, in insertion
// order, then marks the bag itself as done. Safe for concurrent and
// repeated calls; a second call is a no-op.
func (b *CancellableBag) Cancel() {
	b.mu.Lock()
	if b.done {
		b.mu.Unlock()
		return
	}
	b.done = true
	children := b.children
	b.children = nil
	b.mu.Unlock()

	var errs []error
	for _, c := range children {
		errs = append(errs, tryCancel(c))
	}

	if joined := xerrors.Join(errs...); joined != nil {
		panic(joined)
	}
}

func tryCancel(c Cancellable) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recoverToStageError(r)
		}
	}()
	c.Cancel()
	return nil
}

// Len returns the number of cancellables currently retained by the bag.
func (b *CancellableBag) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.children)
}
