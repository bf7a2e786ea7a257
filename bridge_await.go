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
	"errors"
	"sync"
)

// ErrNoValue is returned by AwaitFirstValue when upstream completes with
// Finished before ever delivering a value.
var ErrNoValue = errors.New("reactor: upstream finished without a value")

// AwaitFirstValue bridges a Publisher into a blocking call for async
// contexts (spec §5/§9's async bridge): it installs a one-shot Subscriber
// requesting Demand=1 and blocks the calling goroutine until the first
// value or the completion arrives, whichever comes first. The continuation
// is resumed at most once, even if upstream delivers more than it should
// (that would itself be a contract violation upstream's own assertions
// should have already caught). If ctx is cancelled first, the subscription
// is cancelled and ctx.Err() is returned.
func AwaitFirstValue[T any](ctx context.Context, upstream Publisher[T]) (T, error) {
	type result struct {
		value T
		err   error
	}

	done := make(chan result, 1)
	var once sync.Once
	resolve := func(r result) { once.Do(func() { done <- r }) }

	var mu sync.Mutex
	var subscription Subscription

	sub := NewSubscriberFuncs[T](
		func(_ context.Context, s Subscription) {
			mu.Lock()
			subscription = s
			mu.Unlock()
			s.Request(NewDemand(1))
		},
		func(_ context.Context, value T) Demand {
			resolve(result{value: value})
			return None
		},
		func(_ context.Context, c Completion) {
			if c.IsFailure() {
				resolve(result{err: c.Err})
			} else {
				resolve(result{err: ErrNoValue})
			}
		},
	)

	upstream.Subscribe(ctx, sub)

	select {
	case r := <-done:
		return r.value, r.err
	case <-ctx.Done():
		mu.Lock()
		s := subscription
		mu.Unlock()
		if s != nil {
			s.Cancel()
		}
		var zero T
		return zero, ctx.Err()
	}
}
