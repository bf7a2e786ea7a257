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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestAwaitFirstValue_ReturnsFirstValue(t *testing.T) {
	defer goleak.VerifyNone(t)

	source := FromSlice([]int{7, 8, 9})
	v, err := AwaitFirstValue(context.Background(), source)
	assert.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestAwaitFirstValue_EmptySourceReturnsErrNoValue(t *testing.T) {
	defer goleak.VerifyNone(t)

	source := FromSlice([]int{})
	_, err := AwaitFirstValue(context.Background(), source)
	assert.ErrorIs(t, err, ErrNoValue)
}

func TestAwaitFirstValue_FailurePropagates(t *testing.T) {
	defer goleak.VerifyNone(t)

	source := PublisherFunc[int](func(ctx context.Context, down Subscriber[int]) {
		down.OnSubscribe(ctx, EmptySubscription())
		down.OnCompletion(ctx, Failure(assert.AnError))
	})

	_, err := AwaitFirstValue(context.Background(), source)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestAwaitFirstValue_ContextCancellationCancelsSubscription(t *testing.T) {
	defer goleak.VerifyNone(t)

	source := &countingSource{values: nil}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := AwaitFirstValue(ctx, source)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, source.Cancelled())
}
