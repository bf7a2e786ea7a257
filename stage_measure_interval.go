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

// MeasureInterval replaces every upstream value with the Stride since the
// previous one (or since attach, for the first) (C15, spec §4.10's
// measure-interval). There is no scheduling hop on the value path; the
// scheduler is consulted only to read Now.
func MeasureInterval[T any](upstream Publisher[T], scheduler Scheduler) Publisher[Stride] {
	return PublisherFunc[Stride](func(ctx context.Context, down Subscriber[Stride]) {
		last := scheduler.Now()
		stage := NewFilterStage[T, Stride](down, func(ctx context.Context, v T) FilterResult[Stride] {
			now := scheduler.Now()
			stride := last.DistanceTo(now)
			last = now
			return FilterEmit(stride)
		})
		upstream.Subscribe(ctx, stage)
	})
}
