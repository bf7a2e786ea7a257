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

import "time"

// ImmediateScheduler runs Schedule's action synchronously, on the calling
// goroutine, and backs ScheduleAfter/ScheduleRepeating with standard
// library timers. It is the simplest Scheduler that satisfies the
// interface without introducing an execution-context hop for Schedule
// itself — useful for tests that want scheduler-interposed stage semantics
// (demand accounting, PendingTerminal bookkeeping) without the
// nondeterminism of an actual goroutine handoff.
type ImmediateScheduler struct{}

var _ Scheduler = ImmediateScheduler{}

// NewImmediateScheduler returns an ImmediateScheduler. It has no state, so
// every call returns an equivalent value.
func NewImmediateScheduler() ImmediateScheduler { return ImmediateScheduler{} }

func (ImmediateScheduler) Now() Time { return WallClockNow() }

func (ImmediateScheduler) MinTolerance() Stride { return Nanoseconds(0) }

func (ImmediateScheduler) Schedule(opts SchedulerOptions, action Action) {
	action()
}

func (ImmediateScheduler) ScheduleAfter(date Time, tolerance Stride, opts SchedulerOptions, action Action) {
	d := time.Until(date.AsTime())
	if d <= 0 {
		action()
		return
	}
	time.AfterFunc(d, action)
}

func (s ImmediateScheduler) ScheduleRepeating(date Time, interval Stride, tolerance Stride, opts SchedulerOptions, action Action) Cancellable {
	return newTimerLoop(date, interval, action)
}

// newTimerLoop is the shared repeating-timer implementation behind both
// ImmediateScheduler and GoroutineScheduler: a self-rearming time.Timer
// guarded by a cancelled flag, since standard library time.Ticker cannot
// express "first fire at an arbitrary date, then every interval after
// that" directly.
func newTimerLoop(date Time, interval Stride, action Action) *AnyCancellable {
	stopped := make(chan struct{})
	var timer *time.Timer

	var arm func(next time.Duration)
	arm = func(next time.Duration) {
		timer = time.AfterFunc(next, func() {
			select {
			case <-stopped:
				return
			default:
			}
			action()
			select {
			case <-stopped:
			default:
				arm(interval.Duration())
			}
		})
	}

	arm(time.Until(date.AsTime()))

	return NewCancellable(func() {
		close(stopped)
		if timer != nil {
			timer.Stop()
		}
	})
}
