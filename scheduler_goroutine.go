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

// GoroutineScheduler dispatches every Schedule call on a freshly spawned
// goroutine, giving scheduler-interposed stages (C15) an actual execution
// context hop to exercise — unlike ImmediateScheduler, which runs inline.
// ScheduleAfter/ScheduleRepeating share ImmediateScheduler's timer
// machinery; the timer's own fire callback already runs on its own
// goroutine courtesy of time.AfterFunc.
type GoroutineScheduler struct{}

var _ Scheduler = GoroutineScheduler{}

// NewGoroutineScheduler returns a GoroutineScheduler.
func NewGoroutineScheduler() GoroutineScheduler { return GoroutineScheduler{} }

func (GoroutineScheduler) Now() Time { return WallClockNow() }

func (GoroutineScheduler) MinTolerance() Stride { return Nanoseconds(0) }

func (GoroutineScheduler) Schedule(opts SchedulerOptions, action Action) {
	go action()
}

func (GoroutineScheduler) ScheduleAfter(date Time, tolerance Stride, opts SchedulerOptions, action Action) {
	ImmediateScheduler{}.ScheduleAfter(date, tolerance, opts, action)
}

func (s GoroutineScheduler) ScheduleRepeating(date Time, interval Stride, tolerance Stride, opts SchedulerOptions, action Action) Cancellable {
	return newTimerLoop(date, interval, action)
}
