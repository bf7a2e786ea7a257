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
	"fmt"

	"github.com/go-co-op/gocron/v2"
	"github.com/robfig/cron/v3"
)

// CronScheduler is a Scheduler backed by gocron, for callers that want
// calendar-aware repeating schedules ("every weekday at 09:00") rather than
// a fixed interval. It satisfies the plain Scheduler interface by
// translating ScheduleAfter/ScheduleRepeating into gocron one-time and
// duration jobs, and additionally exposes ScheduleCron for genuine cron
// expressions, validated up front with robfig/cron's parser so a malformed
// expression fails at registration instead of silently never firing.
type CronScheduler struct {
	gocron gocron.Scheduler
	parser cron.Parser
}

var _ Scheduler = (*CronScheduler)(nil)

// NewCronScheduler starts a gocron scheduler and wraps it.
func NewCronScheduler() (*CronScheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("reactor: starting cron scheduler: %w", err)
	}
	s.Start()

	return &CronScheduler{
		gocron: s,
		parser: cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow),
	}, nil
}

func (c *CronScheduler) Now() Time { return WallClockNow() }

func (c *CronScheduler) MinTolerance() Stride { return Milliseconds(1) }

// Schedule runs action as a gocron one-off job starting immediately.
func (c *CronScheduler) Schedule(opts SchedulerOptions, action Action) {
	_, _ = c.gocron.NewJob(
		gocron.OneTimeJob(gocron.OneTimeJobStartImmediately()),
		gocron.NewTask(action),
	)
}

// ScheduleAfter runs action once, at date.
func (c *CronScheduler) ScheduleAfter(date Time, tolerance Stride, opts SchedulerOptions, action Action) {
	_, _ = c.gocron.NewJob(
		gocron.OneTimeJob(gocron.OneTimeJobStartDateTime(date.AsTime())),
		gocron.NewTask(action),
	)
}

// ScheduleRepeating runs action every interval, first firing at date.
func (c *CronScheduler) ScheduleRepeating(date Time, interval Stride, tolerance Stride, opts SchedulerOptions, action Action) Cancellable {
	job, err := c.gocron.NewJob(
		gocron.DurationJob(interval.Duration()),
		gocron.NewTask(action),
		gocron.WithStartAt(gocron.WithStartDateTime(date.AsTime())),
	)
	if err != nil {
		return NewCancellable(nil)
	}

	return NewCancellable(func() {
		_ = c.gocron.RemoveJob(job.ID())
	})
}

// ScheduleCron registers action against a standard five-field cron
// expression (validated with robfig/cron before being handed to gocron),
// returning a Cancellable that unregisters it.
func (c *CronScheduler) ScheduleCron(expr string, action Action) (Cancellable, error) {
	if _, err := c.parser.Parse(expr); err != nil {
		return nil, fmt.Errorf("reactor: invalid cron expression %q: %w", expr, err)
	}

	job, err := c.gocron.NewJob(
		gocron.CronJob(expr, false),
		gocron.NewTask(action),
	)
	if err != nil {
		return nil, fmt.Errorf("reactor: registering cron job: %w", err)
	}

	return NewCancellable(func() {
		_ = c.gocron.RemoveJob(job.ID())
	}), nil
}

// Shutdown stops the underlying gocron scheduler, cancelling all of its
// pending jobs.
func (c *CronScheduler) Shutdown(ctx context.Context) error {
	return c.gocron.Shutdown()
}
