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

	"github.com/samber/lo"
)

// Notification is one posted event on a NotificationCenter.
type Notification struct {
	Name    string
	Payload any
}

// NotificationCenter is a connectable, multi-subscriber head-node
// publisher (C16, spec §4.11): an in-process broadcast of posted
// notifications, filterable by name. Every Publisher it hands out shares
// the same underlying hub; Connect doesn't start anything external (there
// is no outside source to register with) but gives callers the same
// "dropping the Cancellable detaches everyone" lifecycle as a source that
// does, by completing every subscriber once dropped.
type NotificationCenter struct {
	hub hubCore[Notification]
}

var _ Connectable = (*NotificationCenter)(nil)

// NewNotificationCenter creates an empty center.
func NewNotificationCenter() *NotificationCenter {
	return &NotificationCenter{hub: newHubCore[Notification](nil)}
}

// Post broadcasts a notification to every currently attached subscriber.
func (c *NotificationCenter) Post(ctx context.Context, name string, payload any) {
	c.hub.sendValue(ctx, Notification{Name: name, Payload: payload})
}

// Publisher returns a Publisher of notifications whose name is one of
// names. An empty names list subscribes to everything.
func (c *NotificationCenter) Publisher(names ...string) Publisher[Notification] {
	source := PublisherFunc[Notification](func(ctx context.Context, sub Subscriber[Notification]) {
		c.hub.subscribe(ctx, sub)
	})
	if len(names) == 0 {
		return source
	}
	return Filter[Notification](source, func(n Notification) bool {
		return lo.Contains(names, n.Name)
	})
}

// Connect implements Connectable. Dropping the returned Cancellable
// completes every subscriber currently attached (and any future one, since
// the hub replays completion to late subscribers) with Finished.
func (c *NotificationCenter) Connect() Cancellable {
	return NewCancellable(func() {
		c.hub.sendCompletion(context.Background(), Finished)
	})
}
