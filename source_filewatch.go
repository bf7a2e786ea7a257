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

	"github.com/fsnotify/fsnotify"
)

// FileEvent is one filesystem change delivered by a FileWatchPublisher.
type FileEvent struct {
	Name string
	Op   fsnotify.Op
}

// FileWatchPublisher is a connectable, multi-subscriber head-node
// publisher (C16, spec §4.11) bridging an fsnotify watch: every subscriber
// shares the same underlying watch, registered via Subscribe into the
// broadcast hub's dispatch table, but the watch itself only starts running
// once Connect is called. Dropping the Cancellable Connect returns stops
// the watch and completes every attached subscriber.
type FileWatchPublisher struct {
	hub     hubCore[FileEvent]
	watcher *fsnotify.Watcher
}

var _ Publisher[FileEvent] = (*FileWatchPublisher)(nil)
var _ Connectable = (*FileWatchPublisher)(nil)

// NewFileWatchPublisher creates a watch on every given path. The watch
// does not start observing events until Connect is called.
func NewFileWatchPublisher(paths ...string) (*FileWatchPublisher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, p := range paths {
		if err := watcher.Add(p); err != nil {
			watcher.Close()
			return nil, err
		}
	}
	return &FileWatchPublisher{hub: newHubCore[FileEvent](nil), watcher: watcher}, nil
}

// Subscribe implements Publisher: registers sub in the hub's dispatch
// table without starting the watch.
func (p *FileWatchPublisher) Subscribe(ctx context.Context, sub Subscriber[FileEvent]) {
	p.hub.subscribe(ctx, sub)
}

// Connect implements Connectable: starts forwarding fsnotify events to
// every attached (and every future) subscriber. Returns a Cancellable
// that, on Cancel, stops the watch, closes the underlying fsnotify watcher
// and completes every subscriber with Finished.
func (p *FileWatchPublisher) Connect() Cancellable {
	ctx := context.Background()
	stop := make(chan struct{})

	go func() {
		for {
			select {
			case ev, ok := <-p.watcher.Events:
				if !ok {
					return
				}
				p.hub.sendValue(ctx, FileEvent{Name: ev.Name, Op: ev.Op})
			case err, ok := <-p.watcher.Errors:
				if !ok {
					return
				}
				p.hub.sendCompletion(ctx, Failure(err))
				return
			case <-stop:
				return
			}
		}
	}()

	return NewCancellable(func() {
		close(stop)
		p.watcher.Close()
		p.hub.sendCompletion(ctx, Finished)
	})
}
