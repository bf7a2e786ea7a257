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

// Package xsync provides the Mutex abstraction samber/ro's subscriber.go
// calls through (xsync.NewMutexWithLock / xsync.NewMutexWithoutLock): a
// swappable lock so call sites keep an identical Lock/Unlock/TryLock shape
// whether or not synchronization is actually wanted. The engine uses the
// real mutex for every stage that must honor the monitor discipline of
// spec §5 (release the internal lock before calling into the downstream),
// and the no-op mutex only where a caller has proven single-threaded use
// (e.g. benchmarks, or a stage explicitly documented as not safe for
// concurrent producers).
package xsync

import "sync"

// Mutex is the minimal locking surface the engine depends on.
type Mutex interface {
	Lock()
	Unlock()
	TryLock() bool
}

type realMutex struct {
	mu sync.Mutex
}

func (m *realMutex) Lock()         { m.mu.Lock() }
func (m *realMutex) Unlock()       { m.mu.Unlock() }
func (m *realMutex) TryLock() bool { return m.mu.TryLock() }

// NewMutexWithLock returns a Mutex backed by a real sync.Mutex.
func NewMutexWithLock() Mutex {
	return &realMutex{}
}

type noopMutex struct{}

func (noopMutex) Lock()         {}
func (noopMutex) Unlock()       {}
func (noopMutex) TryLock() bool { return true }

// NewMutexWithoutLock returns a Mutex whose methods are all no-ops. Its
// call shape is identical to a real mutex so callers don't need a second
// code path; it exists purely to drop synchronization overhead when the
// caller guarantees there is no concurrent access.
func NewMutexWithoutLock() Mutex {
	return noopMutex{}
}
