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

import "github.com/trailmark/reactor/internal/xsync"

// stageStateKind enumerates the four states every intermediate stage
// (filter-stage, reduce-stage, scheduler-interposed stage) progresses
// through, per spec §3/C9. PendingTerminal only appears when a stage
// defers terminal delivery across a scheduler hop (the delay stage).
type stageStateKind uint8

const (
	stateAwaitingSubscription stageStateKind = iota
	stateSubscribed
	statePendingTerminal
	stateTerminal
)

// stageState is the shared four-state progression embedded by every
// intermediate stage in the engine. Transitions are monotonic: the only
// legal sequence is Awaiting -> Subscribed -> {PendingTerminal ->}? Terminal.
//
// Locking discipline (spec §5): stageState holds the stage's *internal*
// lock. Methods named with a "Locked" suffix assume the caller already
// holds it and leave it held; the caller unlocks before calling out (so
// call sites are auditable at a glance) — this mirrors the
// release-before-call-out discipline samber/ro's subscriberImpl uses
// around mu.Lock()/mu.Unlock() in Next/Error/Complete.
type stageState struct {
	mu       xsync.Mutex
	kind     stageStateKind
	upstream Subscription
}

func newStageState() stageState {
	return stageState{mu: xsync.NewMutexWithLock(), kind: stateAwaitingSubscription}
}

// Lock/Unlock expose the internal mutex directly for stages that need to
// guard additional fields (demand counters, buffered values) alongside the
// state machine under the same critical section.
func (s *stageState) Lock()   { s.mu.Lock() }
func (s *stageState) Unlock() { s.mu.Unlock() }

// onSubscribeLocked records the upstream Subscription and transitions
// Awaiting -> Subscribed. Must be called with the lock held; it does not
// release it. Returns false (and does nothing) if the stage is not in the
// Awaiting state, which signals a contract violation to the caller (a
// Publisher must call OnSubscribe at most once).
func (s *stageState) onSubscribeLocked(sub Subscription) bool {
	if s.kind != stateAwaitingSubscription {
		return false
	}
	s.kind = stateSubscribed
	s.upstream = sub
	return true
}

// beginPendingTerminalLocked transitions Subscribed -> PendingTerminal,
// used by scheduler-interposed stages that must hop execution contexts
// before delivering a terminal signal they have already observed. Must be
// called with the lock held; does not release it.
func (s *stageState) beginPendingTerminalLocked() bool {
	if s.kind != stateSubscribed {
		return false
	}
	s.kind = statePendingTerminal
	return true
}

// finishLocked transitions Subscribed or PendingTerminal -> Terminal and
// returns the retained upstream Subscription (or nil if the stage never
// reached Subscribed) so the caller can cancel it after releasing the
// lock. Must be called with the lock held; does not release it. Calling
// finishLocked when already Terminal is a no-op returning (nil, false),
// so repeated terminal deliveries are harmless (spec §5's "redundant
// cancels are harmless no-ops" note, testable property #7).
func (s *stageState) finishLocked() (Subscription, bool) {
	if s.kind == stateTerminal {
		return nil, false
	}
	prior := s.upstream
	s.kind = stateTerminal
	s.upstream = nil
	return prior, true
}

// isTerminalLocked reports whether the stage has already reached Terminal.
// Must be called with the lock held.
func (s *stageState) isTerminalLocked() bool {
	return s.kind == stateTerminal
}

// upstreamLocked returns the currently retained upstream Subscription, or
// nil before OnSubscribe / after Terminal. Must be called with the lock
// held.
func (s *stageState) upstreamLocked() Subscription {
	return s.upstream
}

// kindLocked returns the current state. Must be called with the lock held.
func (s *stageState) kindLocked() stageStateKind {
	return s.kind
}
