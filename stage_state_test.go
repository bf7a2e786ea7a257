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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStageState_MonotonicProgression(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	s := newStageState()
	s.Lock()
	is.Equal(stateAwaitingSubscription, s.kindLocked())

	upstream := EmptySubscription()
	is.True(s.onSubscribeLocked(upstream))
	is.Equal(stateSubscribed, s.kindLocked())
	is.Equal(upstream, s.upstreamLocked())

	// Second OnSubscribe is rejected.
	is.False(s.onSubscribeLocked(upstream))

	is.True(s.beginPendingTerminalLocked())
	is.Equal(statePendingTerminal, s.kindLocked())

	prior, ok := s.finishLocked()
	is.True(ok)
	is.Equal(upstream, prior)
	is.Equal(stateTerminal, s.kindLocked())
	is.True(s.isTerminalLocked())

	// Repeated terminal transitions are a harmless no-op.
	prior2, ok2 := s.finishLocked()
	is.False(ok2)
	is.Nil(prior2)
	s.Unlock()
}

func TestStageState_DirectSubscribedToTerminal(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	s := newStageState()
	s.Lock()
	defer s.Unlock()

	upstream := EmptySubscription()
	is.True(s.onSubscribeLocked(upstream))

	prior, ok := s.finishLocked()
	is.True(ok)
	is.Equal(upstream, prior)
}
