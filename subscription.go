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

// Subscription is the handle a Subscriber uses to request more values and
// to cancel. Request is additive: each call adds to outstanding demand
// (saturating to Demand.Unlimited). d MUST be non-zero; passing None is a
// contract violation (spec §4.1, testable property #9).
//
// Cancel is idempotent: a Subscription that has already delivered a
// Completion, or has already been cancelled, treats further Cancel calls
// as no-ops (testable property #7). After Cancel returns, no further
// Subscriber.OnNext/OnCompletion call is permitted from this Subscription
// to its downstream.
type Subscription interface {
	Cancellable

	Request(d Demand)
}

// emptySubscription is the sentinel handed to a Subscriber when the
// upstream has nothing left to produce (already-terminated hub, already-
// resolved Future with no pending work, etc). Both of its methods are
// no-ops, per spec §4.1.
type emptySubscription struct{}

var emptySubscriptionSingleton Subscription = emptySubscription{}

// EmptySubscription returns the shared no-op Subscription singleton.
func EmptySubscription() Subscription {
	return emptySubscriptionSingleton
}

func (emptySubscription) Request(Demand) {}
func (emptySubscription) Cancel()         {}

// requestMustBeNonZero panics with a ContractViolationError if d is the
// zero demand. Every concrete Subscription.Request implementation in this
// package calls this first, per spec testable property #9: "Requesting 0
// MUST fail a debug assertion."
func requestMustBeNonZero(d Demand) {
	if d.IsZero() {
		panicContractViolation("Subscription.Request called with zero demand")
	}
}
