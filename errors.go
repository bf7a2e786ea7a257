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
	"log"
	"sync/atomic"
)

var (
	// onUnhandledError stores the current handler for unhandled errors. It is
	// accessed via atomic.Value to allow concurrent readers and writers
	// without data races, mirroring samber/ro's ro.go.
	onUnhandledError atomic.Value // func(context.Context, error)

	// onDroppedNotification stores the current handler invoked when a value
	// or terminal signal cannot be delivered (e.g. a hub conduit with zero
	// demand, or a stage that has already gone terminal).
	onDroppedNotification atomic.Value // func(context.Context, fmt.Stringer)
)

func init() {
	onUnhandledError.Store(IgnoreOnUnhandledError)
	onDroppedNotification.Store(IgnoreOnDroppedNotification)
}

// SetOnUnhandledError sets the handler that OnUnhandledError invokes for a
// Failure with nothing downstream able to act on it. The stages in this
// package do not call OnUnhandledError themselves; a panicking stage hook
// becomes a Failure delivered downstream. Passing nil restores the default
// no-op.
func SetOnUnhandledError(fn func(ctx context.Context, err error)) {
	if fn == nil {
		fn = IgnoreOnUnhandledError
	}
	onUnhandledError.Store(fn)
}

// GetOnUnhandledError returns the currently configured unhandled-error handler.
func GetOnUnhandledError() func(ctx context.Context, err error) {
	return onUnhandledError.Load().(func(context.Context, error))
}

// OnUnhandledError invokes the currently configured unhandled-error handler.
func OnUnhandledError(ctx context.Context, err error) {
	GetOnUnhandledError()(ctx, err)
}

// SetOnDroppedNotification sets the handler invoked when a value or
// Completion is dropped because its destination cannot accept it (no
// demand, already terminal, already cancelled). Passing nil restores the
// default no-op.
func SetOnDroppedNotification(fn func(ctx context.Context, notification fmt.Stringer)) {
	if fn == nil {
		fn = IgnoreOnDroppedNotification
	}
	onDroppedNotification.Store(fn)
}

// GetOnDroppedNotification returns the currently configured dropped-notification handler.
func GetOnDroppedNotification() func(ctx context.Context, notification fmt.Stringer) {
	return onDroppedNotification.Load().(func(context.Context, fmt.Stringer))
}

// OnDroppedNotification invokes the currently configured dropped-notification handler.
func OnDroppedNotification(ctx context.Context, notification fmt.Stringer) {
	GetOnDroppedNotification()(ctx, notification)
}

// IgnoreOnUnhandledError is the default unhandled-error handler: silent.
func IgnoreOnUnhandledError(ctx context.Context, err error) {}

// IgnoreOnDroppedNotification is the default dropped-notification handler: silent.
func IgnoreOnDroppedNotification(ctx context.Context, notification fmt.Stringer) {}

// DefaultOnUnhandledError logs the error via the standard logger. Useful
// during development; install with SetOnUnhandledError(reactor.DefaultOnUnhandledError).
func DefaultOnUnhandledError(ctx context.Context, err error) {
	if err != nil {
		log.Printf("reactor: unhandled error: %s\n", err.Error())
	}
}

// DefaultOnDroppedNotification logs dropped notifications via the standard logger.
func DefaultOnDroppedNotification(ctx context.Context, notification fmt.Stringer) {
	log.Printf("reactor: dropped notification: %s\n", notification.String())
}

// ContractViolationError signals a programming error in how the protocol
// was used. In this package it is raised, as a panic, only for a
// Subscription.Request with zero demand; other ordering/cardinality
// violations (a value before a subscription, more than one terminal
// signal) are not asserted and raise nothing. Callers that want to turn
// the panic into an error should recover and inspect with errors.As.
type ContractViolationError struct {
	Reason string
}

func (e *ContractViolationError) Error() string {
	return "reactor: contract violation: " + e.Reason
}

// panicContractViolation raises a ContractViolationError. It is the single
// call site every debug assertion in the engine routes through, so tests
// can recover a predictable type.
func panicContractViolation(reason string) {
	panic(&ContractViolationError{Reason: reason})
}

// StageError wraps a panic recovered from a user-supplied stage hook
// (filter-stage or reduce-stage "receive_new" hook) into a regular error,
// so it can flow through Completion.Failure like any other typed failure.
type StageError struct {
	Recovered any
}

func (e *StageError) Error() string {
	if err, ok := e.Recovered.(error); ok {
		return "reactor: stage hook panicked: " + err.Error()
	}
	return fmt.Sprintf("reactor: stage hook panicked: %v", e.Recovered)
}

func (e *StageError) Unwrap() error {
	if err, ok := e.Recovered.(error); ok {
		return err
	}
	return nil
}

// recoverToStageError converts a recover() value into a *StageError. It
// returns nil if recovered is nil (i.e. there was no panic).
func recoverToStageError(recovered any) error {
	if recovered == nil {
		return nil
	}
	return &StageError{Recovered: recovered}
}
