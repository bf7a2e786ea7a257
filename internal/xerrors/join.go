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

// Package xerrors provides the small error-aggregation helper the engine
// needs when multiple teardown closures registered on a single Cancellable
// bag each fail independently. It mirrors the call shape samber/ro's
// subscription.go expects from its own internal/xerrors package (a
// Join(...error) error that was not itself retrieved in the example pack),
// implemented here directly on top of the standard library's errors.Join.
package xerrors

import "errors"

// Join aggregates multiple non-nil errors into one. It is a thin wrapper
// over the standard library so call sites elsewhere in the engine don't
// need to special-case the zero/one/many-error cases themselves.
func Join(errs ...error) error {
	return errors.Join(errs...)
}
