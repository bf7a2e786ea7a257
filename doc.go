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

// Package reactor is a declarative, pull-driven, typed reactive streams
// runtime. A Publisher of a typed sequence of values is composed with
// transformation stages and attached to a Subscriber that drains the
// pipeline at its own pace, under an explicit demand (backpressure)
// protocol: no value is ever delivered to a Subscriber that has not asked
// for it.
//
// The package specifies the subscription protocol engine: the four-message
// lifecycle contract between a Publisher, its Subscription, and a
// Subscriber, the demand algebra used for backpressure, broadcast hubs
// ("subjects"), a single-shot cache ("future"), scheduler-interposed
// stages, and type-erased wrappers. The full operator catalogue
// (map/filter/reduce/zip/merge/...) is intentionally not exhaustive; only
// the shared filter- and reduce-stage skeletons are provided, plus a
// handful of example operators built on top of them.
package reactor
