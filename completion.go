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

import "fmt"

// CompletionKind distinguishes the two terminal signals a stream can carry.
type CompletionKind uint8

// CompletionKind constants.
const (
	CompletionFinished CompletionKind = iota
	CompletionFailure
)

// String returns the string representation of a CompletionKind.
func (k CompletionKind) String() string {
	switch k {
	case CompletionFinished:
		return "Finished"
	case CompletionFailure:
		return "Failure"
	}
	panic("reactor: invalid CompletionKind")
}

// Completion is the terminal signal delivered to a Subscriber at most once:
// either a plain Finished, or a Failure carrying the stream's typed error.
// A stream whose error type is known never to occur should use Finished
// exclusively; reactor does not encode a "Never" error type because Go has
// no bottom type, but callers that want that guarantee can use `error` as
// the stream's E and simply never construct a Failure.
type Completion struct {
	Kind CompletionKind
	Err  error
}

// Finished is the normal-completion terminal signal.
var Finished = Completion{Kind: CompletionFinished}

// Failure builds a Completion carrying a typed failure.
func Failure(err error) Completion {
	return Completion{Kind: CompletionFailure, Err: err}
}

// IsFinished reports whether c is a normal completion.
func (c Completion) IsFinished() bool {
	return c.Kind == CompletionFinished
}

// IsFailure reports whether c carries an error.
func (c Completion) IsFailure() bool {
	return c.Kind == CompletionFailure
}

// String implements fmt.Stringer.
func (c Completion) String() string {
	switch c.Kind {
	case CompletionFinished:
		return "Finished()"
	case CompletionFailure:
		if c.Err == nil {
			return "Failure(nil)"
		}
		return fmt.Sprintf("Failure(%s)", c.Err.Error())
	}
	panic("reactor: invalid Completion")
}
