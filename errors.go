// Copyright 2025 The Cockroach Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package compact

import (
	"fmt"

	"github.com/pkg/errors"
)

// The tables report misuse by panicking with typed errors rather than
// returning them: every condition below is a caller bug, not an operational
// failure, and absence of a key or element is never an error. The payloads
// are wrapped with github.com/pkg/errors so that a recover site logging the
// value with %+v sees the offending stack. Match them with errors.As:
//
//	defer func() {
//		if r := recover(); r != nil {
//			var cme *compact.ConcurrentModificationError
//			if err, ok := r.(error); ok && errors.As(err, &cme) {
//				...
//			}
//		}
//	}()

// ArgumentError is the panic payload for an argument outside an operation's
// domain: a negative initial capacity, a non-positive load factor, a
// negative occurrence count, or an occurrence total the 32-bit counts
// cannot hold.
type ArgumentError struct {
	msg string
}

// Error implements error.
func (e *ArgumentError) Error() string { return e.msg }

func argErrorf(format string, args ...any) error {
	return errors.WithStack(&ArgumentError{msg: "compact: " + fmt.Sprintf(format, args...)})
}

// StateError is the panic payload for operations invoked in a state that
// cannot honor them, such as Iterator.Remove without a current entry.
type StateError struct {
	msg string
}

// Error implements error.
func (e *StateError) Error() string { return e.msg }

func stateErrorf(format string, args ...any) error {
	return errors.WithStack(&StateError{msg: "compact: " + fmt.Sprintf(format, args...)})
}

// ConcurrentModificationError is the panic payload raised by iterators that
// observe a structural change they did not perform themselves. Detection is
// best effort; it exists to turn silent corruption from misuse into a loud
// failure, not to make iteration safe for concurrent use.
type ConcurrentModificationError struct {
	msg string
}

// Error implements error.
func (e *ConcurrentModificationError) Error() string { return e.msg }

func concurrentModError() error {
	return errors.WithStack(&ConcurrentModificationError{
		msg: "compact: table modified during iteration",
	})
}

// OverflowError is the panic payload for growth beyond what the compact
// representation can index: more than MaxInt32 entries in a table, or a
// frozen set needing an index table beyond the maximum size.
type OverflowError struct {
	msg string
}

// Error implements error.
func (e *OverflowError) Error() string { return e.msg }

func overflowErrorf(format string, args ...any) error {
	return errors.WithStack(&OverflowError{msg: "compact: " + fmt.Sprintf(format, args...)})
}
