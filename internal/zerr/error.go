// Copyright 2016 CoreOS, Inc
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

// Package zerr defines the error type that the decoder packages (bitreader,
// huffman, flate, zlib) use for decoding failures, split only by Kind so
// that callers can classify a failure with errors.As instead of comparing
// message strings. Errors from the underlying byte source are passed
// through unchanged, and the other packages return ordinary errors.
package zerr

import "fmt"

// Kind classifies an Error the way spec.md's error taxonomy does.
type Kind int

const (
	// Framing covers malformed zlib/DEFLATE envelope data: bad header
	// bytes, a reserved block type, a LEN/NLEN mismatch, an Adler-32
	// mismatch.
	Framing Kind = iota
	// Truncation covers a byte source that ran out of data mid-stream.
	Truncation
	// Code covers bad Huffman data and unsound back-references.
	Code
	// Terminal covers a decoder that has already failed once.
	Terminal
)

func (k Kind) String() string {
	switch k {
	case Framing:
		return "framing"
	case Truncation:
		return "truncation"
	case Code:
		return "code"
	case Terminal:
		return "terminal"
	default:
		return "unknown"
	}
}

// Error is the decoder's error type. Msg is a short lower-case description
// in this module's own wording (for example "bad huffman data" or
// "LEN/NLEN mismatch"); it does not follow any fixed message catalogue.
// Kind lets a caller branch on the class of failure without parsing Msg.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("zinflate: %s", e.Msg)
}

// New constructs an Error of the given Kind.
func New(k Kind, msg string) *Error {
	return &Error{Kind: k, Msg: msg}
}

// Framingf builds a Framing error with a formatted message.
func Framingf(format string, args ...interface{}) *Error {
	return New(Framing, fmt.Sprintf(format, args...))
}

// Truncationf builds a Truncation error with a formatted message.
func Truncationf(format string, args ...interface{}) *Error {
	return New(Truncation, fmt.Sprintf(format, args...))
}

// Codef builds a Code error with a formatted message.
func Codef(format string, args ...interface{}) *Error {
	return New(Code, fmt.Sprintf(format, args...))
}

// ErrTerminal is returned by every read after a decoder has poisoned itself.
var ErrTerminal = New(Terminal, "I/O errors in the inflater are unrecoverable")
