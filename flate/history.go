// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flate

import "github.com/streamzlib/zinflate/internal/zerr"

// MaxHist is the largest back-reference distance DEFLATE allows and the
// size of the sliding window this package keeps.
const MaxHist = 32768

// history is the shared back-reference window: a ring buffer holding the
// trailing <=32768 bytes of output, bounded in memory unlike a naive
// append-only history vector (see DESIGN.md).
type history struct {
	buf     [MaxHist]byte
	pos     int   // next write index, wraps at MaxHist
	written int64 // total bytes ever appended, uncapped
}

// append commits one byte of decoder output to the window.
func (h *history) append(b byte) {
	h.buf[h.pos] = b
	h.pos++
	if h.pos == MaxHist {
		h.pos = 0
	}
	h.written++
}

// byteAt returns the byte dist positions before the current write cursor.
func (h *history) byteAt(dist int) (byte, error) {
	if int64(dist) > h.written {
		return 0, zerr.Codef("distance is too far back")
	}
	idx := h.pos - dist
	if idx < 0 {
		idx += MaxHist
	}
	return h.buf[idx], nil
}

// copyBack copies up to length bytes from dist positions back into both the
// window (so later self-overlapping references see them) and out, starting
// at *outPos. It returns the number of bytes copied, which is less than
// length only when out fills up first; the caller is expected to resume the
// copy on its next call with the remaining length.
func (h *history) copyBack(dist, length int, out []byte, outPos *int) (int, error) {
	copied := 0
	for copied < length {
		if *outPos >= len(out) {
			return copied, nil
		}
		b, err := h.byteAt(dist)
		if err != nil {
			return copied, err
		}
		h.append(b)
		out[*outPos] = b
		*outPos++
		copied++
	}
	return copied, nil
}
