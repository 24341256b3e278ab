// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bitreader vends 1..8 bits at a time from an underlying byte
// source, LSB-first within each byte, as required by RFC 1951 §3.1.1.
package bitreader

import (
	"io"

	"github.com/streamzlib/zinflate/internal/zerr"
)

// Reader wraps a byte source and buffers up to 15 unconsumed bits, refilled
// one byte at a time. Bits are consumed from the low end of the buffer; a
// freshly loaded byte is shifted in above whatever bits remain.
type Reader struct {
	src  io.Reader
	buf  uint32 // bit buffer, valid bits in the low n
	n    uint   // number of valid bits in buf, 0..15
	one  [1]byte
}

// New wraps src for bit-granular reads.
func New(src io.Reader) *Reader {
	return &Reader{src: src}
}

// Read returns the next n bits, 0 <= n <= 8, as an integer whose bit i is
// the (i+1)-th bit consumed from the stream (i.e. the first bit read is the
// integer's low bit). Reading n bits in one call is not equivalent to n
// calls reading one bit each — only the combined integer matters for
// DEFLATE's multi-bit length/distance extras.
func (r *Reader) Read(n uint) (uint32, error) {
	if n > 8 {
		panic("bitreader: n must be in 0..=8")
	}
	for r.n < n {
		if err := r.refill(); err != nil {
			return 0, err
		}
	}
	v := r.buf & ((1 << n) - 1)
	r.buf >>= n
	r.n -= n
	return v, nil
}

func (r *Reader) refill() error {
	nr, err := r.src.Read(r.one[:])
	if nr == 0 {
		if err == nil || err == io.EOF {
			return zerr.Truncationf("unexpected EOF in bit stream")
		}
		return err
	}
	r.buf |= uint32(r.one[0]) << r.n
	r.n += 8
	return nil
}

// Unwrap discards the 0..7 residual buffered bits and returns the
// underlying byte source, positioned at the next byte boundary. It is only
// valid to call before starting a byte-aligned payload (e.g. a stored
// block), since any bits currently buffered are dropped, not pushed back.
func (r *Reader) Unwrap() io.Reader {
	r.buf = 0
	r.n = 0
	return r.src
}
