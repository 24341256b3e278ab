// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package huffman builds and decodes canonical Huffman (prefix) codes from
// a vector of per-symbol code lengths, as used by DEFLATE's two code
// families (literal/length, distance) and its code-length meta-alphabet.
package huffman

import (
	"github.com/streamzlib/zinflate/bitreader"
	"github.com/streamzlib/zinflate/internal/zerr"
)

const maxBits = 15 // DEFLATE bounds every code length to 1..=15

type entry struct {
	symbol int
	length int
	used   bool
}

// Table is an immutable canonical Huffman decoder built from
// (symbol, length) pairs.
type Table struct {
	codes   map[uint32]entry // key: (length<<16)|code
	minBits int
	maxBits int
}

// Build constructs the canonical code described by RFC 1951 §3.2.2 from a
// slice of (symbol, length) pairs. Lengths must be in 1..=15; pairs with
// length 0 (unused symbols) should be omitted by the caller. Build panics if
// given an empty table — that is a programming error, not a stream error.
func Build(symbols []int, lengths []int) *Table {
	if len(symbols) != len(lengths) {
		panic("huffman: symbols and lengths must have equal length")
	}
	if len(symbols) == 0 {
		panic("huffman: empty table")
	}

	var count [maxBits + 1]int
	minLen, maxLen := maxBits+1, 0
	for _, l := range lengths {
		if l < 1 || l > maxBits {
			panic("huffman: code length out of 1..=15")
		}
		count[l]++
		if l < minLen {
			minLen = l
		}
		if l > maxLen {
			maxLen = l
		}
	}

	// First code per length: next_code[1] = 0; next_code[l] =
	// (next_code[l-1] + count[l-1]) << 1.
	var nextCode [maxBits + 2]int
	for l := 1; l <= maxLen; l++ {
		nextCode[l] = (nextCode[l-1] + count[l-1]) << 1
	}

	t := &Table{
		codes:   make(map[uint32]entry, len(symbols)),
		minBits: minLen,
		maxBits: maxLen,
	}
	for i, s := range symbols {
		l := lengths[i]
		code := nextCode[l]
		nextCode[l]++
		key := uint32(l)<<16 | uint32(code)
		t.codes[key] = entry{symbol: s, length: l, used: true}
	}
	return t
}

// Decode reads one symbol from br against t. Bits are accumulated
// MSB-first within the code (DEFLATE packs Huffman codes that way even
// though the bitstream itself is LSB-first within bytes): each new bit
// shifts the accumulator left and is OR'd into bit 0.
func (t *Table) Decode(br *bitreader.Reader) (int, error) {
	acc := uint32(0)
	width := 0
	for width < t.minBits {
		bit, err := br.Read(1)
		if err != nil {
			return 0, err
		}
		acc = acc<<1 | bit
		width++
	}
	for {
		if e, ok := t.codes[uint32(width)<<16|acc]; ok && e.length == width {
			return e.symbol, nil
		}
		if width >= t.maxBits {
			return 0, zerr.Codef("bad huffman data")
		}
		bit, err := br.Read(1)
		if err != nil {
			return 0, err
		}
		acc = acc<<1 | bit
		width++
	}
}
