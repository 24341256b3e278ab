// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package huffman

import (
	"bytes"
	"testing"

	"github.com/streamzlib/zinflate/bitreader"
	. "gopkg.in/check.v1"
)

// Hook up gocheck into the gotest runner; this file is the repo's only
// check.v1 suite.
func Test(t *testing.T) { TestingT(t) }

type TableSuite struct{}

var _ = Suite(&TableSuite{})

// TestPrefixFreeRoundTrip verifies no defined code is a prefix of another by
// decoding a concatenation of every symbol's own canonical code back to the
// expected symbol sequence.
func (s *TableSuite) TestPrefixFreeRoundTrip(c *C) {
	symbols := []int{0, 1, 2, 3, 4}
	lengths := []int{2, 2, 2, 3, 3}
	tbl := Build(symbols, lengths)

	w := &bitWriter{}
	// Re-derive the canonical codes the same way Build does, to drive the
	// fixture without reading codes out of the built table.
	var count [maxBits + 1]int
	for _, l := range lengths {
		count[l]++
	}
	var next [maxBits + 2]int
	for l := 1; l <= maxBits; l++ {
		next[l] = (next[l-1] + count[l-1]) << 1
	}
	for _, l := range lengths {
		w.writeBits(uint32(next[l]), l)
		next[l]++
	}
	data := w.flush()

	br := bitreader.New(bytes.NewReader(data))
	for _, want := range symbols {
		got, err := tbl.Decode(br)
		c.Assert(err, IsNil)
		c.Check(got, Equals, want)
	}
}
