// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flate

// RFC 1951 §3.2.7: the code-length alphabet is itself Huffman coded, using
// lengths transmitted in this permuted order.
var codeOrder = [19]int{16, 17, 18, 0, 8, 7, 9, 6, 10, 5, 11, 4, 12, 3, 13, 2, 14, 1, 15}

// RFC 1951 §3.2.5: length codes 257..285 (index 0..28) and their base
// values / extra-bit counts.
var lengthBase = [29]int{
	3, 4, 5, 6, 7, 8, 9, 10, 11, 13, 15, 17, 19, 23, 27, 31,
	35, 43, 51, 59, 67, 83, 99, 115, 131, 163, 195, 227, 258,
}
var lengthExtra = [29]int{
	0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 2, 2, 2, 2,
	3, 3, 3, 3, 4, 4, 4, 4, 5, 5, 5, 5, 0,
}

// RFC 1951 §3.2.5: distance codes 0..29 and their base values / extra-bit
// counts.
var distBase = [30]int{
	1, 2, 3, 4, 5, 7, 9, 13, 17, 25, 33, 49, 65, 97,
	129, 193, 257, 385, 513, 769, 1025, 1537, 2049, 3073,
	4097, 6145, 8193, 12289, 16385, 24577,
}
var distExtra = [30]int{
	0, 0, 0, 0, 1, 1, 2, 2, 3, 3, 4, 4, 5, 5,
	6, 6, 7, 7, 8, 8, 9, 9, 10, 10, 11, 11, 12, 12, 13, 13,
}

const (
	endOfBlock   = 256
	lengthStart  = 257
	maxLitLen    = 288
	maxDistCodes = 30
)

// fixedLitLengths is the fixed literal/length table from RFC 1951 §3.2.6.
func fixedLitLengths() []int {
	lens := make([]int, maxLitLen)
	for i := 0; i <= 143; i++ {
		lens[i] = 8
	}
	for i := 144; i <= 255; i++ {
		lens[i] = 9
	}
	for i := 256; i <= 279; i++ {
		lens[i] = 7
	}
	for i := 280; i <= 287; i++ {
		lens[i] = 8
	}
	return lens
}

// fixedDistLengths is the fixed distance table: all 30 symbols at length 5.
func fixedDistLengths() []int {
	lens := make([]int, maxDistCodes)
	for i := range lens {
		lens[i] = 5
	}
	return lens
}
