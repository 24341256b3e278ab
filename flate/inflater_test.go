// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flate

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/streamzlib/zinflate/internal/zerr"
)

// bitWriter assembles hand-built DEFLATE fixtures bit by bit. Plain fields
// (block headers, HLIT/HDIST/HCLEN, extra bits) are LSB-first; Huffman
// codes are MSB-first within their own width. See bitreader and huffman for
// the corresponding read-side conventions.
type bitWriter struct {
	bytes []byte
	cur   byte
	nbits uint
}

func (w *bitWriter) writeBit(b uint32) {
	w.cur |= byte(b&1) << w.nbits
	w.nbits++
	if w.nbits == 8 {
		w.bytes = append(w.bytes, w.cur)
		w.cur = 0
		w.nbits = 0
	}
}

func (w *bitWriter) writeField(v uint32, n int) {
	for i := 0; i < n; i++ {
		w.writeBit(v >> uint(i))
	}
}

func (w *bitWriter) writeCode(code uint32, n int) {
	for i := n - 1; i >= 0; i-- {
		w.writeBit(code >> uint(i))
	}
}

func (w *bitWriter) bytesAligned() []byte {
	for w.nbits != 0 {
		w.writeBit(0)
	}
	return w.bytes
}

func (w *bitWriter) flush() []byte {
	if w.nbits > 0 {
		w.bytes = append(w.bytes, w.cur)
		w.cur = 0
		w.nbits = 0
	}
	return w.bytes
}

func kindOf(t *testing.T, err error) zerr.Kind {
	t.Helper()
	var ze *zerr.Error
	if !errors.As(err, &ze) {
		t.Fatalf("error %v is not a *zerr.Error", err)
	}
	return ze.Kind
}

func storedBlock(final bool, payload []byte) []byte {
	w := &bitWriter{}
	if final {
		w.writeField(1, 1)
	} else {
		w.writeField(0, 1)
	}
	w.writeField(0, 2) // BTYPE = stored
	data := w.bytesAligned()

	n := len(payload)
	data = append(data, byte(n), byte(n>>8))
	nn := uint16(^uint16(n))
	data = append(data, byte(nn), byte(nn>>8))
	data = append(data, payload...)
	return data
}

func TestStoredBlock(t *testing.T) {
	data := storedBlock(true, []byte("hello"))

	got, err := io.ReadAll(NewReader(bytes.NewReader(data)))
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != "hello" {
		t.Fatalf("got %q, want %q", got, "hello")
	}
}

func TestStoredBlockEmptyFinal(t *testing.T) {
	data := storedBlock(true, nil)

	got, err := io.ReadAll(NewReader(bytes.NewReader(data)))
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %q, want empty", got)
	}
}

func TestStoredBlockTruncated(t *testing.T) {
	data := storedBlock(true, []byte("hello"))
	data = data[:len(data)-2] // drop the last two payload bytes

	_, err := io.ReadAll(NewReader(bytes.NewReader(data)))
	if err == nil {
		t.Fatal("expected an error reading a truncated stored block")
	}
	if k := kindOf(t, err); k != zerr.Truncation {
		t.Fatalf("Kind = %v, want %v", k, zerr.Truncation)
	}
}

func TestStoredBlockBadNLEN(t *testing.T) {
	data := storedBlock(true, []byte("hello"))
	data[3] ^= 0xFF // corrupt the NLEN low byte

	_, err := io.ReadAll(NewReader(bytes.NewReader(data)))
	if err == nil {
		t.Fatal("expected an error for mismatched LEN/NLEN")
	}
	if k := kindOf(t, err); k != zerr.Framing {
		t.Fatalf("Kind = %v, want %v", k, zerr.Framing)
	}
}

// fixedLitCode returns the canonical fixed literal/length code and bit
// width for sym, per RFC 1951 §3.2.6.
func fixedLitCode(sym int) (code uint32, width int) {
	switch {
	case sym <= 143:
		return uint32(0x30 + sym), 8
	case sym <= 255:
		return uint32(0x190 + (sym - 144)), 9
	case sym <= 279:
		return uint32(sym - 256), 7
	default:
		return uint32(0xC0 + (sym - 280)), 8
	}
}

func TestFixedHuffmanLiteralsOnly(t *testing.T) {
	w := &bitWriter{}
	w.writeField(1, 1) // BFINAL
	w.writeField(1, 2) // BTYPE = fixed

	for _, b := range []byte("abc") {
		code, width := fixedLitCode(int(b))
		w.writeCode(code, width)
	}
	eobCode, eobWidth := fixedLitCode(endOfBlock)
	w.writeCode(eobCode, eobWidth)
	data := w.flush()

	got, err := io.ReadAll(NewReader(bytes.NewReader(data)))
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != "abc" {
		t.Fatalf("got %q, want %q", got, "abc")
	}
}

func TestFixedHuffmanBackReference(t *testing.T) {
	w := &bitWriter{}
	w.writeField(1, 1) // BFINAL
	w.writeField(1, 2) // BTYPE = fixed

	litCode, litWidth := fixedLitCode('a')
	w.writeCode(litCode, litWidth)

	// length 3, no extra bits (code 257).
	lenCode, lenWidth := fixedLitCode(257)
	w.writeCode(lenCode, lenWidth)

	// distance 1: fixed distance codes are 5 bits, code == symbol.
	w.writeCode(0, 5)

	eobCode, eobWidth := fixedLitCode(endOfBlock)
	w.writeCode(eobCode, eobWidth)
	data := w.flush()

	got, err := io.ReadAll(NewReader(bytes.NewReader(data)))
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != "aaaa" {
		t.Fatalf("got %q, want %q", got, "aaaa")
	}
}

func TestMultipleBlocksStoredThenFixed(t *testing.T) {
	var data []byte
	data = append(data, storedBlock(false, []byte("hello"))...)

	w := &bitWriter{}
	w.writeField(1, 1) // BFINAL
	w.writeField(1, 2) // BTYPE = fixed
	for _, b := range []byte("!") {
		code, width := fixedLitCode(int(b))
		w.writeCode(code, width)
	}
	eobCode, eobWidth := fixedLitCode(endOfBlock)
	w.writeCode(eobCode, eobWidth)
	data = append(data, w.flush()...)

	got, err := io.ReadAll(NewReader(bytes.NewReader(data)))
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != "hello!" {
		t.Fatalf("got %q, want %q", got, "hello!")
	}
}

// metaCode maps a code-length value (0, 1 or 2) to the 2-symbol canonical
// code this test builds for the dynamic block's code-length alphabet.
var metaCode = map[int]struct {
	code  uint32
	width int
}{
	0: {0, 1},
	1: {2, 2},
	2: {3, 2},
}

func TestDynamicHuffmanBlock(t *testing.T) {
	const hlit = 257 // symbols 0..256
	const hdist = 1  // symbol 0 only, unused

	lens := make([]int, hlit+hdist)
	lens['a'] = 1
	lens['b'] = 2
	lens[endOfBlock] = 2
	lens[hlit] = 1 // the single distance symbol, never referenced

	w := &bitWriter{}
	w.writeField(1, 1) // BFINAL
	w.writeField(2, 2) // BTYPE = dynamic

	w.writeField(0, 5)  // HLIT = 0  -> 257
	w.writeField(0, 5)  // HDIST = 0 -> 1
	w.writeField(15, 4) // HCLEN = 15 -> 19, covers the whole codeOrder table

	metaLens := map[int]int{0: 1, 1: 2, 2: 2}
	for i := 0; i < 19; i++ {
		w.writeField(uint32(metaLens[codeOrder[i]]), 3)
	}

	for _, l := range lens {
		mc := metaCode[l]
		w.writeCode(mc.code, mc.width)
	}

	// Actual literal codes derived the same way buildNonZero assigns them:
	// ascending symbol order, length 1 before length 2, so 'a' (length 1)
	// gets code 0, then 'b' and end-of-block (both length 2) get codes
	// 0b10 and 0b11 in the order they're encountered.
	w.writeCode(0, 1) // 'a'
	w.writeCode(2, 2) // 'b'
	w.writeCode(3, 2) // end of block
	data := w.flush()

	got, err := io.ReadAll(NewReader(bytes.NewReader(data)))
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != "ab" {
		t.Fatalf("got %q, want %q", got, "ab")
	}
}

func TestReadAfterEOFReturnsCleanly(t *testing.T) {
	data := storedBlock(true, []byte("x"))
	r := NewReader(bytes.NewReader(data))

	if _, err := io.ReadAll(r); err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	n, err := r.Read(make([]byte, 4))
	if n != 0 || err != io.EOF {
		t.Fatalf("Read after EOF = (%d, %v), want (0, io.EOF)", n, err)
	}
}

func TestPoisonedReaderReturnsTerminalError(t *testing.T) {
	data := storedBlock(true, []byte("hello"))
	data = data[:len(data)-2]
	r := NewReader(bytes.NewReader(data))

	_, err1 := io.ReadAll(r)
	if err1 == nil {
		t.Fatal("expected an error")
	}
	if k := kindOf(t, err1); k != zerr.Truncation {
		t.Fatalf("first error Kind = %v, want %v", k, zerr.Truncation)
	}

	_, err2 := r.Read(make([]byte, 1))
	if !errors.Is(err2, zerr.ErrTerminal) {
		t.Fatalf("second Read returned %v, want zerr.ErrTerminal", err2)
	}
	if k := kindOf(t, err2); k != zerr.Terminal {
		t.Fatalf("second error Kind = %v, want %v", k, zerr.Terminal)
	}
}
