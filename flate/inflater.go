// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package flate implements decoding of the DEFLATE compressed data format
// described in RFC 1951: a bit reader driving a block-structured state
// machine, canonical Huffman tables built from code-length vectors, and a
// sliding-window back-reference copier. It does not implement encoding.
package flate

import (
	"io"

	"github.com/streamzlib/zinflate/bitreader"
	"github.com/streamzlib/zinflate/internal/zerr"
)

type stage int

const (
	stageBeforeBlock stage = iota
	stageUncompressed
	stageCompressed
	stageEOF
	stagePoisoned
)

// Reader is the top-level DEFLATE state machine: it reads the 3-bit block
// header, dispatches to a stored / fixed-code / dynamic-code sub-state, and
// owns the 32KiB history window shared across blocks.
//
// Reader implements io.Reader. A failed Read poisons the Reader: every
// subsequent Read returns the same terminal error.
type Reader struct {
	src io.Reader // underlying byte source when not mid-bitstream
	br  *bitreader.Reader

	stage stage
	hist  history

	// stageUncompressed
	remaining int
	last      bool

	// stageCompressed
	block *blockReader

	err error
}

// NewReader returns a Reader that decodes a raw DEFLATE stream (no zlib or
// gzip framing) read from src.
func NewReader(src io.Reader) *Reader {
	return &Reader{
		src:   src,
		br:    bitreader.New(src),
		stage: stageBeforeBlock,
	}
}

// Read implements io.Reader. At clean end-of-stream it returns (0, io.EOF);
// a call that produces bytes before reaching the end returns them with a
// nil error, and io.EOF comes on the call after.
func (f *Reader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	total := 0
	for total < len(p) {
		switch f.stage {
		case stagePoisoned:
			// f.err already went out to the caller on the call that first
			// poisoned the reader; every later read gets the fixed
			// terminal error instead of repeating it.
			return total, zerr.ErrTerminal
		case stageEOF:
			if total > 0 {
				return total, nil
			}
			return 0, io.EOF
		case stageBeforeBlock:
			if err := f.startBlock(); err != nil {
				return total, f.poison(err)
			}
		case stageUncompressed:
			n, err := f.readUncompressed(p[total:])
			total += n
			if err != nil {
				return total, f.poison(err)
			}
			if n == 0 && f.stage == stageUncompressed {
				// Short read with more remaining: let the caller retry.
				return total, nil
			}
		case stageCompressed:
			n, err := f.block.read(p[total:], &f.hist)
			total += n
			if err != nil {
				return total, f.poison(err)
			}
			if n == 0 {
				if f.block.eof {
					f.afterBlock()
				} else {
					// Output buffer was already full before this call.
					return total, nil
				}
			}
		}
	}
	return total, nil
}

func (f *Reader) poison(err error) error {
	f.err = err
	f.stage = stagePoisoned
	blog.Warningf("inflater poisoned: %v", err)
	return err
}

// startBlock reads the 3-bit block header and dispatches.
func (f *Reader) startBlock() error {
	bfinal, err := f.br.Read(1)
	if err != nil {
		return err
	}
	btype, err := f.br.Read(2)
	if err != nil {
		return err
	}
	last := bfinal == 1

	switch btype {
	case 0:
		blog.Tracef("stored block, final=%v", last)
		src := f.br.Unwrap()
		var lenBuf [4]byte
		if _, err := io.ReadFull(src, lenBuf[:]); err != nil {
			return truncationOrErr(err, "unexpected EOF in header")
		}
		n := int(lenBuf[0]) | int(lenBuf[1])<<8
		nn := int(lenBuf[2]) | int(lenBuf[3])<<8
		if uint16(nn) != uint16(^uint16(n)) {
			return zerr.Framingf("LEN/NLEN mismatch")
		}
		f.src = src
		f.remaining = n
		f.last = last
		f.stage = stageUncompressed
		if n == 0 {
			f.afterUncompressed()
		}
		return nil

	case 1:
		blog.Tracef("fixed-code block, final=%v", last)
		f.block = newFixedBlockReader(f.br)
		f.last = last
		f.stage = stageCompressed
		return nil

	case 2:
		blog.Tracef("dynamic-code block, final=%v", last)
		block, err := newDynamicBlockReader(f.br)
		if err != nil {
			return err
		}
		f.block = block
		f.last = last
		f.stage = stageCompressed
		return nil

	default:
		return zerr.Framingf("reserved block type")
	}
}

func (f *Reader) readUncompressed(p []byte) (int, error) {
	if f.remaining == 0 {
		f.afterUncompressed()
		return 0, nil
	}
	want := len(p)
	if want > f.remaining {
		want = f.remaining
	}
	n, err := f.src.Read(p[:want])
	if n == 0 && err == nil {
		return 0, zerr.Truncationf("unexpected EOF in uncompressed block")
	}
	for i := 0; i < n; i++ {
		f.hist.append(p[i])
	}
	f.remaining -= n
	if err != nil && err != io.EOF {
		return n, err
	}
	if err == io.EOF && f.remaining > 0 {
		return n, zerr.Truncationf("unexpected EOF in uncompressed block")
	}
	if f.remaining == 0 {
		f.afterUncompressed()
	}
	return n, nil
}

func (f *Reader) afterUncompressed() {
	f.br = bitreader.New(f.src)
	if f.last {
		f.stage = stageEOF
		blog.Debugf("reached final block (stored)")
		return
	}
	f.stage = stageBeforeBlock
}

func (f *Reader) afterBlock() {
	if f.last {
		f.stage = stageEOF
		blog.Debugf("reached final block (compressed)")
		return
	}
	f.stage = stageBeforeBlock
}

func truncationOrErr(err error, msg string) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return zerr.Truncationf(msg)
	}
	return err
}
