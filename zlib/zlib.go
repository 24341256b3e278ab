// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package zlib implements reading of the zlib compressed data format,
// specified in RFC 1950, layered directly on this module's flate decoder.
package zlib

import (
	"bufio"
	"io"

	"github.com/streamzlib/zinflate/adler32"
	"github.com/streamzlib/zinflate/flate"
	"github.com/streamzlib/zinflate/internal/log"
	"github.com/streamzlib/zinflate/internal/zerr"
)

var zlog = log.NewPackageLogger("zinflate/zlib")

const (
	cmDeflate  = 8
	cinfo32K   = 7
	flagFDICT  = 1 << 5
	headerSize = 2
	trailerLen = 4
)

// Reader is an io.Reader that decompresses a zlib stream, verifying the
// trailing Adler-32 checksum against the decompressed bytes as it reaches
// the end of the underlying flate stream.
type Reader struct {
	src    *bufio.Reader
	flate  *flate.Reader
	digest *adler32.Digest

	err  error
	done bool
}

// NewReader reads and validates the 2-byte zlib header from r and returns a
// Reader ready to decompress the stream that follows. It returns an error
// immediately if the header is malformed or names a preset dictionary,
// which this package does not support.
func NewReader(r io.Reader) (*Reader, error) {
	src := bufio.NewReader(r)

	hdr, err := src.Peek(headerSize)
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, zerr.Truncationf("unexpected EOF in zlib header")
		}
		return nil, err
	}
	if _, err := src.Discard(headerSize); err != nil {
		return nil, err
	}

	cmf, flg := hdr[0], hdr[1]
	if cmf&0x0F != cmDeflate {
		return nil, zerr.Framingf("unknown compression method")
	}
	if (cmf>>4)&0x0F != cinfo32K {
		return nil, zerr.Framingf("unsupported window size")
	}
	if (uint16(cmf)*256+uint16(flg))%31 != 0 {
		return nil, zerr.Framingf("header checksum mismatch")
	}
	if flg&flagFDICT != 0 {
		return nil, zerr.Framingf("preset dictionaries are not supported")
	}

	zlog.Debugf("zlib header ok: cmf=%#x flg=%#x", cmf, flg)

	return &Reader{
		src:    src,
		flate:  flate.NewReader(src),
		digest: adler32.New(),
	}, nil
}

// Read implements io.Reader. On reaching the end of the compressed stream
// it reads and checks the 4-byte big-endian Adler-32 trailer before
// signalling io.EOF.
func (z *Reader) Read(p []byte) (int, error) {
	if z.err != nil {
		return 0, z.err
	}
	if z.done {
		return 0, io.EOF
	}
	if len(p) == 0 {
		return 0, nil
	}

	n, err := z.flate.Read(p)
	z.digest.Write(p[:n])

	if err == nil {
		return n, nil
	}
	if err != io.EOF {
		z.err = err
		return n, err
	}

	if verr := z.verifyTrailer(); verr != nil {
		z.err = verr
		return n, verr
	}
	z.done = true
	if n > 0 {
		return n, nil
	}
	return 0, io.EOF
}

func (z *Reader) verifyTrailer() error {
	var buf [trailerLen]byte
	if _, err := io.ReadFull(z.src, buf[:]); err != nil {
		return zerr.Truncationf("unexpected EOF in zlib trailer")
	}
	want := uint32(buf[0])<<24 | uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3])
	got := z.digest.Sum32()
	if got != want {
		return zerr.Framingf("adler32 checksum mismatch")
	}
	return nil
}
