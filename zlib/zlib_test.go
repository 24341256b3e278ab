// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package zlib

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/streamzlib/zinflate/internal/zerr"
)

// storedZlib wraps payload in a single final stored DEFLATE block, a
// standard "fastest" zlib header (0x78 0x01), and a trailer. If trailer is
// nil the correct Adler-32 of payload is used.
func storedZlib(payload []byte, trailer []byte) []byte {
	var buf bytes.Buffer
	buf.Write([]byte{0x78, 0x01})

	buf.WriteByte(0x01) // BFINAL=1, BTYPE=00, padded to a byte
	n := len(payload)
	nn := uint16(^uint16(n))
	buf.WriteByte(byte(n))
	buf.WriteByte(byte(n >> 8))
	buf.WriteByte(byte(nn))
	buf.WriteByte(byte(nn >> 8))
	buf.Write(payload)

	if trailer != nil {
		buf.Write(trailer)
		return buf.Bytes()
	}
	sum := adlerChecksum(payload)
	buf.Write([]byte{byte(sum >> 24), byte(sum >> 16), byte(sum >> 8), byte(sum)})
	return buf.Bytes()
}

func TestReadHelloWorld(t *testing.T) {
	data := storedZlib([]byte("hello world"), nil)

	r, err := NewReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != "hello world" {
		t.Fatalf("got %q, want %q", got, "hello world")
	}
}

func TestBadHeaderChecksum(t *testing.T) {
	data := storedZlib([]byte("hi"), nil)
	data[1] ^= 0x01 // break the FCHECK bits

	_, err := NewReader(bytes.NewReader(data))
	if err == nil {
		t.Fatal("expected a header checksum error")
	}
	var ze *zerr.Error
	if !errors.As(err, &ze) || ze.Kind != zerr.Framing {
		t.Fatalf("err = %v, want Framing kind", err)
	}
}

func TestUnsupportedCompressionMethod(t *testing.T) {
	data := storedZlib([]byte("hi"), nil)
	data[0] = 0x79 // CM = 9, not deflate
	data[1] = 0x18 // FLG chosen so (CMF*256+FLG)%31==0 still holds

	_, err := NewReader(bytes.NewReader(data))
	if err == nil {
		t.Fatal("expected an error for a non-deflate compression method")
	}
}

func TestUnsupportedWindowSize(t *testing.T) {
	// CM=8 (deflate), CINFO=0 (not the required 32K/value-7 window), and
	// FLG chosen so (CMF*256+FLG)%31==0 still holds.
	data := []byte{0x08, 0x1D}

	_, err := NewReader(bytes.NewReader(data))
	if err == nil {
		t.Fatal("expected an error for an unsupported window size")
	}
	var ze *zerr.Error
	if !errors.As(err, &ze) || ze.Kind != zerr.Framing {
		t.Fatalf("err = %v, want Framing kind", err)
	}
}

func TestPresetDictionaryRejected(t *testing.T) {
	data := storedZlib([]byte("hi"), nil)
	data[1] = flagFDICT // FDICT set; 0x7820 still satisfies (CMF*256+FLG)%31==0

	_, err := NewReader(bytes.NewReader(data))
	if err == nil {
		t.Fatal("expected preset dictionaries to be rejected")
	}
	var ze *zerr.Error
	if !errors.As(err, &ze) || ze.Kind != zerr.Framing {
		t.Fatalf("err = %v, want Framing kind", err)
	}
}

func TestTrailerMismatch(t *testing.T) {
	data := storedZlib([]byte("hello"), []byte{0, 0, 0, 0})

	r, err := NewReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	_, err = io.ReadAll(r)
	if err == nil {
		t.Fatal("expected a trailer checksum mismatch")
	}
	var ze *zerr.Error
	if !errors.As(err, &ze) || ze.Kind != zerr.Framing {
		t.Fatalf("err = %v, want Framing kind", err)
	}
}

func adlerChecksum(p []byte) uint32 {
	var s1, s2 uint32 = 1, 0
	for _, b := range p {
		s1 = (s1 + uint32(b)) % 65521
		s2 = (s2 + s1) % 65521
	}
	return s2<<16 | s1
}
