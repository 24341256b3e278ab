// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flate

import (
	"sync"

	"github.com/streamzlib/zinflate/bitreader"
	"github.com/streamzlib/zinflate/huffman"
	"github.com/streamzlib/zinflate/internal/log"
	"github.com/streamzlib/zinflate/internal/zerr"
)

var blog = log.NewPackageLogger("zinflate/flate")

// blockReader decodes the symbols of a single compressed DEFLATE block. It
// owns the bit reader for the block's lifetime and consults the shared
// history window for back-references.
type blockReader struct {
	br       *bitreader.Reader
	lit      *huffman.Table
	dist     *huffman.Table
	eof      bool
	pendLen  int
	pendDist int
}

func newFixedBlockReader(br *bitreader.Reader) *blockReader {
	return &blockReader{br: br, lit: fixedLitTable(), dist: fixedDistTable()}
}

func newDynamicBlockReader(br *bitreader.Reader) (*blockReader, error) {
	lit, dist, err := readDynamicTables(br)
	if err != nil {
		return nil, err
	}
	return &blockReader{br: br, lit: lit, dist: dist}, nil
}

var (
	fixedOnce       sync.Once
	cachedFixedLit  *huffman.Table
	cachedFixedDist *huffman.Table
)

func buildFixedTables() {
	litLens := fixedLitLengths()
	litSyms := make([]int, len(litLens))
	for i := range litSyms {
		litSyms[i] = i
	}
	cachedFixedLit = huffman.Build(litSyms, litLens)

	distLens := fixedDistLengths()
	distSyms := make([]int, len(distLens))
	for i := range distSyms {
		distSyms[i] = i
	}
	cachedFixedDist = huffman.Build(distSyms, distLens)
}

func fixedLitTable() *huffman.Table {
	fixedOnce.Do(buildFixedTables)
	return cachedFixedLit
}

func fixedDistTable() *huffman.Table {
	fixedOnce.Do(buildFixedTables)
	return cachedFixedDist
}

// readDynamicTables decodes HLIT/HDIST/HCLEN, the 19-slot code-length meta
// table, and the length vector it describes, per RFC 1951 §3.2.7.
func readDynamicTables(br *bitreader.Reader) (*huffman.Table, *huffman.Table, error) {
	hlitBits, err := br.Read(5)
	if err != nil {
		return nil, nil, err
	}
	hlit := int(hlitBits) + 257

	hdistBits, err := br.Read(5)
	if err != nil {
		return nil, nil, err
	}
	hdist := int(hdistBits) + 1

	hclenBits, err := br.Read(4)
	if err != nil {
		return nil, nil, err
	}
	hclen := int(hclenBits) + 4

	var metaLens [19]int
	for i := 0; i < hclen; i++ {
		v, err := br.Read(3)
		if err != nil {
			return nil, nil, err
		}
		metaLens[codeOrder[i]] = int(v)
	}

	metaSyms := make([]int, 0, 19)
	metaLensUsed := make([]int, 0, 19)
	for sym, l := range metaLens {
		if l > 0 {
			metaSyms = append(metaSyms, sym)
			metaLensUsed = append(metaLensUsed, l)
		}
	}
	if len(metaSyms) == 0 {
		return nil, nil, zerr.Codef("bad huffman data")
	}
	metaTable := huffman.Build(metaSyms, metaLensUsed)

	total := hlit + hdist
	lens := make([]int, 0, total)
	var prev int
	havePrev := false
	for len(lens) < total {
		sym, err := metaTable.Decode(br)
		if err != nil {
			return nil, nil, err
		}
		switch {
		case sym <= 15:
			lens = append(lens, sym)
			prev = sym
			havePrev = true
		case sym == 16:
			if !havePrev {
				return nil, nil, zerr.Codef("RepeatPrevious with no prior length")
			}
			bits, err := br.Read(2)
			if err != nil {
				return nil, nil, err
			}
			n := 3 + int(bits)
			for i := 0; i < n && len(lens) < total; i++ {
				lens = append(lens, prev)
			}
		case sym == 17:
			bits, err := br.Read(3)
			if err != nil {
				return nil, nil, err
			}
			n := 3 + int(bits)
			for i := 0; i < n && len(lens) < total; i++ {
				lens = append(lens, 0)
			}
			havePrev = true
			prev = 0
		case sym == 18:
			bits, err := br.Read(7)
			if err != nil {
				return nil, nil, err
			}
			n := 11 + int(bits)
			for i := 0; i < n && len(lens) < total; i++ {
				lens = append(lens, 0)
			}
			havePrev = true
			prev = 0
		default:
			return nil, nil, zerr.Codef("bad huffman data")
		}
	}
	if len(lens) != total {
		return nil, nil, zerr.Codef("bad huffman data")
	}

	litLens, distLens := lens[:hlit], lens[hlit:]
	litTable, err := buildNonZero(litLens)
	if err != nil {
		return nil, nil, err
	}
	distTable, err := buildNonZero(distLens)
	if err != nil {
		return nil, nil, err
	}
	return litTable, distTable, nil
}

func buildNonZero(lens []int) (*huffman.Table, error) {
	syms := make([]int, 0, len(lens))
	used := make([]int, 0, len(lens))
	for i, l := range lens {
		if l > 0 {
			syms = append(syms, i)
			used = append(used, l)
		}
	}
	if len(syms) == 0 {
		return nil, zerr.Codef("bad huffman data")
	}
	return huffman.Build(syms, used), nil
}

// read decodes symbols into p, consulting hist for back-references, until p
// is full or an end-of-block symbol is seen. It returns the number of bytes
// written; zero with a nil error means end-of-block was reached (or already
// had been, on a prior call).
func (b *blockReader) read(p []byte, hist *history) (int, error) {
	n := 0
	if b.eof {
		return 0, nil
	}

	// Resume a back-reference copy left pending by a short return.
	if b.pendLen > 0 {
		copied, err := hist.copyBack(b.pendDist, b.pendLen, p, &n)
		b.pendLen -= copied
		if err != nil {
			return n, err
		}
		if b.pendLen > 0 {
			return n, nil
		}
	}

	for n < len(p) {
		sym, err := b.lit.Decode(b.br)
		if err != nil {
			return n, err
		}

		switch {
		case sym < endOfBlock:
			hist.append(byte(sym))
			p[n] = byte(sym)
			n++

		case sym == endOfBlock:
			b.eof = true
			blog.Tracef("end of block after %d bytes this call", n)
			return n, nil

		default:
			idx := sym - lengthStart
			if idx < 0 || idx >= len(lengthBase) {
				return n, zerr.Codef("bad huffman data")
			}
			extra, err := b.br.Read(uint(lengthExtra[idx]))
			if err != nil {
				return n, err
			}
			length := lengthBase[idx] + int(extra)

			dsym, err := b.dist.Decode(b.br)
			if err != nil {
				return n, err
			}
			if dsym < 0 || dsym >= len(distBase) {
				return n, zerr.Codef("bad huffman data")
			}
			dextra, err := b.br.Read(uint(distExtra[dsym]))
			if err != nil {
				return n, err
			}
			dist := distBase[dsym] + int(dextra)

			copied, err := hist.copyBack(dist, length, p, &n)
			if err != nil {
				return n, err
			}
			if copied < length {
				b.pendLen = length - copied
				b.pendDist = dist
				return n, nil
			}
		}
	}
	return n, nil
}
