// Copyright 2016 CoreOS Inc
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package progress prints a single-line progress bar while zinflate copies
// decompressed bytes to their destination.
package progress

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// ErrAlreadyStarted is returned by AddCopy once a copy has been registered
// on this CopyProgressPrinter, and by PrintAndWait once a copy has already
// begun.
var ErrAlreadyStarted = errors.New("progress: copy already started")

const barWidth = 40

// CopyProgressPrinter drives one io.Copy between r and w while rendering a
// text progress bar of bytes copied against an expected total size.
type CopyProgressPrinter struct {
	mu      sync.Mutex
	started bool

	label string
	size  int64
	r     io.Reader
	w     io.Writer

	copied int64
}

// NewCopyProgressPrinter returns an idle printer; call AddCopy before
// PrintAndWait.
func NewCopyProgressPrinter() *CopyProgressPrinter {
	return &CopyProgressPrinter{}
}

// AddCopy registers the single copy this printer will perform and track.
// size is the expected total byte count; with a negative or zero size no
// bar is drawn and each progress line shows only the bytes copied so far.
func (p *CopyProgressPrinter) AddCopy(r io.Reader, label string, size int64, w io.Writer) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started || p.r != nil {
		return ErrAlreadyStarted
	}
	p.label = label
	p.size = size
	p.r = &countingReader{r: r, n: &p.copied}
	p.w = w
	return nil
}

// PrintAndWait copies from the registered reader to the registered writer,
// printing a progress line to out every interval until the copy finishes,
// is cancelled, or an error occurs.
func (p *CopyProgressPrinter) PrintAndWait(out io.Writer, interval time.Duration, cancel <-chan struct{}) error {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return ErrAlreadyStarted
	}
	p.started = true
	r, w, label, size := p.r, p.w, p.label, p.size
	p.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		_, err := io.Copy(w, r)
		done <- err
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	first := true
	for {
		select {
		case err := <-done:
			p.render(out, label, size, first)
			return err
		case <-cancel:
			return nil
		case <-ticker.C:
			p.render(out, label, size, first)
			first = false
		}
	}
}

func (p *CopyProgressPrinter) render(out io.Writer, label string, size int64, first bool) {
	copied := atomic.LoadInt64(&p.copied)
	var frac float64
	if size > 0 {
		frac = float64(copied) / float64(size)
		if frac > 1 {
			frac = 1
		}
	}
	filled := int(frac * barWidth)
	bar := strings.Repeat("=", filled) + strings.Repeat(" ", barWidth-filled)

	prefix := ""
	if !first {
		prefix = "\033[1A"
	}
	if size > 0 {
		fmt.Fprintf(out, "%s%-12s [%s] %s / %s\n", prefix, label, bar, ByteUnitStr(copied), ByteUnitStr(size))
	} else {
		fmt.Fprintf(out, "%s%-12s %s\n", prefix, label, ByteUnitStr(copied))
	}
}

// ByteUnitStr renders n bytes using the nearest binary unit, e.g. "1.5MiB".
func ByteUnitStr(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%dB", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	units := "KMGTPE"
	return fmt.Sprintf("%.1f%ciB", float64(n)/float64(div), units[exp])
}

type countingReader struct {
	r io.Reader
	n *int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	atomic.AddInt64(c.n, int64(n))
	return n, err
}
