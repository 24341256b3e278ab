// Copyright 2016 CoreOS, Inc
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

package log

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"
)

var pid = os.Getpid()

// Formatter renders one log entry for a package at a given level.
type Formatter interface {
	Format(pkg string, level Level, depth int, entry string)
}

// StringFormatter writes "pkg entry\n" with no timestamp, the format used by
// most of this repo's tests.
type StringFormatter struct {
	w *bufio.Writer
}

func NewStringFormatter(w io.Writer) *StringFormatter {
	return &StringFormatter{w: bufio.NewWriter(w)}
}

func (s *StringFormatter) Format(pkg string, _ Level, _ int, entry string) {
	s.w.WriteString(pkg)
	s.w.WriteByte(' ')
	s.w.WriteString(entry)
	if !strings.HasSuffix(entry, "\n") {
		s.w.WriteString("\n")
	}
	s.w.Flush()
}

// GlogFormatter writes glog-style "Lmmdd hh:mm:ss.uuuuuu pid file:line] pkg entry".
type GlogFormatter struct {
	StringFormatter
}

func NewGlogFormatter(w io.Writer) *GlogFormatter {
	g := &GlogFormatter{}
	g.w = bufio.NewWriter(w)
	return g
}

func (g *GlogFormatter) Format(pkg string, level Level, depth int, entry string) {
	g.w.Write(glogHeader(level, depth+1))
	g.StringFormatter.Format(pkg, level, depth+1, entry)
}

func glogHeader(level Level, depth int) []byte {
	now := time.Now()
	_, file, line, ok := runtime.Caller(depth)
	if !ok {
		file, line = "???", 1
	} else if slash := strings.LastIndex(file, "/"); slash >= 0 {
		file = file[slash+1:]
	}
	buf := &bytes.Buffer{}
	buf.Grow(30)
	_, month, day := now.Date()
	hour, minute, second := now.Clock()
	buf.WriteString(level.Char())
	twoDigits(buf, int(month))
	twoDigits(buf, day)
	buf.WriteByte(' ')
	twoDigits(buf, hour)
	buf.WriteByte(':')
	twoDigits(buf, minute)
	buf.WriteByte(':')
	twoDigits(buf, second)
	buf.WriteByte('.')
	buf.WriteString(fmt.Sprint(now.Nanosecond() / 1000))
	buf.WriteByte(' ')
	buf.WriteString(fmt.Sprint(pid))
	buf.WriteByte(' ')
	buf.WriteString(file)
	buf.WriteByte(':')
	buf.WriteString(fmt.Sprint(line))
	buf.WriteString("] ")
	return buf.Bytes()
}

const digits = "0123456789"

func twoDigits(b *bytes.Buffer, d int) {
	c2 := digits[d%10]
	d /= 10
	c1 := digits[d%10]
	b.WriteByte(c1)
	b.WriteByte(c2)
}
