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

// Package log is a small leveled logger, the repo-wide logging surface for
// zinflate's decoder packages, CLI, and HTTP handler.
package log

import (
	"fmt"
	"sync"
)

// Level is the set of all log levels.
type Level int8

const (
	// CRITICAL is the lowest log level; only errors which will end the program will be propagated.
	CRITICAL Level = -1
	// ERROR is for errors that are not fatal but lead to troubling behavior.
	ERROR Level = 0
	// WARNING is for errors which are not fatal and not errors, but are unusual.
	WARNING Level = 1
	// NOTICE is for normal but significant conditions.
	NOTICE Level = 2
	// INFO is a log level for common, everyday log updates.
	INFO Level = 3
	// DEBUG is the default hidden level for more verbose updates about internal processes.
	DEBUG Level = 4
	// TRACE is for call-by-call tracing, e.g. one line per DEFLATE block.
	TRACE Level = 5
)

// Char returns a single-character representation of the log level.
func (l Level) Char() string {
	switch l {
	case CRITICAL:
		return "C"
	case ERROR:
		return "E"
	case WARNING:
		return "W"
	case NOTICE:
		return "N"
	case INFO:
		return "I"
	case DEBUG:
		return "D"
	case TRACE:
		return "T"
	default:
		return "?"
	}
}

// String returns the full name of the level, as accepted by ParseLevel.
func (l Level) String() string {
	switch l {
	case CRITICAL:
		return "CRITICAL"
	case ERROR:
		return "ERROR"
	case WARNING:
		return "WARNING"
	case NOTICE:
		return "NOTICE"
	case INFO:
		return "INFO"
	case DEBUG:
		return "DEBUG"
	case TRACE:
		return "TRACE"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel translates a loglevel string or its numeric/short form into a Level.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "CRITICAL", "C":
		return CRITICAL, nil
	case "ERROR", "0", "E":
		return ERROR, nil
	case "WARNING", "1", "W":
		return WARNING, nil
	case "NOTICE", "2", "N":
		return NOTICE, nil
	case "INFO", "3", "I":
		return INFO, nil
	case "DEBUG", "4", "D":
		return DEBUG, nil
	case "TRACE", "5", "T":
		return TRACE, nil
	}
	return CRITICAL, fmt.Errorf("log: couldn't parse log level %q", s)
}

type loggerStruct struct {
	lock      sync.Mutex
	pkgs      map[string]*packageLogger
	formatter Formatter
}

var logger = &loggerStruct{pkgs: make(map[string]*packageLogger)}

// SetFormatter sets the formatting function used by every package logger.
// A nil formatter discards all log entries.
func SetFormatter(f Formatter) {
	logger.lock.Lock()
	defer logger.lock.Unlock()
	logger.formatter = f
}

// NewPackageLogger creates (or returns the existing) logger for pkg. This is
// normally assigned to a package-level var.
func NewPackageLogger(pkg string) *packageLogger {
	logger.lock.Lock()
	defer logger.lock.Unlock()
	if p, ok := logger.pkgs[pkg]; ok {
		return p
	}
	p := &packageLogger{pkg: pkg, level: ERROR}
	logger.pkgs[pkg] = p
	return p
}

// SetPackageLevel sets the minimum level logged by pkg's logger, if one has
// been created. It is a no-op for unknown packages.
func SetPackageLevel(pkg string, l Level) {
	logger.lock.Lock()
	defer logger.lock.Unlock()
	if p, ok := logger.pkgs[pkg]; ok {
		p.level = l
	}
}

// SetGlobalLevel sets the minimum level logged by every known package logger.
func SetGlobalLevel(l Level) {
	logger.lock.Lock()
	defer logger.lock.Unlock()
	for _, p := range logger.pkgs {
		p.level = l
	}
}
