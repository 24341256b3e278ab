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

// Command zinflate decompresses a single zlib stream from stdin or a named
// file to stdout or a named output file.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/streamzlib/zinflate/internal/flagutil"
	"github.com/streamzlib/zinflate/internal/log"
	"github.com/streamzlib/zinflate/internal/progress"
	"github.com/streamzlib/zinflate/internal/zconfig"
	"github.com/streamzlib/zinflate/zlib"
)

var (
	out        = flag.String("o", "", "output file (default: stdout)")
	configPath = flag.String("config", "", "YAML file of flag defaults")
	showProg   = flag.Bool("progress", false, "print a progress bar to stderr")
	logLevel   flagutil.LogLevelFlag
)

func main() {
	flag.Var(&logLevel, "v", "log level: CRITICAL, ERROR, WARNING, NOTICE, INFO, DEBUG, TRACE")
	flag.Parse()

	if *configPath != "" {
		raw, err := os.ReadFile(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "zinflate: reading config: %v\n", err)
			os.Exit(1)
		}
		if err := zconfig.SetFlagsFromYaml(flag.CommandLine, raw); err != nil {
			fmt.Fprintf(os.Stderr, "zinflate: applying config: %v\n", err)
			os.Exit(1)
		}
	}

	log.SetFormatter(log.NewGlogFormatter(os.Stderr))
	log.SetGlobalLevel(logLevel.Level())

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "zinflate: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	args := flag.Args()
	var in io.Reader = os.Stdin
	if len(args) > 0 {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	zr, err := zlib.NewReader(in)
	if err != nil {
		return err
	}

	var dst io.Writer = os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return err
		}
		defer f.Close()
		dst = f
	}

	if !*showProg {
		_, err := io.Copy(dst, zr)
		return err
	}

	p := progress.NewCopyProgressPrinter()
	if err := p.AddCopy(zr, "inflate", -1, dst); err != nil {
		return err
	}
	return p.PrintAndWait(os.Stderr, 200*time.Millisecond, nil)
}
