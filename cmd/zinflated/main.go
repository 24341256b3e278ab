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

// Command zinflated serves decompressed .zz files over HTTP from a
// directory, shutting down gracefully on SIGINT/SIGTERM.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/streamzlib/zinflate/internal/flagutil"
	"github.com/streamzlib/zinflate/internal/log"
	"github.com/streamzlib/zinflate/internal/stopgroup"
	"github.com/streamzlib/zinflate/internal/zconfig"
	"github.com/streamzlib/zinflate/zlibserve"
)

var (
	addr       = flag.String("addr", ":8080", "listen address")
	root       = flag.String("root", ".", "directory of .zz files to serve")
	configPath = flag.String("config", "", "YAML file of flag defaults")
	logLevel   flagutil.LogLevelFlag
)

func main() {
	flag.Var(&logLevel, "v", "log level: CRITICAL, ERROR, WARNING, NOTICE, INFO, DEBUG, TRACE")
	flag.Parse()

	if *configPath != "" {
		raw, err := os.ReadFile(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "zinflated: reading config: %v\n", err)
			os.Exit(1)
		}
		if err := zconfig.SetFlagsFromYaml(flag.CommandLine, raw); err != nil {
			fmt.Fprintf(os.Stderr, "zinflated: applying config: %v\n", err)
			os.Exit(1)
		}
	}

	log.SetFormatter(log.NewGlogFormatter(os.Stderr))
	log.SetGlobalLevel(logLevel.Level())

	handler := &zlibserve.LoggingMiddleware{Next: &zlibserve.Handler{Root: *root}}
	srv := &http.Server{Addr: *addr, Handler: handler}

	group := stopgroup.NewGroup()
	group.AddFunc(func() <-chan struct{} {
		done := make(chan struct{})
		go func() {
			defer close(done)
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(ctx)
		}()
		return done
	})

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	stopped := make(chan struct{})
	go func() {
		<-sigc
		<-group.Stop()
		close(stopped)
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		fmt.Fprintf(os.Stderr, "zinflated: %v\n", err)
		os.Exit(1)
	}
	<-stopped
}
