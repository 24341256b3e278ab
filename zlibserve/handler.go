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

// Package zlibserve serves decompressed zlib streams over HTTP, streaming
// directly from a zlib.Reader rather than buffering the whole file.
package zlibserve

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/streamzlib/zinflate/internal/log"
	"github.com/streamzlib/zinflate/internal/zerr"
	"github.com/streamzlib/zinflate/zlib"
)

var hlog = log.NewPackageLogger("zinflate/zlibserve")

// Handler serves files ending in ".zz" from Root, decompressing each one as
// it streams it to the client.
type Handler struct {
	Root string
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := filepath.Clean("/" + r.URL.Path)
	path := filepath.Join(h.Root, name)

	f, err := os.Open(path)
	if err != nil {
		hlog.Warningf("open %s: %v", path, err)
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	zr, err := zlib.NewReader(f)
	if err != nil {
		hlog.Errorf("zlib header for %s: %v", path, err)
		http.Error(w, "bad zlib stream", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	if _, err := io.Copy(w, zr); err != nil {
		var ze *zerr.Error
		if errors.As(err, &ze) {
			hlog.Errorf("decompressing %s: %s error: %v", path, ze.Kind, err)
		} else {
			hlog.Errorf("streaming %s: %v", path, err)
		}
	}
}

// LoggingMiddleware logs every request before delegating to Next.
type LoggingMiddleware struct {
	Next http.Handler
}

func (l *LoggingMiddleware) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	hlog.Infof("HTTP %s %v", r.Method, r.URL)
	l.Next.ServeHTTP(w, r)
}
