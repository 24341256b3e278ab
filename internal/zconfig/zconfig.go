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

// Package zconfig loads flag defaults from a YAML file, letting zinflate's
// CLI and server binaries be configured without repeating every flag on
// every invocation.
package zconfig

import (
	"flag"
	"fmt"
	"strings"

	yaml "gopkg.in/yaml.v2"
)

// SetFlagsFromYaml visits every flag registered on fs and, for any flag not
// already set on the command line, assigns it from rawYaml's matching key:
// REPLACE(UPPERCASE(flagname), '-', '_').
func SetFlagsFromYaml(fs *flag.FlagSet, rawYaml []byte) error {
	conf := make(map[string]string)
	if err := yaml.Unmarshal(rawYaml, conf); err != nil {
		return fmt.Errorf("zconfig: parsing yaml: %w", err)
	}

	alreadySet := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		alreadySet[f.Name] = true
	})

	var firstErr error
	fs.VisitAll(func(f *flag.Flag) {
		if alreadySet[f.Name] {
			return
		}
		tag := strings.ToUpper(strings.Replace(f.Name, "-", "_", -1))
		val, ok := conf[tag]
		if !ok {
			return
		}
		if err := fs.Set(f.Name, val); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("zconfig: invalid value %q for %s: %w", val, tag, err)
		}
	})
	return firstErr
}
