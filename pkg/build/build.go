/*
 * Copyright (c) 2019 OysterPack, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package build provides the build information capability.
//
// Build information is linked into the binary via ldflags, e.g.,
//
//	go build -ldflags "-X github.com/oysterpack/isowords/pkg/build.number=42 -X github.com/oysterpack/isowords/pkg/build.version=1.2.0"
//
// If not linked, then the git SHA and version are read from the module build info embedded in the binary.
package build

import (
	"runtime/debug"
	"strconv"

	"github.com/Masterminds/semver"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// set via ldflags
var (
	number  string
	gitSHA  string
	version string
)

// Build is the build information capability
type Build interface {
	// Number returns the build number, which is used by the API server to select the server config
	Number() int
	GitSHA() string
	Version() *semver.Version
}

// Info is a Build value
type Info struct {
	number  int
	gitSHA  string
	version *semver.Version
}

// New constructs a new Build
func New(number int, gitSHA, version string) (*Info, error) {
	if number < 0 {
		return nil, errors.Errorf("build number must not be negative: %d", number)
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid build version: %q", version)
	}
	return &Info{number: number, gitSHA: gitSHA, version: v}, nil
}

// Live returns the build info linked into the binary.
// If numberOverride is greater than zero, then it takes precedence over the linked build number.
func Live(numberOverride int) (*Info, error) {
	n := 0
	if number != "" {
		var err error
		if n, err = strconv.Atoi(number); err != nil {
			return nil, errors.Wrapf(err, "invalid linked build number: %q", number)
		}
	}
	if numberOverride > 0 {
		n = numberOverride
	}

	sha, ver := gitSHA, version
	if info, ok := debug.ReadBuildInfo(); ok {
		if sha == "" {
			for _, setting := range info.Settings {
				if setting.Key == "vcs.revision" {
					sha = setting.Value
				}
			}
		}
		if ver == "" {
			if _, err := semver.NewVersion(info.Main.Version); err == nil {
				ver = info.Main.Version
			}
		}
	}
	if ver == "" {
		ver = "0.0.0"
	}
	return New(n, sha, ver)
}

// Number implements Build
func (b *Info) Number() int { return b.number }

// GitSHA implements Build
func (b *Info) GitSHA() string { return b.gitSHA }

// Version implements Build
func (b *Info) Version() *semver.Version { return b.version }

// MarshalZerologObject implements zerolog.LogObjectMarshaler
func (b *Info) MarshalZerologObject(e *zerolog.Event) {
	e.Int("number", b.number).
		Str("sha", b.gitSHA).
		Str("version", b.version.String())
}

// Noop returns a build with number 0 and version 0.0.0
func Noop() *Info {
	return &Info{version: semver.MustParse("0.0.0")}
}

var _ Build = &Info{}
