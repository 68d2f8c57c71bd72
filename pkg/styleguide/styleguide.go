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

// Package styleguide registers the app's custom fonts with the host.
package styleguide

import (
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/oysterpack/isowords/pkg/eventlog"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Styleguide events
const (
	FontsRegistered         eventlog.Event = "01EJ6SBM1Y8D4Q7X2N5K9W3V0F"
	FontsRegistrationFailed eventlog.Event = "01EJ6SBV7C5H1R9M3T6Z0Q2X8J"
)

// fontExtensions are the supported font file types
var fontExtensions = map[string]bool{".otf": true, ".ttf": true}

// Registry registers the font files found in a font bundle. Registration happens at most once.
type Registry struct {
	fonts fs.FS

	once       sync.Once
	registered []string
	err        error

	logRegistered eventlog.Logger
	logFailed     eventlog.ErrorLogger
}

// NewRegistry constructs a new Registry for the font bundle
func NewRegistry(fonts fs.FS, logger *zerolog.Logger) *Registry {
	logger = eventlog.ForComponent(logger, "styleguide")
	return &Registry{
		fonts:         fonts,
		logRegistered: FontsRegistered.NewLogger(logger, zerolog.InfoLevel),
		logFailed:     FontsRegistrationFailed.NewErrorLogger(logger),
	}
}

// RegisterFonts registers the fonts. It is idempotent and safe for concurrent use.
// A missing or unreadable font bundle is logged: the app falls back to the system fonts.
func (r *Registry) RegisterFonts() {
	r.once.Do(func() {
		entries, err := fs.ReadDir(r.fonts, ".")
		if err != nil {
			r.err = errors.Wrap(err, "failed to read font bundle")
			r.logFailed(nil, r.err, "font registration failed")
			return
		}
		for _, entry := range entries {
			if entry.IsDir() || !fontExtensions[strings.ToLower(path.Ext(entry.Name()))] {
				continue
			}
			r.registered = append(r.registered, strings.TrimSuffix(entry.Name(), path.Ext(entry.Name())))
		}
		sort.Strings(r.registered)
		r.logRegistered(eventlog.Fields{"fonts": r.registered}, "fonts registered")
	})
}

// Fonts returns the registered font names
func (r *Registry) Fonts() []string {
	return append([]string(nil), r.registered...)
}

// Err returns the registration error, if any
func (r *Registry) Err() error {
	return r.err
}
