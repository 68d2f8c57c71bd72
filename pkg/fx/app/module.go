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

package app

import (
	"io"
	"os"

	"github.com/oklog/ulid"
	"github.com/oysterpack/isowords/pkg/eventlog"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// DefaultName is the application name used when Opts.Name is blank
const DefaultName = "isowords"

// standard application logger field names
const (
	AppNameField   = "a"
	SessionIDField = "s"
)

// Opts is used to configure the fx module
type Opts struct {
	// Name tags every log event. Defaults to DefaultName.
	Name string
	// SessionID identifies the process launch. If zero, then a new one is generated.
	SessionID ulid.ULID

	// LogWriter is where the application logger writes to - defaults to os.Stderr
	LogWriter io.Writer
	// LogLevel is the global application log level - the zero value is zerolog.DebugLevel
	LogLevel zerolog.Level
}

// SessionID returns the ID of the current process launch. Log events from the same launch share it.
type SessionID func() ulid.ULID

// Logger returns an event logger bound to the application logger
type Logger func(event eventlog.Event, level zerolog.Level) eventlog.Logger

// Module provides the SessionID, the application *zerolog.Logger, and the Logger event logger factory
func Module(opts Opts) fx.Option {
	if opts.Name == "" {
		opts.Name = DefaultName
	}
	if opts.SessionID == (ulid.ULID{}) {
		opts.SessionID = eventlog.NewULID()
	}
	if opts.LogWriter == nil {
		opts.LogWriter = os.Stderr
	}
	return fx.Provide(
		func() SessionID {
			id := opts.SessionID
			return func() ulid.ULID { return id }
		},
		func(session SessionID) *zerolog.Logger {
			logger := eventlog.NewZeroLogger(opts.LogWriter).
				Level(opts.LogLevel).
				With().
				Str(AppNameField, opts.Name).
				Str(SessionIDField, session().String()).
				Logger()
			return &logger
		},
		func(logger *zerolog.Logger) Logger {
			return func(event eventlog.Event, level zerolog.Level) eventlog.Logger {
				return event.NewLogger(logger, level)
			}
		},
	)
}
