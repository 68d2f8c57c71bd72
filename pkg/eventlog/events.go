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

package eventlog

import (
	"github.com/rs/zerolog"
)

// Event is used as an event type ID.
// It must be globally unique - ULIDs are recommended.
type Event string

func (e Event) String() string {
	return string(e)
}

// Logger is a function used to log events.
type Logger func(eventData zerolog.LogObjectMarshaler, msg string, tags ...string)

// ErrorLogger is a function used to log error events
type ErrorLogger func(eventData zerolog.LogObjectMarshaler, err error, msg string, tags ...string)

// NewLogger creates a new function used to log events using a standardized structure that supports use cases for automated
// monitoring, querying, and analytics.
//
// The event object data is logged as a dictionary using the `Data` field name. The event data structure should be
// designed to be as stable as possible. Not all events have event data.
//
// Example event
//
//	{
//	  "l": "info", --------------------------------------- event level
//	  "a": "isowords", =================================== app name
//	  "s": "01DE379HHN2RRX9YQCG2DN9CHG", ================= session ID
//	  "c": "store", ======================================= component
//	  "n": "01DFZ4NGEVQ3JSA9K9Q3AZ9XHF", ----------------- event type ID
//	  "d": { --------------------------------------------- event object data (optional)
//		"action": "appfeature.AppDelegate" --------------- event object data (optional)
//	  }, ------------------------------------------------- event object data (optional)
//	  "g": ["tag-a","tag-b"], ---------------------------- event tags (optional)
//	  "z": "01DE379HHNM87XT4PBHXYYBTYS", ================= event instance ID
//	  "t": 1561328928, =================================== event timestamp in Unix time
//	  "m": "action dispatched" --------------------------- event short description
//	}
//
// where
//
//	==== means the field was populated by the application logger
//	---- means the field was populated by the event logger
func (e Event) NewLogger(logger *zerolog.Logger, level zerolog.Level) Logger {
	eventLogger := ForEvent(logger, e.String())
	return func(eventObject zerolog.LogObjectMarshaler, msg string, tags ...string) {
		emit(eventLogger.WithLevel(level), eventObject, msg, tags)
	}
}

// NewErrorLogger creates a new function used to log errors with contextual data. It uses the same structure as `Logger`
// except that the level is automatically set to `error` and the error is set on the log event.
func (e Event) NewErrorLogger(logger *zerolog.Logger) ErrorLogger {
	eventLogger := ForEvent(logger, e.String())
	return func(eventObject zerolog.LogObjectMarshaler, err error, msg string, tags ...string) {
		emit(eventLogger.Error().Stack().Err(err), eventObject, msg, tags)
	}
}

// emit is a no-op for disabled events, i.e., the event is nil when its level is filtered out
func emit(event *zerolog.Event, data zerolog.LogObjectMarshaler, msg string, tags []string) {
	if !event.Enabled() {
		return
	}
	if data != nil {
		event.Object(Data, data)
	}
	if len(tags) > 0 {
		event.Strs(Tags, tags)
	}
	event.Msg(msg)
}

// Error wraps an error as event data
type Error struct {
	error
}

// NewError wraps the error as event data, which is logged as:
//
//	{"e":"error message"}
func NewError(err error) Error {
	return Error{err}
}

// MarshalZerologObject implements zerolog.LogObjectMarshaler interface
func (err Error) MarshalZerologObject(e *zerolog.Event) {
	if err.error == nil {
		return
	}
	e.Str(zerolog.ErrorFieldName, err.Error())
}

// Fields is a convenience event data type, used when defining a dedicated type for the event data is overkill.
// Keys are logged in no particular order.
type Fields map[string]interface{}

// MarshalZerologObject implements zerolog.LogObjectMarshaler interface
func (f Fields) MarshalZerologObject(e *zerolog.Event) {
	e.Fields(map[string]interface{}(f))
}
