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
	"strings"

	"github.com/oysterpack/isowords/pkg/eventlog"
	"github.com/rs/zerolog"
	"go.uber.org/fx/fxevent"
)

// FxEventLogger routes fx container events to zerolog. Successful events are logged at debug level, failures at error level.
type FxEventLogger struct {
	logger *zerolog.Logger
}

// NewFxEventLogger constructs a new fxevent.Logger that logs FxEvent events
func NewFxEventLogger(logger *zerolog.Logger) *FxEventLogger {
	return &FxEventLogger{eventlog.ForEvent(eventlog.ForComponent(logger, "fx"), FxEvent.String())}
}

// LogEvent implements fxevent.Logger
func (l *FxEventLogger) LogEvent(event fxevent.Event) {
	switch e := event.(type) {
	case *fxevent.Provided:
		l.log(e.Err, "provided", eventlog.Fields{"constructor": e.ConstructorName, "types": strings.Join(e.OutputTypeNames, ",")})
	case *fxevent.Invoked:
		l.log(e.Err, "invoked", eventlog.Fields{"function": e.FunctionName})
	case *fxevent.OnStartExecuted:
		l.log(e.Err, "OnStart hook executed", eventlog.Fields{"callee": e.FunctionName, "caller": e.CallerName, "runtime": e.Runtime})
	case *fxevent.OnStopExecuted:
		l.log(e.Err, "OnStop hook executed", eventlog.Fields{"callee": e.FunctionName, "caller": e.CallerName, "runtime": e.Runtime})
	case *fxevent.Started:
		l.log(e.Err, "started", nil)
	case *fxevent.Stopped:
		l.log(e.Err, "stopped", nil)
	case *fxevent.RollingBack:
		l.log(e.StartErr, "start failed, rolling back", nil)
	case *fxevent.RolledBack:
		l.log(e.Err, "rolled back", nil)
	case *fxevent.LoggerInitialized:
		l.log(e.Err, "logger initialized", nil)
	}
}

func (l *FxEventLogger) log(err error, msg string, fields eventlog.Fields) {
	var event *zerolog.Event
	if err != nil {
		event = l.logger.Error().Err(err)
	} else {
		event = l.logger.Debug()
	}
	if len(fields) > 0 {
		event.Object(eventlog.Data, fields)
	}
	event.Msg(msg)
}
