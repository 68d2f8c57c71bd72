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
	"time"

	"github.com/oysterpack/isowords/pkg/eventlog"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// app lifecycle events
const (
	// ComposedEvent is logged at debug level once the dependency graph is resolved. The data field "dot_graph" is
	// the DOT rendering of the graph.
	ComposedEvent eventlog.Event = "01EJBQ3M7ZC4W9N2K5R8T1V6XA"
	StartingEvent eventlog.Event = "01EJBQ4A2D8F5H9K3M6P0R7S1T"
	// StartedEvent data field "duration" is the time spent running the OnStart hooks
	StartedEvent  eventlog.Event = "01EJBQ4TX6Y2Z8B5C1D7E3F9GH"
	StoppingEvent eventlog.Event = "01EJBQ5CJ4K0M7N3P9Q6R2S8TV"
	// StoppedEvent data field "duration" is the time spent running the OnStop hooks
	StoppedEvent eventlog.Event = "01EJBQ5WD1E5F8G2H6J9K3M7NP"
	// FxEvent is logged for fx container events, see FxEventLogger
	FxEvent eventlog.Event = "01EJBQ6F3Q7R1S4T8V2W5X9Y0Z"
)

type dotGraph fx.DotGraph

// MarshalZerologObject implements zerolog.LogObjectMarshaler interface
func (g dotGraph) MarshalZerologObject(e *zerolog.Event) {
	e.Str("dot_graph", string(g))
}

type duration time.Duration

// MarshalZerologObject implements zerolog.LogObjectMarshaler interface
func (d duration) MarshalZerologObject(e *zerolog.Event) {
	e.Dur("duration", time.Duration(d))
}
