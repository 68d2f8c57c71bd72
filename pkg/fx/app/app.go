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

// Package app composes fx applications with zerolog based event logging.
//
// Every log event is tagged with the application name and the session ID, which is generated per process launch.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

// New constructs a new fx App that logs its lifecycle and routes fx container events to the application logger.
//
// The lifecycle hooks are registered around the options: StartingEvent is logged before any other OnStart hook runs,
// and StartedEvent after all of them. The same applies in reverse order for the stop events.
//
// The options must include Module(), which provides the application logger.
func New(options ...fx.Option) *fx.App {
	var clock phaseClock
	appOptions := make([]fx.Option, 0, len(options)+3)
	appOptions = append(appOptions,
		fx.WithLogger(func(logger *zerolog.Logger) fxevent.Logger {
			return NewFxEventLogger(logger)
		}),
		fx.Invoke(func(lc fx.Lifecycle, log Logger) {
			lc.Append(fx.Hook{
				OnStart: func(context.Context) error {
					clock.reset()
					log(StartingEvent, zerolog.InfoLevel)(nil, "app is starting")
					return nil
				},
				OnStop: func(context.Context) error {
					log(StoppedEvent, zerolog.InfoLevel)(clock.elapsed(), "app is stopped")
					return nil
				},
			})
		}),
	)
	appOptions = append(appOptions, options...)
	appOptions = append(appOptions,
		fx.Invoke(func(lc fx.Lifecycle, log Logger) {
			lc.Append(fx.Hook{
				OnStart: func(context.Context) error {
					log(StartedEvent, zerolog.InfoLevel)(clock.elapsed(), "app is started")
					return nil
				},
				OnStop: func(context.Context) error {
					clock.reset()
					log(StoppingEvent, zerolog.InfoLevel)(nil, "app is stopping")
					return nil
				},
			})
		}),
		fx.Invoke(func(graph fx.DotGraph, log Logger) {
			log(ComposedEvent, zerolog.DebugLevel)(dotGraph(graph), "app is composed")
		}),
	)
	return fx.New(appOptions...)
}

// phaseClock measures how long the start or stop phase took
type phaseClock struct {
	sync.Mutex
	start time.Time
}

func (c *phaseClock) reset() {
	c.Lock()
	c.start = time.Now()
	c.Unlock()
}

func (c *phaseClock) elapsed() duration {
	c.Lock()
	defer c.Unlock()
	return duration(time.Since(c.start))
}
