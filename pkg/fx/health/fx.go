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

package health

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// CheckGroup is the fx value group that health check registrations are provided in
const CheckGroup = "health.checks"

// Provided is used by fx constructors to contribute a health check
type Provided struct {
	fx.Out

	Registration Registration `group:"health.checks"`
}

// Registrations are the health checks contributed to the CheckGroup
type Registrations struct {
	fx.In

	Registrations []Registration `group:"health.checks"`
}

// Module provides the *Service, and registers the health checks contributed to the CheckGroup.
// The service is started and shutdown with the app.
//
// The module requires a prometheus.Registerer and a *zerolog.Logger.
func Module() fx.Option {
	return fx.Options(
		fx.Provide(func(lc fx.Lifecycle, registerer prometheus.Registerer, logger *zerolog.Logger) (*Service, error) {
			s, err := NewService(registerer, logger)
			if err != nil {
				return nil, err
			}
			lc.Append(fx.Hook{
				OnStart: func(context.Context) error {
					s.Start()
					return nil
				},
				OnStop: func(context.Context) error {
					s.Shutdown()
					return nil
				},
			})
			return s, nil
		}),
		fx.Invoke(func(s *Service, checks Registrations) error {
			for _, reg := range checks.Registrations {
				if err := s.Register(reg); err != nil {
					return err
				}
			}
			return nil
		}),
	)
}
