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

package appfeature

import (
	"context"

	"github.com/oysterpack/isowords/pkg/appdelegate"
	"github.com/oysterpack/isowords/pkg/appenv"
	"github.com/oysterpack/isowords/pkg/fx/health"
	"github.com/oysterpack/isowords/pkg/store"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// Store is the application store
type Store = store.Store[State, Action, appenv.Environment]

// AppDelegateView is the app delegate's view of the store: it sends lifecycle actions and observes no state
type AppDelegateView = store.ViewStore[struct{}, appdelegate.Action]

// NewStore validates the environment and constructs the application store. The registerer is optional.
func NewStore(env appenv.Environment, logger *zerolog.Logger, registerer prometheus.Registerer) (*Store, error) {
	if err := env.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid environment")
	}
	opts := store.Opts{Logger: logger}
	if registerer != nil {
		metrics, err := store.NewMetrics(registerer)
		if err != nil {
			return nil, err
		}
		opts.Metrics = metrics
	}
	return store.New(NewState(), Reduce, env, opts), nil
}

// NewAppDelegateView scopes the store down to the app delegate's lifecycle actions
func NewAppDelegateView(s *Store) *AppDelegateView {
	scoped := store.Scope(s,
		func(State) struct{} { return struct{}{} },
		func(action appdelegate.Action) Action { return AppDelegate{Event: action} },
	)
	return store.NewViewStore(scoped, store.Equal[struct{}])
}

// StoreHealthCheck contributes the store health check. The check is red with store.ErrShutdown once the store stops
// processing actions.
func StoreHealthCheck(s *Store) health.Provided {
	return health.Provided{
		Registration: health.Registration{
			Check: health.Check{
				ID:          "store",
				Description: "Checks that the application store is processing actions",
				RedImpact:   "App lifecycle events are dropped",
			},
			Checker: func(ctx context.Context) error {
				select {
				case <-s.Done():
					return store.ErrShutdown
				default:
				}
				return s.Sync(ctx)
			},
		},
	}
}

// Module provides the *Store and the *AppDelegateView. The store is shutdown when the app is stopped.
// The store health check is contributed to the health.CheckGroup.
//
// The module requires the appenv.Environment, a *zerolog.Logger, and a prometheus.Registerer.
func Module() fx.Option {
	return fx.Provide(
		func(lc fx.Lifecycle, env appenv.Environment, logger *zerolog.Logger, registerer prometheus.Registerer) (*Store, error) {
			s, err := NewStore(env, logger, registerer)
			if err != nil {
				return nil, err
			}
			lc.Append(fx.Hook{
				OnStop: func(ctx context.Context) error {
					return s.Shutdown(ctx)
				},
			})
			return s, nil
		},
		NewAppDelegateView,
		StoreHealthCheck,
	)
}
