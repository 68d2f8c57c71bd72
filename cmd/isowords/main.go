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

// isowords runs the headless isowords client.
//
// The client is configured via env vars (see package config). The process runs until it receives SIGINT or SIGTERM.
// SIGUSR1 moves the scene to the background, and SIGUSR2 makes it active again.
package main

import (
	"context"
	"log"
	"os"

	"github.com/oysterpack/isowords/pkg/appenv"
	"github.com/oysterpack/isowords/pkg/appfeature"
	"github.com/oysterpack/isowords/pkg/config"
	"github.com/oysterpack/isowords/pkg/deviceid"
	"github.com/oysterpack/isowords/pkg/fx/app"
	"github.com/oysterpack/isowords/pkg/fx/health"
	"github.com/oysterpack/isowords/pkg/fx/metrics"
	"github.com/oysterpack/isowords/pkg/lifecycle"
	"github.com/oysterpack/isowords/pkg/platform"
	"github.com/oysterpack/isowords/pkg/styleguide"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"go.uber.org/multierr"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

// run composes the application, and then runs it until the host returns.
// Composition failures are returned before anything is started.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var (
		host   *platform.Host
		view   *appfeature.AppDelegateView
		styles *styleguide.Registry
	)
	fxapp := app.New(
		app.Module(app.Opts{
			LogLevel: cfg.ZerologLevel(),
		}),
		appenv.Module(cfg),
		metrics.Module(metrics.Opts{Addr: cfg.MetricsAddr}),
		appfeature.Module(),
		health.Module(),
		fx.Provide(
			newHost,
			func(host *platform.Host) appenv.Host { return host },
			func(paths appenv.Paths, logger *zerolog.Logger) *styleguide.Registry {
				return styleguide.NewRegistry(os.DirFS(paths.Fonts), logger)
			},
		),
		fx.Populate(&host, &view, &styles),
	)
	if err := fxapp.Err(); err != nil {
		return errors.Wrap(err, "failed to compose the application")
	}

	startCtx, cancelStart := context.WithTimeout(context.Background(), fxapp.StartTimeout())
	defer cancelStart()
	if err := fxapp.Start(startCtx); err != nil {
		return errors.Wrap(err, "failed to start the application")
	}

	runErr := host.Run(context.Background(), lifecycle.New(view, styles.RegisterFonts))

	stopCtx, cancelStop := context.WithTimeout(context.Background(), fxapp.StopTimeout())
	defer cancelStop()
	return multierr.Append(runErr, fxapp.Stop(stopCtx))
}

func newHost(cfg config.Config, id deviceid.Provider, logger *zerolog.Logger) *platform.Host {
	return platform.NewHost(platform.HostOpts{
		PushGatewayURL:          cfg.PushGatewayURL,
		DeviceID:                func() string { return id.ID().String() },
		NotificationsAuthorized: cfg.NotificationsAuthorized,
		HTTPTimeout:             cfg.APITimeout,
		Logger:                  logger,
	})
}
