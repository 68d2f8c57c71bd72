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

package appenv

import (
	"context"
	"os"
	"time"

	"github.com/oysterpack/isowords/pkg/apiclient"
	"github.com/oysterpack/isowords/pkg/application"
	"github.com/oysterpack/isowords/pkg/audioplayer"
	"github.com/oysterpack/isowords/pkg/build"
	"github.com/oysterpack/isowords/pkg/config"
	"github.com/oysterpack/isowords/pkg/database"
	"github.com/oysterpack/isowords/pkg/deviceid"
	"github.com/oysterpack/isowords/pkg/dictionary"
	"github.com/oysterpack/isowords/pkg/feedback"
	"github.com/oysterpack/isowords/pkg/fileclient"
	"github.com/oysterpack/isowords/pkg/fx/app"
	"github.com/oysterpack/isowords/pkg/fx/health"
	"github.com/oysterpack/isowords/pkg/gamecenter"
	"github.com/oysterpack/isowords/pkg/lowpowermode"
	"github.com/oysterpack/isowords/pkg/platform"
	"github.com/oysterpack/isowords/pkg/remotenotifications"
	"github.com/oysterpack/isowords/pkg/scheduler"
	"github.com/oysterpack/isowords/pkg/serverconfig"
	"github.com/oysterpack/isowords/pkg/storekit"
	"github.com/oysterpack/isowords/pkg/timezone"
	"github.com/oysterpack/isowords/pkg/uistyle"
	"github.com/oysterpack/isowords/pkg/userdefaults"
	"github.com/oysterpack/isowords/pkg/usernotifications"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// Host is the platform host capabilities that the environment is composed from
type Host interface {
	remotenotifications.Registrar
	uistyle.Window
	application.Host
	NotificationCenter() *platform.NotificationCenter
}

var _ Host = &platform.Host{}

// Schedulers are the named schedulers
type Schedulers struct {
	fx.Out

	MainQueue       scheduler.Scheduler `name:"main"`
	MainRunLoop     scheduler.Scheduler `name:"mainRunLoop"`
	BackgroundQueue scheduler.Scheduler `name:"background"`
}

// NewSchedulers constructs the live schedulers. The main queue and main run loop share one serial executor, which
// plays the role of the main thread.
func NewSchedulers(lc fx.Lifecycle) Schedulers {
	main := scheduler.NewSerial("main")
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			main.Close()
			return nil
		},
	})
	return Schedulers{
		MainQueue:       main,
		MainRunLoop:     main.Named("mainRunLoop"),
		BackgroundQueue: scheduler.NewConcurrent("background", scheduler.DefaultParallelism),
	}
}

// Params are the capabilities that the Environment is composed from
type Params struct {
	fx.In

	APIClient             apiclient.Client
	Application           application.Client
	AudioPlayer           audioplayer.Client
	BackgroundQueue       scheduler.Scheduler `name:"background"`
	Build                 build.Build
	Database              database.Client
	DeviceID              deviceid.Provider
	Dictionary            dictionary.Client
	FeedbackGenerator     feedback.Generator
	FileClient            fileclient.Client
	GameCenter            gamecenter.Client
	LowPowerMode          lowpowermode.Observer
	MainQueue             scheduler.Scheduler `name:"main"`
	MainRunLoop           scheduler.Scheduler `name:"mainRunLoop"`
	RemoteNotifications   remotenotifications.Client
	ServerConfig          serverconfig.Client
	SetUserInterfaceStyle uistyle.Setter
	StoreKit              storekit.Client
	TimeZone              timezone.Provider
	UserDefaults          userdefaults.Client
	UserNotifications     usernotifications.Client
}

// NewEnvironment composes the Environment
func NewEnvironment(p Params) (Environment, error) {
	env := Environment{
		APIClient:             p.APIClient,
		Application:           p.Application,
		AudioPlayer:           p.AudioPlayer,
		BackgroundQueue:       p.BackgroundQueue,
		Build:                 p.Build,
		Database:              p.Database,
		DeviceID:              p.DeviceID,
		Dictionary:            p.Dictionary,
		FeedbackGenerator:     p.FeedbackGenerator,
		FileClient:            p.FileClient,
		GameCenter:            p.GameCenter,
		LowPowerMode:          p.LowPowerMode,
		MainQueue:             p.MainQueue,
		MainRunLoop:           p.MainRunLoop,
		RemoteNotifications:   p.RemoteNotifications,
		ServerConfig:          p.ServerConfig,
		SetUserInterfaceStyle: p.SetUserInterfaceStyle,
		StoreKit:              p.StoreKit,
		TimeZone:              p.TimeZone,
		UserDefaults:          p.UserDefaults,
		UserNotifications:     p.UserNotifications,
	}
	return env, env.Validate()
}

// Module provides the live capabilities and the Environment.
//
// The following must be provided by the enclosing app:
//   - Host
//   - *zerolog.Logger, which app.Module() provides
//
// BaseDirectory defaults to LiveBaseDirectory, and can be replaced via fx.Replace.
// No I/O is performed while composing, other than resolving the base directory.
func Module(cfg config.Config) fx.Option {
	return fx.Options(
		fx.Supply(cfg),
		fx.Supply(BaseDirectory(LiveBaseDirectory)),
		fx.Provide(
			NewPaths,
			NewSchedulers,
			func(cfg config.Config, logger *zerolog.Logger) (apiclient.Client, error) {
				return apiclient.NewLive(apiclient.Opts{
					BaseURL:   cfg.APIBaseURL,
					Timeout:   cfg.APITimeout,
					RetryMax:  cfg.APIRetryMax,
					RateLimit: cfg.APIRateLimit,
					Logger:    logger,
				}, apiclient.SHA256)
			},
			func(cfg config.Config) (build.Build, error) {
				return build.Live(cfg.BuildNumber)
			},
			func(api apiclient.Client, b build.Build) serverconfig.Client {
				return serverconfig.NewLive(api, b)
			},
			func(paths Paths) userdefaults.Client {
				return userdefaults.NewLive(paths.UserDefaults)
			},
			func(defaults userdefaults.Client) deviceid.Provider {
				return deviceid.NewLive(defaults)
			},
			func(lc fx.Lifecycle, paths Paths) database.Client {
				db := database.NewLive(paths.Database)
				lc.Append(fx.Hook{OnStop: func(context.Context) error { return db.Close() }})
				return db
			},
			func(lc fx.Lifecycle, paths Paths) dictionary.Client {
				dict := dictionary.NewSQLite(paths.Dictionaries)
				lc.Append(fx.Hook{OnStop: func(context.Context) error { return dict.Close() }})
				return dict
			},
			func(paths Paths, logger *zerolog.Logger) audioplayer.Client {
				return audioplayer.NewLive(
					audioplayer.NewLogOutput(logger),
					os.DirFS(paths.AppAudioLibrary),
					os.DirFS(paths.AppClipAudioLibrary),
				)
			},
			func(logger *zerolog.Logger) feedback.Generator {
				return feedback.NewLive(logger)
			},
			func(paths Paths) fileclient.Client {
				return fileclient.NewLive(paths.Documents)
			},
			func(api apiclient.Client, id deviceid.Provider) gamecenter.Client {
				return gamecenter.NewLive(api, id)
			},
			func(cfg config.Config) lowpowermode.Observer {
				return lowpowermode.NewLive(lowpowermode.PlatformProfile, cfg.LowPowerModePollInterval)
			},
			func(host Host) remotenotifications.Client {
				return remotenotifications.NewLive(host)
			},
			func(host Host) uistyle.Setter {
				return uistyle.Live(host)
			},
			func(api apiclient.Client, id deviceid.Provider) storekit.Client {
				return storekit.NewLive(api, id)
			},
			func() timezone.Provider {
				return timezone.Live
			},
			func(host Host) usernotifications.Client {
				return usernotifications.NewLive(host.NotificationCenter())
			},
			func(host Host) application.Client {
				return application.NewLive(host)
			},
			NewEnvironment,
			DatabaseHealthCheck,
		),
	)
}

// DatabaseHealthCheck contributes the local database health check
func DatabaseHealthCheck(db database.Client) health.Provided {
	return health.Provided{
		Registration: health.Registration{
			Check: health.Check{
				ID:          "database",
				Description: "Pings the local game database",
				RedImpact:   "Games and stats cannot be saved or loaded",
			},
			CheckerOpts: health.CheckerOpts{Timeout: 2 * time.Second, RunInterval: time.Minute},
			Checker:     db.Ping,
		},
	}
}

// Stop releases the resources held by a live Environment, e.g., it closes the database and stops the main queue
type Stop func(ctx context.Context) error

// Live composes a new live Environment in its own container. Each call returns distinct capability instances.
// The caller owns the environment and must call Stop once it is no longer used.
//
// The options are applied last, e.g., fx.Replace can be used to override the BaseDirectory.
func Live(cfg config.Config, host Host, options ...fx.Option) (Environment, Stop, error) {
	var env Environment
	opts := []fx.Option{
		app.Module(app.Opts{
			LogLevel: cfg.ZerologLevel(),
		}),
		Module(cfg),
		fx.Provide(func() Host { return host }),
		fx.Populate(&env),
	}
	a := app.New(append(opts, options...)...)
	if err := a.Err(); err != nil {
		return Environment{}, nil, errors.Wrap(err, "failed to compose the live environment")
	}
	ctx, cancel := context.WithTimeout(context.Background(), a.StartTimeout())
	defer cancel()
	if err := a.Start(ctx); err != nil {
		return Environment{}, nil, errors.Wrap(err, "failed to start the live environment")
	}
	return env, a.Stop, nil
}

// MustLive is the same as Live, except that it panics if the environment cannot be composed
func MustLive(cfg config.Config, host Host, options ...fx.Option) (Environment, Stop) {
	env, stop, err := Live(cfg, host, options...)
	if err != nil {
		panic(err)
	}
	return env, stop
}
