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

// Package appenvtest provides application environments for tests.
package appenvtest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/oysterpack/isowords/pkg/apiclient"
	"github.com/oysterpack/isowords/pkg/appenv"
	"github.com/oysterpack/isowords/pkg/application"
	"github.com/oysterpack/isowords/pkg/audioplayer"
	"github.com/oysterpack/isowords/pkg/build"
	"github.com/oysterpack/isowords/pkg/database"
	"github.com/oysterpack/isowords/pkg/deviceid"
	"github.com/oysterpack/isowords/pkg/dictionary"
	"github.com/oysterpack/isowords/pkg/feedback"
	"github.com/oysterpack/isowords/pkg/fileclient"
	"github.com/oysterpack/isowords/pkg/gamecenter"
	"github.com/oysterpack/isowords/pkg/lowpowermode"
	"github.com/oysterpack/isowords/pkg/remotenotifications"
	"github.com/oysterpack/isowords/pkg/scheduler"
	"github.com/oysterpack/isowords/pkg/serverconfig"
	"github.com/oysterpack/isowords/pkg/storekit"
	"github.com/oysterpack/isowords/pkg/timezone"
	"github.com/oysterpack/isowords/pkg/uistyle"
	"github.com/oysterpack/isowords/pkg/userdefaults"
	"github.com/oysterpack/isowords/pkg/usernotifications"
	"github.com/pkg/errors"
)

// DeviceID is the device ID used by the test environments
var DeviceID = uuid.MustParse("deadbeef-dead-beef-dead-beefdeadbeef")

// ErrUnimplemented is returned by Failing environment capabilities
var ErrUnimplemented = errors.New("capability is not implemented in this test")

// Noop returns an environment whose capabilities succeed without side effects. All schedulers run work immediately on
// the calling goroutine.
func Noop() appenv.Environment {
	defaults := userdefaults.NewMemory()
	return appenv.Environment{
		APIClient: &apiclient.Mock{
			RequestFunc: func(context.Context, apiclient.Route) ([]byte, error) { return []byte("{}"), nil },
			BaseURLFunc: func() string { return "http://localhost" },
		},
		Application:           &application.Mock{},
		AudioPlayer:           audioplayer.Noop{},
		BackgroundQueue:       scheduler.NewImmediate("background"),
		Build:                 build.Noop(),
		Database:              database.Mock{},
		DeviceID:              deviceid.Constant(DeviceID),
		Dictionary:            dictionary.NewMemory(map[dictionary.Language][]string{dictionary.English: nil}),
		FeedbackGenerator:     &feedback.Counter{},
		FileClient:            fileclient.NewMemory(),
		GameCenter:            gamecenter.Mock{Player: gamecenter.Player{ID: "player", Authenticated: true}},
		LowPowerMode:          lowPowerModeOff,
		MainQueue:             scheduler.NewImmediate("main"),
		MainRunLoop:           scheduler.NewImmediate("mainRunLoop"),
		RemoteNotifications:   &remotenotifications.Counter{},
		ServerConfig:          serverconfig.Mock{},
		SetUserInterfaceStyle: uistyle.Noop,
		StoreKit:              storekit.Mock{TransactionsChan: make(chan storekit.Transaction)},
		TimeZone:              timezone.Fixed(time.UTC),
		UserDefaults:          defaults,
		UserNotifications:     &usernotifications.Mock{},
	}
}

// lowPowerModeOff emits false and completes, which keeps immediate schedulers from blocking on the observation
var lowPowerModeOff = lowpowermode.Func(func(context.Context) <-chan bool {
	c := make(chan bool, 1)
	c <- false
	close(c)
	return c
})

// Failing returns a Noop environment, except that the network, persistence, and game center capabilities report a
// test error when used. Tests override the capabilities they expect to be used.
func Failing(t testing.TB) appenv.Environment {
	env := Noop()
	fail := func(capability string) error {
		t.Errorf("%s is unimplemented", capability)
		return errors.Wrap(ErrUnimplemented, capability)
	}
	env.APIClient = &apiclient.Mock{
		RequestFunc: func(_ context.Context, route apiclient.Route) ([]byte, error) {
			return nil, fail("APIClient.Request: " + route.Endpoint().Path)
		},
		BaseURLFunc:    func() string { return "" },
		SetBaseURLFunc: func(string) error { return fail("APIClient.SetBaseURL") },
	}
	env.ServerConfig = serverconfig.Mock{
		FetchFunc: func(context.Context) (serverconfig.ServerConfig, error) {
			return serverconfig.ServerConfig{}, fail("ServerConfig.Fetch")
		},
	}
	env.Database = database.Mock{
		MigrateFunc:  func(context.Context) error { return fail("Database.Migrate") },
		SaveGameFunc: func(context.Context, database.Game) error { return fail("Database.SaveGame") },
		FetchStatsFunc: func(context.Context) (database.Stats, error) {
			return database.Stats{}, fail("Database.FetchStats")
		},
		PlayedGamesCountFunc: func(context.Context, string) (int, error) {
			return 0, fail("Database.PlayedGamesCount")
		},
		PingFunc: func(context.Context) error { return fail("Database.Ping") },
	}
	env.GameCenter = gamecenter.Mock{
		AuthenticateFunc: func(context.Context) (gamecenter.Player, error) {
			return gamecenter.Player{}, fail("GameCenter.Authenticate")
		},
		SubmitScoreFunc: func(context.Context, gamecenter.Score) error { return fail("GameCenter.SubmitScore") },
	}
	env.StoreKit = storekit.Mock{
		FetchProductsFunc: func(context.Context, []string) ([]storekit.Product, error) {
			return nil, fail("StoreKit.FetchProducts")
		},
		PurchaseFunc: func(context.Context, string) (storekit.Transaction, error) {
			return storekit.Transaction{}, fail("StoreKit.Purchase")
		},
	}
	return env
}
