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

package appdelegate

import (
	"context"
	"encoding/hex"

	"github.com/oysterpack/isowords/pkg/apiclient"
	"github.com/oysterpack/isowords/pkg/appenv"
	"github.com/oysterpack/isowords/pkg/audioplayer"
	"github.com/oysterpack/isowords/pkg/dictionary"
	"github.com/oysterpack/isowords/pkg/fileclient"
	"github.com/oysterpack/isowords/pkg/platform"
	"github.com/oysterpack/isowords/pkg/store"
	"github.com/pkg/errors"
)

// CancelID identifies cancellable effects
type CancelID string

// CancelID enum values
const (
	PushTokenRegistrationID CancelID = "pushTokenRegistration"
	LowPowerModeID          CancelID = "lowPowerMode"
	ServerConfigID          CancelID = "serverConfig"
)

// InstallationTimeKey is the user defaults key for the unix time when the app was first launched
const InstallationTimeKey = "installationTime"

// Authorization status values reported to the API with the push token
const (
	Authorized    = "authorized"
	Denied        = "denied"
	NotDetermined = "notDetermined"
)

// Sound assets loaded at launch
var (
	MusicSound = audioplayer.Sound{Name: "music/timedGameBgLoop1.mp3", Category: audioplayer.Music}
	Sounds     = []audioplayer.Sound{
		{Name: "sfx/uiSfxTap.mp3", Category: audioplayer.SoundEffect},
		{Name: "sfx/cubeSelect.mp3", Category: audioplayer.SoundEffect},
		{Name: "sfx/validWord.mp3", Category: audioplayer.SoundEffect},
		MusicSound,
	}
)

// Reduce is the app delegate reducer
func Reduce(state *State, event Event, env appenv.Environment) store.Effect[Event] {
	switch e := event.(type) {
	case DidFinishLaunching:
		if state.Launched {
			return store.None[Event]()
		}
		state.Launched = true
		return store.Merge(
			markInstallationTime(env),
			loadUserSettings(env),
			loadSounds(env),
			fetchServerConfig(env),
			loadNotificationSettings(env),
			authenticatePlayer(env),
			migrateDatabase(env),
			loadDictionary(env),
		)
	case DidRegisterForRemoteNotifications:
		token, ok := e.Result.Token()
		if !ok {
			state.PushEnabled = false
			state.PushToken = ""
			state.record(PushConcern, e.Result.Err())
			return store.Cancel[Event](PushTokenRegistrationID)
		}
		state.PushEnabled = true
		state.PushToken = hex.EncodeToString(token)
		return registerPushToken(env, state.PushToken, authorizationStatus(state))
	case DidChangeScenePhase:
		state.ScenePhase = e.Phase
		switch e.Phase {
		case platform.Active:
			return store.Merge(fetchServerConfig(env), observeLowPowerMode(env))
		case platform.Background:
			return store.Merge(stopMusic(env), store.Cancel[Event](LowPowerModeID))
		default:
			return store.None[Event]()
		}
	case UserSettingsLoaded:
		state.record(SettingsConcern, e.Err)
		state.UserSettings = e.Settings
		return applyUserSettings(env, e.Settings)
	case SoundsLoaded:
		state.record(SoundsConcern, e.Err)
		state.SoundsLoaded = e.Err == nil
	case ServerConfigLoaded:
		state.record(ServerConfigConcern, e.Err)
		if e.Err == nil {
			state.ServerConfig = e.Config
		}
	case NotificationSettingsLoaded:
		state.record(NotificationsConcern, e.Err)
		if e.Err != nil {
			return store.None[Event]()
		}
		state.NotificationSettings = e.Settings
		if e.Settings.Authorized {
			return registerForRemoteNotifications(env)
		}
	case PushTokenRegistered:
		state.record(PushConcern, e.Err)
	case PlayerAuthenticated:
		state.record(GameCenterConcern, e.Err)
		if e.Err == nil {
			state.Player = e.Player
		}
	case DatabaseMigrated:
		state.record(DatabaseConcern, e.Err)
		state.DatabaseReady = e.Err == nil
	case DictionaryLoaded:
		state.record(DictionaryConcern, e.Err)
		state.DictionaryLoaded = e.Err == nil
	case LowPowerModeChanged:
		state.LowPowerMode = e.Enabled
	}
	return store.None[Event]()
}

func authorizationStatus(state *State) string {
	switch {
	case state.NotificationSettings.Authorized:
		return Authorized
	case state.NotificationSettings.Determined:
		return Denied
	default:
		return NotDetermined
	}
}

func markInstallationTime(env appenv.Environment) store.Effect[Event] {
	return store.FireAndForget[Event](env.BackgroundQueue, func(context.Context) {
		if env.UserDefaults.Float(InstallationTimeKey) == 0 {
			// a failed write is retried on the next launch
			_ = env.UserDefaults.SetFloat(InstallationTimeKey, float64(env.BackgroundQueue.Now().Unix()))
		}
	})
}

func loadUserSettings(env appenv.Environment) store.Effect[Event] {
	return store.Task(env.BackgroundQueue, func(ctx context.Context) Event {
		settings := DefaultUserSettings()
		err := fileclient.LoadJSON(ctx, env.FileClient, UserSettingsFile, &settings)
		switch {
		case errors.Is(err, fileclient.ErrNotFound):
			return UserSettingsLoaded{Settings: DefaultUserSettings()}
		case err != nil:
			return UserSettingsLoaded{Settings: DefaultUserSettings(), Err: err}
		default:
			return UserSettingsLoaded{Settings: settings}
		}
	})
}

func applyUserSettings(env appenv.Environment, settings UserSettings) store.Effect[Event] {
	effects := []store.Effect[Event]{
		store.FireAndForget[Event](env.MainQueue, func(ctx context.Context) {
			_ = env.SetUserInterfaceStyle(ctx, settings.ColorScheme)
		}),
		store.FireAndForget[Event](env.BackgroundQueue, func(context.Context) {
			env.AudioPlayer.SetGlobalVolumeForMusic(settings.MusicVolume)
			env.AudioPlayer.SetGlobalVolumeForSoundEffects(settings.SoundEffectsVolume)
		}),
	}
	if settings.EnableHaptics {
		effects = append(effects, store.FireAndForget[Event](env.MainQueue, func(ctx context.Context) {
			_ = env.FeedbackGenerator.Prepare(ctx)
		}))
	}
	return store.Merge(effects...)
}

func loadSounds(env appenv.Environment) store.Effect[Event] {
	return store.Task(env.BackgroundQueue, func(ctx context.Context) Event {
		return SoundsLoaded{Err: env.AudioPlayer.Load(ctx, Sounds)}
	})
}

func stopMusic(env appenv.Environment) store.Effect[Event] {
	return store.FireAndForget[Event](env.BackgroundQueue, func(context.Context) {
		_ = env.AudioPlayer.Stop(MusicSound)
	})
}

func fetchServerConfig(env appenv.Environment) store.Effect[Event] {
	return store.Task(env.BackgroundQueue, func(ctx context.Context) Event {
		config, err := env.ServerConfig.Fetch(ctx)
		return ServerConfigLoaded{Config: config, Err: err}
	}).Cancellable(ServerConfigID, true)
}

func loadNotificationSettings(env appenv.Environment) store.Effect[Event] {
	return store.Task(env.BackgroundQueue, func(ctx context.Context) Event {
		settings, err := env.UserNotifications.Settings(ctx)
		return NotificationSettingsLoaded{Settings: settings, Err: err}
	})
}

// registerForRemoteNotifications only starts the registration. The outcome is delivered by the platform as
// DidRegisterForRemoteNotifications.
func registerForRemoteNotifications(env appenv.Environment) store.Effect[Event] {
	return store.Run(env.BackgroundQueue, func(ctx context.Context, send func(Event)) {
		if err := env.RemoteNotifications.Register(ctx); err != nil {
			send(DidRegisterForRemoteNotifications{Result: Failure(err)})
		}
	})
}

func registerPushToken(env appenv.Environment, token, status string) store.Effect[Event] {
	return store.Task(env.BackgroundQueue, func(ctx context.Context) Event {
		_, err := env.APIClient.Request(ctx, apiclient.PushTokenRoute{
			Token:               token,
			AuthorizationStatus: status,
			Build:               env.Build.Number(),
		})
		return PushTokenRegistered{Err: err}
	}).Cancellable(PushTokenRegistrationID, true)
}

func authenticatePlayer(env appenv.Environment) store.Effect[Event] {
	return store.Task(env.BackgroundQueue, func(ctx context.Context) Event {
		player, err := env.GameCenter.Authenticate(ctx)
		return PlayerAuthenticated{Player: player, Err: err}
	})
}

func migrateDatabase(env appenv.Environment) store.Effect[Event] {
	return store.Task(env.BackgroundQueue, func(ctx context.Context) Event {
		return DatabaseMigrated{Err: env.Database.Migrate(ctx)}
	})
}

func loadDictionary(env appenv.Environment) store.Effect[Event] {
	return store.Task(env.BackgroundQueue, func(ctx context.Context) Event {
		_, err := env.Dictionary.Load(ctx, dictionary.English)
		return DictionaryLoaded{Err: err}
	})
}

func observeLowPowerMode(env appenv.Environment) store.Effect[Event] {
	return store.Run(env.BackgroundQueue, func(ctx context.Context, send func(Event)) {
		for enabled := range env.LowPowerMode.Observe(ctx) {
			send(LowPowerModeChanged{Enabled: enabled})
		}
	}).Cancellable(LowPowerModeID, true)
}
