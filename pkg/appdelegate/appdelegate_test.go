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

package appdelegate_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/oysterpack/isowords/pkg/apiclient"
	"github.com/oysterpack/isowords/pkg/appdelegate"
	"github.com/oysterpack/isowords/pkg/appenv"
	"github.com/oysterpack/isowords/pkg/appenvtest"
	"github.com/oysterpack/isowords/pkg/audioplayer"
	"github.com/oysterpack/isowords/pkg/database"
	"github.com/oysterpack/isowords/pkg/dictionary"
	"github.com/oysterpack/isowords/pkg/feedback"
	"github.com/oysterpack/isowords/pkg/fileclient"
	"github.com/oysterpack/isowords/pkg/lowpowermode"
	"github.com/oysterpack/isowords/pkg/platform"
	"github.com/oysterpack/isowords/pkg/remotenotifications"
	"github.com/oysterpack/isowords/pkg/scheduler"
	"github.com/oysterpack/isowords/pkg/serverconfig"
	"github.com/oysterpack/isowords/pkg/store"
	"github.com/oysterpack/isowords/pkg/uistyle"
	"github.com/oysterpack/isowords/pkg/usernotifications"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type appDelegateStore = store.Store[appdelegate.State, appdelegate.Event, appenv.Environment]

func newStore(t *testing.T, env appenv.Environment) *appDelegateStore {
	require.NoError(t, env.Validate())
	s := store.New(appdelegate.NewState(), appdelegate.Reduce, env, store.Opts{})
	t.Cleanup(func() {
		_ = s.Shutdown(context.Background())
	})
	return s
}

// settle waits for the actions produced by immediate effects to be reduced
func settle(t *testing.T, s *appDelegateStore) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for i := 0; i < 4; i++ {
		require.NoError(t, s.Sync(ctx))
	}
}

type recordingAudioPlayer struct {
	audioplayer.Noop
	lock    sync.Mutex
	stopped []audioplayer.Sound
	music   float64
}

func (p *recordingAudioPlayer) Stop(sound audioplayer.Sound) error {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.stopped = append(p.stopped, sound)
	return nil
}

func (p *recordingAudioPlayer) SetGlobalVolumeForMusic(volume float64) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.music = volume
}

func (p *recordingAudioPlayer) Stopped() []audioplayer.Sound {
	p.lock.Lock()
	defer p.lock.Unlock()
	return append([]audioplayer.Sound(nil), p.stopped...)
}

func (p *recordingAudioPlayer) MusicVolume() float64 {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.music
}

func TestReduce_DidFinishLaunching(t *testing.T) {
	env := appenvtest.Noop()

	files := fileclient.NewMemory()
	settings := appdelegate.UserSettings{
		ColorScheme:        platform.Dark,
		EnableHaptics:      true,
		MusicVolume:        0.5,
		SoundEffectsVolume: 0.25,
	}
	require.NoError(t, fileclient.SaveJSON(context.Background(), files, appdelegate.UserSettingsFile, settings))
	env.FileClient = files

	var style atomic.Value
	env.SetUserInterfaceStyle = func(_ context.Context, s uistyle.Style) error {
		style.Store(s)
		return nil
	}
	audio := &recordingAudioPlayer{}
	env.AudioPlayer = audio
	haptics := &feedback.Counter{}
	env.FeedbackGenerator = haptics
	push := &remotenotifications.Counter{}
	env.RemoteNotifications = push
	env.UserNotifications = &usernotifications.Mock{Granted: true}
	env.Dictionary = dictionary.NewMemory(map[dictionary.Language][]string{dictionary.English: {"cube"}})

	s := newStore(t, env)
	s.Send(appdelegate.DidFinishLaunching{})
	settle(t, s)

	state := s.State()
	assert.True(t, state.Launched)
	assert.Equal(t, settings, state.UserSettings)
	assert.True(t, state.SoundsLoaded)
	assert.True(t, state.DatabaseReady)
	assert.True(t, state.DictionaryLoaded)
	assert.True(t, state.Player.Authenticated)
	assert.Equal(t, serverconfig.Default(), state.ServerConfig)
	assert.True(t, state.NotificationSettings.Authorized)
	assert.Empty(t, state.Failures)

	assert.Equal(t, platform.Dark, style.Load())
	assert.Equal(t, 0.5, audio.MusicVolume())
	assert.Equal(t, 1, haptics.Prepared())
	assert.Equal(t, 1, push.Registered())
	assert.NotZero(t, env.UserDefaults.Float(appdelegate.InstallationTimeKey))

	t.Run("launching again has no effects", func(t *testing.T) {
		s.Send(appdelegate.DidFinishLaunching{})
		settle(t, s)
		assert.Equal(t, 1, push.Registered())
		assert.Equal(t, 1, haptics.Prepared())
	})
}

func TestReduce_DidFinishLaunching_DefaultUserSettings(t *testing.T) {
	env := appenvtest.Noop()
	push := &remotenotifications.Counter{}
	env.RemoteNotifications = push
	s := newStore(t, env)
	s.Send(appdelegate.DidFinishLaunching{})
	settle(t, s)

	state := s.State()
	assert.Equal(t, appdelegate.DefaultUserSettings(), state.UserSettings)
	assert.Empty(t, state.Failures)
	assert.False(t, state.NotificationSettings.Authorized)
	assert.Zero(t, push.Registered(), "notifications are not authorized")
}

func TestReduce_DidFinishLaunching_FailuresAreRecorded(t *testing.T) {
	env := appenvtest.Noop()
	env.Database = database.Mock{
		MigrateFunc: func(context.Context) error { return errors.New("disk full") },
	}
	env.ServerConfig = serverconfig.Mock{
		FetchFunc: func(context.Context) (serverconfig.ServerConfig, error) {
			return serverconfig.ServerConfig{AppID: "bogus"}, errors.New("offline")
		},
	}
	env.Dictionary = dictionary.NewMemory(nil)

	s := newStore(t, env)
	s.Send(appdelegate.DidFinishLaunching{})
	settle(t, s)

	state := s.State()
	assert.False(t, state.DatabaseReady)
	assert.False(t, state.DictionaryLoaded)
	assert.Equal(t, serverconfig.Default(), state.ServerConfig, "the previous config is kept")
	assert.Equal(t, "disk full", state.Failures[appdelegate.DatabaseConcern])
	assert.Equal(t, "offline", state.Failures[appdelegate.ServerConfigConcern])
	assert.Contains(t, state.Failures, appdelegate.DictionaryConcern)

	t.Run("a later success clears the failure", func(t *testing.T) {
		s.Send(appdelegate.ServerConfigLoaded{Config: serverconfig.Default()})
		settle(t, s)
		assert.NotContains(t, s.State().Failures, appdelegate.ServerConfigConcern)
		assert.Contains(t, s.State().Failures, appdelegate.DatabaseConcern)
	})
}

func TestReduce_DidRegisterForRemoteNotifications(t *testing.T) {
	env := appenvtest.Noop()
	var routes []apiclient.Route
	var lock sync.Mutex
	env.APIClient = &apiclient.Mock{
		RequestFunc: func(_ context.Context, route apiclient.Route) ([]byte, error) {
			lock.Lock()
			defer lock.Unlock()
			routes = append(routes, route)
			return []byte("{}"), nil
		},
	}
	s := newStore(t, env)

	t.Run("success", func(t *testing.T) {
		s.Send(appdelegate.DidRegisterForRemoteNotifications{Result: appdelegate.Success([]byte{0xde, 0xad, 0xbe, 0xef})})
		settle(t, s)

		state := s.State()
		assert.True(t, state.PushEnabled)
		assert.Equal(t, "deadbeef", state.PushToken)
		lock.Lock()
		defer lock.Unlock()
		require.Len(t, routes, 1)
		assert.Equal(t, apiclient.PushTokenRoute{
			Token:               "deadbeef",
			AuthorizationStatus: appdelegate.NotDetermined,
			Build:               env.Build.Number(),
		}, routes[0])
	})

	t.Run("failure", func(t *testing.T) {
		s.Send(appdelegate.DidRegisterForRemoteNotifications{Result: appdelegate.Failure(errors.New("no network"))})
		settle(t, s)

		state := s.State()
		assert.False(t, state.PushEnabled)
		assert.Empty(t, state.PushToken)
		assert.Equal(t, "no network", state.Failures[appdelegate.PushConcern])
		lock.Lock()
		defer lock.Unlock()
		assert.Len(t, routes, 1, "a failure is not posted to the api")
	})
}

func TestReduce_DidRegisterForRemoteNotifications_SupersededRegistrationIsCancelled(t *testing.T) {
	env := appenvtest.Noop()
	background := scheduler.NewConcurrent("background", 4)
	env.BackgroundQueue = background

	var calls int32
	started := make(chan struct{})
	cancelled := make(chan struct{})
	env.APIClient = &apiclient.Mock{
		RequestFunc: func(ctx context.Context, route apiclient.Route) ([]byte, error) {
			if atomic.AddInt32(&calls, 1) == 1 {
				close(started)
				<-ctx.Done()
				close(cancelled)
				return nil, ctx.Err()
			}
			return []byte("{}"), nil
		},
	}
	s := newStore(t, env)

	s.Send(appdelegate.DidRegisterForRemoteNotifications{Result: appdelegate.Success([]byte{0x01})})
	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("first registration was not started")
	}
	s.Send(appdelegate.DidRegisterForRemoteNotifications{Result: appdelegate.Success([]byte{0x02})})

	select {
	case <-cancelled:
	case <-time.After(5 * time.Second):
		t.Fatal("first registration was not cancelled")
	}
	background.Wait()
	settle(t, s)

	state := s.State()
	assert.Equal(t, "02", state.PushToken)
	assert.NotContains(t, state.Failures, appdelegate.PushConcern, "the cancelled registration response is dropped")
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestReduce_DidChangeScenePhase(t *testing.T) {
	env := appenvtest.Noop()
	env.BackgroundQueue = scheduler.NewConcurrent("background", 4)
	audio := &recordingAudioPlayer{}
	env.AudioPlayer = audio

	var fetches int32
	env.ServerConfig = serverconfig.Mock{
		FetchFunc: func(context.Context) (serverconfig.ServerConfig, error) {
			atomic.AddInt32(&fetches, 1)
			return serverconfig.Default(), nil
		},
	}
	observing := make(chan struct{})
	stopped := make(chan struct{})
	env.LowPowerMode = lowpowermode.Func(func(ctx context.Context) <-chan bool {
		c := make(chan bool)
		go func() {
			defer close(c)
			close(observing)
			c <- true
			<-ctx.Done()
			close(stopped)
		}()
		return c
	})
	s := newStore(t, env)

	s.Send(appdelegate.DidChangeScenePhase{Phase: platform.Active})
	<-observing
	require.Eventually(t, func() bool {
		return s.State().LowPowerMode
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, platform.Active, s.State().ScenePhase)
	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&fetches) == 1
	}, 5*time.Second, 10*time.Millisecond, "server config is refreshed")

	s.Send(appdelegate.DidChangeScenePhase{Phase: platform.Background})
	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("low power mode observation was not cancelled")
	}
	require.Eventually(t, func() bool {
		return len(audio.Stopped()) == 1
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, appdelegate.MusicSound, audio.Stopped()[0])
	assert.Equal(t, platform.Background, s.State().ScenePhase)
}

func TestPushRegistration(t *testing.T) {
	t.Run("success carries only the token", func(t *testing.T) {
		token := []byte{1, 2, 3}
		result := appdelegate.Success(token)
		token[0] = 9
		got, ok := result.Token()
		assert.True(t, ok)
		assert.Equal(t, []byte{1, 2, 3}, got)
		assert.NoError(t, result.Err())
	})

	t.Run("failure carries only the error", func(t *testing.T) {
		err := errors.New("denied")
		result := appdelegate.Failure(err)
		got, ok := result.Token()
		assert.False(t, ok)
		assert.Nil(t, got)
		assert.Equal(t, err, result.Err())
	})

	t.Run("failure without an error", func(t *testing.T) {
		assert.Equal(t, appdelegate.ErrPushRegistrationFailed, appdelegate.Failure(nil).Err())
	})

	t.Run("equality", func(t *testing.T) {
		assert.True(t, appdelegate.Success([]byte{1}).Equal(appdelegate.Success([]byte{1})))
		assert.False(t, appdelegate.Success([]byte{1}).Equal(appdelegate.Success([]byte{2})))
		assert.True(t, appdelegate.Failure(errors.New("x")).Equal(appdelegate.Failure(errors.New("x"))))
		assert.False(t, appdelegate.Success(nil).Equal(appdelegate.Failure(nil)))
	})
}
