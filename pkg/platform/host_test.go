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

package platform_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/oysterpack/isowords/pkg/eventlog/eventlogtest"
	"github.com/oysterpack/isowords/pkg/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	sync.Mutex
	calls []string
}

func (r *recorder) record(call string) {
	r.Lock()
	defer r.Unlock()
	r.calls = append(r.calls, call)
}

func (r *recorder) Calls() []string {
	r.Lock()
	defer r.Unlock()
	return append([]string(nil), r.calls...)
}

func (r *recorder) DidFinishLaunching() { r.record("launch") }

func (r *recorder) DidRegisterForRemoteNotifications(token []byte) {
	r.record(fmt.Sprintf("token:%x", token))
}

func (r *recorder) DidFailToRegisterForRemoteNotifications(err error) {
	r.record("error:" + err.Error())
}

func (r *recorder) DidChangeScenePhase(phase platform.ScenePhase) { r.record(phase.String()) }

func awaitCalls(t *testing.T, r *recorder, expected ...string) {
	require.Eventually(t, func() bool {
		return assert.ObjectsAreEqual(expected, r.Calls())
	}, 5*time.Second, time.Millisecond, "expected %v", expected)
}

func TestHost_Run(t *testing.T) {
	log := eventlogtest.NewSyncLog()
	signals := make(chan os.Signal, 1)
	host := platform.NewHost(platform.HostOpts{Signals: signals, Logger: log.Logger()})
	delegate := &recorder{}

	result := make(chan error, 1)
	go func() { result <- host.Run(context.Background(), delegate) }()
	awaitCalls(t, delegate, "launch", "active")

	signals <- syscall.SIGUSR1
	awaitCalls(t, delegate, "launch", "active", "background")
	assert.Equal(t, platform.Background, host.ScenePhase())

	signals <- syscall.SIGUSR2
	awaitCalls(t, delegate, "launch", "active", "background", "active")

	require.True(t, host.SetScenePhase(platform.Inactive))
	awaitCalls(t, delegate, "launch", "active", "background", "active", "inactive")

	signals <- syscall.SIGTERM
	require.NoError(t, <-result)
	assert.Equal(t, []string{"launch", "active", "background", "active", "inactive", "inactive", "background"}, delegate.Calls())
	assert.False(t, host.SetScenePhase(platform.Active), "host is stopped")

	assert.Equal(t, platform.ErrRunning, host.Run(context.Background(), delegate))
	assert.Len(t, log.EventsNamed(platform.ScenePhaseChanged.String()), 6)
	assert.Len(t, log.EventsNamed(platform.HostShutdown.String()), 1)
}

func TestHost_RejectsPostsAfterRunReturns(t *testing.T) {
	host := platform.NewHost(platform.HostOpts{Signals: make(chan os.Signal)})
	delegate := &recorder{}
	ctx, cancel := context.WithCancel(context.Background())
	result := make(chan error, 1)
	go func() { result <- host.Run(ctx, delegate) }()
	awaitCalls(t, delegate, "launch", "active")
	cancel()
	require.NoError(t, <-result)

	for i := 0; i < 100; i++ {
		require.False(t, host.SetScenePhase(platform.Active), "*** host is stopped")
	}
	assert.Equal(t, []string{"launch", "active", "inactive", "background"}, delegate.Calls())
}

func TestHost_AcceptedPostsAreDelivered(t *testing.T) {
	signals := make(chan os.Signal, 1)
	host := platform.NewHost(platform.HostOpts{Signals: signals})
	delegate := &recorder{}
	result := make(chan error, 1)
	go func() { result <- host.Run(context.Background(), delegate) }()
	awaitCalls(t, delegate, "launch", "active")

	accepted := 0
	for i := 0; i < 10; i++ {
		if host.SetScenePhase(platform.Inactive) {
			accepted++
		}
	}
	signals <- syscall.SIGTERM
	require.NoError(t, <-result)

	inactive := 0
	for _, call := range delegate.Calls() {
		if call == "inactive" {
			inactive++
		}
	}
	assert.Equal(t, accepted+1, inactive, "*** every accepted post plus the shutdown transition")
}

func TestHost_RunUntilContextDone(t *testing.T) {
	host := platform.NewHost(platform.HostOpts{Signals: make(chan os.Signal)})
	delegate := &recorder{}
	ctx, cancel := context.WithCancel(context.Background())
	result := make(chan error, 1)
	go func() { result <- host.Run(ctx, delegate) }()
	awaitCalls(t, delegate, "launch", "active")
	cancel()
	require.NoError(t, <-result)
	assert.Equal(t, []string{"launch", "active", "inactive", "background"}, delegate.Calls())
	<-host.Done()
}

func TestHost_RegisterForRemoteNotifications(t *testing.T) {
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		var body map[string]string
		data, _ := io.ReadAll(req.Body)
		_ = json.Unmarshal(data, &body)
		if body["deviceId"] != "device-1" {
			http.Error(w, "unknown device", http.StatusBadRequest)
			return
		}
		_, _ = io.WriteString(w, `{"token":"deadbeef"}`)
	}))
	defer gateway.Close()

	t.Run("success", func(t *testing.T) {
		host := platform.NewHost(platform.HostOpts{
			PushGatewayURL: gateway.URL,
			DeviceID:       func() string { return "device-1" },
			Signals:        make(chan os.Signal),
		})
		delegate := &recorder{}
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go host.Run(ctx, delegate)
		awaitCalls(t, delegate, "launch", "active")

		require.NoError(t, host.RegisterForRemoteNotifications(context.Background()))
		awaitCalls(t, delegate, "launch", "active", "token:deadbeef")
	})

	t.Run("gateway rejects", func(t *testing.T) {
		host := platform.NewHost(platform.HostOpts{
			PushGatewayURL: gateway.URL,
			DeviceID:       func() string { return "device-2" },
			Signals:        make(chan os.Signal),
		})
		delegate := &recorder{}
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go host.Run(ctx, delegate)
		awaitCalls(t, delegate, "launch", "active")

		require.NoError(t, host.RegisterForRemoteNotifications(context.Background()))
		awaitCalls(t, delegate, "launch", "active", "error:push registration failed: 400 : unknown device\n")
	})

	t.Run("no gateway", func(t *testing.T) {
		host := platform.NewHost(platform.HostOpts{Signals: make(chan os.Signal)})
		delegate := &recorder{}
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go host.Run(ctx, delegate)
		awaitCalls(t, delegate, "launch", "active")

		require.NoError(t, host.RegisterForRemoteNotifications(context.Background()))
		awaitCalls(t, delegate, "launch", "active", "error:"+platform.ErrPushUnavailable.Error())
	})
}

func TestHost_Window(t *testing.T) {
	host := platform.NewHost(platform.HostOpts{})
	assert.Equal(t, platform.Unspecified, host.UserInterfaceStyle())
	host.SetUserInterfaceStyle(platform.Dark)
	assert.Equal(t, platform.Dark, host.UserInterfaceStyle())

	host.SetBadgeNumber(3)
	assert.Equal(t, 3, host.BadgeNumber())

	host.OpenURL("https://www.isowords.xyz")
	assert.Equal(t, []string{"https://www.isowords.xyz"}, host.OpenedURLs())
}

func TestNotificationCenter(t *testing.T) {
	center := platform.NewHost(platform.HostOpts{NotificationsAuthorized: true}).NotificationCenter()
	assert.Equal(t, platform.NotificationSettings{}, center.Settings())
	assert.True(t, center.RequestAuthorization())
	assert.Equal(t, platform.NotificationSettings{Authorized: true, Determined: true}, center.Settings())

	now := time.Now()
	center.Add(platform.NotificationRequest{ID: "b", Trigger: now.Add(time.Hour)})
	center.Add(platform.NotificationRequest{ID: "a", Trigger: now.Add(time.Minute)})
	center.Add(platform.NotificationRequest{ID: "c", Trigger: now.Add(time.Hour)})
	pending := center.Pending()
	require.Len(t, pending, 3)
	assert.Equal(t, "a", pending[0].ID)
	assert.Equal(t, "b", pending[1].ID)

	center.RemovePending("a", "c", "unknown")
	assert.Len(t, center.Pending(), 1)

	denied := platform.NewHost(platform.HostOpts{}).NotificationCenter()
	assert.False(t, denied.RequestAuthorization())
	assert.Equal(t, platform.NotificationSettings{Determined: true}, denied.Settings())
}
