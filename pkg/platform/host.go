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

package platform

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/oysterpack/isowords/pkg/eventlog"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// ErrPushUnavailable is delivered to the delegate when no push gateway is configured
var ErrPushUnavailable = errors.New("remote notifications are not available")

// ErrRunning is returned when Run is called on a host that is already running
var ErrRunning = errors.New("host is already running")

// HostOpts are used to configure the Host
type HostOpts struct {
	// PushGatewayURL is used to obtain the device push token. If blank, then push registration always fails.
	PushGatewayURL string
	// DeviceID is sent to the push gateway
	DeviceID func() string
	// NotificationsAuthorized is the answer to notification authorization requests
	NotificationsAuthorized bool
	HTTPTimeout             time.Duration
	// Signals overrides the OS signal source. If nil, then SIGUSR1, SIGUSR2, SIGINT, and SIGTERM are subscribed to.
	Signals <-chan os.Signal
	Logger  *zerolog.Logger
}

// Host is the headless application host
type Host struct {
	opts HostOpts
	http *retryablehttp.Client

	events   chan func(Delegate)
	stopping chan struct{}
	done     chan struct{}
	runOnce  sync.Once

	// postLock guards stopped: posts hold the read lock while they enqueue
	postLock sync.RWMutex
	stopped  bool

	lock       sync.RWMutex
	phase      ScenePhase
	style      UserInterfaceStyle
	badge      int
	openedURLs []string

	notifications *NotificationCenter

	logLaunch       eventlog.Logger
	logScenePhase   eventlog.Logger
	logPushFailed   eventlog.ErrorLogger
	logWindowStyle  eventlog.Logger
	logOpenURL      eventlog.Logger
	logBadgeNumber  eventlog.Logger
	logHostShutdown eventlog.Logger
}

// NewHost constructs a new Host
func NewHost(opts HostOpts) *Host {
	logger := opts.Logger
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	logger = eventlog.ForComponent(logger, "platform")
	if opts.HTTPTimeout <= 0 {
		opts.HTTPTimeout = 10 * time.Second
	}
	if opts.DeviceID == nil {
		opts.DeviceID = func() string { return "" }
	}

	client := retryablehttp.NewClient()
	client.Logger = nil
	client.RetryMax = 2
	client.RetryWaitMin = 100 * time.Millisecond
	client.HTTPClient.Timeout = opts.HTTPTimeout
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Host{
		opts:     opts,
		http:     client,
		events:   make(chan func(Delegate), 64),
		stopping: make(chan struct{}),
		done:     make(chan struct{}),
		phase:    Background,

		notifications: newNotificationCenter(opts.NotificationsAuthorized),

		logLaunch:       Launched.NewLogger(logger, zerolog.InfoLevel),
		logScenePhase:   ScenePhaseChanged.NewLogger(logger, zerolog.InfoLevel),
		logPushFailed:   PushRegistrationFailed.NewErrorLogger(logger),
		logWindowStyle:  WindowStyleChanged.NewLogger(logger, zerolog.DebugLevel),
		logOpenURL:      URLOpened.NewLogger(logger, zerolog.InfoLevel),
		logBadgeNumber:  BadgeNumberChanged.NewLogger(logger, zerolog.DebugLevel),
		logHostShutdown: HostShutdown.NewLogger(logger, zerolog.InfoLevel),
	}
}

// Run runs the application until a termination signal is received or the context is done.
//
// The delegate is notified that the application finished launching, and then that the scene became active.
// Thereafter, OS signals are translated into scene phase changes:
//   - SIGUSR1 -> background
//   - SIGUSR2 -> active
//   - SIGINT, SIGTERM -> inactive, background, and then Run returns
func (h *Host) Run(ctx context.Context, delegate Delegate) error {
	started := false
	h.runOnce.Do(func() { started = true })
	if !started {
		return ErrRunning
	}
	defer close(h.done)
	defer h.stop(delegate)

	signals := h.opts.Signals
	if signals == nil {
		c := make(chan os.Signal, 4)
		signal.Notify(c, syscall.SIGUSR1, syscall.SIGUSR2, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(c)
		signals = c
	}

	h.logLaunch(nil, "application launched")
	delegate.DidFinishLaunching()
	h.changeScenePhase(delegate, Active)

	shutdown := func() {
		h.changeScenePhase(delegate, Inactive)
		h.changeScenePhase(delegate, Background)
		h.logHostShutdown(nil, "host shutdown")
	}

	for {
		select {
		case <-ctx.Done():
			shutdown()
			return nil
		case sig := <-signals:
			switch sig {
			case syscall.SIGUSR1:
				h.changeScenePhase(delegate, Background)
			case syscall.SIGUSR2:
				h.changeScenePhase(delegate, Active)
			case syscall.SIGINT, syscall.SIGTERM:
				shutdown()
				return nil
			}
		case event := <-h.events:
			event(delegate)
		}
	}
}

func (h *Host) changeScenePhase(delegate Delegate, phase ScenePhase) {
	h.lock.Lock()
	h.phase = phase
	h.lock.Unlock()
	h.logScenePhase(eventlog.Fields{"phase": phase.String()}, "scene phase changed")
	delegate.DidChangeScenePhase(phase)
}

// stop rejects further posts, and then delivers the callbacks that were accepted before Run returns
func (h *Host) stop(delegate Delegate) {
	close(h.stopping)
	h.postLock.Lock()
	h.stopped = true
	h.postLock.Unlock()
	for {
		select {
		case event := <-h.events:
			event(delegate)
		default:
			return
		}
	}
}

// post schedules the callback on the host goroutine. It returns false if the host has stopped, in which case the
// callback is never run. Accepted callbacks are always delivered.
func (h *Host) post(event func(Delegate)) bool {
	h.postLock.RLock()
	defer h.postLock.RUnlock()
	if h.stopped {
		return false
	}
	select {
	case <-h.stopping:
		return false
	case h.events <- event:
		return true
	}
}

// SetScenePhase requests a scene phase change. The delegate is notified on the host goroutine.
func (h *Host) SetScenePhase(phase ScenePhase) bool {
	return h.post(func(delegate Delegate) { h.changeScenePhase(delegate, phase) })
}

// ScenePhase returns the current scene phase
func (h *Host) ScenePhase() ScenePhase {
	h.lock.RLock()
	defer h.lock.RUnlock()
	return h.phase
}

// Done is closed when Run returns
func (h *Host) Done() <-chan struct{} {
	return h.done
}

// RegisterForRemoteNotifications requests a device push token from the push gateway. The outcome is delivered to the
// delegate via DidRegisterForRemoteNotifications or DidFailToRegisterForRemoteNotifications.
//
// The request is made asynchronously. An error is returned only if the outcome cannot be delivered.
func (h *Host) RegisterForRemoteNotifications(ctx context.Context) error {
	select {
	case <-h.done:
		return errors.New("host is stopped")
	default:
	}
	// the outcome is delivered to the delegate, after the caller has returned
	ctx = context.WithoutCancel(ctx)
	go func() {
		token, err := h.requestPushToken(ctx)
		if err != nil {
			h.logPushFailed(nil, err, "push registration failed")
			h.post(func(delegate Delegate) { delegate.DidFailToRegisterForRemoteNotifications(err) })
			return
		}
		h.post(func(delegate Delegate) { delegate.DidRegisterForRemoteNotifications(token) })
	}()
	return nil
}

type pushTokenResponse struct {
	Token string `json:"token"`
}

func (h *Host) requestPushToken(ctx context.Context) ([]byte, error) {
	if h.opts.PushGatewayURL == "" {
		return nil, ErrPushUnavailable
	}
	body, err := json.Marshal(map[string]string{"deviceId": h.opts.DeviceID()})
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode push registration request")
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, h.opts.PushGatewayURL, body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create push registration request")
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := h.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "push registration request failed")
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read push registration response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("push registration failed: %d : %s", resp.StatusCode, data)
	}
	var response pushTokenResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, errors.Wrap(err, "invalid push registration response")
	}
	token, err := hex.DecodeString(response.Token)
	if err != nil || len(token) == 0 {
		return nil, errors.Errorf("invalid push token: %q", response.Token)
	}
	return token, nil
}

// UnregisterForRemoteNotifications is a no-op for the headless host, which holds no push registration state
func (h *Host) UnregisterForRemoteNotifications(ctx context.Context) error {
	return ctx.Err()
}

// SetUserInterfaceStyle sets the window appearance
func (h *Host) SetUserInterfaceStyle(style UserInterfaceStyle) {
	h.lock.Lock()
	h.style = style
	h.lock.Unlock()
	h.logWindowStyle(eventlog.Fields{"style": style.String()}, "window style changed")
}

// UserInterfaceStyle returns the window appearance
func (h *Host) UserInterfaceStyle() UserInterfaceStyle {
	h.lock.RLock()
	defer h.lock.RUnlock()
	return h.style
}

// SetBadgeNumber sets the application icon badge number
func (h *Host) SetBadgeNumber(n int) {
	h.lock.Lock()
	h.badge = n
	h.lock.Unlock()
	h.logBadgeNumber(eventlog.Fields{"badge": n}, "badge number changed")
}

// BadgeNumber returns the application icon badge number
func (h *Host) BadgeNumber() int {
	h.lock.RLock()
	defer h.lock.RUnlock()
	return h.badge
}

// OpenURL records and logs the URL. A headless host has no browser to hand the URL to.
func (h *Host) OpenURL(url string) {
	h.lock.Lock()
	h.openedURLs = append(h.openedURLs, url)
	h.lock.Unlock()
	h.logOpenURL(eventlog.Fields{"url": url}, "URL opened")
}

// OpenedURLs returns the URLs that were opened
func (h *Host) OpenedURLs() []string {
	h.lock.RLock()
	defer h.lock.RUnlock()
	return append([]string(nil), h.openedURLs...)
}

// NotificationCenter returns the host's local notification center
func (h *Host) NotificationCenter() *NotificationCenter {
	return h.notifications
}
