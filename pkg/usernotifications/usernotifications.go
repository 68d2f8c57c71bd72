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

// Package usernotifications provides the local user notification capability.
package usernotifications

import (
	"context"
	"sync"
	"time"

	"github.com/oysterpack/isowords/pkg/platform"
	"github.com/pkg/errors"
)

// Settings are the notification authorization settings
type Settings = platform.NotificationSettings

// Request is a local notification request
type Request = platform.NotificationRequest

// Options are the requested notification capabilities
type Options struct {
	Alert bool
	Badge bool
	Sound bool
}

// Client is the user notification capability
type Client interface {
	Settings(ctx context.Context) (Settings, error)
	RequestAuthorization(ctx context.Context, options Options) (bool, error)
	Add(ctx context.Context, request Request) error
	RemovePending(ctx context.Context, ids ...string) error
}

// Live schedules notifications with the platform host notification center
type Live struct {
	center *platform.NotificationCenter
	now    func() time.Time
}

// NewLive constructs a new Live client
func NewLive(center *platform.NotificationCenter) *Live {
	return &Live{center: center, now: time.Now}
}

// Settings implements Client
func (c *Live) Settings(ctx context.Context) (Settings, error) {
	if err := ctx.Err(); err != nil {
		return Settings{}, err
	}
	return c.center.Settings(), nil
}

// RequestAuthorization implements Client
func (c *Live) RequestAuthorization(ctx context.Context, options Options) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if !options.Alert && !options.Badge && !options.Sound {
		return false, errors.New("at least one notification option must be requested")
	}
	return c.center.RequestAuthorization(), nil
}

// Add implements Client
func (c *Live) Add(ctx context.Context, request Request) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if request.ID == "" {
		return errors.New("notification request ID is required")
	}
	if !c.center.Settings().Authorized {
		return errors.Errorf("notifications are not authorized: %s", request.ID)
	}
	if request.Trigger.IsZero() {
		request.Trigger = c.now()
	}
	c.center.Add(request)
	return nil
}

// RemovePending implements Client
func (c *Live) RemovePending(ctx context.Context, ids ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.center.RemovePending(ids...)
	return nil
}

// Mock is a test Client that authorizes everything and records added requests
type Mock struct {
	lock    sync.Mutex
	Granted bool
	added   []Request
	removed []string
}

// Settings implements Client
func (m *Mock) Settings(context.Context) (Settings, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	return Settings{Authorized: m.Granted, Determined: true}, nil
}

// RequestAuthorization implements Client
func (m *Mock) RequestAuthorization(context.Context, Options) (bool, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.Granted, nil
}

// Add implements Client
func (m *Mock) Add(_ context.Context, request Request) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.added = append(m.added, request)
	return nil
}

// RemovePending implements Client
func (m *Mock) RemovePending(_ context.Context, ids ...string) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.removed = append(m.removed, ids...)
	return nil
}

// Added returns the added requests
func (m *Mock) Added() []Request {
	m.lock.Lock()
	defer m.lock.Unlock()
	return append([]Request(nil), m.added...)
}

var (
	_ Client = &Live{}
	_ Client = &Mock{}
)
