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

// Package application provides the application capability, i.e., URL opening and the icon badge number.
package application

import (
	"context"
	"net/url"
	"sync"

	"github.com/pkg/errors"
)

// Client is the application capability
type Client interface {
	OpenURL(ctx context.Context, rawURL string) error
	SetBadgeNumber(ctx context.Context, n int) error
	BadgeNumber() int
}

// Host is implemented by the platform host
type Host interface {
	OpenURL(url string)
	SetBadgeNumber(n int)
	BadgeNumber() int
}

// Live delegates to the platform host
type Live struct {
	host Host
}

// NewLive constructs a new Live client
func NewLive(host Host) *Live {
	return &Live{host: host}
}

// OpenURL implements Client. Only absolute URLs can be opened.
func (c *Live) OpenURL(ctx context.Context, rawURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return errors.Wrapf(err, "invalid URL: %q", rawURL)
	}
	if !u.IsAbs() {
		return errors.Errorf("URL must be absolute: %q", rawURL)
	}
	c.host.OpenURL(u.String())
	return nil
}

// SetBadgeNumber implements Client
func (c *Live) SetBadgeNumber(ctx context.Context, n int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if n < 0 {
		return errors.Errorf("badge number must not be negative: %d", n)
	}
	c.host.SetBadgeNumber(n)
	return nil
}

// BadgeNumber implements Client
func (c *Live) BadgeNumber() int {
	return c.host.BadgeNumber()
}

// Mock is an in memory Client used for tests
type Mock struct {
	lock   sync.Mutex
	badge  int
	opened []string
}

// OpenURL implements Client
func (m *Mock) OpenURL(_ context.Context, rawURL string) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.opened = append(m.opened, rawURL)
	return nil
}

// SetBadgeNumber implements Client
func (m *Mock) SetBadgeNumber(_ context.Context, n int) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.badge = n
	return nil
}

// BadgeNumber implements Client
func (m *Mock) BadgeNumber() int {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.badge
}

// Opened returns the opened URLs
func (m *Mock) Opened() []string {
	m.lock.Lock()
	defer m.lock.Unlock()
	return append([]string(nil), m.opened...)
}

var (
	_ Client = &Live{}
	_ Client = &Mock{}
)
