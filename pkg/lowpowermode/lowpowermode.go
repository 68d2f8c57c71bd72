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

// Package lowpowermode provides the low power mode observer capability.
package lowpowermode

import (
	"context"
	"os"
	"strings"
	"time"
)

// PlatformProfile is the Linux ACPI platform profile, which reports "low-power" when the device is in low power mode
const PlatformProfile = "/sys/firmware/acpi/platform_profile"

// Observer is the low power mode capability
type Observer interface {
	// Observe emits the current low power mode state, and then each time it changes. The channel is closed when the
	// context is done.
	Observe(ctx context.Context) <-chan bool
}

// Func adapts a function into an Observer
type Func func(ctx context.Context) <-chan bool

// Observe implements Observer
func (f Func) Observe(ctx context.Context) <-chan bool { return f(ctx) }

// Live polls the platform profile
type Live struct {
	path     string
	interval time.Duration
}

// NewLive constructs a new Live observer. If the profile cannot be read, then low power mode is reported as off.
func NewLive(path string, interval time.Duration) *Live {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Live{path: path, interval: interval}
}

func (o *Live) read() bool {
	data, err := os.ReadFile(o.path)
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(data)) == "low-power"
}

// Observe implements Observer
func (o *Live) Observe(ctx context.Context) <-chan bool {
	c := make(chan bool)
	go func() {
		defer close(c)
		ticker := time.NewTicker(o.interval)
		defer ticker.Stop()

		current := o.read()
		send := func(value bool) bool {
			select {
			case <-ctx.Done():
				return false
			case c <- value:
				return true
			}
		}
		if !send(current) {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				next := o.read()
				if next == current {
					continue
				}
				current = next
				if !send(current) {
					return
				}
			}
		}
	}()
	return c
}

// Values returns an Observer that emits the values and then blocks until the context is done
func Values(values ...bool) Observer {
	return Func(func(ctx context.Context) <-chan bool {
		c := make(chan bool)
		go func() {
			defer close(c)
			for _, value := range values {
				select {
				case <-ctx.Done():
					return
				case c <- value:
				}
			}
			<-ctx.Done()
		}()
		return c
	})
}

var _ Observer = &Live{}
