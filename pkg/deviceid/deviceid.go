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

// Package deviceid provides the device identity capability.
package deviceid

import (
	"sync"

	"github.com/google/uuid"
	"github.com/oysterpack/isowords/pkg/userdefaults"
)

// Key is the user defaults key that the device ID is persisted under
const Key = "deviceId"

// Provider is the device identity capability
type Provider interface {
	ID() uuid.UUID
}

// Func adapts a function into a Provider
type Func func() uuid.UUID

// ID implements Provider
func (f Func) ID() uuid.UUID { return f() }

// Constant returns a Provider that always returns the specified ID
func Constant(id uuid.UUID) Provider {
	return Func(func() uuid.UUID { return id })
}

// Live generates a random ID on first use and persists it in user defaults, i.e., the ID is stable across launches.
type Live struct {
	defaults userdefaults.Client

	once sync.Once
	id   uuid.UUID
	err  error
}

// NewLive constructs a new Live Provider
func NewLive(defaults userdefaults.Client) *Live {
	return &Live{defaults: defaults}
}

// ID implements Provider
func (p *Live) ID() uuid.UUID {
	p.once.Do(func() {
		if id, err := uuid.Parse(p.defaults.String(Key)); err == nil {
			p.id = id
			return
		}
		p.id = uuid.New()
		p.err = p.defaults.SetString(Key, p.id.String())
	})
	return p.id
}

// Err returns the error that occurred while persisting a newly generated ID
func (p *Live) Err() error {
	p.ID()
	return p.err
}

var _ Provider = &Live{}
