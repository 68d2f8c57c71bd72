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

// Package remotenotifications provides the push registration capability.
//
// Registration is asynchronous: the outcome is delivered by the platform host to the application delegate.
package remotenotifications

import (
	"context"
	"sync/atomic"
)

// Client is the push registration capability
type Client interface {
	Register(ctx context.Context) error
	Unregister(ctx context.Context) error
}

// Registrar is implemented by the platform host
type Registrar interface {
	RegisterForRemoteNotifications(ctx context.Context) error
	UnregisterForRemoteNotifications(ctx context.Context) error
}

// Live forwards registration requests to the platform host
type Live struct {
	registrar Registrar
}

// NewLive constructs a new Live client
func NewLive(registrar Registrar) *Live {
	return &Live{registrar: registrar}
}

// Register implements Client
func (c *Live) Register(ctx context.Context) error {
	return c.registrar.RegisterForRemoteNotifications(ctx)
}

// Unregister implements Client
func (c *Live) Unregister(ctx context.Context) error {
	return c.registrar.UnregisterForRemoteNotifications(ctx)
}

// Counter is a test Client that counts calls
type Counter struct {
	registered   int32
	unregistered int32
}

// Register implements Client
func (c *Counter) Register(context.Context) error {
	atomic.AddInt32(&c.registered, 1)
	return nil
}

// Unregister implements Client
func (c *Counter) Unregister(context.Context) error {
	atomic.AddInt32(&c.unregistered, 1)
	return nil
}

// Registered returns the number of Register calls
func (c *Counter) Registered() int {
	return int(atomic.LoadInt32(&c.registered))
}

// Unregistered returns the number of Unregister calls
func (c *Counter) Unregistered() int {
	return int(atomic.LoadInt32(&c.unregistered))
}

var (
	_ Client = &Live{}
	_ Client = &Counter{}
)
