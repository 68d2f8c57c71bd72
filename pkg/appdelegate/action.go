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

// Package appdelegate handles the application lifecycle.
//
// The lifecycle adapter translates platform callbacks into Action values. The app delegate reducer reacts to them by
// starting the effects that bootstrap the application: settings, audio, server config, push notifications, game
// center, database, and dictionary. Effect results re-enter the store as Response values.
package appdelegate

import (
	"bytes"

	"github.com/oysterpack/isowords/pkg/platform"
	"github.com/pkg/errors"
)

// Event is anything the app delegate reducer handles: either a lifecycle Action or an effect Response.
type Event interface {
	event()
}

// Action is a lifecycle action. The set of actions is closed:
//   - DidFinishLaunching
//   - DidRegisterForRemoteNotifications
//   - DidChangeScenePhase
type Action interface {
	Event
	action()
}

// DidFinishLaunching is sent once when the application has launched
type DidFinishLaunching struct{}

// DidRegisterForRemoteNotifications is sent with the outcome of registering for remote notifications
type DidRegisterForRemoteNotifications struct {
	Result PushRegistration
}

// DidChangeScenePhase is sent when the scene phase changes
type DidChangeScenePhase struct {
	Phase platform.ScenePhase
}

func (DidFinishLaunching) event()                 {}
func (DidFinishLaunching) action()                {}
func (DidRegisterForRemoteNotifications) event()  {}
func (DidRegisterForRemoteNotifications) action() {}
func (DidChangeScenePhase) event()                {}
func (DidChangeScenePhase) action()               {}

// ActionName is used to identify the action in logs and metrics
func (DidFinishLaunching) ActionName() string { return "appDelegate.didFinishLaunching" }

// ActionName is used to identify the action in logs and metrics
func (DidRegisterForRemoteNotifications) ActionName() string {
	return "appDelegate.didRegisterForRemoteNotifications"
}

// ActionName is used to identify the action in logs and metrics
func (DidChangeScenePhase) ActionName() string { return "appDelegate.didChangeScenePhase" }

// ErrPushRegistrationFailed is the failure reported when the platform fails push registration without an error
var ErrPushRegistrationFailed = errors.New("remote notification registration failed")

// PushRegistration is the outcome of registering for remote notifications: either the device token or the error.
// It can only be constructed through Success or Failure.
type PushRegistration struct {
	token []byte
	err   error
}

// Success returns a successful push registration carrying the device token
func Success(token []byte) PushRegistration {
	return PushRegistration{token: append([]byte{}, token...)}
}

// Failure returns a failed push registration carrying the error
func Failure(err error) PushRegistration {
	if err == nil {
		err = ErrPushRegistrationFailed
	}
	return PushRegistration{err: err}
}

// Token returns the device token, if the registration succeeded
func (r PushRegistration) Token() ([]byte, bool) {
	if r.err != nil {
		return nil, false
	}
	return append([]byte{}, r.token...), true
}

// Err returns the registration error, if the registration failed
func (r PushRegistration) Err() error {
	return r.err
}

// Equal returns true if both registrations carry the same token or the same error message
func (r PushRegistration) Equal(other PushRegistration) bool {
	if r.err != nil || other.err != nil {
		return r.err != nil && other.err != nil && r.err.Error() == other.err.Error()
	}
	return bytes.Equal(r.token, other.token)
}
