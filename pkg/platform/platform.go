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

// Package platform provides the headless host that the application runs on.
//
// The host owns the process lifecycle and delivers the application lifecycle callbacks to a Delegate:
//   - launch
//   - remote notification registration success or failure
//   - scene phase changes
//
// All delegate callbacks are invoked from the host's callback goroutine, in the order the events occur.
package platform

import (
	"fmt"
)

// ScenePhase is the scene's operational state
type ScenePhase uint8

// ScenePhase enum values
const (
	Background ScenePhase = iota
	Inactive
	Active
)

func (p ScenePhase) String() string {
	switch p {
	case Background:
		return "background"
	case Inactive:
		return "inactive"
	case Active:
		return "active"
	default:
		return fmt.Sprintf("ScenePhase(%d)", p)
	}
}

// UserInterfaceStyle is the window appearance
type UserInterfaceStyle uint8

// UserInterfaceStyle enum values
const (
	Unspecified UserInterfaceStyle = iota
	Light
	Dark
)

func (s UserInterfaceStyle) String() string {
	switch s {
	case Unspecified:
		return "unspecified"
	case Light:
		return "light"
	case Dark:
		return "dark"
	default:
		return fmt.Sprintf("UserInterfaceStyle(%d)", s)
	}
}

// Delegate receives the application lifecycle callbacks
type Delegate interface {
	DidFinishLaunching()
	DidRegisterForRemoteNotifications(token []byte)
	DidFailToRegisterForRemoteNotifications(err error)
	DidChangeScenePhase(phase ScenePhase)
}
