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

// Package lifecycle routes the platform's application lifecycle callbacks into the store.
package lifecycle

import (
	"sync"

	"github.com/oysterpack/isowords/pkg/appdelegate"
	"github.com/oysterpack/isowords/pkg/platform"
	"github.com/oysterpack/isowords/pkg/store"
)

// Sender dispatches lifecycle actions to the store
type Sender interface {
	Send(action appdelegate.Action)
}

// SenderFunc is a func Sender
type SenderFunc func(action appdelegate.Action)

// Send implements Sender
func (f SenderFunc) Send(action appdelegate.Action) { f(action) }

// Adapter is the platform delegate. Each callback dispatches one action to the store before returning.
//
// The style registration runs once, before the first action is dispatched. Launch is dispatched at most once, and
// scene phase changes are dispatched only when the phase differs from the previously dispatched phase.
type Adapter struct {
	sender        Sender
	registerStyle func()

	styleOnce   sync.Once
	launchOnce  sync.Once
	phaseChange func(platform.ScenePhase)
}

// New constructs a new Adapter. registerStyle may be nil.
func New(sender Sender, registerStyle func()) *Adapter {
	a := &Adapter{
		sender:        sender,
		registerStyle: registerStyle,
	}
	a.phaseChange = store.RemoveDuplicates(store.Equal[platform.ScenePhase], func(phase platform.ScenePhase) {
		a.send(appdelegate.DidChangeScenePhase{Phase: phase})
	})
	return a
}

func (a *Adapter) send(action appdelegate.Action) {
	a.styleOnce.Do(func() {
		if a.registerStyle != nil {
			a.registerStyle()
		}
	})
	a.sender.Send(action)
}

// DidFinishLaunching implements platform.Delegate
func (a *Adapter) DidFinishLaunching() {
	a.launchOnce.Do(func() {
		a.send(appdelegate.DidFinishLaunching{})
	})
}

// DidRegisterForRemoteNotifications implements platform.Delegate
func (a *Adapter) DidRegisterForRemoteNotifications(token []byte) {
	a.send(appdelegate.DidRegisterForRemoteNotifications{Result: appdelegate.Success(token)})
}

// DidFailToRegisterForRemoteNotifications implements platform.Delegate
func (a *Adapter) DidFailToRegisterForRemoteNotifications(err error) {
	a.send(appdelegate.DidRegisterForRemoteNotifications{Result: appdelegate.Failure(err)})
}

// DidChangeScenePhase implements platform.Delegate
func (a *Adapter) DidChangeScenePhase(phase platform.ScenePhase) {
	a.phaseChange(phase)
}

var _ platform.Delegate = &Adapter{}
