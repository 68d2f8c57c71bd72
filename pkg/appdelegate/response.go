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

package appdelegate

import (
	"github.com/oysterpack/isowords/pkg/gamecenter"
	"github.com/oysterpack/isowords/pkg/serverconfig"
	"github.com/oysterpack/isowords/pkg/usernotifications"
)

// Response is the result of an effect started by the app delegate reducer
type Response interface {
	Event
	response()
}

// UserSettingsLoaded carries the user settings loaded from the file system
type UserSettingsLoaded struct {
	Settings UserSettings
	Err      error
}

// SoundsLoaded reports whether the sound assets were loaded
type SoundsLoaded struct {
	Err error
}

// ServerConfigLoaded carries the server config fetched from the API
type ServerConfigLoaded struct {
	Config serverconfig.ServerConfig
	Err    error
}

// NotificationSettingsLoaded carries the user notification settings
type NotificationSettingsLoaded struct {
	Settings usernotifications.Settings
	Err      error
}

// PushTokenRegistered reports whether the device push token was registered with the API
type PushTokenRegistered struct {
	Err error
}

// PlayerAuthenticated carries the game center authentication outcome
type PlayerAuthenticated struct {
	Player gamecenter.Player
	Err    error
}

// DatabaseMigrated reports whether the database was migrated
type DatabaseMigrated struct {
	Err error
}

// DictionaryLoaded reports whether the dictionary was loaded
type DictionaryLoaded struct {
	Err error
}

// LowPowerModeChanged is sent when low power mode is toggled
type LowPowerModeChanged struct {
	Enabled bool
}

func (UserSettingsLoaded) event()            {}
func (UserSettingsLoaded) response()         {}
func (SoundsLoaded) event()                  {}
func (SoundsLoaded) response()               {}
func (ServerConfigLoaded) event()            {}
func (ServerConfigLoaded) response()         {}
func (NotificationSettingsLoaded) event()    {}
func (NotificationSettingsLoaded) response() {}
func (PushTokenRegistered) event()           {}
func (PushTokenRegistered) response()        {}
func (PlayerAuthenticated) event()           {}
func (PlayerAuthenticated) response()        {}
func (DatabaseMigrated) event()              {}
func (DatabaseMigrated) response()           {}
func (DictionaryLoaded) event()              {}
func (DictionaryLoaded) response()           {}
func (LowPowerModeChanged) event()           {}
func (LowPowerModeChanged) response()        {}
