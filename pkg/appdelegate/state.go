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
	"github.com/oysterpack/isowords/pkg/platform"
	"github.com/oysterpack/isowords/pkg/serverconfig"
	"github.com/oysterpack/isowords/pkg/usernotifications"
)

// UserSettingsFile is the file client file name for the user settings
const UserSettingsFile = "user-settings.json"

// UserSettings are the user's app preferences
type UserSettings struct {
	ColorScheme         platform.UserInterfaceStyle `json:"colorScheme"`
	EnableHaptics       bool                        `json:"enableHaptics"`
	EnableNotifications bool                        `json:"enableNotifications"`
	MusicVolume         float64                     `json:"musicVolume"`
	SoundEffectsVolume  float64                     `json:"soundEffectsVolume"`
}

// DefaultUserSettings are used until the user saves their own settings
func DefaultUserSettings() UserSettings {
	return UserSettings{
		ColorScheme:         platform.Unspecified,
		EnableHaptics:       true,
		EnableNotifications: true,
		MusicVolume:         1,
		SoundEffectsVolume:  1,
	}
}

// Concern names the bootstrap steps whose failures are tracked in State
type Concern string

// Concern enum values
const (
	SettingsConcern      Concern = "settings"
	SoundsConcern        Concern = "sounds"
	ServerConfigConcern  Concern = "serverConfig"
	NotificationsConcern Concern = "notifications"
	PushConcern          Concern = "push"
	GameCenterConcern    Concern = "gameCenter"
	DatabaseConcern      Concern = "database"
	DictionaryConcern    Concern = "dictionary"
)

// State is the app delegate state
type State struct {
	Launched     bool
	ScenePhase   platform.ScenePhase
	UserSettings UserSettings
	ServerConfig serverconfig.ServerConfig
	Player       gamecenter.Player

	NotificationSettings usernotifications.Settings
	// PushEnabled is false until the device registers for remote notifications, and after registration fails
	PushEnabled bool
	// PushToken is the hex encoded device token
	PushToken string

	DatabaseReady    bool
	DictionaryLoaded bool
	SoundsLoaded     bool
	LowPowerMode     bool

	// Failures holds the most recent failure message per concern. A concern is removed once it succeeds.
	// The map is replaced, never mutated, because state snapshots are shared with subscribers.
	Failures map[Concern]string
}

// NewState returns the initial app delegate state
func NewState() State {
	return State{
		ScenePhase:   platform.Background,
		UserSettings: DefaultUserSettings(),
		ServerConfig: serverconfig.Default(),
	}
}

func (s *State) record(concern Concern, err error) {
	if _, failed := s.Failures[concern]; err == nil && !failed {
		return
	}
	failures := make(map[Concern]string, len(s.Failures)+1)
	for k, v := range s.Failures {
		failures[k] = v
	}
	if err == nil {
		delete(failures, concern)
	} else {
		failures[concern] = err.Error()
	}
	s.Failures = failures
}
