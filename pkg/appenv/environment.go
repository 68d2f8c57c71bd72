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

// Package appenv composes the application environment, i.e., the set of capabilities that the application reducer
// runs its effects against.
package appenv

import (
	"reflect"

	"github.com/oysterpack/isowords/pkg/apiclient"
	"github.com/oysterpack/isowords/pkg/application"
	"github.com/oysterpack/isowords/pkg/audioplayer"
	"github.com/oysterpack/isowords/pkg/build"
	"github.com/oysterpack/isowords/pkg/database"
	"github.com/oysterpack/isowords/pkg/deviceid"
	"github.com/oysterpack/isowords/pkg/dictionary"
	"github.com/oysterpack/isowords/pkg/feedback"
	"github.com/oysterpack/isowords/pkg/fileclient"
	"github.com/oysterpack/isowords/pkg/gamecenter"
	"github.com/oysterpack/isowords/pkg/lowpowermode"
	"github.com/oysterpack/isowords/pkg/remotenotifications"
	"github.com/oysterpack/isowords/pkg/scheduler"
	"github.com/oysterpack/isowords/pkg/serverconfig"
	"github.com/oysterpack/isowords/pkg/storekit"
	"github.com/oysterpack/isowords/pkg/timezone"
	"github.com/oysterpack/isowords/pkg/uistyle"
	"github.com/oysterpack/isowords/pkg/userdefaults"
	"github.com/oysterpack/isowords/pkg/usernotifications"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Environment is the application environment. Every field is required.
type Environment struct {
	APIClient             apiclient.Client
	Application           application.Client
	AudioPlayer           audioplayer.Client
	BackgroundQueue       scheduler.Scheduler
	Build                 build.Build
	Database              database.Client
	DeviceID              deviceid.Provider
	Dictionary            dictionary.Client
	FeedbackGenerator     feedback.Generator
	FileClient            fileclient.Client
	GameCenter            gamecenter.Client
	LowPowerMode          lowpowermode.Observer
	MainQueue             scheduler.Scheduler
	MainRunLoop           scheduler.Scheduler
	RemoteNotifications   remotenotifications.Client
	ServerConfig          serverconfig.Client
	SetUserInterfaceStyle uistyle.Setter
	StoreKit              storekit.Client
	TimeZone              timezone.Provider
	UserDefaults          userdefaults.Client
	UserNotifications     usernotifications.Client
}

// Validate returns an error for each capability that is not set
func (e Environment) Validate() error {
	var err error
	v := reflect.ValueOf(e)
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		if v.Field(i).IsZero() {
			err = multierr.Append(err, errors.Errorf("Environment.%s is required", t.Field(i).Name))
		}
	}
	return err
}
