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

// Package timezone provides the time zone capability.
package timezone

import (
	"os"
	"time"
	// time zones are resolvable on hosts without a zoneinfo database
	_ "time/tzdata"
)

// Provider returns the current time zone
type Provider func() *time.Location

// Live returns the local time zone. The TZ environment variable is consulted on every call, which mirrors a device
// whose time zone can change while the app is running.
func Live() *time.Location {
	if tz, ok := os.LookupEnv("TZ"); ok && tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	return time.Local
}

// Fixed returns a Provider for the specified location
func Fixed(loc *time.Location) Provider {
	return func() *time.Location { return loc }
}
