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

package platform

import (
	"github.com/oysterpack/isowords/pkg/eventlog"
)

// Host events
const (
	Launched               eventlog.Event = "01EJ6KJ2T4Y5D8XGZ0P1B3AVQ8"
	ScenePhaseChanged      eventlog.Event = "01EJ6KJ9N8E0W9RR3B0M4K7C2F"
	PushRegistrationFailed eventlog.Event = "01EJ6KJG3AD6QH2F9W5T1N8ZXY"
	WindowStyleChanged     eventlog.Event = "01EJ6KJPB7XCZ4M3GV6S9E2H1R"
	URLOpened              eventlog.Event = "01EJ6KJX0KQ9F5B2T7N4W8R3DM"
	BadgeNumberChanged     eventlog.Event = "01EJ6KK4CQ3V8N1Z6Y2J5H9P0T"
	HostShutdown           eventlog.Event = "01EJ6KKB6F2R7X0D4M8Q3W1S9K"
)
