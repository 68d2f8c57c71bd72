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

// Package eventlog is the structured JSON logging layer, built on zerolog.
//
// Importing the package applies global zerolog settings: the timestamp, level, message, and error field names are
// shortened to t, l, m, and e; timestamps use Unix seconds; durations are logged as integers; and error stacks are
// marshalled from github.com/pkg/errors stack traces.
//
// Loggers built with NewZeroLogger tag each log event with its own ULID in the "z" field.
//
// Events are identified by an Event ULID. Packages declare their events next to the code that logs them, e.g.,
// package store declares ActionReceived. Event data is logged as a dictionary under "d".
package eventlog
