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

// Package eventlogtest provides log capture support for tests that inspect event logs.
package eventlogtest

import (
	"bufio"
	"bytes"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"
)

// SyncLog is used to to provide a concurrency safe read/write log.
//
// Use Case: used when inspecting logs in unit tests that have multiple go routines writing to the log concurrently
type SyncLog struct {
	sync.Mutex
	buf *bytes.Buffer
}

// NewSyncLog constructs a new empty SyncLog
func NewSyncLog() *SyncLog {
	return &SyncLog{
		buf: new(bytes.Buffer),
	}
}

func (l *SyncLog) Write(data []byte) (int, error) {
	l.Lock()
	defer l.Unlock()
	return l.buf.Write(data)
}

func (l *SyncLog) String() string {
	l.Lock()
	defer l.Unlock()
	return l.buf.String()
}

// Logger returns a zerolog logger that writes to the log at debug level
func (l *SyncLog) Logger() *zerolog.Logger {
	logger := zerolog.New(l).Level(zerolog.DebugLevel)
	return &logger
}

// LogEvent is the parsed form of a standard log event
type LogEvent struct {
	Level     string                 `json:"l"`
	Name      string                 `json:"n"`
	Component string                 `json:"c"`
	Message   string                 `json:"m"`
	Error     string                 `json:"e"`
	Tags      []string               `json:"g"`
	Data      map[string]interface{} `json:"d"`
}

// Events parses each logged line. Lines that are not valid JSON are skipped.
func (l *SyncLog) Events() []LogEvent {
	l.Lock()
	data := append([]byte(nil), l.buf.Bytes()...)
	l.Unlock()

	var events []LogEvent
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		var event LogEvent
		if err := json.Unmarshal(scanner.Bytes(), &event); err != nil {
			continue
		}
		events = append(events, event)
	}
	return events
}

// EventsNamed returns the logged events with the specified event name
func (l *SyncLog) EventsNamed(name string) []LogEvent {
	var events []LogEvent
	for _, event := range l.Events() {
		if event.Name == name {
			events = append(events, event)
		}
	}
	return events
}
