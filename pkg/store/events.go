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

package store

import (
	"github.com/oysterpack/isowords/pkg/eventlog"
	"github.com/pkg/errors"
)

// Store events
const (
	ActionReceived eventlog.Event = "01EJ61QW6T3BVCM2BP6F7MRZ5A"
	ActionDropped  eventlog.Event = "01EJ61R4ZK4T3T6Z3E9AJH1XVW"
	EffectPanic    eventlog.Event = "01EJ61RBPQ6G2Y9Q1HQGZ5C5NE"
	EffectRejected eventlog.Event = "01EJ61RS9X2C5V8B1N4M7Q0K3H"
	Shutdown       eventlog.Event = "01EJ61RJ4D0F7MQNVJX0ZB6K2T"
)

// ErrShutdown is returned when the store has been shutdown
var ErrShutdown = errors.New("store is shutdown")
