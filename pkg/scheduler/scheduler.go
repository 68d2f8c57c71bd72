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

// Package scheduler provides the scheduling capability that effects declare they run on.
//
// There are 2 live schedulers:
//   - Serial - runs work one at a time, in FIFO order, on a single goroutine. It plays the role of the main thread.
//   - Concurrent - runs work on its own goroutines, bounded by a max parallelism. It plays the role of a background queue.
//
// Test schedulers are provided to control time in tests:
//   - Immediate - runs work synchronously on the calling goroutine
//   - Test - runs work only when virtual time is advanced
package scheduler

import "time"

// Scheduler is used to schedule work
type Scheduler interface {
	// Name is used to identify the scheduler in logs
	Name() string
	// Now returns the scheduler's notion of the current time
	Now() time.Time
	// Schedule schedules the work to run as soon as possible. It returns false if the work was rejected, i.e., it will
	// never run.
	Schedule(work func()) bool
	// After schedules the work to run after the specified delay. The returned function cancels the scheduled work,
	// if it has not yet run.
	After(delay time.Duration, work func()) (cancel func())
}
