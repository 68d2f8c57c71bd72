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

package scheduler

import (
	"sync"
	"time"
)

// Serial runs scheduled work one at a time, in the order it was scheduled, on a single goroutine.
//
// The goroutine is started when work is first scheduled, i.e., constructing a Serial scheduler has no side effects.
type Serial struct {
	name string
	*executor
}

type executor struct {
	start sync.Once
	m     sync.Mutex
	cond  *sync.Cond
	queue []func()
	done  bool
}

// NewSerial constructs a new Serial scheduler
func NewSerial(name string) *Serial {
	e := &executor{}
	e.cond = sync.NewCond(&e.m)
	return &Serial{name: name, executor: e}
}

// Named returns a Serial scheduler that shares the same underlying goroutine, but is named differently.
//
// Use Case: the main queue and main run loop are distinct scheduler handles that run work on the same goroutine.
func (s *Serial) Named(name string) *Serial {
	return &Serial{name: name, executor: s.executor}
}

// Name implements Scheduler
func (s *Serial) Name() string {
	return s.name
}

// Now implements Scheduler
func (s *Serial) Now() time.Time {
	return time.Now()
}

// Schedule implements Scheduler. Work scheduled after the scheduler is closed is rejected.
func (s *Serial) Schedule(work func()) bool {
	s.start.Do(func() { go s.run() })
	s.m.Lock()
	defer s.m.Unlock()
	if s.done {
		return false
	}
	s.queue = append(s.queue, work)
	s.cond.Signal()
	return true
}

// After implements Scheduler
func (s *Serial) After(delay time.Duration, work func()) func() {
	return after(s, delay, work)
}

// Close stops the scheduler goroutine after the already queued work is run. Close is idempotent.
func (s *Serial) Close() {
	s.m.Lock()
	defer s.m.Unlock()
	s.done = true
	s.cond.Broadcast()
}

func (e *executor) run() {
	for {
		e.m.Lock()
		for len(e.queue) == 0 && !e.done {
			e.cond.Wait()
		}
		if len(e.queue) == 0 {
			e.m.Unlock()
			return
		}
		work := e.queue[0]
		e.queue[0] = nil
		e.queue = e.queue[1:]
		e.m.Unlock()

		work()
	}
}

func after(s Scheduler, delay time.Duration, work func()) func() {
	var m sync.Mutex
	cancelled := false
	timer := time.AfterFunc(delay, func() {
		s.Schedule(func() {
			m.Lock()
			skip := cancelled
			m.Unlock()
			if !skip {
				work()
			}
		})
	})
	return func() {
		m.Lock()
		cancelled = true
		m.Unlock()
		timer.Stop()
	}
}
