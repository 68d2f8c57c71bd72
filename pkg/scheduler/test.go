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
	"sort"
	"sync"
	"time"
)

// Immediate runs work synchronously on the goroutine that schedules it. Delayed work is run immediately.
type Immediate struct {
	name string
}

// NewImmediate constructs a new Immediate scheduler
func NewImmediate(name string) Immediate {
	return Immediate{name}
}

// Name implements Scheduler
func (s Immediate) Name() string { return s.name }

// Now implements Scheduler
func (s Immediate) Now() time.Time { return time.Now() }

// Schedule implements Scheduler
func (s Immediate) Schedule(work func()) bool {
	work()
	return true
}

// After implements Scheduler
func (s Immediate) After(_ time.Duration, work func()) func() {
	work()
	return func() {}
}

// Test is a scheduler whose notion of time is controlled by the test. Scheduled work is only run when the test advances
// time via Advance() or Run().
type Test struct {
	name string

	m     sync.Mutex
	now   time.Time
	seq   uint64
	queue []*testWork
}

type testWork struct {
	due       time.Time
	seq       uint64
	work      func()
	cancelled bool
}

// NewTest constructs a new Test scheduler whose clock starts at the specified time
func NewTest(name string, now time.Time) *Test {
	return &Test{name: name, now: now}
}

// Name implements Scheduler
func (s *Test) Name() string { return s.name }

// Now implements Scheduler
func (s *Test) Now() time.Time {
	s.m.Lock()
	defer s.m.Unlock()
	return s.now
}

// Schedule implements Scheduler
func (s *Test) Schedule(work func()) bool {
	s.After(0, work)
	return true
}

// After implements Scheduler
func (s *Test) After(delay time.Duration, work func()) func() {
	s.m.Lock()
	defer s.m.Unlock()
	s.seq++
	w := &testWork{due: s.now.Add(delay), seq: s.seq, work: work}
	s.queue = append(s.queue, w)
	return func() {
		s.m.Lock()
		w.cancelled = true
		s.m.Unlock()
	}
}

// Advance moves the clock forward by the specified duration, running all work that is due, in due time order.
// Work scheduled by work that runs is also run, if it becomes due within the advanced time.
func (s *Test) Advance(d time.Duration) {
	s.m.Lock()
	deadline := s.now.Add(d)
	s.m.Unlock()

	for {
		s.m.Lock()
		sort.SliceStable(s.queue, func(i, j int) bool {
			if s.queue[i].due.Equal(s.queue[j].due) {
				return s.queue[i].seq < s.queue[j].seq
			}
			return s.queue[i].due.Before(s.queue[j].due)
		})
		if len(s.queue) == 0 || s.queue[0].due.After(deadline) {
			s.now = deadline
			s.m.Unlock()
			return
		}
		next := s.queue[0]
		s.queue = s.queue[1:]
		if next.due.After(s.now) {
			s.now = next.due
		}
		cancelled := next.cancelled
		s.m.Unlock()

		if !cancelled {
			next.work()
		}
	}
}

// Run runs all work that is currently due
func (s *Test) Run() {
	s.Advance(0)
}

// Pending returns the number of scheduled, non-cancelled, work items
func (s *Test) Pending() int {
	s.m.Lock()
	defer s.m.Unlock()
	count := 0
	for _, w := range s.queue {
		if !w.cancelled {
			count++
		}
	}
	return count
}
