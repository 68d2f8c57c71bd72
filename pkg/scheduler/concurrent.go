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

// Concurrent runs scheduled work on separate goroutines. To protect the application from runaway work, the number of
// goroutines that are allowed to run concurrently is bounded.
type Concurrent struct {
	name string

	runSemaphore chan struct{}
	wg           sync.WaitGroup
}

// DefaultParallelism is used when the specified parallelism is zero
const DefaultParallelism uint8 = 4

// NewConcurrent constructs a new Concurrent scheduler.
func NewConcurrent(name string, parallelism uint8) *Concurrent {
	if parallelism == 0 {
		parallelism = DefaultParallelism
	}
	return &Concurrent{
		name:         name,
		runSemaphore: make(chan struct{}, parallelism),
	}
}

// Name implements Scheduler
func (s *Concurrent) Name() string {
	return s.name
}

// Now implements Scheduler
func (s *Concurrent) Now() time.Time {
	return time.Now()
}

// Schedule implements Scheduler
func (s *Concurrent) Schedule(work func()) bool {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runSemaphore <- struct{}{}
		defer func() {
			<-s.runSemaphore
		}()
		work()
	}()
	return true
}

// After implements Scheduler
func (s *Concurrent) After(delay time.Duration, work func()) func() {
	return after(s, delay, work)
}

// Wait blocks until all scheduled work has completed
func (s *Concurrent) Wait() {
	s.wg.Wait()
}
