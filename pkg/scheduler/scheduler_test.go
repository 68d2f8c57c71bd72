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

package scheduler_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/oysterpack/isowords/pkg/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerial_RunsWorkInOrderOnOneGoroutine(t *testing.T) {
	t.Parallel()

	s := scheduler.NewSerial("main-queue")
	defer s.Close()

	var m sync.Mutex
	var results []int
	var running int32
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		i := i
		wg.Add(1)
		s.Schedule(func() {
			defer wg.Done()
			if !atomic.CompareAndSwapInt32(&running, 0, 1) {
				t.Error("*** serial work must not run concurrently")
			}
			m.Lock()
			results = append(results, i)
			m.Unlock()
			atomic.StoreInt32(&running, 0)
		})
	}
	wg.Wait()

	require.Len(t, results, 100)
	for i, v := range results {
		assert.Equal(t, i, v)
	}
}

func TestSerial_Named_SharesExecutor(t *testing.T) {
	t.Parallel()

	mainQueue := scheduler.NewSerial("main-queue")
	mainRunLoop := mainQueue.Named("main-run-loop")
	defer mainQueue.Close()

	assert.Equal(t, "main-queue", mainQueue.Name())
	assert.Equal(t, "main-run-loop", mainRunLoop.Name())

	var m sync.Mutex
	var results []string
	var wg sync.WaitGroup
	wg.Add(2)
	mainQueue.Schedule(func() {
		defer wg.Done()
		m.Lock()
		results = append(results, "queue")
		m.Unlock()
	})
	mainRunLoop.Schedule(func() {
		defer wg.Done()
		m.Lock()
		results = append(results, "runloop")
		m.Unlock()
	})
	wg.Wait()
	assert.Equal(t, []string{"queue", "runloop"}, results)
}

func TestSerial_After_Cancel(t *testing.T) {
	t.Parallel()

	s := scheduler.NewSerial("main-queue")
	defer s.Close()

	var ran int32
	cancel := s.After(50*time.Millisecond, func() { atomic.StoreInt32(&ran, 1) })
	cancel()
	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, atomic.LoadInt32(&ran), "*** cancelled work should not have run")

	done := make(chan struct{})
	s.After(time.Millisecond, func() { close(done) })
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("*** delayed work did not run")
	}
}

func TestSerial_ClosedRejectsWork(t *testing.T) {
	t.Parallel()

	s := scheduler.NewSerial("main-queue")
	s.Close()
	var ran int32
	assert.False(t, s.Schedule(func() { atomic.StoreInt32(&ran, 1) }), "*** closed scheduler should reject work")
	time.Sleep(10 * time.Millisecond)
	assert.Zero(t, atomic.LoadInt32(&ran))
}

func TestConcurrent_BoundsParallelism(t *testing.T) {
	t.Parallel()

	s := scheduler.NewConcurrent("background-queue", 2)
	var running, maxRunning int32
	for i := 0; i < 20; i++ {
		s.Schedule(func() {
			n := atomic.AddInt32(&running, 1)
			for {
				prev := atomic.LoadInt32(&maxRunning)
				if n <= prev || atomic.CompareAndSwapInt32(&maxRunning, prev, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&running, -1)
		})
	}
	s.Wait()
	assert.True(t, atomic.LoadInt32(&maxRunning) <= 2, "*** max parallelism was exceeded: %d", maxRunning)
	assert.Equal(t, "background-queue", s.Name())
}

func TestTestScheduler(t *testing.T) {
	t.Parallel()

	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	s := scheduler.NewTest("test", start)

	var results []string
	s.After(2*time.Second, func() { results = append(results, "2s") })
	cancel := s.After(time.Second, func() { results = append(results, "cancelled") })
	s.Schedule(func() {
		results = append(results, "now")
		s.After(time.Second, func() { results = append(results, "1s") })
	})
	cancel()

	assert.Empty(t, results, "*** work must not run until time is advanced")
	s.Run()
	assert.Equal(t, []string{"now"}, results)
	s.Advance(time.Second)
	assert.Equal(t, []string{"now", "1s"}, results)
	assert.Equal(t, start.Add(time.Second), s.Now())
	s.Advance(time.Second)
	assert.Equal(t, []string{"now", "1s", "2s"}, results)
	assert.Zero(t, s.Pending())
}
