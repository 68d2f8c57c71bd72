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
	"sync"
)

type message[A any] struct {
	action  A
	barrier chan struct{}
}

// mailbox is an unbounded FIFO queue. Puts never block, which allows effects and store subscribers to send actions
// without risking a deadlock with the store goroutine.
type mailbox[A any] struct {
	sync.Mutex
	queue  []message[A]
	closed bool

	// ready is signalled when the queue transitions from empty to non-empty
	ready chan struct{}
}

func newMailbox[A any]() *mailbox[A] {
	return &mailbox[A]{ready: make(chan struct{}, 1)}
}

func (m *mailbox[A]) put(msg message[A]) bool {
	m.Lock()
	defer m.Unlock()
	if m.closed {
		return false
	}
	m.queue = append(m.queue, msg)
	select {
	case m.ready <- struct{}{}:
	default:
	}
	return true
}

func (m *mailbox[A]) drain() []message[A] {
	m.Lock()
	defer m.Unlock()
	msgs := m.queue
	m.queue = nil
	return msgs
}

func (m *mailbox[A]) close() {
	m.Lock()
	m.closed = true
	m.Unlock()
}

// inflight tracks running effects by cancellation ID
type inflight struct {
	sync.Mutex
	nextToken uint64
	byID      map[interface{}]map[uint64]func()
}

func newInflight() *inflight {
	return &inflight{byID: make(map[interface{}]map[uint64]func())}
}

func (f *inflight) add(id interface{}, cancel func()) uint64 {
	f.Lock()
	defer f.Unlock()
	f.nextToken++
	if id == nil {
		return f.nextToken
	}
	cancels, ok := f.byID[id]
	if !ok {
		cancels = make(map[uint64]func())
		f.byID[id] = cancels
	}
	cancels[f.nextToken] = cancel
	return f.nextToken
}

func (f *inflight) remove(id interface{}, token uint64) {
	if id == nil {
		return
	}
	f.Lock()
	defer f.Unlock()
	cancels := f.byID[id]
	delete(cancels, token)
	if len(cancels) == 0 {
		delete(f.byID, id)
	}
}

func (f *inflight) cancel(id interface{}) {
	f.Lock()
	cancels := f.byID[id]
	delete(f.byID, id)
	f.Unlock()
	for _, cancel := range cancels {
		cancel()
	}
}

func (f *inflight) count(id interface{}) int {
	f.Lock()
	defer f.Unlock()
	return len(f.byID[id])
}
