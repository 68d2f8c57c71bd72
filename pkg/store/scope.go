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

// Scoped is a view of a store that exposes a projection of the state and accepts local actions, which are lifted
// into the parent store's actions.
type Scoped[S, A any] struct {
	state     func() S
	send      func(A)
	subscribe func(func(S)) func()
}

// Scope derives a view of the store
func Scope[S, A, E, LS, LA any](store *Store[S, A, E], toLocal func(S) LS, fromLocal func(LA) A) *Scoped[LS, LA] {
	return &Scoped[LS, LA]{
		state: func() LS { return toLocal(store.State()) },
		send:  func(action LA) { store.Send(fromLocal(action)) },
		subscribe: func(f func(LS)) func() {
			return store.Subscribe(func(state S) { f(toLocal(state)) })
		},
	}
}

// ScopeOf narrows an existing scoped view further
func ScopeOf[S, A, LS, LA any](scoped *Scoped[S, A], toLocal func(S) LS, fromLocal func(LA) A) *Scoped[LS, LA] {
	return &Scoped[LS, LA]{
		state: func() LS { return toLocal(scoped.State()) },
		send:  func(action LA) { scoped.Send(fromLocal(action)) },
		subscribe: func(f func(LS)) func() {
			return scoped.Subscribe(func(state S) { f(toLocal(state)) })
		},
	}
}

// Send lifts the local action and sends it to the store
func (s *Scoped[S, A]) Send(action A) {
	s.send(action)
}

// State returns the projected state
func (s *Scoped[S, A]) State() S {
	return s.state()
}

// Subscribe is notified with the projected state after each action is reduced by the store
func (s *Scoped[S, A]) Subscribe(f func(S)) (cancel func()) {
	return s.subscribe(f)
}

// ViewStore observes a scoped view of the store, and is only notified when the state changes.
type ViewStore[S, A any] struct {
	scoped      *Scoped[S, A]
	isDuplicate func(S, S) bool
}

// NewViewStore constructs a new ViewStore. isDuplicate is used to determine if the state has changed.
func NewViewStore[S, A any](scoped *Scoped[S, A], isDuplicate func(prev, next S) bool) *ViewStore[S, A] {
	return &ViewStore[S, A]{
		scoped:      scoped,
		isDuplicate: isDuplicate,
	}
}

// Send sends the action to the store
func (v *ViewStore[S, A]) Send(action A) {
	v.scoped.Send(action)
}

// State returns a snapshot of the current view state
func (v *ViewStore[S, A]) State() S {
	return v.scoped.State()
}

// Subscribe is notified with the current state, and then only when the state changes
func (v *ViewStore[S, A]) Subscribe(f func(S)) (cancel func()) {
	sink := RemoveDuplicates(v.isDuplicate, f)
	sink(v.scoped.State())
	return v.scoped.Subscribe(sink)
}

// RemoveDuplicates returns a function that forwards values to the sink, dropping any value that is a duplicate of
// the previously forwarded value. The first value is always forwarded.
//
// The returned function is safe for concurrent use. Values are forwarded while holding a lock, which keeps the
// forwarded sequence consistent with the dedup decisions.
func RemoveDuplicates[T any](isDuplicate func(prev, next T) bool, sink func(T)) func(T) {
	var (
		lock sync.Mutex
		prev T
		seen bool
	)
	return func(next T) {
		lock.Lock()
		defer lock.Unlock()
		if seen && isDuplicate(prev, next) {
			return
		}
		prev, seen = next, true
		sink(next)
	}
}

// Equal is an isDuplicate function for comparable types
func Equal[T comparable](prev, next T) bool {
	return prev == next
}
