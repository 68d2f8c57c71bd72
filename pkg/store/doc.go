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

// Package store provides the single owner of application state.
//
// A Store applies a pure state transition function - the Reducer - to each action it receives. The reducer mutates the
// state in place and returns an Effect, which describes the asynchronous work to run against the environment. Actions
// produced by effects are fed back into the store.
//
// Concurrency model
//   - Send is safe to call from any goroutine.
//   - actions are applied one at a time, in the order they were received, by a single goroutine that owns the state.
//   - each effect declares the scheduler it runs on. Effects are never run on the store goroutine.
//   - effects can be tagged with an ID, which is used to cancel them. Cancellation is signalled via context cancellation.
//
// Derived views
//   - Scope derives a store view that exposes a projection of the state and accepts local actions.
//   - ViewStore and RemoveDuplicates provide change-only observation, using an equality function as the dedup key.
package store
