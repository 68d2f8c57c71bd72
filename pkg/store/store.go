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
	"context"
	"fmt"
	"sync"

	"github.com/oysterpack/isowords/pkg/eventlog"
	"github.com/rs/zerolog"
)

// Reducer is a state transition function. It mutates the state in place for the specified action and returns the
// effect to run against the environment.
//
// Reducers run on the store goroutine and must not block.
type Reducer[S, A, E any] func(state *S, action A, env E) Effect[A]

// Opts are used to configure a Store
type Opts struct {
	// Logger is used for the store's event logs. If nil, then logging is disabled.
	Logger *zerolog.Logger
	// Metrics is optional
	Metrics *Metrics
}

// Store owns the application state.
//
// Actions are applied one at a time in the order they were received. Effects produced by the reducer are run on the
// scheduler they declare, and the actions they produce are sent back into the store.
type Store[S, A, E any] struct {
	reducer Reducer[S, A, E]
	env     E
	opts    Opts

	stateLock sync.RWMutex
	state     S

	mailbox *mailbox[A]
	stop    chan struct{}
	done    chan struct{}

	ctx    context.Context
	cancel context.CancelFunc

	effects *inflight

	subscriptionsLock sync.Mutex
	subscriptions     map[uint64]func(S)
	nextSubscription  uint64

	logActionReceived eventlog.Logger
	logActionDropped  eventlog.Logger
	logEffectPanic    eventlog.ErrorLogger
	logEffectRejected eventlog.Logger
	logShutdown       eventlog.Logger
}

// New constructs a new Store and starts its run loop
func New[S, A, E any](initial S, reducer Reducer[S, A, E], env E, opts Opts) *Store[S, A, E] {
	logger := opts.Logger
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	logger = eventlog.ForComponent(logger, "store")
	ctx, cancel := context.WithCancel(context.Background())
	s := &Store[S, A, E]{
		reducer: reducer,
		env:     env,
		opts:    opts,
		state:   initial,

		mailbox: newMailbox[A](),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),

		ctx:    ctx,
		cancel: cancel,

		effects: newInflight(),

		subscriptions: make(map[uint64]func(S)),

		logActionReceived: ActionReceived.NewLogger(logger, zerolog.DebugLevel),
		logActionDropped:  ActionDropped.NewLogger(logger, zerolog.WarnLevel),
		logEffectPanic:    EffectPanic.NewErrorLogger(logger),
		logEffectRejected: EffectRejected.NewLogger(logger, zerolog.WarnLevel),
		logShutdown:       Shutdown.NewLogger(logger, zerolog.InfoLevel),
	}
	go s.run()
	return s
}

// Send enqueues the action to be reduced. It is safe to call from any goroutine, including from within effects.
//
// Actions sent after the store is shutdown are dropped.
func (s *Store[S, A, E]) Send(action A) {
	if !s.mailbox.put(message[A]{action: action}) {
		s.logActionDropped(actionData{ActionName(action)}, "action dropped because store is shutdown")
	}
}

// Sync blocks until all actions that were sent before Sync was called have been reduced.
// It must not be called from a reducer.
func (s *Store[S, A, E]) Sync(ctx context.Context) error {
	barrier := make(chan struct{})
	if !s.mailbox.put(message[A]{barrier: barrier}) {
		return ErrShutdown
	}
	select {
	case <-barrier:
		return nil
	case <-s.done:
		return ErrShutdown
	case <-ctx.Done():
		return ctx.Err()
	}
}

// State returns a snapshot of the current state
func (s *Store[S, A, E]) State() S {
	s.stateLock.RLock()
	defer s.stateLock.RUnlock()
	return s.state
}

// Environment returns the environment that effects are run against
func (s *Store[S, A, E]) Environment() E {
	return s.env
}

// Subscribe registers a function that is notified with the new state after each action is reduced.
// The function is invoked on the store goroutine and must not block.
func (s *Store[S, A, E]) Subscribe(f func(S)) (cancel func()) {
	s.subscriptionsLock.Lock()
	id := s.nextSubscription
	s.nextSubscription++
	s.subscriptions[id] = f
	s.subscriptionsLock.Unlock()

	return func() {
		s.subscriptionsLock.Lock()
		delete(s.subscriptions, id)
		s.subscriptionsLock.Unlock()
	}
}

// Shutdown cancels all in flight effects and stops the run loop.
// It blocks until the run loop exits or the context is done.
func (s *Store[S, A, E]) Shutdown(ctx context.Context) error {
	s.triggerShutdown()
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed after the store is shutdown
func (s *Store[S, A, E]) Done() <-chan struct{} {
	return s.done
}

func (s *Store[S, A, E]) triggerShutdown() {
	select {
	case <-s.stop:
	default:
		close(s.stop)
		s.mailbox.close()
	}
}

func (s *Store[S, A, E]) run() {
	defer close(s.done)
	for {
		select {
		case <-s.stop:
			s.cancel()
			s.logShutdown(nil, "store shutdown")
			return
		case <-s.mailbox.ready:
			for _, msg := range s.mailbox.drain() {
				if msg.barrier != nil {
					close(msg.barrier)
					continue
				}
				s.reduce(msg.action)
			}
		}
	}
}

func (s *Store[S, A, E]) reduce(action A) {
	name := ActionName(action)
	s.logActionReceived(actionData{name}, "action received")
	s.opts.Metrics.actionReceived(name)

	s.stateLock.Lock()
	effect := s.reducer(&s.state, action, s.env)
	state := s.state
	s.stateLock.Unlock()

	s.publish(state)
	s.runEffect(effect)
}

func (s *Store[S, A, E]) publish(state S) {
	s.subscriptionsLock.Lock()
	subscribers := make([]func(S), 0, len(s.subscriptions))
	for _, f := range s.subscriptions {
		subscribers = append(subscribers, f)
	}
	s.subscriptionsLock.Unlock()

	for _, f := range subscribers {
		f(state)
	}
}

func (s *Store[S, A, E]) runEffect(effect Effect[A]) {
	// in-flight effects are superseded once per ID, before any op in the batch starts
	superseded := make(map[interface{}]bool)
	for _, o := range effect.ops {
		if o.kind == runOp && o.id != nil && o.cancelInFlight && !superseded[o.id] {
			superseded[o.id] = true
			s.effects.cancel(o.id)
		}
	}
	for _, o := range effect.ops {
		switch o.kind {
		case cancelOp:
			s.effects.cancel(o.id)
		case runOp:
			s.start(o)
		}
	}
}

func (s *Store[S, A, E]) start(o op[A]) {
	ctx, cancel := context.WithCancel(s.ctx)
	token := s.effects.add(o.id, cancel)
	s.opts.Metrics.effectStarted()
	finish := func() {
		s.effects.remove(o.id, token)
		cancel()
		s.opts.Metrics.effectFinished()
	}

	scheduled := o.scheduler.Schedule(func() {
		defer func() {
			if p := recover(); p != nil {
				s.logEffectPanic(effectData{o.scheduler.Name(), o.id}, fmt.Errorf("%v", p), "effect panicked")
			}
			finish()
		}()
		if ctx.Err() != nil {
			return
		}
		o.run(ctx, func(action A) {
			if ctx.Err() != nil {
				return
			}
			s.Send(action)
		})
	})
	if !scheduled {
		s.logEffectRejected(effectData{o.scheduler.Name(), o.id}, "effect rejected by scheduler")
		finish()
	}
}

// ActionName returns the action's name, which identifies the action in logs and metrics. Actions can name themselves
// by implementing ActionName(), otherwise the Go type name is used.
func ActionName(action interface{}) string {
	if named, ok := action.(interface{ ActionName() string }); ok {
		return named.ActionName()
	}
	return fmt.Sprintf("%T", action)
}

type actionData struct {
	action string
}

func (d actionData) MarshalZerologObject(e *zerolog.Event) {
	e.Str("action", d.action)
}

type effectData struct {
	scheduler string
	id        interface{}
}

func (d effectData) MarshalZerologObject(e *zerolog.Event) {
	e.Str("scheduler", d.scheduler)
	if d.id != nil {
		e.Str("id", fmt.Sprint(d.id))
	}
}
