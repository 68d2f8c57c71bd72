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

	"github.com/oysterpack/isowords/pkg/scheduler"
)

// Effect describes asynchronous work that is run against the environment after an action is reduced.
// The zero value is the same as None(), i.e., no work.
type Effect[A any] struct {
	ops []op[A]
}

type opKind uint8

const (
	runOp opKind = iota
	cancelOp
)

type op[A any] struct {
	kind opKind

	id             interface{}
	cancelInFlight bool

	scheduler scheduler.Scheduler
	run       func(ctx context.Context, send func(A))
}

// None returns an effect that does nothing
func None[A any]() Effect[A] {
	return Effect[A]{}
}

// Run returns an effect that runs the work on the specified scheduler. The work can send any number of actions back
// into the store. Actions sent after the effect is cancelled are dropped.
//
// The work must honor ctx cancellation.
func Run[A any](s scheduler.Scheduler, work func(ctx context.Context, send func(A))) Effect[A] {
	return Effect[A]{ops: []op[A]{{kind: runOp, scheduler: s, run: work}}}
}

// Task returns an effect that runs the work on the specified scheduler and sends its result back into the store.
func Task[A any](s scheduler.Scheduler, work func(ctx context.Context) A) Effect[A] {
	return Run(s, func(ctx context.Context, send func(A)) {
		send(work(ctx))
	})
}

// FireAndForget returns an effect that runs the work on the specified scheduler and never sends any actions.
func FireAndForget[A any](s scheduler.Scheduler, work func(ctx context.Context)) Effect[A] {
	return Run(s, func(ctx context.Context, _ func(A)) {
		work(ctx)
	})
}

// Cancel returns an effect that cancels all in flight effects that are tagged with the specified ID.
func Cancel[A any](id interface{}) Effect[A] {
	return Effect[A]{ops: []op[A]{{kind: cancelOp, id: id}}}
}

// Merge combines the effects, which run concurrently
func Merge[A any](effects ...Effect[A]) Effect[A] {
	var ops []op[A]
	for _, e := range effects {
		ops = append(ops, e.ops...)
	}
	return Effect[A]{ops: ops}
}

// Cancellable tags the effect with the specified ID, which can be used to cancel the effect via Cancel().
// If cancelInFlight is true, then any in flight effects with the same ID are cancelled before this effect is run.
//
// The ID must be comparable.
func (e Effect[A]) Cancellable(id interface{}, cancelInFlight bool) Effect[A] {
	ops := make([]op[A], len(e.ops))
	for i, o := range e.ops {
		if o.kind == runOp {
			o.id = id
			o.cancelInFlight = cancelInFlight
		}
		ops[i] = o
	}
	return Effect[A]{ops: ops}
}

// IsNone returns true if the effect has no work
func (e Effect[A]) IsNone() bool {
	return len(e.ops) == 0
}

// Map transforms the actions produced by the effect
func Map[A, B any](e Effect[A], f func(A) B) Effect[B] {
	ops := make([]op[B], len(e.ops))
	for i, o := range e.ops {
		run := o.run
		mapped := op[B]{
			kind:           o.kind,
			id:             o.id,
			cancelInFlight: o.cancelInFlight,
			scheduler:      o.scheduler,
		}
		if run != nil {
			mapped.run = func(ctx context.Context, send func(B)) {
				run(ctx, func(a A) { send(f(a)) })
			}
		}
		ops[i] = mapped
	}
	return Effect[B]{ops: ops}
}
