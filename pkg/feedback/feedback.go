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

// Package feedback provides the haptic feedback capability.
package feedback

import (
	"context"
	"sync/atomic"

	"github.com/oysterpack/isowords/pkg/eventlog"
	"github.com/rs/zerolog"
)

// Generator is the haptic feedback capability
type Generator interface {
	// Prepare readies the generator, which reduces the latency of the next feedback
	Prepare(ctx context.Context) error
	// SelectionChanged signals a selection change, e.g., a cube face was selected
	SelectionChanged(ctx context.Context) error
}

// SelectionFeedback is logged for each selection change
const SelectionFeedback eventlog.Event = "01EJ6Q1C7H3M9Z2X5B8V4N0KQD"

// Live renders haptic feedback as debug log events, which is the closest a headless host comes to a taptic engine
type Live struct {
	prepared int32
	log      eventlog.Logger
}

// NewLive constructs a new Live generator
func NewLive(logger *zerolog.Logger) *Live {
	return &Live{log: SelectionFeedback.NewLogger(eventlog.ForComponent(logger, "feedback"), zerolog.DebugLevel)}
}

// Prepare implements Generator
func (g *Live) Prepare(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	atomic.StoreInt32(&g.prepared, 1)
	return nil
}

// SelectionChanged implements Generator
func (g *Live) SelectionChanged(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	g.log(eventlog.Fields{"prepared": atomic.LoadInt32(&g.prepared) == 1}, "selection changed")
	return nil
}

// Counter is a test Generator that counts selection changes
type Counter struct {
	prepared int32
	changes  int32
}

// Prepare implements Generator
func (c *Counter) Prepare(context.Context) error {
	atomic.AddInt32(&c.prepared, 1)
	return nil
}

// SelectionChanged implements Generator
func (c *Counter) SelectionChanged(context.Context) error {
	atomic.AddInt32(&c.changes, 1)
	return nil
}

// Prepared returns the number of Prepare calls
func (c *Counter) Prepared() int { return int(atomic.LoadInt32(&c.prepared)) }

// SelectionChanges returns the number of SelectionChanged calls
func (c *Counter) SelectionChanges() int { return int(atomic.LoadInt32(&c.changes)) }

var (
	_ Generator = &Live{}
	_ Generator = &Counter{}
)
