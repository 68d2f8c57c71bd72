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

// Package uistyle provides the capability to set the window appearance.
package uistyle

import (
	"context"

	"github.com/oysterpack/isowords/pkg/platform"
)

// Style is the window appearance
type Style = platform.UserInterfaceStyle

// Setter sets the window appearance
type Setter func(ctx context.Context, style Style) error

// Window is implemented by the platform host
type Window interface {
	SetUserInterfaceStyle(style platform.UserInterfaceStyle)
}

// Live returns a Setter that overrides the host window appearance
func Live(window Window) Setter {
	return func(ctx context.Context, style Style) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		window.SetUserInterfaceStyle(style)
		return nil
	}
}

// Noop is a Setter that does nothing
func Noop(context.Context, Style) error { return nil }
