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

// Package health provides support for application health checks.
//
// Health check status can be `Green`, `Yellow`, or `Red`. A yellow status indicates that the health check aspect is
// still functional but may be degraded.
//
// Registered health checks are run on a periodic basis once the service is started. Each run is bounded by the
// check's timeout: a timed out run is a `Red` failure. The latest results are cached, logged when the status changes,
// and exported as the `isowords_health_check_status` gauge.
package health

import (
	"fmt"
	"strings"
	"time"

	"github.com/oysterpack/isowords/pkg/eventlog"
	"github.com/pkg/errors"
)

// Status is the health check status
type Status uint8

// Status enum
const (
	Green Status = iota
	// Yellow indicates the health check is triggering a warning - usually to signal a degraded state.
	Yellow
	Red
)

func (s Status) String() string {
	switch s {
	case Green:
		return "Green"
	case Yellow:
		return "Yellow"
	default:
		return "Red"
	}
}

// Health check events
const (
	CheckRegistered    eventlog.Event = "01EJ8D4H2R7Q1X5M9T3W6B0NZC"
	CheckStatusChanged eventlog.Event = "01EJ8D4Q8K3V6N0C2Y7F5J1RXE"
)

// health check errors
var (
	ErrServiceShutdown = errors.New("health check service is shutdown")
	ErrNilChecker      = errors.New("health checker must not be nil")
	ErrDuplicateCheck  = errors.New("health check is already registered")
	ErrTimeout         = errors.New("health check timed out")
)

// YellowError is used by a Checker to report a Yellow status
type YellowError struct {
	error
}

// NewYellowError wraps the error as a YellowError
func NewYellowError(err error) YellowError {
	return YellowError{err}
}

func (e YellowError) Unwrap() error { return e.error }

// checker constraints and defaults
const (
	MaxTimeout         = 10 * time.Second
	MinRunInterval     = time.Second
	DefaultTimeout     = 5 * time.Second
	DefaultRunInterval = 15 * time.Second
)

// Check describes a health check
type Check struct {
	// ID is a short unique name, e.g., "database"
	ID          string
	Description string
	// RedImpact describes the application impact when the health check status is red
	RedImpact string
	// YellowImpact is optional because some health checks do not have a yellow state
	YellowImpact string
}

func (c Check) validate() error {
	var missing []string
	if c.ID == "" {
		missing = append(missing, "ID")
	}
	if c.Description == "" {
		missing = append(missing, "Description")
	}
	if c.RedImpact == "" {
		missing = append(missing, "RedImpact")
	}
	if len(missing) > 0 {
		return fmt.Errorf("health check fields must not be blank: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (c Check) trimSpace() Check {
	return Check{
		ID:           strings.TrimSpace(c.ID),
		Description:  strings.TrimSpace(c.Description),
		RedImpact:    strings.TrimSpace(c.RedImpact),
		YellowImpact: strings.TrimSpace(c.YellowImpact),
	}
}

// CheckerOpts configure how the check is run. Zero values use the defaults.
type CheckerOpts struct {
	Timeout     time.Duration
	RunInterval time.Duration
}

func (o CheckerOpts) normalize() CheckerOpts {
	switch {
	case o.Timeout <= 0:
		o.Timeout = DefaultTimeout
	case o.Timeout > MaxTimeout:
		o.Timeout = MaxTimeout
	}
	switch {
	case o.RunInterval <= 0:
		o.RunInterval = DefaultRunInterval
	case o.RunInterval < MinRunInterval:
		o.RunInterval = MinRunInterval
	}
	return o
}

// Registration is a health check with its checker
type Registration struct {
	Check
	CheckerOpts
	Checker Checker
}

// Result is the outcome of a health check run
type Result struct {
	ID       string
	Status   Status
	Err      error
	Time     time.Time
	Duration time.Duration
}
