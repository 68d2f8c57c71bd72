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

// Package gamecenter provides the game center capability, i.e., player authentication and leaderboards.
package gamecenter

import (
	"context"
	"sync"

	"github.com/oysterpack/isowords/pkg/apiclient"
	"github.com/oysterpack/isowords/pkg/deviceid"
	"github.com/pkg/errors"
)

// ErrNotAuthenticated is returned when a score is submitted before the local player is authenticated
var ErrNotAuthenticated = errors.New("local player is not authenticated")

// Player is the local player
type Player struct {
	ID            string `json:"id"`
	DisplayName   string `json:"displayName"`
	Authenticated bool   `json:"-"`
}

// Score is a leaderboard score
type Score struct {
	Leaderboard string
	Language    string
	Value       int
	Words       []string
}

// Client is the game center capability
type Client interface {
	Authenticate(ctx context.Context) (Player, error)
	LocalPlayer() Player
	SubmitScore(ctx context.Context, score Score) error
}

// Live authenticates the device with the API server, which hosts the leaderboards
type Live struct {
	api      apiclient.Client
	deviceID deviceid.Provider

	lock   sync.RWMutex
	player Player
}

// NewLive constructs a new Live client
func NewLive(api apiclient.Client, deviceID deviceid.Provider) *Live {
	return &Live{api: api, deviceID: deviceID}
}

// Authenticate implements Client
func (c *Live) Authenticate(ctx context.Context) (Player, error) {
	var player Player
	if err := c.api.APIRequest(ctx, apiclient.AuthenticateRoute{DeviceID: c.deviceID.ID()}, &player); err != nil {
		return Player{}, errors.Wrap(err, "game center authentication failed")
	}
	if player.ID == "" {
		return Player{}, errors.New("game center authentication response is missing the player ID")
	}
	player.Authenticated = true
	c.lock.Lock()
	c.player = player
	c.lock.Unlock()
	return player, nil
}

// LocalPlayer implements Client
func (c *Live) LocalPlayer() Player {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.player
}

// SubmitScore implements Client
func (c *Live) SubmitScore(ctx context.Context, score Score) error {
	if !c.LocalPlayer().Authenticated {
		return ErrNotAuthenticated
	}
	_, err := c.api.Request(ctx, apiclient.LeaderboardScoreRoute{
		DeviceID:    c.deviceID.ID(),
		Leaderboard: score.Leaderboard,
		Language:    score.Language,
		Score:       score.Value,
		Words:       score.Words,
	})
	return errors.Wrap(err, "failed to submit score")
}

// Mock is a test Client
type Mock struct {
	AuthenticateFunc func(ctx context.Context) (Player, error)
	SubmitScoreFunc  func(ctx context.Context, score Score) error
	Player           Player
}

// Authenticate implements Client
func (m Mock) Authenticate(ctx context.Context) (Player, error) {
	if m.AuthenticateFunc == nil {
		return m.Player, nil
	}
	return m.AuthenticateFunc(ctx)
}

// LocalPlayer implements Client
func (m Mock) LocalPlayer() Player { return m.Player }

// SubmitScore implements Client
func (m Mock) SubmitScore(ctx context.Context, score Score) error {
	if m.SubmitScoreFunc == nil {
		return nil
	}
	return m.SubmitScoreFunc(ctx, score)
}

var (
	_ Client = &Live{}
	_ Client = Mock{}
)
