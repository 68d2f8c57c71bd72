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

package database

import (
	"context"
)

// Mock is a test Client. Unset functions are no-ops that return zero values.
type Mock struct {
	MigrateFunc          func(ctx context.Context) error
	SaveGameFunc         func(ctx context.Context, game Game) error
	FetchStatsFunc       func(ctx context.Context) (Stats, error)
	PlayedGamesCountFunc func(ctx context.Context, gameMode string) (int, error)
	PingFunc             func(ctx context.Context) error
}

// Migrate implements Client
func (m Mock) Migrate(ctx context.Context) error {
	if m.MigrateFunc == nil {
		return nil
	}
	return m.MigrateFunc(ctx)
}

// SaveGame implements Client
func (m Mock) SaveGame(ctx context.Context, game Game) error {
	if m.SaveGameFunc == nil {
		return nil
	}
	return m.SaveGameFunc(ctx, game)
}

// FetchStats implements Client
func (m Mock) FetchStats(ctx context.Context) (Stats, error) {
	if m.FetchStatsFunc == nil {
		return Stats{}, nil
	}
	return m.FetchStatsFunc(ctx)
}

// PlayedGamesCount implements Client
func (m Mock) PlayedGamesCount(ctx context.Context, gameMode string) (int, error) {
	if m.PlayedGamesCountFunc == nil {
		return 0, nil
	}
	return m.PlayedGamesCountFunc(ctx, gameMode)
}

// Close implements Client
func (m Mock) Close() error { return nil }

// Ping implements Client
func (m Mock) Ping(ctx context.Context) error {
	if m.PingFunc == nil {
		return nil
	}
	return m.PingFunc(ctx)
}

var _ Client = Mock{}
