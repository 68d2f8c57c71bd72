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

// Package appfeature is the root of the application's state, actions and reducer.
package appfeature

import (
	"context"

	"github.com/oysterpack/isowords/pkg/appdelegate"
	"github.com/oysterpack/isowords/pkg/appenv"
	"github.com/oysterpack/isowords/pkg/database"
	"github.com/oysterpack/isowords/pkg/gamecenter"
	"github.com/oysterpack/isowords/pkg/store"
)

// State is the root application state
type State struct {
	AppDelegate appdelegate.State
	Stats       database.Stats
	// LastGameErr is the failure message of the most recently completed game's save or score submission
	LastGameErr string
}

// NewState returns the initial application state
func NewState() State {
	return State{AppDelegate: appdelegate.NewState()}
}

// Action is a root application action. The set of actions is closed:
//   - AppDelegate
//   - GameCompleted
//   - GameSaved
//   - StatsLoaded
type Action interface {
	action()
}

// AppDelegate wraps the app delegate's lifecycle actions and effect responses
type AppDelegate struct {
	Event appdelegate.Event
}

// GameCompleted is sent when a game is over
type GameCompleted struct {
	Game database.Game
}

// GameSaved reports the outcome of saving a completed game
type GameSaved struct {
	Err error
}

// StatsLoaded carries the player stats fetched from the database
type StatsLoaded struct {
	Stats database.Stats
	Err   error
}

func (AppDelegate) action()   {}
func (GameCompleted) action() {}
func (GameSaved) action()     {}
func (StatsLoaded) action()   {}

// ActionName returns the wrapped event's name
func (a AppDelegate) ActionName() string {
	if named, ok := a.Event.(interface{ ActionName() string }); ok {
		return named.ActionName()
	}
	return store.ActionName(a.Event)
}

// Reduce is the root application reducer
func Reduce(state *State, action Action, env appenv.Environment) store.Effect[Action] {
	switch a := action.(type) {
	case AppDelegate:
		effect := store.Map(appdelegate.Reduce(&state.AppDelegate, a.Event, env), wrapAppDelegate)
		if migrated, ok := a.Event.(appdelegate.DatabaseMigrated); ok && migrated.Err == nil {
			return store.Merge(effect, fetchStats(env))
		}
		return effect
	case GameCompleted:
		return saveGame(env, a.Game, state.AppDelegate.Player, state.AppDelegate.ServerConfig.EnableGameCenter)
	case GameSaved:
		state.LastGameErr = ""
		if a.Err != nil {
			state.LastGameErr = a.Err.Error()
			return store.None[Action]()
		}
		return fetchStats(env)
	case StatsLoaded:
		if a.Err == nil {
			state.Stats = a.Stats
		}
	}
	return store.None[Action]()
}

func wrapAppDelegate(event appdelegate.Event) Action {
	return AppDelegate{Event: event}
}

func fetchStats(env appenv.Environment) store.Effect[Action] {
	return store.Task(env.BackgroundQueue, func(ctx context.Context) Action {
		stats, err := env.Database.FetchStats(ctx)
		return StatsLoaded{Stats: stats, Err: err}
	})
}

// saveGame saves the game, and then submits the score when the player is authenticated with game center
func saveGame(env appenv.Environment, game database.Game, player gamecenter.Player, gameCenterEnabled bool) store.Effect[Action] {
	return store.Task(env.BackgroundQueue, func(ctx context.Context) Action {
		if err := env.Database.SaveGame(ctx, game); err != nil {
			return GameSaved{Err: err}
		}
		if !gameCenterEnabled || !player.Authenticated {
			return GameSaved{}
		}
		words := make([]string, len(game.Words))
		for i, word := range game.Words {
			words[i] = word.Word
		}
		return GameSaved{Err: env.GameCenter.SubmitScore(ctx, gamecenter.Score{
			Leaderboard: game.GameMode,
			Language:    game.Language,
			Value:       game.Score,
			Words:       words,
		})}
	})
}
