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

// Package database provides the local database capability, which records completed games and the words found.
//
// The live database is a SQLite file that is opened, and migrated, on first use.
package database

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"
	// registers the "sqlite" driver
	_ "modernc.org/sqlite"
)

// DriverName is the database/sql driver used by the live client
const DriverName = "sqlite"

// ErrClosed is returned when the database is used after it was closed without ever being opened
var ErrClosed = errors.New("database is closed")

// Game is a completed game
type Game struct {
	GameMode      string
	Language      string
	Score         int
	SecondsPlayed int
	CompletedAt   time.Time
	Words         []Word
}

// Word is a word found during a game
type Word struct {
	Word  string
	Score int
}

// Stats are the aggregated stats over all completed games
type Stats struct {
	GamesPlayed       int
	HighestScore      int
	SecondsPlayed     int
	WordsFound        int
	AverageWordLength float64
	LongestWord       string
}

// Client is the local database capability
type Client interface {
	Migrate(ctx context.Context) error
	SaveGame(ctx context.Context, game Game) error
	FetchStats(ctx context.Context) (Stats, error)
	// PlayedGamesCount returns the number of completed games for the specified game mode
	PlayedGamesCount(ctx context.Context, gameMode string) (int, error)
	// Ping verifies that the database is usable
	Ping(ctx context.Context) error
	Close() error
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS games (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		game_mode TEXT NOT NULL,
		language TEXT NOT NULL,
		score INTEGER NOT NULL,
		seconds_played INTEGER NOT NULL,
		completed_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS found_words (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		game_id INTEGER NOT NULL REFERENCES games(id),
		word TEXT NOT NULL,
		score INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS found_words_game_id ON found_words(game_id)`,
}

// Live is the live database client
type Live struct {
	path string
	open func() (*sql.DB, error)

	once sync.Once
	db   *sql.DB
	err  error
}

// NewLive constructs a database client for the SQLite file at the specified path. The file and its parent directory
// are created on first use.
func NewLive(path string) *Live {
	return &Live{
		path: path,
		open: func() (*sql.DB, error) {
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return nil, errors.Wrap(err, "failed to create database directory")
			}
			db, err := sql.Open(DriverName, path)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to open database: %s", path)
			}
			// SQLite serializes writes
			db.SetMaxOpenConns(1)
			return db, nil
		},
	}
}

// NewWithDB constructs a database client for an already opened database
func NewWithDB(db *sql.DB) *Live {
	return &Live{open: func() (*sql.DB, error) { return db, nil }}
}

// Path returns the SQLite file path
func (c *Live) Path() string {
	return c.path
}

func (c *Live) conn(ctx context.Context) (*sql.DB, error) {
	c.once.Do(func() {
		c.db, c.err = c.open()
		if c.err != nil {
			return
		}
		c.err = migrate(ctx, c.db)
	})
	return c.db, c.err
}

func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "database migration failed")
		}
	}
	return nil
}

// Migrate implements Client
func (c *Live) Migrate(ctx context.Context) error {
	_, err := c.conn(ctx)
	return err
}

// SaveGame implements Client
func (c *Live) SaveGame(ctx context.Context, game Game) (err error) {
	db, err := c.conn(ctx)
	if err != nil {
		return err
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO games (game_mode, language, score, seconds_played, completed_at) VALUES (?, ?, ?, ?, ?)`,
		game.GameMode, game.Language, game.Score, game.SecondsPlayed, game.CompletedAt.Unix(),
	)
	if err != nil {
		return errors.Wrap(err, "failed to insert game")
	}
	gameID, err := result.LastInsertId()
	if err != nil {
		return errors.Wrap(err, "failed to get game id")
	}
	for _, word := range game.Words {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO found_words (game_id, word, score) VALUES (?, ?, ?)`,
			gameID, word.Word, word.Score,
		); err != nil {
			return errors.Wrap(err, "failed to insert found word")
		}
	}
	return errors.Wrap(tx.Commit(), "failed to commit game")
}

// FetchStats implements Client
func (c *Live) FetchStats(ctx context.Context) (Stats, error) {
	var stats Stats
	db, err := c.conn(ctx)
	if err != nil {
		return stats, err
	}
	if err := db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(SUM(seconds_played), 0) FROM games`,
	).Scan(&stats.GamesPlayed, &stats.HighestScore, &stats.SecondsPlayed); err != nil {
		return stats, errors.Wrap(err, "failed to query game stats")
	}
	if err := db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(AVG(LENGTH(word)), 0) FROM found_words`,
	).Scan(&stats.WordsFound, &stats.AverageWordLength); err != nil {
		return stats, errors.Wrap(err, "failed to query word stats")
	}
	err = db.QueryRowContext(ctx,
		`SELECT word FROM found_words ORDER BY LENGTH(word) DESC, id ASC LIMIT 1`,
	).Scan(&stats.LongestWord)
	if err != nil && err != sql.ErrNoRows {
		return stats, errors.Wrap(err, "failed to query longest word")
	}
	return stats, nil
}

// PlayedGamesCount implements Client
func (c *Live) PlayedGamesCount(ctx context.Context, gameMode string) (int, error) {
	db, err := c.conn(ctx)
	if err != nil {
		return 0, err
	}
	var count int
	err = db.QueryRowContext(ctx, `SELECT COUNT(*) FROM games WHERE game_mode = ?`, gameMode).Scan(&count)
	return count, errors.Wrap(err, "failed to count played games")
}

// Ping implements Client. The database is opened and migrated, if it has not been yet.
func (c *Live) Ping(ctx context.Context) error {
	db, err := c.conn(ctx)
	if err != nil {
		return err
	}
	return errors.Wrap(db.PingContext(ctx), "database ping failed")
}

// Close implements Client. Closing a database that was never opened is a no-op.
func (c *Live) Close() error {
	c.once.Do(func() {
		c.err = ErrClosed
	})
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

var _ Client = &Live{}
