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

// Package dictionary provides the dictionary capability, which is used to validate the words that are played.
package dictionary

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/pkg/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	// registers the "sqlite" driver
	_ "modernc.org/sqlite"
)

// Language is a dictionary language code
type Language string

// supported languages
const (
	English Language = "en"
)

// MaxLookupResults is the max number of words returned by Lookup
const MaxLookupResults = 100

// ErrNotLoaded is returned when a dictionary is used before it is loaded
var ErrNotLoaded = errors.New("dictionary is not loaded")

// Client is the dictionary capability
type Client interface {
	// Load loads the dictionary for the language. It returns true if the dictionary is loaded.
	Load(ctx context.Context, lang Language) (bool, error)
	// Contains returns true if the word is in the loaded dictionary
	Contains(word string, lang Language) bool
	// Lookup returns the words that start with the prefix, in lexical order
	Lookup(prefix string, lang Language) []string
}

// Normalize maps a word to its dictionary form
func Normalize(word string) string {
	// a Caser is stateful and must not be shared across goroutines
	return cases.Upper(language.English).String(strings.TrimSpace(word))
}

// FileName returns the dictionary file name for the language
func FileName(lang Language) string {
	return fmt.Sprintf("Words.%s.sqlite3", lang)
}

// SQLite serves dictionaries from read only SQLite files named Words.<lang>.sqlite3 in a directory.
// Each file holds a single table: words(word TEXT PRIMARY KEY).
type SQLite struct {
	dir string

	lock sync.RWMutex
	dbs  map[Language]*sql.DB
}

// NewSQLite constructs a dictionary client for the dictionary files in the specified directory.
// Dictionaries are opened when loaded.
func NewSQLite(dir string) *SQLite {
	return &SQLite{dir: dir, dbs: make(map[Language]*sql.DB)}
}

// Load implements Client
func (d *SQLite) Load(ctx context.Context, lang Language) (bool, error) {
	d.lock.Lock()
	defer d.lock.Unlock()
	if _, ok := d.dbs[lang]; ok {
		return true, nil
	}

	path := filepath.Join(d.dir, FileName(lang))
	if _, err := os.Stat(path); err != nil {
		return false, errors.Wrapf(err, "dictionary not found: %s", path)
	}
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return false, errors.Wrapf(err, "failed to open dictionary: %s", path)
	}
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM words`).Scan(&count); err != nil {
		_ = db.Close()
		return false, errors.Wrapf(err, "invalid dictionary: %s", path)
	}
	d.dbs[lang] = db
	return true, nil
}

func (d *SQLite) db(lang Language) *sql.DB {
	d.lock.RLock()
	defer d.lock.RUnlock()
	return d.dbs[lang]
}

// Contains implements Client
func (d *SQLite) Contains(word string, lang Language) bool {
	db := d.db(lang)
	if db == nil {
		return false
	}
	var found int
	err := db.QueryRow(`SELECT 1 FROM words WHERE word = ?`, Normalize(word)).Scan(&found)
	return err == nil
}

// Lookup implements Client
func (d *SQLite) Lookup(prefix string, lang Language) []string {
	db := d.db(lang)
	if db == nil {
		return nil
	}
	prefix = Normalize(prefix)
	rows, err := db.Query(
		`SELECT word FROM words WHERE substr(word, 1, ?) = ? ORDER BY word LIMIT ?`,
		utf8.RuneCountInString(prefix), prefix, MaxLookupResults,
	)
	if err != nil {
		return nil
	}
	defer rows.Close()
	var words []string
	for rows.Next() {
		var word string
		if err := rows.Scan(&word); err != nil {
			return words
		}
		words = append(words, word)
	}
	return words
}

// Close closes the loaded dictionaries
func (d *SQLite) Close() error {
	d.lock.Lock()
	defer d.lock.Unlock()
	var err error
	for lang, db := range d.dbs {
		if e := db.Close(); e != nil && err == nil {
			err = e
		}
		delete(d.dbs, lang)
	}
	return err
}

// Memory is an in memory Client used for tests
type Memory struct {
	lock   sync.RWMutex
	words  map[Language][]string
	loaded map[Language]bool
}

// NewMemory constructs a dictionary from word lists
func NewMemory(words map[Language][]string) *Memory {
	normalized := make(map[Language][]string, len(words))
	for lang, list := range words {
		normalized[lang] = make([]string, 0, len(list))
		for _, word := range list {
			normalized[lang] = append(normalized[lang], Normalize(word))
		}
		sort.Strings(normalized[lang])
	}
	return &Memory{words: normalized, loaded: make(map[Language]bool)}
}

// Load implements Client
func (m *Memory) Load(_ context.Context, lang Language) (bool, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	if _, ok := m.words[lang]; !ok {
		return false, errors.Wrapf(ErrNotLoaded, "no words for language: %s", lang)
	}
	m.loaded[lang] = true
	return true, nil
}

// Contains implements Client
func (m *Memory) Contains(word string, lang Language) bool {
	m.lock.RLock()
	defer m.lock.RUnlock()
	if !m.loaded[lang] {
		return false
	}
	words := m.words[lang]
	word = Normalize(word)
	i := sort.SearchStrings(words, word)
	return i < len(words) && words[i] == word
}

// Lookup implements Client
func (m *Memory) Lookup(prefix string, lang Language) []string {
	m.lock.RLock()
	defer m.lock.RUnlock()
	if !m.loaded[lang] {
		return nil
	}
	prefix = Normalize(prefix)
	var result []string
	for _, word := range m.words[lang] {
		if strings.HasPrefix(word, prefix) {
			result = append(result, word)
			if len(result) == MaxLookupResults {
				break
			}
		}
	}
	return result
}

var (
	_ Client = &SQLite{}
	_ Client = &Memory{}
)
