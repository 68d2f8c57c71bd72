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

// Package fileclient provides the filesystem capability, which is used to persist named documents, e.g., saved games.
package fileclient

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// ErrNotFound is returned when the named file does not exist
var ErrNotFound = errors.New("file not found")

// Client is the filesystem capability
type Client interface {
	Load(ctx context.Context, name string) ([]byte, error)
	Save(ctx context.Context, name string, data []byte) error
	Delete(ctx context.Context, name string) error
}

// LoadJSON loads the named file and decodes it into out
func LoadJSON(ctx context.Context, client Client, name string, out interface{}) error {
	data, err := client.Load(ctx, name)
	if err != nil {
		return err
	}
	return errors.Wrapf(json.Unmarshal(data, out), "failed to decode %q", name)
}

// SaveJSON encodes the value as JSON and saves it to the named file
func SaveJSON(ctx context.Context, client Client, name string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "failed to encode %q", name)
	}
	return client.Save(ctx, name, data)
}

// Live stores files under a root directory, which is created on first save
type Live struct {
	root string
}

// NewLive constructs a new Live client
func NewLive(root string) *Live {
	return &Live{root: root}
}

// Root returns the root directory
func (c *Live) Root() string {
	return c.root
}

func (c *Live) path(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", errors.Errorf("invalid file name: %q", name)
	}
	return filepath.Join(c.root, name), nil
}

// Load implements Client
func (c *Live) Load(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := c.path(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(ErrNotFound, name)
	}
	return data, errors.Wrapf(err, "failed to load %q", name)
}

// Save implements Client
func (c *Live) Save(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := c.path(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(c.root, 0o755); err != nil {
		return errors.Wrap(err, "failed to create documents directory")
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return errors.Wrapf(err, "failed to save %q", name)
	}
	return errors.Wrapf(os.Rename(tmp, path), "failed to save %q", name)
}

// Delete implements Client. Deleting a file that does not exist is not an error.
func (c *Live) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := c.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "failed to delete %q", name)
	}
	return nil
}

// Memory is an in memory Client used for tests
type Memory struct {
	lock  sync.Mutex
	files map[string][]byte
}

// NewMemory constructs an empty in memory Client
func NewMemory() *Memory {
	return &Memory{files: make(map[string][]byte)}
}

// Load implements Client
func (m *Memory) Load(_ context.Context, name string) ([]byte, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	data, ok := m.files[name]
	if !ok {
		return nil, errors.Wrap(ErrNotFound, name)
	}
	return append([]byte(nil), data...), nil
}

// Save implements Client
func (m *Memory) Save(_ context.Context, name string, data []byte) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.files[name] = append([]byte(nil), data...)
	return nil
}

// Delete implements Client
func (m *Memory) Delete(_ context.Context, name string) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	delete(m.files, name)
	return nil
}

var (
	_ Client = &Live{}
	_ Client = &Memory{}
)
