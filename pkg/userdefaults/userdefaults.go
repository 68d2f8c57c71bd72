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

// Package userdefaults provides the persistent user settings capability.
package userdefaults

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Client is the user defaults capability. Getters return the zero value when the key is not set or holds a value of
// a different type.
type Client interface {
	Bool(key string) bool
	SetBool(key string, value bool) error
	Int(key string) int
	SetInt(key string, value int) error
	Float(key string) float64
	SetFloat(key string, value float64) error
	String(key string) string
	SetString(key string, value string) error
	Remove(key string) error
}

// Memory is an in memory Client. It is used as the test variant and as the cache for the live client.
type Memory struct {
	lock   sync.RWMutex
	values map[string]interface{}
	// persist is called with a copy of the values after each change
	persist func(values map[string]interface{}) error
}

// NewMemory constructs a new empty in memory Client
func NewMemory() *Memory {
	return &Memory{values: make(map[string]interface{})}
}

func (m *Memory) get(key string) interface{} {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.values[key]
}

func (m *Memory) set(key string, value interface{}) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	prev, exists := m.values[key]
	if value == nil {
		delete(m.values, key)
	} else {
		m.values[key] = value
	}
	if m.persist == nil {
		return nil
	}
	if err := m.persist(m.values); err != nil {
		if exists {
			m.values[key] = prev
		} else {
			delete(m.values, key)
		}
		return err
	}
	return nil
}

// Bool implements Client
func (m *Memory) Bool(key string) bool {
	v, _ := m.get(key).(bool)
	return v
}

// SetBool implements Client
func (m *Memory) SetBool(key string, value bool) error {
	return m.set(key, value)
}

// Int implements Client
func (m *Memory) Int(key string) int {
	switch v := m.get(key).(type) {
	case int:
		return v
	case int64:
		return int(v)
	default:
		return 0
	}
}

// SetInt implements Client
func (m *Memory) SetInt(key string, value int) error {
	return m.set(key, value)
}

// Float implements Client
func (m *Memory) Float(key string) float64 {
	switch v := m.get(key).(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 0
	}
}

// SetFloat implements Client
func (m *Memory) SetFloat(key string, value float64) error {
	return m.set(key, value)
}

// String implements Client
func (m *Memory) String(key string) string {
	v, _ := m.get(key).(string)
	return v
}

// SetString implements Client
func (m *Memory) SetString(key string, value string) error {
	return m.set(key, value)
}

// Remove implements Client
func (m *Memory) Remove(key string) error {
	return m.set(key, nil)
}

// Live persists the user defaults as a YAML file. The file is read on first access.
type Live struct {
	path string

	once   sync.Once
	memory *Memory
	err    error
}

// NewLive constructs the live client. No I/O is performed until the first access.
func NewLive(path string) *Live {
	return &Live{path: path}
}

// Path returns the YAML file path
func (l *Live) Path() string {
	return l.path
}

func (l *Live) load() (*Memory, error) {
	l.once.Do(func() {
		memory := NewMemory()
		data, err := os.ReadFile(l.path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			l.err = errors.Wrapf(err, "failed to read user defaults: %s", l.path)
		default:
			if err := yaml.Unmarshal(data, &memory.values); err != nil {
				l.err = errors.Wrapf(err, "failed to parse user defaults: %s", l.path)
			}
			if memory.values == nil {
				memory.values = make(map[string]interface{})
			}
		}
		memory.persist = l.save
		l.memory = memory
	})
	return l.memory, l.err
}

func (l *Live) save(values map[string]interface{}) error {
	data, err := yaml.Marshal(values)
	if err != nil {
		return errors.Wrap(err, "failed to encode user defaults")
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return errors.Wrap(err, "failed to create user defaults directory")
	}
	tmp := l.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return errors.Wrap(err, "failed to write user defaults")
	}
	return errors.Wrap(os.Rename(tmp, l.path), "failed to replace user defaults")
}

// an unreadable file is treated as empty, and is overwritten on the next write
func (l *Live) memoryOrEmpty() *Memory {
	memory, _ := l.load()
	return memory
}

// Bool implements Client
func (l *Live) Bool(key string) bool { return l.memoryOrEmpty().Bool(key) }

// SetBool implements Client
func (l *Live) SetBool(key string, value bool) error { return l.memoryOrEmpty().SetBool(key, value) }

// Int implements Client
func (l *Live) Int(key string) int { return l.memoryOrEmpty().Int(key) }

// SetInt implements Client
func (l *Live) SetInt(key string, value int) error { return l.memoryOrEmpty().SetInt(key, value) }

// Float implements Client
func (l *Live) Float(key string) float64 { return l.memoryOrEmpty().Float(key) }

// SetFloat implements Client
func (l *Live) SetFloat(key string, value float64) error { return l.memoryOrEmpty().SetFloat(key, value) }

// String implements Client
func (l *Live) String(key string) string { return l.memoryOrEmpty().String(key) }

// SetString implements Client
func (l *Live) SetString(key string, value string) error {
	return l.memoryOrEmpty().SetString(key, value)
}

// Remove implements Client
func (l *Live) Remove(key string) error { return l.memoryOrEmpty().Remove(key) }

// Err returns the error encountered while loading the file, if any
func (l *Live) Err() error {
	_, err := l.load()
	return err
}

var (
	_ Client = &Memory{}
	_ Client = &Live{}
)
