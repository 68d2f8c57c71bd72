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

package appenv

import (
	"os"
	"path/filepath"

	"github.com/oysterpack/isowords/pkg/config"
	"github.com/pkg/errors"
)

// ErrBaseDirectory is returned when the per user base directory cannot be resolved
var ErrBaseDirectory = errors.New("failed to resolve the application base directory")

// BaseDirectory resolves the per user directory that application files are stored under
type BaseDirectory func() (string, error)

// LiveBaseDirectory resolves the user config directory, e.g., $XDG_CONFIG_HOME or $HOME/.config on Linux
func LiveBaseDirectory() (string, error) {
	return os.UserConfigDir()
}

// Paths are the application file locations
type Paths struct {
	// Root is the application directory: ${BaseDirectory}/${BundleID}
	Root         string
	Database     string
	UserDefaults string
	Documents    string

	Dictionaries        string
	AppAudioLibrary     string
	AppClipAudioLibrary string
	Fonts               string
}

// NewPaths resolves the application file locations. No files or directories are created.
func NewPaths(cfg config.Config, baseDirectory BaseDirectory) (Paths, error) {
	base, err := baseDirectory()
	if err != nil {
		return Paths{}, errors.Wrapf(ErrBaseDirectory, "%v", err)
	}
	if base == "" {
		return Paths{}, errors.Wrap(ErrBaseDirectory, "base directory is blank")
	}
	root := filepath.Join(base, cfg.BundleID)
	return Paths{
		Root:         root,
		Database:     filepath.Join(root, cfg.AppName+".sqlite3"),
		UserDefaults: filepath.Join(root, "UserDefaults.yaml"),
		Documents:    filepath.Join(root, "Documents"),

		Dictionaries:        filepath.Join(cfg.ResourcesDir, "Dictionaries"),
		AppAudioLibrary:     filepath.Join(cfg.ResourcesDir, "AppAudioLibrary"),
		AppClipAudioLibrary: filepath.Join(cfg.ResourcesDir, "AppClipAudioLibrary"),
		Fonts:               filepath.Join(cfg.ResourcesDir, "Fonts"),
	}, nil
}
