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

package appenv_test

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/oysterpack/isowords/pkg/appenv"
	"github.com/oysterpack/isowords/pkg/config"
	"github.com/oysterpack/isowords/pkg/database"
	"github.com/oysterpack/isowords/pkg/platform"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/multierr"
)

func baseDirectory(dir string) fx.Option {
	return fx.Replace(appenv.BaseDirectory(func() (string, error) { return dir, nil }))
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.LogLevel = "error"
	return cfg
}

func TestLive_AllCapabilitiesArePopulated(t *testing.T) {
	base := t.TempDir()
	env, stop, err := appenv.Live(testConfig(), platform.NewHost(platform.HostOpts{}), baseDirectory(base))
	require.NoError(t, err)
	defer stop(context.Background())
	require.NoError(t, env.Validate())

	v := reflect.ValueOf(env)
	for i := 0; i < v.NumField(); i++ {
		assert.False(t, v.Field(i).IsNil(), "Environment.%s", v.Type().Field(i).Name)
	}
	assert.Equal(t, 21, v.NumField())

	// composing the environment performs no file I/O
	_, err = os.Stat(filepath.Join(base, config.Default().BundleID))
	assert.True(t, os.IsNotExist(err))
}

func TestLive_ReturnsDistinctInstances(t *testing.T) {
	base := t.TempDir()
	host := platform.NewHost(platform.HostOpts{})
	env1, stop1, err := appenv.Live(testConfig(), host, baseDirectory(base))
	require.NoError(t, err)
	defer stop1(context.Background())
	env2, stop2, err := appenv.Live(testConfig(), host, baseDirectory(base))
	require.NoError(t, err)
	defer stop2(context.Background())
	require.NoError(t, env1.Validate())
	require.NoError(t, env2.Validate())

	assert.NotSame(t, env1.APIClient, env2.APIClient)
	assert.NotSame(t, env1.ServerConfig, env2.ServerConfig)
	assert.NotSame(t, env1.Database, env2.Database)
	assert.NotSame(t, env1.UserDefaults, env2.UserDefaults)
	assert.NotSame(t, env1.AudioPlayer, env2.AudioPlayer)
	assert.NotSame(t, env1.MainQueue, env2.MainQueue)
	assert.NotSame(t, env1.BackgroundQueue, env2.BackgroundQueue)
}

func TestLive_SharedMainExecutor(t *testing.T) {
	env, stop, err := appenv.Live(testConfig(), platform.NewHost(platform.HostOpts{}), baseDirectory(t.TempDir()))
	require.NoError(t, err)
	defer stop(context.Background())
	assert.Equal(t, "main", env.MainQueue.Name())
	assert.Equal(t, "mainRunLoop", env.MainRunLoop.Name())
	assert.Equal(t, "background", env.BackgroundQueue.Name())
}

func TestLive_StopReleasesResources(t *testing.T) {
	env, stop, err := appenv.Live(testConfig(), platform.NewHost(platform.HostOpts{}), baseDirectory(t.TempDir()))
	require.NoError(t, err)
	require.True(t, env.MainQueue.Schedule(func() {}))

	require.NoError(t, stop(context.Background()))
	assert.False(t, env.MainQueue.Schedule(func() {}), "*** main queue should be closed")
	assert.False(t, env.MainRunLoop.Schedule(func() {}), "*** main run loop shares the main queue")
}

func TestLive_BaseDirectoryFailure(t *testing.T) {
	_, _, err := appenv.Live(testConfig(), platform.NewHost(platform.HostOpts{}),
		fx.Replace(appenv.BaseDirectory(func() (string, error) { return "", errors.New("$HOME is not defined") })),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), appenv.ErrBaseDirectory.Error())
	assert.Contains(t, err.Error(), "$HOME is not defined")

	assert.Panics(t, func() {
		appenv.MustLive(testConfig(), platform.NewHost(platform.HostOpts{}),
			fx.Replace(appenv.BaseDirectory(func() (string, error) { return "", nil })),
		)
	})
}

func TestNewPaths(t *testing.T) {
	cfg := config.Default()
	cfg.ResourcesDir = "/opt/isowords/Resources"
	paths, err := appenv.NewPaths(cfg, func() (string, error) { return "/home/blob/.config", nil })
	require.NoError(t, err)
	assert.Equal(t, appenv.Paths{
		Root:                "/home/blob/.config/co.pointfree.Isowords",
		Database:            "/home/blob/.config/co.pointfree.Isowords/Isowords.sqlite3",
		UserDefaults:        "/home/blob/.config/co.pointfree.Isowords/UserDefaults.yaml",
		Documents:           "/home/blob/.config/co.pointfree.Isowords/Documents",
		Dictionaries:        "/opt/isowords/Resources/Dictionaries",
		AppAudioLibrary:     "/opt/isowords/Resources/AppAudioLibrary",
		AppClipAudioLibrary: "/opt/isowords/Resources/AppClipAudioLibrary",
		Fonts:               "/opt/isowords/Resources/Fonts",
	}, paths)

	_, err = appenv.NewPaths(cfg, func() (string, error) { return "", errors.New("no home") })
	assert.True(t, errors.Is(err, appenv.ErrBaseDirectory))
}

func TestEnvironment_Validate(t *testing.T) {
	err := appenv.Environment{}.Validate()
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 21)
	assert.Contains(t, err.Error(), "Environment.ServerConfig is required")
}

func TestDatabaseHealthCheck(t *testing.T) {
	failure := errors.New("database is locked")
	provided := appenv.DatabaseHealthCheck(database.Mock{
		PingFunc: func(context.Context) error { return failure },
	})
	assert.Equal(t, "database", provided.Registration.ID)
	assert.Equal(t, failure, provided.Registration.Checker(context.Background()))
}
