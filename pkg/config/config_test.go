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

package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/oysterpack/isowords/pkg/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_FromEnv(t *testing.T) {
	env := map[string]string{
		"ISOWORDS_BUNDLE_ID":    "xyz.example.Words",
		"ISOWORDS_APP_NAME":     "Words",
		"ISOWORDS_API_BASE_URL": "http://localhost:9876",
		"ISOWORDS_API_TIMEOUT":  "5s",
		"ISOWORDS_BUILD_NUMBER": "42",
		"ISOWORDS_LOG_LEVEL":    "debug",
	}
	for k, v := range env {
		require.NoError(t, os.Setenv(k, v))
	}
	defer func() {
		for k := range env {
			os.Unsetenv(k)
		}
	}()

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "xyz.example.Words", cfg.BundleID)
	assert.Equal(t, "Words", cfg.AppName)
	assert.Equal(t, "http://localhost:9876", cfg.APIBaseURL)
	assert.Equal(t, 5*time.Second, cfg.APITimeout)
	assert.Equal(t, 42, cfg.BuildNumber)
	assert.Equal(t, zerolog.DebugLevel, cfg.ZerologLevel())
}

func TestConfig_Validate(t *testing.T) {
	cfg := config.Default()
	cfg.BundleID = "Isowords"
	cfg.AppName = "../etc"
	cfg.APIBaseURL = "/relative"
	cfg.APITimeout = 0
	cfg.LogLevel = "chatty"

	err := cfg.Validate()
	require.Error(t, err)
	for _, field := range []string{"BundleID", "AppName", "APIBaseURL", "APITimeout", "chatty"} {
		assert.Contains(t, err.Error(), field)
	}
}
