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

// Package config loads the client configuration from the environment using https://github.com/kelseyhightower/envconfig.
//
// All settings are optional and have production defaults, e.g., ISOWORDS_API_BASE_URL, ISOWORDS_LOG_LEVEL.
package config

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/oysterpack/isowords/pkg/eventlog"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"go.uber.org/multierr"
)

// EnvPrefix is used as the environment variable name prefix to load configs from the env.
const EnvPrefix = "ISOWORDS"

var (
	// bundle ID constraints: reverse DNS notation, e.g., co.pointfree.Isowords
	bundleIDRegex = regexp.MustCompile(`^[[:alpha:]][a-zA-Z0-9-]*(\.[a-zA-Z0-9-]+)+$`)
	// app name constraints: used as a file name, thus must be alpha-numeric
	appNameRegex = regexp.MustCompile(`^[[:alpha:]][a-zA-Z0-9_-]{0,49}$`)
)

// Config is the client configuration
type Config struct {
	// BundleID is the application identifier, which is used to namespace the application files
	BundleID string `default:"co.pointfree.Isowords" split_words:"true"`
	// AppName is used to name application files, e.g., the database file is named ${AppName}.sqlite3
	AppName string `default:"Isowords" split_words:"true"`

	APIBaseURL     string        `default:"https://www.isowords.xyz" envconfig:"API_BASE_URL"`
	APITimeout     time.Duration `default:"30s" envconfig:"API_TIMEOUT"`
	APIRetryMax    int           `default:"3" envconfig:"API_RETRY_MAX"`
	APIRateLimit   float64       `default:"10" envconfig:"API_RATE_LIMIT"` // requests per second
	PushGatewayURL string        `default:"https://push.isowords.xyz/register" envconfig:"PUSH_GATEWAY_URL"`

	// ResourcesDir contains the bundled resources, i.e., audio libraries, fonts, and dictionaries
	ResourcesDir string `default:"./Resources" split_words:"true"`

	// BuildNumber overrides the build number linked into the binary - 0 means not overridden
	BuildNumber int `split_words:"true"`

	LowPowerModePollInterval time.Duration `default:"30s" split_words:"true"`
	// NotificationsAuthorized is used by the headless host to answer notification authorization requests
	NotificationsAuthorized bool `default:"true" split_words:"true"`

	LogLevel string `default:"info" split_words:"true"`
	// MetricsAddr is the listen address of the prometheus metrics HTTP server, e.g., ":5050" - blank disables it
	MetricsAddr string `split_words:"true"`
}

// Load loads the Config from the env and validates it
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return cfg, errors.Wrap(err, "failed to load config from env")
	}
	return cfg, cfg.Validate()
}

// Default returns the default Config, i.e., as if no env vars were set
func Default() Config {
	return Config{
		BundleID:                 "co.pointfree.Isowords",
		AppName:                  "Isowords",
		APIBaseURL:               "https://www.isowords.xyz",
		APITimeout:               30 * time.Second,
		APIRetryMax:              3,
		APIRateLimit:             10,
		PushGatewayURL:           "https://push.isowords.xyz/register",
		ResourcesDir:             "./Resources",
		LowPowerModePollInterval: 30 * time.Second,
		NotificationsAuthorized:  true,
		LogLevel:                 "info",
	}
}

// Validate checks that the config is valid
func (c Config) Validate() error {
	var err error
	if !bundleIDRegex.MatchString(c.BundleID) {
		err = multierr.Append(err, errors.Errorf("`BundleID` failed to match against regex: %q : %q", bundleIDRegex, c.BundleID))
	}
	if !appNameRegex.MatchString(c.AppName) {
		err = multierr.Append(err, errors.Errorf("`AppName` failed to match against regex: %q : %q", appNameRegex, c.AppName))
	}
	if u, e := url.Parse(c.APIBaseURL); e != nil || u.Scheme == "" || u.Host == "" {
		err = multierr.Append(err, errors.Errorf("`APIBaseURL` must be an absolute URL: %q", c.APIBaseURL))
	}
	if u, e := url.Parse(c.PushGatewayURL); e != nil || u.Scheme == "" || u.Host == "" {
		err = multierr.Append(err, errors.Errorf("`PushGatewayURL` must be an absolute URL: %q", c.PushGatewayURL))
	}
	if c.APITimeout <= 0 {
		err = multierr.Append(err, errors.New("`APITimeout` must be greater than zero"))
	}
	if c.APIRetryMax < 0 {
		err = multierr.Append(err, errors.New("`APIRetryMax` must not be negative"))
	}
	if c.APIRateLimit <= 0 {
		err = multierr.Append(err, errors.New("`APIRateLimit` must be greater than zero"))
	}
	if strings.TrimSpace(c.ResourcesDir) == "" {
		err = multierr.Append(err, errors.New("`ResourcesDir` must not be blank"))
	}
	if c.BuildNumber < 0 {
		err = multierr.Append(err, errors.New("`BuildNumber` must not be negative"))
	}
	if c.LowPowerModePollInterval < time.Second {
		err = multierr.Append(err, errors.New("`LowPowerModePollInterval` must be at least 1s"))
	}
	if _, e := eventlog.ParseLevel(c.LogLevel); e != nil {
		err = multierr.Append(err, e)
	}
	return err
}

// ZerologLevel returns the configured log level. Invalid levels map to zerolog.InfoLevel - see Validate().
func (c Config) ZerologLevel() zerolog.Level {
	level, err := eventlog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}
