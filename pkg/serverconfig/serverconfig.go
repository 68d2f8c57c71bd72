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

// Package serverconfig provides the server config capability, which is used to fetch feature flags and app settings
// from the API server.
package serverconfig

import (
	"context"
	"sync"
	"time"

	"github.com/oysterpack/isowords/pkg/apiclient"
	"github.com/oysterpack/isowords/pkg/build"
	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"
)

// ServerConfig is the config served by the API server
type ServerConfig struct {
	AppID               string              `json:"appId"`
	NewestBuild         int                 `json:"newestBuild"`
	ForceUpgradeVersion int                 `json:"forceUpgradeVersion"`
	EnableCubeShadow    bool                `json:"enableCubeShadow"`
	EnableGameCenter    bool                `json:"enableGameCenter"`
	ProductIdentifiers  ProductIdentifiers  `json:"productIdentifiers"`
	UpgradeInterstitial UpgradeInterstitial `json:"upgradeInterstitial"`
}

// ProductIdentifiers are the store product IDs
type ProductIdentifiers struct {
	FullGame string `json:"fullGame"`
}

// UpgradeInterstitial configures when the upgrade interstitial is shown
type UpgradeInterstitial struct {
	DailyPuzzleTriggerCount int `json:"dailyPuzzleTriggerCount"`
	// Duration is in seconds
	Duration                int `json:"duration"`
	PlayedGamesTriggerCount int `json:"playedGamesTriggerCount"`
}

// Default is used until the config is fetched from the server
func Default() ServerConfig {
	return ServerConfig{
		AppID:               "1528246952",
		EnableCubeShadow:    true,
		EnableGameCenter:    true,
		ProductIdentifiers:  ProductIdentifiers{FullGame: "co.pointfree.isowords_testing.full_game"},
		UpgradeInterstitial: UpgradeInterstitial{DailyPuzzleTriggerCount: 1, Duration: 10, PlayedGamesTriggerCount: 6},
	}
}

// Client is the server config capability
type Client interface {
	// Fetch fetches the config from the server
	Fetch(ctx context.Context) (ServerConfig, error)
	// Config returns the last fetched config, or the default config if none has been fetched
	Config() ServerConfig
}

// Live fetches the config for the current build from the API server
type Live struct {
	api   apiclient.Client
	build build.Build

	group singleflight.Group

	lock   sync.RWMutex
	config ServerConfig
}

// NewLive constructs the live client. The request always carries the build number reported by build.
func NewLive(api apiclient.Client, build build.Build) *Live {
	return &Live{
		api:    api,
		build:  build,
		config: Default(),
	}
}

// FetchTimeout bounds a shared fetch, which outlives the callers that are cancelled while it is in flight
const FetchTimeout = 30 * time.Second

// Fetch implements Client. Concurrent fetches are collapsed into a single request.
//
// Cancelling ctx only abandons this caller's wait: the request keeps running for the other callers that joined it.
func (c *Live) Fetch(ctx context.Context) (ServerConfig, error) {
	results := c.group.DoChan("fetch", func() (interface{}, error) {
		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), FetchTimeout)
		defer cancel()
		config := Default()
		if err := c.api.APIRequest(shared, apiclient.ConfigRoute{Build: c.build.Number()}, &config); err != nil {
			return nil, errors.Wrap(err, "failed to fetch server config")
		}
		c.lock.Lock()
		c.config = config
		c.lock.Unlock()
		return config, nil
	})
	select {
	case <-ctx.Done():
		return ServerConfig{}, errors.Wrap(ctx.Err(), "failed to fetch server config")
	case result := <-results:
		if result.Err != nil {
			return ServerConfig{}, result.Err
		}
		return result.Val.(ServerConfig), nil
	}
}

// Config implements Client
func (c *Live) Config() ServerConfig {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.config
}

// Mock is a test Client
type Mock struct {
	FetchFunc  func(ctx context.Context) (ServerConfig, error)
	ConfigFunc func() ServerConfig
}

// Fetch implements Client
func (m Mock) Fetch(ctx context.Context) (ServerConfig, error) {
	if m.FetchFunc == nil {
		return Default(), nil
	}
	return m.FetchFunc(ctx)
}

// Config implements Client
func (m Mock) Config() ServerConfig {
	if m.ConfigFunc == nil {
		return Default()
	}
	return m.ConfigFunc()
}

var (
	_ Client = &Live{}
	_ Client = Mock{}
)
