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

package serverconfig_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/oysterpack/isowords/pkg/apiclient"
	"github.com/oysterpack/isowords/pkg/build"
	"github.com/oysterpack/isowords/pkg/serverconfig"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLive_RequestsConfigForBuildNumber(t *testing.T) {
	for _, number := range []int{0, 1, 42, 1000} {
		var routes []apiclient.Route
		api := &apiclient.Mock{
			RequestFunc: func(ctx context.Context, route apiclient.Route) ([]byte, error) {
				routes = append(routes, route)
				return json.Marshal(serverconfig.ServerConfig{NewestBuild: 1000})
			},
		}
		b, err := build.New(number, "", "1.0.0")
		require.NoError(t, err)

		config, err := serverconfig.NewLive(api, b).Fetch(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1000, config.NewestBuild)

		require.Len(t, routes, 1)
		assert.Equal(t, apiclient.ConfigRoute{Build: number}, routes[0])
		endpoint := routes[0].Endpoint()
		assert.Equal(t, "/api/config", endpoint.Path)
		assert.Equal(t, http.MethodGet, endpoint.Method)
		assert.Equal(t, "build="+strconv.Itoa(number), endpoint.Query.Encode())
	}
}

func TestLive_Config(t *testing.T) {
	fail := true
	api := &apiclient.Mock{
		RequestFunc: func(ctx context.Context, route apiclient.Route) ([]byte, error) {
			if fail {
				return nil, &apiclient.Error{Method: http.MethodGet, Path: "/api/config", StatusCode: http.StatusServiceUnavailable}
			}
			return []byte(`{"enableGameCenter":false,"newestBuild":77}`), nil
		},
	}
	client := serverconfig.NewLive(api, build.Noop())
	assert.Equal(t, serverconfig.Default(), client.Config())

	_, err := client.Fetch(context.Background())
	var apiErr *apiclient.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, serverconfig.Default(), client.Config(), "failed fetch keeps the previous config")

	fail = false
	config, err := client.Fetch(context.Background())
	require.NoError(t, err)
	assert.False(t, config.EnableGameCenter)
	assert.Equal(t, 77, config.NewestBuild)
	assert.Equal(t, serverconfig.Default().AppID, config.AppID, "fields missing from the response keep their defaults")
	assert.Equal(t, config, client.Config())
}

func TestLive_CollapsesConcurrentFetches(t *testing.T) {
	var requests int32
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		atomic.AddInt32(&requests, 1)
		<-release
		_ = json.NewEncoder(w).Encode(serverconfig.Default())
	}))
	defer server.Close()

	api, err := apiclient.NewLive(apiclient.Opts{BaseURL: server.URL, Timeout: 5 * time.Second}, apiclient.SHA256)
	require.NoError(t, err)
	client := serverconfig.NewLive(api, build.Noop())

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := client.Fetch(context.Background())
			assert.NoError(t, err)
		}()
	}
	require.Eventually(t, func() bool { return atomic.LoadInt32(&requests) == 1 }, 5*time.Second, time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	assert.Equal(t, int32(1), atomic.LoadInt32(&requests))
}

func TestLive_CancelledCallerDoesNotFailJoinedFetch(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var requests int32
	api := &apiclient.Mock{
		RequestFunc: func(ctx context.Context, route apiclient.Route) ([]byte, error) {
			if atomic.AddInt32(&requests, 1) == 1 {
				close(started)
			}
			<-release
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return []byte(`{"newestBuild":99}`), nil
		},
	}
	client := serverconfig.NewLive(api, build.Noop())

	superseded, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := client.Fetch(superseded)
		first <- err
	}()
	<-started

	type result struct {
		config serverconfig.ServerConfig
		err    error
	}
	second := make(chan result, 1)
	go func() {
		config, err := client.Fetch(context.Background())
		second <- result{config, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancel()
	assert.True(t, errors.Is(<-first, context.Canceled))

	close(release)
	joined := <-second
	require.NoError(t, joined.err)
	assert.Equal(t, 99, joined.config.NewestBuild)
	assert.Equal(t, int32(1), atomic.LoadInt32(&requests))
}
