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

package apiclient_test

import (
	"context"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/oysterpack/isowords/pkg/apiclient"
	"github.com/oysterpack/isowords/pkg/eventlog/eventlogtest"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, server *httptest.Server, opts apiclient.Opts) *apiclient.Live {
	opts.BaseURL = server.URL
	opts.Timeout = 5 * time.Second
	opts.RetryWaitMin = time.Millisecond
	opts.RetryWaitMax = 5 * time.Millisecond
	client, err := apiclient.NewLive(opts, apiclient.SHA256)
	require.NoError(t, err)
	return client
}

func TestLive_ConfigRoute(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, http.MethodGet, req.Method)
		assert.Equal(t, "/api/config", req.URL.Path)
		assert.Equal(t, "42", req.URL.Query().Get("build"))
		assert.NotEmpty(t, req.Header.Get(apiclient.HeaderRequestID))
		assert.Empty(t, req.Header.Get(apiclient.HeaderSignature))
		_, _ = io.WriteString(w, `{"minimumSupportedAppVersion":40}`)
	}))
	defer server.Close()

	client := newClient(t, server, apiclient.Opts{})
	var config struct {
		MinimumSupportedAppVersion int `json:"minimumSupportedAppVersion"`
	}
	require.NoError(t, client.APIRequest(context.Background(), apiclient.ConfigRoute{Build: 42}, &config))
	assert.Equal(t, 40, config.MinimumSupportedAppVersion)
}

func TestLive_SignsRequestBody(t *testing.T) {
	var body []byte
	var signature string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		body, _ = io.ReadAll(req.Body)
		signature = req.Header.Get(apiclient.HeaderSignature)
		assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := newClient(t, server, apiclient.Opts{})
	_, err := client.Request(context.Background(), apiclient.PushTokenRoute{Token: "deadbeef", AuthorizationStatus: "authorized", Build: 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"token":"deadbeef","authorizationStatus":"authorized","build":1}`, string(body))
	assert.Equal(t, hex.EncodeToString(apiclient.SHA256(body)), signature)
}

func TestLive_Errors(t *testing.T) {
	t.Run("error status", func(t *testing.T) {
		log := eventlogtest.NewSyncLog()
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			http.Error(w, "unknown device", http.StatusUnauthorized)
		}))
		defer server.Close()

		client := newClient(t, server, apiclient.Opts{Logger: log.Logger()})
		_, err := client.Request(context.Background(), apiclient.AuthenticateRoute{DeviceID: uuid.New()})
		var apiErr *apiclient.Error
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
		assert.Equal(t, "unknown device", apiErr.Message)
		assert.Len(t, log.EventsNamed(apiclient.RequestFailed.String()), 1)
	})

	t.Run("retries server errors", func(t *testing.T) {
		var attempts int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if atomic.AddInt32(&attempts, 1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = io.WriteString(w, "[]")
		}))
		defer server.Close()

		client := newClient(t, server, apiclient.Opts{RetryMax: 3})
		data, err := client.Request(context.Background(), apiclient.ProductsRoute{IDs: []string{"full-game"}})
		require.NoError(t, err)
		assert.Equal(t, "[]", string(data))
		assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
	})

	t.Run("retries exhausted", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			http.Error(w, "down", http.StatusBadGateway)
		}))
		defer server.Close()

		client := newClient(t, server, apiclient.Opts{RetryMax: 1})
		_, err := client.Request(context.Background(), apiclient.ConfigRoute{Build: 1})
		var apiErr *apiclient.Error
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	})

	t.Run("invalid response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			_, _ = io.WriteString(w, "not json")
		}))
		defer server.Close()

		client := newClient(t, server, apiclient.Opts{})
		var out map[string]interface{}
		err := client.APIRequest(context.Background(), apiclient.ConfigRoute{Build: 1}, &out)
		var apiErr *apiclient.Error
		require.True(t, errors.As(err, &apiErr))
		assert.Zero(t, apiErr.StatusCode)
		assert.NotNil(t, apiErr.Cause())
	})

	t.Run("cancelled", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {}))
		defer server.Close()

		client := newClient(t, server, apiclient.Opts{})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := client.Request(ctx, apiclient.ConfigRoute{Build: 1})
		assert.True(t, errors.Is(err, context.Canceled))
	})
}

func TestLive_BaseURL(t *testing.T) {
	_, err := apiclient.NewLive(apiclient.Opts{BaseURL: "ftp://isowords.xyz"}, apiclient.SHA256)
	assert.Error(t, err)

	client, err := apiclient.NewLive(apiclient.Opts{BaseURL: "https://www.isowords.xyz"}, apiclient.SHA256)
	require.NoError(t, err)
	assert.Equal(t, "https://www.isowords.xyz", client.BaseURL())

	require.NoError(t, client.SetBaseURL("http://localhost:9876"))
	assert.Equal(t, "http://localhost:9876", client.BaseURL())
	assert.Error(t, client.SetBaseURL("localhost"))
	assert.Equal(t, "http://localhost:9876", client.BaseURL())
}

func TestOverride(t *testing.T) {
	base := &apiclient.Mock{BaseURLFunc: func() string { return "http://mock" }}
	client := apiclient.Override(base, func(route apiclient.Route) bool {
		_, ok := route.(apiclient.ConfigRoute)
		return ok
	}, map[string]int{"build": 7})

	var out map[string]int
	require.NoError(t, client.APIRequest(context.Background(), apiclient.ConfigRoute{}, &out))
	assert.Equal(t, 7, out["build"])

	_, err := client.Request(context.Background(), apiclient.ProductsRoute{})
	assert.Equal(t, apiclient.ErrUnimplemented, err)
	assert.Equal(t, "http://mock", client.BaseURL())
}
