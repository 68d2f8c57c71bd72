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

package apiclient

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/oysterpack/isowords/pkg/eventlog"
	"github.com/pkg/errors"
	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// request headers
const (
	HeaderRequestID = "X-Request-ID"
	HeaderSignature = "X-Isowords-Signature"
)

// Hasher is the content hashing capability used to sign request bodies
type Hasher func(data []byte) []byte

// SHA256 is the live Hasher
func SHA256(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:]
}

// Opts are used to configure the live client
type Opts struct {
	BaseURL string
	Timeout time.Duration

	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration

	// RateLimit is the max number of requests per second. Zero means no limit.
	RateLimit float64

	Logger *zerolog.Logger
}

// Live is the live network capability
type Live struct {
	http    *retryablehttp.Client
	limiter *rate.Limiter
	hash    Hasher

	lock    sync.RWMutex
	baseURL *url.URL

	logRequestFailed eventlog.ErrorLogger
}

// NewLive constructs the live client
func NewLive(opts Opts, hash Hasher) (*Live, error) {
	baseURL, err := parseBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	logger = eventlog.ForComponent(logger, "apiclient")

	client := retryablehttp.NewClient()
	client.Logger = leveledLogger{logger}
	client.RetryMax = opts.RetryMax
	if opts.RetryWaitMin > 0 {
		client.RetryWaitMin = opts.RetryWaitMin
	}
	if opts.RetryWaitMax > 0 {
		client.RetryWaitMax = opts.RetryWaitMax
	}
	client.HTTPClient.Timeout = opts.Timeout
	// the last response is returned when retries are exhausted, which is mapped to an *Error
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}

	return &Live{
		http:    client,
		limiter: rate.NewLimiter(limit, 1),
		hash:    hash,
		baseURL: baseURL,

		logRequestFailed: RequestFailed.NewErrorLogger(logger),
	}, nil
}

func parseBaseURL(baseURL string) (*url.URL, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid base URL: %q", baseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.Errorf("base URL scheme must be http or https: %q", baseURL)
	}
	if u.Host == "" {
		return nil, errors.Errorf("base URL host is required: %q", baseURL)
	}
	return u, nil
}

// BaseURL implements Client
func (c *Live) BaseURL() string {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.baseURL.String()
}

// SetBaseURL implements Client
func (c *Live) SetBaseURL(baseURL string) error {
	u, err := parseBaseURL(baseURL)
	if err != nil {
		return err
	}
	c.lock.Lock()
	c.baseURL = u
	c.lock.Unlock()
	return nil
}

// Request implements Client
func (c *Live) Request(ctx context.Context, route Route) ([]byte, error) {
	endpoint := route.Endpoint()
	fail := func(msg string, cause error) error {
		err := &Error{Method: endpoint.Method, Path: endpoint.Path, Message: msg, cause: cause}
		c.logRequestFailed(requestData{endpoint}, err, "API request failed")
		return err
	}

	var body []byte
	if endpoint.Body != nil {
		var err error
		body, err = json.Marshal(endpoint.Body)
		if err != nil {
			return nil, fail("failed to encode request body", err)
		}
	}

	var rawBody interface{}
	if body != nil {
		rawBody = body
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, endpoint.Method, c.url(endpoint), rawBody)
	if err != nil {
		return nil, fail("failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderRequestID, xid.New().String())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(HeaderSignature, hex.EncodeToString(c.hash(body)))
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fail("rate limited", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fail("request failed", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fail("failed to read response body", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		err := &Error{
			Method:     endpoint.Method,
			Path:       endpoint.Path,
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(data)),
		}
		c.logRequestFailed(requestData{endpoint}, err, "API request failed")
		return nil, err
	}
	return data, nil
}

// APIRequest implements Client
func (c *Live) APIRequest(ctx context.Context, route Route, out interface{}) error {
	data, err := c.Request(ctx, route)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		endpoint := route.Endpoint()
		return &Error{Method: endpoint.Method, Path: endpoint.Path, Message: "failed to decode response", cause: err}
	}
	return nil
}

func (c *Live) url(endpoint Endpoint) string {
	c.lock.RLock()
	u := *c.baseURL
	c.lock.RUnlock()

	u.Path = strings.TrimSuffix(u.Path, "/") + endpoint.Path
	if len(endpoint.Query) > 0 {
		u.RawQuery = endpoint.Query.Encode()
	}
	return u.String()
}

type requestData struct {
	Endpoint
}

func (d requestData) MarshalZerologObject(e *zerolog.Event) {
	e.Str("method", d.Method).Str("path", d.Path)
}

// leveledLogger adapts zerolog to retryablehttp.LeveledLogger
type leveledLogger struct {
	logger *zerolog.Logger
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error().Fields(keysAndValues).Msg(msg)
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn().Fields(keysAndValues).Msg(msg)
}

var _ retryablehttp.LeveledLogger = leveledLogger{}
var _ Client = &Live{}
