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

// Package apiclient provides the network capability used to talk to the isowords API server.
package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Client is the network capability
type Client interface {
	// Request sends the route's request and returns the raw response body
	Request(ctx context.Context, route Route) ([]byte, error)
	// APIRequest sends the route's request and decodes the JSON response body into out
	APIRequest(ctx context.Context, route Route, out interface{}) error
	// BaseURL returns the API server base URL
	BaseURL() string
	// SetBaseURL is used to point the client at a different API server
	SetBaseURL(baseURL string) error
}

// Endpoint describes the HTTP request for a route
type Endpoint struct {
	Method string
	Path   string
	Query  url.Values
	// Body is JSON encoded, if not nil
	Body interface{}
}

// Route is an API server route
type Route interface {
	Endpoint() Endpoint
}

// ConfigRoute fetches the server config for the specified build number
type ConfigRoute struct {
	Build int
}

// Endpoint implements Route
func (r ConfigRoute) Endpoint() Endpoint {
	return Endpoint{
		Method: http.MethodGet,
		Path:   "/api/config",
		Query:  url.Values{"build": []string{strconv.Itoa(r.Build)}},
	}
}

// PushTokenRoute registers the device push token
type PushTokenRoute struct {
	Token               string `json:"token"`
	AuthorizationStatus string `json:"authorizationStatus"`
	Build               int    `json:"build"`
}

// Endpoint implements Route
func (r PushTokenRoute) Endpoint() Endpoint {
	return Endpoint{Method: http.MethodPost, Path: "/api/push-tokens", Body: r}
}

// AuthenticateRoute authenticates the device with the API server
type AuthenticateRoute struct {
	DeviceID                uuid.UUID `json:"deviceId"`
	DisplayName             string    `json:"displayName,omitempty"`
	GameCenterLocalPlayerID string    `json:"gameCenterLocalPlayerId,omitempty"`
}

// Endpoint implements Route
func (r AuthenticateRoute) Endpoint() Endpoint {
	return Endpoint{Method: http.MethodPost, Path: "/api/authenticate", Body: r}
}

// LeaderboardScoreRoute submits a score to the leaderboard
type LeaderboardScoreRoute struct {
	DeviceID    uuid.UUID `json:"deviceId"`
	Leaderboard string    `json:"leaderboard"`
	Language    string    `json:"language"`
	Score       int       `json:"score"`
	Words       []string  `json:"words,omitempty"`
}

// Endpoint implements Route
func (r LeaderboardScoreRoute) Endpoint() Endpoint {
	return Endpoint{Method: http.MethodPost, Path: "/api/leaderboard-scores", Body: r}
}

// ProductsRoute fetches the products with the specified IDs
type ProductsRoute struct {
	IDs []string
}

// Endpoint implements Route
func (r ProductsRoute) Endpoint() Endpoint {
	return Endpoint{
		Method: http.MethodGet,
		Path:   "/api/products",
		Query:  url.Values{"ids": []string{strings.Join(r.IDs, ",")}},
	}
}

// PurchaseRoute purchases a product
type PurchaseRoute struct {
	DeviceID  uuid.UUID `json:"deviceId"`
	ProductID string    `json:"productId"`
}

// Endpoint implements Route
func (r PurchaseRoute) Endpoint() Endpoint {
	return Endpoint{Method: http.MethodPost, Path: "/api/purchases", Body: r}
}

// Error is returned for failed API requests
type Error struct {
	Method string
	Path   string
	// StatusCode is 0 when no response was received
	StatusCode int
	Message    string

	cause error
}

func (e *Error) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("%s %s failed: %d : %s", e.Method, e.Path, e.StatusCode, e.Message)
	case e.cause != nil:
		return fmt.Sprintf("%s %s failed: %s : %v", e.Method, e.Path, e.Message, e.cause)
	default:
		return fmt.Sprintf("%s %s failed: %s", e.Method, e.Path, e.Message)
	}
}

// Cause returns the underlying cause, which may be nil
func (e *Error) Cause() error {
	return e.cause
}

// Unwrap supports errors.Is and errors.As
func (e *Error) Unwrap() error {
	return e.cause
}
