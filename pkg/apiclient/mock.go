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
	"encoding/json"

	"github.com/oysterpack/isowords/pkg/eventlog"
	"github.com/pkg/errors"
)

// RequestFailed is logged when an API request fails
const RequestFailed eventlog.Event = "01EJ6B0V5F6XK8Q6JZ4TTWQ3NM"

// ErrUnimplemented is returned by Mock operations that are not stubbed
var ErrUnimplemented = errors.New("apiclient: operation is not implemented")

// Mock is a test Client. Unset functions fail with ErrUnimplemented.
type Mock struct {
	RequestFunc    func(ctx context.Context, route Route) ([]byte, error)
	SetBaseURLFunc func(baseURL string) error
	BaseURLFunc    func() string
}

// Request implements Client
func (m *Mock) Request(ctx context.Context, route Route) ([]byte, error) {
	if m.RequestFunc == nil {
		return nil, ErrUnimplemented
	}
	return m.RequestFunc(ctx, route)
}

// APIRequest implements Client
func (m *Mock) APIRequest(ctx context.Context, route Route, out interface{}) error {
	data, err := m.Request(ctx, route)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// BaseURL implements Client
func (m *Mock) BaseURL() string {
	if m.BaseURLFunc == nil {
		return ""
	}
	return m.BaseURLFunc()
}

// SetBaseURL implements Client
func (m *Mock) SetBaseURL(baseURL string) error {
	if m.SetBaseURLFunc == nil {
		return ErrUnimplemented
	}
	return m.SetBaseURLFunc(baseURL)
}

// Override returns a Mock that responds to routes matching the predicate with the JSON encoded response, and
// delegates all other routes to the client.
func Override(client Client, match func(Route) bool, response interface{}) *Mock {
	return &Mock{
		RequestFunc: func(ctx context.Context, route Route) ([]byte, error) {
			if match(route) {
				return json.Marshal(response)
			}
			return client.Request(ctx, route)
		},
		BaseURLFunc:    client.BaseURL,
		SetBaseURLFunc: client.SetBaseURL,
	}
}

var _ Client = &Mock{}
