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

package platform

import (
	"sort"
	"sync"
	"time"
)

// NotificationSettings are the notification authorization settings
type NotificationSettings struct {
	Authorized bool
	// Determined is true once authorization has been requested
	Determined bool
}

// NotificationRequest is a local notification request
type NotificationRequest struct {
	ID    string
	Title string
	Body  string
	// Trigger is when the notification is delivered
	Trigger time.Time
}

// NotificationCenter schedules local notifications
type NotificationCenter struct {
	lock       sync.RWMutex
	authorized bool
	determined bool
	pending    map[string]NotificationRequest
}

func newNotificationCenter(authorized bool) *NotificationCenter {
	return &NotificationCenter{
		authorized: authorized,
		pending:    make(map[string]NotificationRequest),
	}
}

// Settings returns the current notification settings
func (c *NotificationCenter) Settings() NotificationSettings {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return NotificationSettings{Authorized: c.determined && c.authorized, Determined: c.determined}
}

// RequestAuthorization returns whether notifications are authorized
func (c *NotificationCenter) RequestAuthorization() bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.determined = true
	return c.authorized
}

// Add schedules the notification, replacing any pending notification with the same ID
func (c *NotificationCenter) Add(request NotificationRequest) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.pending[request.ID] = request
}

// RemovePending removes the pending notifications with the specified IDs
func (c *NotificationCenter) RemovePending(ids ...string) {
	c.lock.Lock()
	defer c.lock.Unlock()
	for _, id := range ids {
		delete(c.pending, id)
	}
}

// Pending returns the pending notifications ordered by trigger time
func (c *NotificationCenter) Pending() []NotificationRequest {
	c.lock.RLock()
	defer c.lock.RUnlock()
	requests := make([]NotificationRequest, 0, len(c.pending))
	for _, request := range c.pending {
		requests = append(requests, request)
	}
	sort.Slice(requests, func(i, j int) bool {
		if requests[i].Trigger.Equal(requests[j].Trigger) {
			return requests[i].ID < requests[j].ID
		}
		return requests[i].Trigger.Before(requests[j].Trigger)
	})
	return requests
}
