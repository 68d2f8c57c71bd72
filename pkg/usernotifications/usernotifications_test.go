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

package usernotifications_test

import (
	"context"
	"testing"
	"time"

	"github.com/oysterpack/isowords/pkg/platform"
	"github.com/oysterpack/isowords/pkg/usernotifications"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLive(t *testing.T) {
	host := platform.NewHost(platform.HostOpts{NotificationsAuthorized: true})
	client := usernotifications.NewLive(host.NotificationCenter())
	ctx := context.Background()

	settings, err := client.Settings(ctx)
	require.NoError(t, err)
	assert.False(t, settings.Determined)

	assert.Error(t, client.Add(ctx, usernotifications.Request{ID: "daily-challenge"}), "not authorized yet")

	_, err = client.RequestAuthorization(ctx, usernotifications.Options{})
	assert.Error(t, err)
	granted, err := client.RequestAuthorization(ctx, usernotifications.Options{Alert: true, Sound: true})
	require.NoError(t, err)
	assert.True(t, granted)

	assert.Error(t, client.Add(ctx, usernotifications.Request{}))
	require.NoError(t, client.Add(ctx, usernotifications.Request{ID: "daily-challenge", Title: "New puzzle", Trigger: time.Now().Add(time.Hour)}))
	require.NoError(t, client.Add(ctx, usernotifications.Request{ID: "reminder"}))
	pending := host.NotificationCenter().Pending()
	require.Len(t, pending, 2)
	assert.Equal(t, "reminder", pending[0].ID, "immediate notifications are triggered now")

	require.NoError(t, client.RemovePending(ctx, "daily-challenge", "reminder"))
	assert.Empty(t, host.NotificationCenter().Pending())
}

func TestLive_Denied(t *testing.T) {
	host := platform.NewHost(platform.HostOpts{})
	client := usernotifications.NewLive(host.NotificationCenter())
	granted, err := client.RequestAuthorization(context.Background(), usernotifications.Options{Alert: true})
	require.NoError(t, err)
	assert.False(t, granted)
	assert.Error(t, client.Add(context.Background(), usernotifications.Request{ID: "x"}))
}
