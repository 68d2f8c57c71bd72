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

package fileclient_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/oysterpack/isowords/pkg/fileclient"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type savedGame struct {
	Score int      `json:"score"`
	Words []string `json:"words"`
}

func TestClients(t *testing.T) {
	clients := map[string]fileclient.Client{
		"live":   fileclient.NewLive(filepath.Join(t.TempDir(), "Documents")),
		"memory": fileclient.NewMemory(),
	}
	for name, client := range clients {
		client := client
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			_, err := client.Load(ctx, "saved-games")
			assert.True(t, errors.Is(err, fileclient.ErrNotFound))

			game := savedGame{Score: 1200, Words: []string{"CUBE", "WORD"}}
			require.NoError(t, fileclient.SaveJSON(ctx, client, "saved-games", game))

			var loaded savedGame
			require.NoError(t, fileclient.LoadJSON(ctx, client, "saved-games", &loaded))
			assert.Equal(t, game, loaded)

			require.NoError(t, client.Delete(ctx, "saved-games"))
			require.NoError(t, client.Delete(ctx, "saved-games"))
			_, err = client.Load(ctx, "saved-games")
			assert.True(t, errors.Is(err, fileclient.ErrNotFound))
		})
	}
}

func TestLive_InvalidNames(t *testing.T) {
	client := fileclient.NewLive(t.TempDir())
	for _, name := range []string{"", ".", "..", "../escape", "a/b"} {
		assert.Error(t, client.Save(context.Background(), name, []byte("x")), name)
	}
}

func TestLive_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := fileclient.NewLive(t.TempDir()).Load(ctx, "x")
	assert.Equal(t, context.Canceled, err)
}
