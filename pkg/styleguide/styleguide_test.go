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

package styleguide_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/oysterpack/isowords/pkg/eventlog/eventlogtest"
	"github.com/oysterpack/isowords/pkg/styleguide"
	"github.com/stretchr/testify/assert"
)

func TestRegistry_RegistersOnce(t *testing.T) {
	log := eventlogtest.NewSyncLog()
	fonts := fstest.MapFS{
		"Matter-Medium.otf":  {Data: []byte{1}},
		"Matter-Regular.ttf": {Data: []byte{2}},
		"LICENSE.txt":        {Data: []byte{3}},
	}
	registry := styleguide.NewRegistry(fonts, log.Logger())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			registry.RegisterFonts()
		}()
	}
	wg.Wait()

	assert.NoError(t, registry.Err())
	assert.Equal(t, []string{"Matter-Medium", "Matter-Regular"}, registry.Fonts())
	assert.Len(t, log.EventsNamed(styleguide.FontsRegistered.String()), 1)
}

func TestRegistry_MissingBundle(t *testing.T) {
	log := eventlogtest.NewSyncLog()
	registry := styleguide.NewRegistry(os.DirFS(filepath.Join(t.TempDir(), "Fonts")), log.Logger())
	registry.RegisterFonts()
	registry.RegisterFonts()
	assert.Error(t, registry.Err())
	assert.Empty(t, registry.Fonts())
	assert.Len(t, log.EventsNamed(styleguide.FontsRegistrationFailed.String()), 1)
}
