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

package timezone

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLive(t *testing.T) {
	t.Setenv("TZ", "America/New_York")
	assert.Equal(t, "America/New_York", Live().String())

	t.Setenv("TZ", "Not/AZone")
	assert.Equal(t, time.Local, Live())

	os.Unsetenv("TZ")
	assert.Equal(t, time.Local, Live())
}

func TestFixed(t *testing.T) {
	assert.Equal(t, time.UTC, Fixed(time.UTC)())
}
