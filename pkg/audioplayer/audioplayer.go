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

// Package audioplayer provides the audio capability.
//
// Sound assets are resolved from an ordered list of asset bundles: each sound is loaded from the first bundle that
// holds it. This allows the app and app clip audio libraries to be composed into one player.
package audioplayer

import (
	"context"
	"io/fs"
	"sync"

	"github.com/oysterpack/isowords/pkg/eventlog"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Category is the sound category, which selects the global volume that applies
type Category uint8

// Category enum values
const (
	SoundEffect Category = iota
	Music
)

// Sound is a sound asset
type Sound struct {
	// Name is the asset file name within a bundle
	Name     string
	Category Category
}

// ErrNotLoaded is returned when a sound is played before it is loaded
var ErrNotLoaded = errors.New("sound is not loaded")

// Client is the audio capability
type Client interface {
	Load(ctx context.Context, sounds []Sound) error
	Play(sound Sound) error
	Loop(sound Sound) error
	Stop(sound Sound) error
	SetGlobalVolumeForMusic(volume float64)
	SetGlobalVolumeForSoundEffects(volume float64)
	// SecondaryAudioShouldBeSilencedHint returns true if another app is playing audio, in which case music is not
	// played
	SecondaryAudioShouldBeSilencedHint() bool
}

// Output renders audio
type Output interface {
	Play(name string, data []byte, volume float64, loop bool) error
	Stop(name string) error
	// OtherAudioPlaying returns true if audio from another source is playing
	OtherAudioPlaying() bool
}

// Live plays sounds loaded from asset bundles
type Live struct {
	output  Output
	bundles []fs.FS

	lock              sync.RWMutex
	loaded            map[string][]byte
	musicVolume       float64
	soundEffectVolume float64
}

// NewLive constructs a new Live player. No assets are read until Load is called.
func NewLive(output Output, bundles ...fs.FS) *Live {
	return &Live{
		output:            output,
		bundles:           bundles,
		loaded:            make(map[string][]byte),
		musicVolume:       1,
		soundEffectVolume: 1,
	}
}

// Load implements Client. All sounds that can be found are loaded. An error is returned for any sound that is not
// found in any bundle.
func (p *Live) Load(ctx context.Context, sounds []Sound) error {
	var missing []string
	for _, sound := range sounds {
		if err := ctx.Err(); err != nil {
			return err
		}
		p.lock.RLock()
		_, ok := p.loaded[sound.Name]
		p.lock.RUnlock()
		if ok {
			continue
		}
		data, err := p.find(sound.Name)
		if err != nil {
			missing = append(missing, sound.Name)
			continue
		}
		p.lock.Lock()
		p.loaded[sound.Name] = data
		p.lock.Unlock()
	}
	if len(missing) > 0 {
		return errors.Errorf("sounds not found in any bundle: %v", missing)
	}
	return nil
}

func (p *Live) find(name string) ([]byte, error) {
	for _, bundle := range p.bundles {
		data, err := fs.ReadFile(bundle, name)
		if err == nil {
			return data, nil
		}
	}
	return nil, errors.Wrap(fs.ErrNotExist, name)
}

func (p *Live) volume(category Category) float64 {
	if category == Music {
		return p.musicVolume
	}
	return p.soundEffectVolume
}

func (p *Live) play(sound Sound, loop bool) error {
	p.lock.RLock()
	data, ok := p.loaded[sound.Name]
	volume := p.volume(sound.Category)
	p.lock.RUnlock()
	if !ok {
		return errors.Wrap(ErrNotLoaded, sound.Name)
	}
	if sound.Category == Music && p.SecondaryAudioShouldBeSilencedHint() {
		return nil
	}
	return p.output.Play(sound.Name, data, volume, loop)
}

// Play implements Client
func (p *Live) Play(sound Sound) error {
	return p.play(sound, false)
}

// Loop implements Client
func (p *Live) Loop(sound Sound) error {
	return p.play(sound, true)
}

// Stop implements Client
func (p *Live) Stop(sound Sound) error {
	return p.output.Stop(sound.Name)
}

// SetGlobalVolumeForMusic implements Client
func (p *Live) SetGlobalVolumeForMusic(volume float64) {
	p.lock.Lock()
	p.musicVolume = clamp(volume)
	p.lock.Unlock()
}

// SetGlobalVolumeForSoundEffects implements Client
func (p *Live) SetGlobalVolumeForSoundEffects(volume float64) {
	p.lock.Lock()
	p.soundEffectVolume = clamp(volume)
	p.lock.Unlock()
}

// SecondaryAudioShouldBeSilencedHint implements Client
func (p *Live) SecondaryAudioShouldBeSilencedHint() bool {
	return p.output.OtherAudioPlaying()
}

func clamp(volume float64) float64 {
	switch {
	case volume < 0:
		return 0
	case volume > 1:
		return 1
	default:
		return volume
	}
}

// SoundPlayed is logged by LogOutput each time a sound is played
const SoundPlayed eventlog.Event = "01EJ6RZ4WB7N2K9F3X5Q8M1T6C"

// LogOutput renders audio as debug log events, which is what a headless host can do with sound
type LogOutput struct {
	log eventlog.Logger
}

// NewLogOutput constructs a new LogOutput
func NewLogOutput(logger *zerolog.Logger) *LogOutput {
	return &LogOutput{log: SoundPlayed.NewLogger(eventlog.ForComponent(logger, "audioplayer"), zerolog.DebugLevel)}
}

// Play implements Output
func (o *LogOutput) Play(name string, data []byte, volume float64, loop bool) error {
	o.log(eventlog.Fields{"sound": name, "size": len(data), "volume": volume, "loop": loop}, "sound played")
	return nil
}

// Stop implements Output
func (o *LogOutput) Stop(string) error { return nil }

// OtherAudioPlaying implements Output
func (o *LogOutput) OtherAudioPlaying() bool { return false }

var (
	_ Client = &Live{}
	_ Output = &LogOutput{}
)

// Noop is a Client that loads and plays nothing
type Noop struct{}

// Load implements Client
func (Noop) Load(context.Context, []Sound) error { return nil }

// Play implements Client
func (Noop) Play(Sound) error { return nil }

// Loop implements Client
func (Noop) Loop(Sound) error { return nil }

// Stop implements Client
func (Noop) Stop(Sound) error { return nil }

// SetGlobalVolumeForMusic implements Client
func (Noop) SetGlobalVolumeForMusic(float64) {}

// SetGlobalVolumeForSoundEffects implements Client
func (Noop) SetGlobalVolumeForSoundEffects(float64) {}

// SecondaryAudioShouldBeSilencedHint implements Client
func (Noop) SecondaryAudioShouldBeSilencedHint() bool { return false }

var _ Client = Noop{}
