// Package audio provides beep-backed playback for sound source elements.
// An Engine owns the speaker and a shared mixer; Players implement the
// runtime's AudioPlayer capability and are attached to scene nodes by the
// host.
package audio

import (
	"bytes"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
)

const sampleRate = beep.SampleRate(48000)

// Engine owns the speaker and mixes all players. One Engine per process.
type Engine struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

// NewEngine creates an engine. Call Init before creating players.
func NewEngine() *Engine {
	return &Engine{mixer: &beep.Mixer{}}
}

// Init opens the speaker and starts the mixer.
func (e *Engine) Init() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100)); err != nil {
		return fmt.Errorf("audio: speaker init: %w", err)
	}
	speaker.Play(e.mixer)
	e.initialized = true
	return nil
}

// Close silences the mixer. The speaker itself stays open; beep provides no
// close.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized {
		return
	}
	speaker.Lock()
	e.mixer.Clear()
	speaker.Unlock()
	e.initialized = false
}

// Player is a loopable sound with linear volume control. It satisfies the
// runtime's AudioPlayer capability.
type Player struct {
	engine *Engine

	mu      sync.Mutex
	source  func() beep.Streamer
	ctrl    *beep.Ctrl
	volume  *effects.Volume
	linear  float64
	playing bool
}

// NewWAVPlayer decodes a WAV asset into a looping player.
func (e *Engine) NewWAVPlayer(data []byte) (*Player, error) {
	streamer, format, err := wav.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("audio: decode wav: %w", err)
	}
	buf := beep.NewBuffer(format)
	buf.Append(streamer)
	streamer.Close()
	return e.newPlayer(func() beep.Streamer {
		return beep.Loop(-1, buf.Streamer(0, buf.Len()))
	}), nil
}

// NewTonePlayer builds a player over a generated sine hum, for bundles that
// ship no audio assets.
func (e *Engine) NewTonePlayer(freq float64) *Player {
	return e.newPlayer(func() beep.Streamer {
		return &toneGenerator{sr: sampleRate, freq: freq}
	})
}

func (e *Engine) newPlayer(source func() beep.Streamer) *Player {
	return &Player{engine: e, source: source, linear: 1}
}

// SetVolume sets linear playback volume in [0, 1].
func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.linear = math.Max(0, math.Min(1, v))
	if p.volume == nil {
		return
	}
	speaker.Lock()
	p.applyVolume()
	speaker.Unlock()
}

// applyVolume maps the linear level onto beep's exponential volume. Callers
// hold the speaker lock.
func (p *Player) applyVolume() {
	if p.linear <= 0 {
		p.volume.Silent = true
		return
	}
	p.volume.Silent = false
	p.volume.Volume = math.Log2(p.linear)
}

// Play starts looping playback from the beginning.
func (p *Player) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.playing {
		return
	}
	p.ctrl = &beep.Ctrl{Streamer: p.source()}
	p.volume = &effects.Volume{Streamer: p.ctrl, Base: 2}
	p.applyVolume()
	speaker.Lock()
	p.engine.mixer.Add(p.volume)
	speaker.Unlock()
	p.playing = true
}

// Stop pauses playback.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.playing {
		return
	}
	speaker.Lock()
	p.ctrl.Paused = true
	speaker.Unlock()
	p.playing = false
}

// IsPlaying reports whether the player is currently audible.
func (p *Player) IsPlaying() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// NullPlayer tracks play state without producing sound, for headless hosts.
type NullPlayer struct {
	volume  float64
	playing bool
}

func (n *NullPlayer) SetVolume(v float64) { n.volume = v }

func (n *NullPlayer) Play() { n.playing = true }

func (n *NullPlayer) Stop() { n.playing = false }

func (n *NullPlayer) IsPlaying() bool { return n.playing }

// Volume returns the last set linear volume.
func (n *NullPlayer) Volume() float64 { return n.volume }

// toneGenerator streams an endless sine tone.
type toneGenerator struct {
	sr   beep.SampleRate
	freq float64
	pos  int
}

func (g *toneGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		sample := 0.2 * math.Sin(2*math.Pi*g.freq*t)
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *toneGenerator) Err() error {
	return nil
}
