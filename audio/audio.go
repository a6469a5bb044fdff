// Package audio sonifies the simulation: short tones on letter birth, a low
// whisper on erosion, and thunder rumbles. The engine is optional; when the
// speaker fails to initialize every call degrades to a no-op and the visual
// simulation proceeds unaffected.
package audio

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/pthm-cable/text2wind/config"
)

// Engine plays simulation sounds. Implements the letter engine's Notifier.
type Engine struct {
	enabled    bool
	sampleRate beep.SampleRate
	volume     float64
	rng        *rand.Rand
}

// NewEngine initializes the speaker. A returned error means sound is
// unavailable; the engine is still safe to use and stays silent.
func NewEngine(cfg config.AudioConfig, rng *rand.Rand) (*Engine, error) {
	e := &Engine{
		sampleRate: beep.SampleRate(cfg.SampleRate),
		volume:     cfg.Volume,
		rng:        rng,
	}
	if !cfg.Enabled {
		return e, nil
	}
	if err := speaker.Init(e.sampleRate, e.sampleRate.N(time.Second/10)); err != nil {
		return e, fmt.Errorf("initializing speaker: %w", err)
	}
	e.enabled = true
	return e, nil
}

// Close shuts the speaker down.
func (e *Engine) Close() {
	if e.enabled {
		speaker.Close()
	}
}

// play wraps a streamer in a volume stage and hands it to the mixer.
func (e *Engine) play(s beep.Streamer) {
	if !e.enabled {
		return
	}
	vol := &effects.Volume{
		Streamer: s,
		Base:     2,
		Volume:   math.Log2(math.Max(e.volume, 0.01)),
		Silent:   e.volume <= 0,
	}
	speaker.Play(vol)
}

// OnLetterBirth plays a short tone pitched by the typed rune.
func (e *Engine) OnLetterBirth(char rune) {
	if !e.enabled {
		return
	}
	freq := 320 + float64(char%36)*22
	tone, err := generators.SineTone(e.sampleRate, freq)
	if err != nil {
		return
	}
	e.play(beep.Take(e.sampleRate.N(45*time.Millisecond), tone))
}

// OnLetterErosion plays a low fading whisper as a letter dissolves.
func (e *Engine) OnLetterErosion(char rune) {
	if !e.enabled {
		return
	}
	freq := 130 + float64(char%12)*9
	tone, err := generators.SineTone(e.sampleRate, freq)
	if err != nil {
		return
	}
	dur := e.sampleRate.N(140 * time.Millisecond)
	e.play(&fadeOut{Streamer: beep.Take(dur, tone), total: dur})
}

// PlayThunder plays a filtered-noise rumble scaled by storm intensity.
func (e *Engine) PlayThunder(intensity float64) {
	if !e.enabled {
		return
	}
	if intensity < 0.2 {
		intensity = 0.2
	}
	if intensity > 1 {
		intensity = 1
	}
	total := e.sampleRate.N(time.Duration(800+1400*intensity) * time.Millisecond)
	e.play(&rumble{
		total:     total,
		remaining: total,
		amp:       intensity,
		rng:       rand.New(rand.NewSource(e.rng.Int63())),
	})
}

// fadeOut applies a linear release over the whole streamer.
type fadeOut struct {
	beep.Streamer
	total  int
	played int
}

func (f *fadeOut) Stream(samples [][2]float64) (int, bool) {
	n, ok := f.Streamer.Stream(samples)
	for i := 0; i < n; i++ {
		v := 1 - float64(f.played+i)/float64(f.total)
		if v < 0 {
			v = 0
		}
		samples[i][0] *= v
		samples[i][1] *= v
	}
	f.played += n
	return n, ok
}

// rumble generates low-passed white noise with an exponential decay, the
// cheapest thing that reads as distant thunder.
type rumble struct {
	total     int
	remaining int
	amp       float64
	low       float64
	rng       *rand.Rand
}

func (r *rumble) Stream(samples [][2]float64) (int, bool) {
	if r.remaining <= 0 {
		return 0, false
	}
	n := len(samples)
	if n > r.remaining {
		n = r.remaining
	}
	for i := 0; i < n; i++ {
		white := r.rng.Float64()*2 - 1
		// One-pole low-pass keeps only the body of the noise.
		r.low += (white - r.low) * 0.045
		progress := 1 - float64(r.remaining-i)/float64(r.total)
		decay := math.Exp(-3.5 * progress)
		v := r.low * r.amp * decay * 4
		samples[i][0] = v
		samples[i][1] = v
	}
	r.remaining -= n
	return n, true
}

func (r *rumble) Err() error { return nil }
