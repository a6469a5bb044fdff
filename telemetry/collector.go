// Package telemetry accumulates session statistics over fixed time windows.
package telemetry

import "gonum.org/v1/gonum/stat"

// WindowStats is one flushed statistics window, written as a CSV row.
type WindowStats struct {
	Tick            int32   `csv:"tick"`
	WindowSec       float64 `csv:"window_sec"`
	LettersBorn     int     `csv:"letters_born"`
	LettersEroded   int     `csv:"letters_eroded"`
	RainDeaths      int     `csv:"rain_deaths"`
	WordsRecognized int     `csv:"words_recognized"`
	ParticlesEmit   int     `csv:"particles_emitted"`
	ThunderStrikes  int     `csv:"thunder_strikes"`
	MeanLifetimeMs  float64 `csv:"mean_lifetime_ms"`
	StdLifetimeMs   float64 `csv:"std_lifetime_ms"`
	MeanWindSpeed   float64 `csv:"mean_wind_speed"`
	MaxWindSpeed    float64 `csv:"max_wind_speed"`
}

// Collector accumulates events within time windows and produces WindowStats.
// Implements the letter engine's Recorder.
type Collector struct {
	windowMs  float64
	elapsedMs float64

	lettersBorn     int
	lettersEroded   int
	rainDeaths      int
	wordsRecognized int
	particlesEmit   int
	thunderStrikes  int

	lifetimes  []float64
	windSpeeds []float64
}

// NewCollector creates a collector with the given window size in seconds.
func NewCollector(windowSec float64) *Collector {
	if windowSec <= 0 {
		windowSec = 30
	}
	return &Collector{windowMs: windowSec * 1000}
}

// RecordLetterBorn counts a letter birth.
func (c *Collector) RecordLetterBorn() {
	c.lettersBorn++
}

// RecordLetterEroded counts a terminal erosion with the letter's lived time.
func (c *Collector) RecordLetterEroded(lifetimeMs float64) {
	c.lettersEroded++
	c.lifetimes = append(c.lifetimes, lifetimeMs)
}

// RecordRainDeath counts a letter washed out by rain.
func (c *Collector) RecordRainDeath() {
	c.rainDeaths++
}

// RecordWordRecognized counts a recognized word.
func (c *Collector) RecordWordRecognized(word string) {
	c.wordsRecognized++
}

// RecordParticles counts emitted particles.
func (c *Collector) RecordParticles(n int) {
	c.particlesEmit += n
}

// RecordThunder counts a thunder strike.
func (c *Collector) RecordThunder() {
	c.thunderStrikes++
}

// Tick advances the window clock and samples the wind.
func (c *Collector) Tick(dtMs float64, windSpeed float64) {
	c.elapsedMs += dtMs
	c.windSpeeds = append(c.windSpeeds, windSpeed)
}

// ShouldFlush reports whether the current window is complete.
func (c *Collector) ShouldFlush() bool {
	return c.elapsedMs >= c.windowMs
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(tick int32) WindowStats {
	ws := WindowStats{
		Tick:            tick,
		WindowSec:       c.elapsedMs / 1000,
		LettersBorn:     c.lettersBorn,
		LettersEroded:   c.lettersEroded,
		RainDeaths:      c.rainDeaths,
		WordsRecognized: c.wordsRecognized,
		ParticlesEmit:   c.particlesEmit,
		ThunderStrikes:  c.thunderStrikes,
	}

	if len(c.lifetimes) > 0 {
		ws.MeanLifetimeMs = stat.Mean(c.lifetimes, nil)
		if len(c.lifetimes) > 1 {
			ws.StdLifetimeMs = stat.StdDev(c.lifetimes, nil)
		}
	}
	if len(c.windSpeeds) > 0 {
		ws.MeanWindSpeed = stat.Mean(c.windSpeeds, nil)
		for _, v := range c.windSpeeds {
			if v > ws.MaxWindSpeed {
				ws.MaxWindSpeed = v
			}
		}
	}

	*c = Collector{windowMs: c.windowMs, lifetimes: c.lifetimes[:0], windSpeeds: c.windSpeeds[:0]}
	return ws
}
