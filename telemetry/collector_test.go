package telemetry

import (
	"math"
	"testing"
)

func TestCollectorWindowFlush(t *testing.T) {
	c := NewCollector(1)

	c.Tick(500, 1.0)
	if c.ShouldFlush() {
		t.Error("flushed before the window elapsed")
	}
	c.Tick(600, 3.0)
	if !c.ShouldFlush() {
		t.Fatal("window elapsed without flush")
	}

	c.RecordLetterBorn()
	c.RecordLetterBorn()
	c.RecordLetterEroded(4000)
	c.RecordLetterEroded(6000)
	c.RecordRainDeath()
	c.RecordWordRecognized("lluvia")
	c.RecordParticles(24)
	c.RecordParticles(2)
	c.RecordThunder()

	ws := c.Flush(66)

	if ws.Tick != 66 {
		t.Errorf("tick = %d, want 66", ws.Tick)
	}
	if math.Abs(ws.WindowSec-1.1) > 1e-9 {
		t.Errorf("window = %f sec, want 1.1", ws.WindowSec)
	}
	if ws.LettersBorn != 2 || ws.LettersEroded != 2 || ws.RainDeaths != 1 {
		t.Errorf("counts = %d/%d/%d, want 2/2/1", ws.LettersBorn, ws.LettersEroded, ws.RainDeaths)
	}
	if ws.WordsRecognized != 1 || ws.ParticlesEmit != 26 || ws.ThunderStrikes != 1 {
		t.Errorf("counts = %d/%d/%d, want 1/26/1", ws.WordsRecognized, ws.ParticlesEmit, ws.ThunderStrikes)
	}
	if ws.MeanLifetimeMs != 5000 {
		t.Errorf("mean lifetime = %f, want 5000", ws.MeanLifetimeMs)
	}
	if ws.StdLifetimeMs <= 0 {
		t.Errorf("std lifetime = %f, want positive", ws.StdLifetimeMs)
	}
	if ws.MeanWindSpeed != 2.0 || ws.MaxWindSpeed != 3.0 {
		t.Errorf("wind = %f/%f, want 2/3", ws.MeanWindSpeed, ws.MaxWindSpeed)
	}
}

func TestCollectorResetsAfterFlush(t *testing.T) {
	c := NewCollector(1)
	c.Tick(1200, 2.0)
	c.RecordLetterBorn()
	c.Flush(1)

	if c.ShouldFlush() {
		t.Error("window clock not reset")
	}

	c.Tick(1100, 0.5)
	ws := c.Flush(2)
	if ws.LettersBorn != 0 {
		t.Errorf("letters born carried over: %d", ws.LettersBorn)
	}
	if ws.MeanLifetimeMs != 0 || ws.StdLifetimeMs != 0 {
		t.Errorf("lifetime stats carried over: %f/%f", ws.MeanLifetimeMs, ws.StdLifetimeMs)
	}
	if ws.MeanWindSpeed != 0.5 || ws.MaxWindSpeed != 0.5 {
		t.Errorf("wind stats = %f/%f, want 0.5/0.5", ws.MeanWindSpeed, ws.MaxWindSpeed)
	}
}

func TestSingleLifetimeHasNoStdDev(t *testing.T) {
	c := NewCollector(1)
	c.Tick(1000, 0)
	c.RecordLetterEroded(3000)
	ws := c.Flush(1)
	if ws.MeanLifetimeMs != 3000 {
		t.Errorf("mean = %f, want 3000", ws.MeanLifetimeMs)
	}
	if ws.StdLifetimeMs != 0 {
		t.Errorf("stddev of one sample = %f, want 0", ws.StdLifetimeMs)
	}
}

func TestZeroWindowDefaults(t *testing.T) {
	c := NewCollector(0)
	c.Tick(29000, 0)
	if c.ShouldFlush() {
		t.Error("default 30s window flushed at 29s")
	}
	c.Tick(1500, 0)
	if !c.ShouldFlush() {
		t.Error("default 30s window did not flush at 30.5s")
	}
}
