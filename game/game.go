// Package game wires the simulation together and drives the tick loop.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/text2wind/audio"
	"github.com/pthm-cable/text2wind/config"
	"github.com/pthm-cable/text2wind/memory"
	"github.com/pthm-cable/text2wind/renderer"
	"github.com/pthm-cable/text2wind/semantics"
	"github.com/pthm-cable/text2wind/systems"
	"github.com/pthm-cable/text2wind/telemetry"
	"github.com/pthm-cable/text2wind/ui"
)

// Options configures a game instance.
type Options struct {
	Seed           int64
	Headless       bool
	Mute           bool
	LogStats       bool
	StatsWindowSec float64
	OutputDir      string
	MemoryPath     string
	DictPath       string
}

// Game holds the complete simulation state. All mutation happens on the
// tick goroutine; each subsystem is the single writer of its own state.
type Game struct {
	cfg  *config.Config
	rng  *rand.Rand
	opts Options

	weather *systems.Weather
	wind    *systems.WindField
	pool    *systems.ParticlePool
	letters *systems.LetterEngine

	mem   *memory.Memory
	dict  *semantics.Dictionary
	sound *audio.Engine

	collector *telemetry.Collector
	output    *telemetry.OutputManager

	// Graphical-only
	letterR *renderer.LetterRenderer
	panel   *ui.WeatherPanel

	flash  float64 // lightning overlay strength, decays per tick
	tick   int32
	paused bool

	width, height float32
}

// NewGame creates a game instance. Only initialization can fail; once
// running, the simulation never halts.
func NewGame(opts Options) (*Game, error) {
	cfg := config.Cfg()

	g := &Game{
		cfg:    cfg,
		opts:   opts,
		rng:    rand.New(rand.NewSource(opts.Seed)),
		width:  cfg.Derived.ScreenW32,
		height: cfg.Derived.ScreenH32,
	}

	noise := systems.NewPerlinNoise(opts.Seed)
	g.weather = systems.NewWeather(cfg.Weather, g.rng)
	g.wind = systems.NewWindField(cfg.Wind, noise)
	g.pool = systems.NewParticlePool(cfg.Particles, g.rng, g.width, g.height)
	g.letters = systems.NewLetterEngine(cfg.Letters, g.rng, g.weather, g.wind, g.pool, g.width, g.height)

	dict, err := semantics.Load(opts.DictPath)
	if err != nil {
		return nil, fmt.Errorf("loading semantic dictionary: %w", err)
	}
	g.dict = dict
	g.letters.SetLookup(dict)

	memPath := opts.MemoryPath
	if memPath == "" {
		memPath = cfg.Memory.Path
	}
	g.mem = memory.New(memPath, cfg.Memory.SaveCap, cfg.Memory.LoadCap)
	if err := g.mem.Load(); err != nil {
		// A corrupt palimpsest is a fresh page, not a fatal error.
		slog.Warn("could not load memory", "path", memPath, "error", err)
	}
	g.letters.SetMemory(g.mem)

	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}
	g.collector = telemetry.NewCollector(statsWindow)
	g.letters.SetRecorder(g.collector)

	g.output, err = telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("initializing output: %w", err)
	}
	if err := g.output.WriteConfig(cfg); err != nil {
		slog.Warn("could not snapshot config", "error", err)
	}

	if !opts.Mute && !opts.Headless {
		sound, err := audio.NewEngine(cfg.Audio, g.rng)
		if err != nil {
			slog.Warn("audio unavailable, continuing silent", "error", err)
		}
		g.sound = sound
		g.letters.SetNotifier(sound)
	}

	g.letters.SetSpecialFunc(g.applySpecial)
	g.weather.SetThunderFunc(g.onThunder)

	if !opts.Headless {
		g.letterR = renderer.NewLetterRenderer(cfg.Letters.FontSize)
		g.letters.SetMeasurer(g.letterR)
		g.panel = ui.NewWeatherPanel(g.width-300, 20, 280)
	}

	slog.Info("simulation ready",
		"seed", opts.Seed,
		"dictionary_words", dict.Len(),
		"memory_traces", len(g.mem.Traces()),
		"pool_capacity", g.pool.Capacity(),
	)

	return g, nil
}

// Weather exposes the weather state for tools.
func (g *Game) Weather() *systems.Weather { return g.weather }

// Letters exposes the letter engine for tools.
func (g *Game) Letters() *systems.LetterEngine { return g.letters }

// Memory exposes the palimpsest for tools.
func (g *Game) Memory() *memory.Memory { return g.mem }

// Tick returns the current tick counter.
func (g *Game) Tick() int32 { return g.tick }

// Unload persists the palimpsest and releases resources.
func (g *Game) Unload() {
	if err := g.mem.Save(); err != nil {
		slog.Error("could not save memory", "error", err)
	}
	if err := g.output.Close(); err != nil {
		slog.Error("could not close output", "error", err)
	}
	if g.sound != nil {
		g.sound.Close()
	}
	slog.Info("session ended", "ticks", g.tick, "memory_traces", len(g.mem.Traces()))
}
