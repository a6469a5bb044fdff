package game

import (
	"path/filepath"
	"testing"

	"github.com/pthm-cable/text2wind/config"
	"github.com/pthm-cable/text2wind/systems"
)

func newHeadlessGame(t *testing.T) *Game {
	t.Helper()
	config.MustInit("")

	dir := t.TempDir()
	g, err := NewGame(Options{
		Seed:       99,
		Headless:   true,
		Mute:       true,
		OutputDir:  dir,
		MemoryPath: filepath.Join(dir, "memory.json"),
	})
	if err != nil {
		t.Fatalf("creating headless game: %v", err)
	}
	t.Cleanup(g.Unload)
	return g
}

func TestHeadlessSessionRuns(t *testing.T) {
	g := newHeadlessGame(t)

	g.Letters().Paste("el viento escribe\n")
	for i := 0; i < 600; i++ {
		g.UpdateHeadless()
	}

	if g.Tick() != 600 {
		t.Errorf("tick = %d, want 600", g.Tick())
	}
}

func TestTypedWordMovesWeather(t *testing.T) {
	g := newHeadlessGame(t)

	g.Letters().Paste("lluvia ")

	if got := g.Weather().Target(systems.ParamRain); got <= 0 {
		t.Errorf("rain target %f after recognized word, want positive", got)
	}

	for i := 0; i < 300; i++ {
		g.UpdateHeadless()
	}
	if got := g.Weather().Get(systems.ParamRain); got <= 0 {
		t.Errorf("current rain %f did not follow the target", got)
	}
}

func TestSpecialWordTriggersTimeLapse(t *testing.T) {
	g := newHeadlessGame(t)

	g.Letters().Paste("tiempo ")
	if !g.Weather().TimeLapseActive() {
		t.Error("tiempo should start a time lapse")
	}
}

func TestErodeAllSpecial(t *testing.T) {
	g := newHeadlessGame(t)

	g.Letters().Paste("algo escrito aqui")
	before := g.Letters().Count()
	if before == 0 {
		t.Fatal("no letters placed")
	}

	g.Letters().Paste(" olvido ")
	eroding := 0
	for _, l := range g.Letters().Letters() {
		if l.Phase == systems.PhaseErosion {
			eroding++
		}
	}
	if eroding == 0 {
		t.Error("olvido should cascade erosion over the page")
	}
}

func TestMemoryPersistsAcrossSessions(t *testing.T) {
	config.MustInit("")
	dir := t.TempDir()
	memPath := filepath.Join(dir, "memory.json")

	g, err := NewGame(Options{Seed: 7, Headless: true, Mute: true, MemoryPath: memPath})
	if err != nil {
		t.Fatal(err)
	}
	g.Letters().Paste("ab")
	g.Letters().ErodeAll()
	// Erosion runs about two seconds; give it room to finish.
	for i := 0; i < 400; i++ {
		g.UpdateHeadless()
	}
	if g.Letters().Count() != 0 {
		t.Fatal("letters did not finish eroding")
	}
	g.Unload()

	g2, err := NewGame(Options{Seed: 8, Headless: true, Mute: true, MemoryPath: memPath})
	if err != nil {
		t.Fatal(err)
	}
	defer g2.Unload()
	if got := len(g2.Memory().Traces()); got != 2 {
		t.Errorf("second session loaded %d traces, want 2", got)
	}
}
