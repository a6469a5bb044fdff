package game

import (
	"log/slog"

	"github.com/pthm-cable/text2wind/systems"
)

// step runs a single tick. Order matters: weather first (wind reads its
// fresh values), then wind, then letters (reads both, spawns particles),
// then the pool (same-tick particle integration, rendered same tick).
// dt is in milliseconds, already clamped.
func (g *Game) step(dt float64) {
	g.weather.Update(dt)
	g.wind.Update(dt, g.weather)
	g.letters.Update(float32(dt))
	g.pool.Update(float32(dt), g.wind)

	if g.flash > 0 {
		g.flash -= dt / 280
		if g.flash < 0 {
			g.flash = 0
		}
	}

	g.collector.Tick(dt, float64(g.wind.SpeedAt(g.width/2, g.height/2)))
	if g.collector.ShouldFlush() {
		stats := g.collector.Flush(g.tick)
		if g.opts.LogStats {
			slog.Info("window",
				"tick", stats.Tick,
				"letters_born", stats.LettersBorn,
				"letters_eroded", stats.LettersEroded,
				"rain_deaths", stats.RainDeaths,
				"words", stats.WordsRecognized,
				"particles", stats.ParticlesEmit,
				"thunder", stats.ThunderStrikes,
				"mean_lifetime_ms", stats.MeanLifetimeMs,
				"mean_wind", stats.MeanWindSpeed,
			)
		}
		if err := g.output.WriteWindow(stats); err != nil {
			slog.Warn("could not write telemetry window", "error", err)
		}
	}

	g.tick++
}

// UpdateHeadless runs one fixed-dt tick without any raylib dependency.
func (g *Game) UpdateHeadless() {
	g.step(1000.0 / 60.0)
}

// onThunder is the weather's storm side effect.
func (g *Game) onThunder(intensity float64) {
	g.flash = intensity
	g.collector.RecordThunder()
	if g.sound != nil {
		g.sound.PlayThunder(intensity)
	}
}

// applySpecial dispatches a recognized word's special effect tag.
func (g *Game) applySpecial(tag string) {
	switch tag {
	case "erode_all":
		g.letters.ErodeAll()
	case "lightning":
		if g.weather.Target(systems.ParamStorm) < 60 {
			g.weather.Set(systems.ParamStorm, 60)
		}
		g.onThunder(0.8)
	case "gust":
		g.weather.Set(systems.ParamWind, 90)
		g.weather.Set(systems.ParamWindDir, float64(g.rng.Intn(360)))
	case "time_lapse":
		g.weather.TriggerTimeLapse(6)
	case "clear_sky":
		g.weather.Set(systems.ParamRain, 0)
		g.weather.Set(systems.ParamStorm, 0)
		g.weather.Set(systems.ParamFog, 5)
		g.weather.Set(systems.ParamSnow, 0)
		g.weather.Set(systems.ParamWind, 8)
	default:
		slog.Debug("unknown special effect", "tag", tag)
	}
}
