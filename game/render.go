package game

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/text2wind/renderer"
	"github.com/pthm-cable/text2wind/systems"
)

// Draw renders one frame. Render order: sky, palimpsest traces, particles,
// letters, atmosphere overlays, UI.
func (g *Game) Draw() {
	rl.BeginDrawing()

	hour := g.weather.CurrentHour()
	fog := g.weather.Get(systems.ParamFog)
	storm := g.weather.Get(systems.ParamStorm)
	lum := g.weather.Push(systems.AxisLuminosity)

	w := int32(g.cfg.Screen.Width)
	h := int32(g.cfg.Screen.Height)

	renderer.DrawBackground(w, h, hour, fog, storm, lum)

	mouse := rl.GetMousePosition()
	g.letterR.DrawTraces(g.mem, mouse.X, mouse.Y, float32(g.cfg.Memory.RevealRadius))

	renderer.DrawParticles(g.pool)

	inkR, inkG, inkB := g.letters.InkColor()
	g.letterR.Draw(g.letters.Letters(), inkR, inkG, inkB)

	penX, penY := g.letters.Pen()
	g.letterR.DrawPen(penX, penY, (g.tick/30)%2 == 0, inkR, inkG, inkB)

	renderer.DrawFog(w, h, fog)
	renderer.DrawFlash(w, h, g.flash)

	g.panel.Draw(g.weather)
	g.drawStatus(hour)

	rl.EndDrawing()
}

// drawStatus renders the one-line session readout.
func (g *Game) drawStatus(hour float64) {
	status := fmt.Sprintf("%02d:%02d  letters %d  particles %d  wind %.0f  rain %.0f",
		int(hour), int((hour-float64(int(hour)))*60),
		g.letters.Count(),
		g.pool.ActiveCount(),
		g.weather.Get(systems.ParamWind),
		g.weather.Get(systems.ParamRain),
	)
	rl.DrawText(status, 12, int32(g.cfg.Screen.Height)-24, 14, rl.Fade(rl.RayWhite, 0.6))

	if g.paused {
		rl.DrawText("PAUSED", 12, 12, 18, rl.Fade(rl.RayWhite, 0.8))
	}
}
