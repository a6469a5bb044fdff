// Package ui provides the runtime weather control panel.
package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/text2wind/systems"
)

// WeatherPanel renders sliders over the weather targets. It writes targets
// only; currents follow through the weather's own interpolation, and it runs
// on the tick goroutine so the single-writer rule holds.
type WeatherPanel struct {
	x, y    float32
	width   float32
	visible bool
}

// NewWeatherPanel creates a panel anchored at (x, y).
func NewWeatherPanel(x, y, width float32) *WeatherPanel {
	return &WeatherPanel{x: x, y: y, width: width}
}

// Toggle switches panel visibility.
func (p *WeatherPanel) Toggle() bool {
	p.visible = !p.visible
	return p.visible
}

// IsVisible returns whether the panel is shown.
func (p *WeatherPanel) IsVisible() bool {
	return p.visible
}

// slider definition table; hour override is handled separately because of
// its -1 sentinel.
var sliders = []struct {
	label  string
	param  systems.Param
	lo, hi float32
}{
	{"Wind", systems.ParamWind, 0, 100},
	{"Wind direction", systems.ParamWindDir, 0, 360},
	{"Rain", systems.ParamRain, 0, 100},
	{"Fog", systems.ParamFog, 0, 100},
	{"Storm", systems.ParamStorm, 0, 100},
	{"Snow", systems.ParamSnow, 0, 100},
	{"Temperature", systems.ParamTemperature, -10, 45},
}

// Draw renders the panel and applies slider changes to the weather targets.
func (p *WeatherPanel) Draw(weather *systems.Weather) {
	if !p.visible {
		return
	}

	const line = 46
	height := int32(len(sliders)+2)*line + 40
	rl.DrawRectangle(int32(p.x)-10, int32(p.y)-10, int32(p.width)+20, height, rl.Fade(rl.Black, 0.55))
	rl.DrawText("Atmosphere", int32(p.x), int32(p.y), 18, rl.RayWhite)

	y := p.y + 30
	for _, s := range sliders {
		rl.DrawText(s.label, int32(p.x), int32(y), 13, rl.LightGray)
		y += 16

		target := float32(weather.Target(s.param))
		next := gui.SliderBar(
			rl.Rectangle{X: p.x, Y: y, Width: p.width - 60, Height: 18},
			"", "",
			target, s.lo, s.hi,
		)
		rl.DrawText(fmt.Sprintf("%.0f", weather.Get(s.param)), int32(p.x+p.width-50), int32(y+2), 14, rl.RayWhite)
		if next != target {
			weather.Set(s.param, float64(next))
		}
		y += line - 16
	}

	// Hour override: leftmost position means "follow real time".
	rl.DrawText("Hour override (leftmost = real time)", int32(p.x), int32(y), 13, rl.LightGray)
	y += 16
	ov := float32(weather.Target(systems.ParamHourOverride))
	next := gui.SliderBar(
		rl.Rectangle{X: p.x, Y: y, Width: p.width - 60, Height: 18},
		"", "",
		ov, -1, 24,
	)
	if next != ov {
		if next < 0 {
			next = -1
		}
		weather.Set(systems.ParamHourOverride, float64(next))
	}
	rl.DrawText(fmt.Sprintf("%.1fh", weather.CurrentHour()), int32(p.x+p.width-50), int32(y+2), 14, rl.RayWhite)
}
