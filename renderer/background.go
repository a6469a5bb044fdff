// Package renderer draws the simulation state with raylib.
package renderer

import (
	"math"

	"github.com/crazy3lf/colorconv"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// daylight returns 0 at night, 1 at midday.
func daylight(hour float64) float64 {
	d := math.Sin((hour - 6) / 12 * math.Pi)
	if d < 0 {
		return 0
	}
	return d
}

// SkyColors derives the vertical sky gradient from the hour of day and
// weather. Storm and fog desaturate and darken; luminosity push brightens.
func SkyColors(hour, fog, storm, lum float64) (rl.Color, rl.Color) {
	d := daylight(hour)

	// Paper-warm by day, deep blue night.
	topHue := 225 - 20*d
	topSat := clamp(0.55-0.35*d-fog/100*0.3, 0, 1)
	topVal := clamp(0.10+0.78*d-storm/100*0.35+lum*0.1, 0.04, 1)

	botHue := 225 - 35*d
	botSat := clamp(0.45-0.30*d-fog/100*0.3, 0, 1)
	botVal := clamp(0.16+0.80*d-storm/100*0.30+lum*0.1, 0.06, 1)

	top := hsv(topHue, topSat, topVal)
	bottom := hsv(botHue, botSat, botVal)
	return top, bottom
}

// DrawBackground fills the screen with the sky gradient.
func DrawBackground(width, height int32, hour, fog, storm, lum float64) {
	top, bottom := SkyColors(hour, fog, storm, lum)
	rl.DrawRectangleGradientV(0, 0, width, height, top, bottom)
}

// DrawFog overlays a translucent veil proportional to fog intensity.
func DrawFog(width, height int32, fog float64) {
	if fog <= 1 {
		return
	}
	alpha := clamp(fog/100*0.45, 0, 0.45)
	rl.DrawRectangle(0, 0, width, height, rl.Fade(rl.LightGray, float32(alpha)))
}

// DrawFlash overlays the lightning flash; strength decays in the tick loop.
func DrawFlash(width, height int32, strength float64) {
	if strength <= 0 {
		return
	}
	rl.DrawRectangle(0, 0, width, height, rl.Fade(rl.White, float32(clamp(strength*0.8, 0, 0.8))))
}

func hsv(h, s, v float64) rl.Color {
	r, g, b, err := colorconv.HSVToRGB(clamp(h, 0, 359.9), s, v)
	if err != nil {
		return rl.DarkGray
	}
	return rl.Color{R: r, G: g, B: b, A: 255}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
