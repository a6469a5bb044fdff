package systems

import (
	"math"

	"github.com/pthm-cable/text2wind/config"
)

// WindField generates a 2D force field: a directional bias scaled by the
// weather's wind intensity plus coherent-noise turbulence. It carries no
// state of its own beyond the noise time accumulator; intensity and
// direction are resynced from the weather every tick.
type WindField struct {
	noise *PerlinNoise
	cfg   config.WindConfig

	time      float64
	intensity float64 // 0-100
	direction float64 // radians
}

// NewWindField creates a wind field over a shared noise source.
func NewWindField(cfg config.WindConfig, noise *PerlinNoise) *WindField {
	return &WindField{
		noise: noise,
		cfg:   cfg,
	}
}

// Update advances the noise time and resyncs wind parameters from weather.
// dt is in milliseconds.
func (w *WindField) Update(dt float64, weather *Weather) {
	w.time += dt * w.cfg.NoiseSpeed
	w.intensity = weather.Get(ParamWind)
	w.direction = weather.Get(ParamWindDir) * math.Pi / 180
}

// ForceAt returns the force vector at a point. The y turbulence samples an
// offset position so the two components decorrelate; turbulence amplitude is
// a fraction of the bias magnitude, so it perturbs the prevailing direction
// without dominating it.
func (w *WindField) ForceAt(x, y float32) (float32, float32) {
	bias := w.intensity / 100 * w.cfg.Strength
	turb := bias * w.cfg.TurbulenceRatio

	sx := float64(x) * w.cfg.NoiseScale
	sy := float64(y) * w.cfg.NoiseScale

	nx := w.noise.FBM3(sx, sy, w.time, w.cfg.Octaves, w.cfg.Lacunarity, w.cfg.Gain)
	ny := w.noise.FBM3(sx+137.3, sy+291.7, w.time, w.cfg.Octaves, w.cfg.Lacunarity, w.cfg.Gain)

	fx := math.Cos(w.direction)*bias + nx*turb
	fy := math.Sin(w.direction)*bias + ny*turb

	return float32(fx), float32(fy)
}

// SpeedAt returns the scalar wind speed at a point.
func (w *WindField) SpeedAt(x, y float32) float32 {
	fx, fy := w.ForceAt(x, y)
	return float32(math.Sqrt(float64(fx*fx + fy*fy)))
}

// Time returns the accumulated noise time. Exposed for diagnostics.
func (w *WindField) Time() float64 {
	return w.time
}
