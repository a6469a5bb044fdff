package systems

import (
	"math"
	"math/rand"
	"time"

	"github.com/pthm-cable/text2wind/config"
)

// Param identifies an environmental parameter.
type Param uint8

const (
	ParamWind Param = iota // wind intensity, 0-100
	ParamWindDir
	ParamRain
	ParamFog
	ParamTemperature
	ParamStorm
	ParamSnow
	ParamHourOverride // -1 = follow real time
	numParams
)

// Semantic push axes. These match the axis names used in the dictionary
// entries, so dictionary effects map onto the accumulator by key.
const (
	AxisTemperature = "temperature"
	AxisWind        = "wind_intensity"
	AxisStorm       = "storm"
	AxisRain        = "rain"
	AxisFog         = "fog"
	AxisLetterLife  = "letter_life"
	AxisSnow        = "snow"
	AxisHourShift   = "hour_shift"
	AxisLuminosity  = "luminosity"
	AxisHeatHaze    = "heat_haze"
)

// pushAxes is the full accumulator key set. Deltas for axes outside this set
// are ignored.
var pushAxes = []string{
	AxisTemperature, AxisWind, AxisStorm, AxisRain, AxisFog,
	AxisLetterLife, AxisSnow, AxisHourShift, AxisLuminosity, AxisHeatHaze,
}

// timeLapse tracks an active time-of-day interpolation.
type timeLapse struct {
	active   bool
	fromHour float64
	deltaH   float64
	progress float64
}

// Weather holds current and target environmental parameters. Targets move,
// currents follow: Set never snaps, modelling atmospheric inertia. A decaying
// semantic push accumulator nudges targets when words are recognized.
type Weather struct {
	current [numParams]float64
	target  [numParams]float64
	push    map[string]float64

	cfg   config.WeatherConfig
	rng   *rand.Rand
	now   func() time.Time
	lapse timeLapse

	// onThunder fires as a side effect of high storm. Never awaited.
	onThunder func(intensity float64)
}

// NewWeather creates a weather state with calm defaults.
func NewWeather(cfg config.WeatherConfig, rng *rand.Rand) *Weather {
	w := &Weather{
		cfg:  cfg,
		rng:  rng,
		now:  time.Now,
		push: make(map[string]float64, len(pushAxes)),
	}
	for _, axis := range pushAxes {
		w.push[axis] = 0
	}

	w.current[ParamWind] = 8
	w.target[ParamWind] = 8
	w.current[ParamWindDir] = 30
	w.target[ParamWindDir] = 30
	w.current[ParamTemperature] = 16
	w.target[ParamTemperature] = 16
	w.current[ParamHourOverride] = -1
	w.target[ParamHourOverride] = -1

	return w
}

// SetClock replaces the wall-clock source. Used by tests and time-lapse tools.
func (w *Weather) SetClock(now func() time.Time) {
	w.now = now
}

// SetThunderFunc registers the thunder side-effect callback.
func (w *Weather) SetThunderFunc(fn func(intensity float64)) {
	w.onThunder = fn
}

// Get returns the current interpolated value of a parameter, 0 for unknown.
func (w *Weather) Get(p Param) float64 {
	if p >= numParams {
		return 0
	}
	return w.current[p]
}

// Target returns the target value of a parameter, 0 for unknown.
func (w *Weather) Target(p Param) float64 {
	if p >= numParams {
		return 0
	}
	return w.target[p]
}

// Set sets a parameter target. The current value migrates toward it over
// subsequent ticks. Unknown parameters are silently ignored.
func (w *Weather) Set(p Param, v float64) {
	if p >= numParams {
		return
	}
	w.target[p] = v
}

// Push returns the semantic push accumulator value for an axis, 0 for unknown.
func (w *Weather) Push(axis string) float64 {
	return w.push[axis]
}

// paramRange returns the valid [lo, hi] range for a parameter.
func paramRange(p Param) (float64, float64) {
	switch p {
	case ParamTemperature:
		return -10, 45
	case ParamWindDir:
		return 0, 360
	case ParamHourOverride:
		return -1, 24
	default:
		return 0, 100
	}
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

// axisTargets maps semantic axes onto weather parameters with their
// per-axis contribution scales.
var axisTargets = []struct {
	axis  string
	param Param
	scale float64
}{
	{AxisRain, ParamRain, 20},
	{AxisWind, ParamWind, 15},
	{AxisStorm, ParamStorm, 20},
	{AxisFog, ParamFog, 25},
	{AxisSnow, ParamSnow, 20},
	{AxisTemperature, ParamTemperature, 5},
}

// ApplySemanticEffects folds recognized-word effect deltas into the push
// accumulator and recomputes weather targets. Deltas are dampened so repeated
// words build gradually; the accumulator itself is unbounded, but its effect
// on each target is clamped to the target's valid range.
func (w *Weather) ApplySemanticEffects(effects map[string]float64, word string) {
	if len(effects) == 0 {
		return
	}

	for axis, delta := range effects {
		if _, ok := w.push[axis]; !ok {
			continue
		}
		if !isFinite(delta) {
			continue
		}
		w.push[axis] += delta * w.cfg.PushGain
	}

	for _, at := range axisTargets {
		lo, hi := paramRange(at.param)
		w.target[at.param] = clamp(w.target[at.param]+w.push[at.axis]*at.scale, lo, hi)
	}
}

// TriggerTimeLapse begins a fixed-duration interpolation of the displayed
// hour from the current hour to current+hoursForward. While active,
// CurrentHour returns the interpolated value exclusively.
func (w *Weather) TriggerTimeLapse(hoursForward float64) {
	w.lapse = timeLapse{
		active:   true,
		fromHour: w.CurrentHour(),
		deltaH:   hoursForward,
		progress: 0,
	}
}

// TimeLapseActive reports whether an hour interpolation is running.
func (w *Weather) TimeLapseActive() bool {
	return w.lapse.active
}

// CurrentHour computes the displayed hour of day in [0, 24).
func (w *Weather) CurrentHour() float64 {
	if w.lapse.active {
		return wrapHour(w.lapse.fromHour + w.lapse.deltaH*w.lapse.progress)
	}

	t := w.now()
	hour := float64(t.Hour()) + float64(t.Minute())/60 + float64(t.Second())/3600

	if ov := w.current[ParamHourOverride]; ov >= 0 && ov <= 24 {
		hour = ov
	}

	hour += w.push[AxisHourShift] * w.cfg.HourShiftScale

	return wrapHour(hour)
}

func wrapHour(h float64) float64 {
	h = math.Mod(h, 24)
	if h < 0 {
		h += 24
	}
	return h
}

// Update advances interpolation, push decay, time-lapse progress, and the
// probabilistic thunder side effect. dt is in milliseconds.
func (w *Weather) Update(dt float64) {
	// Interpolate current toward target. hourOverride snaps: it is a discrete
	// mode switch, not a continuous quantity.
	rate := w.cfg.InterpRate * dt
	if rate > 1 {
		rate = 1
	}
	for p := Param(0); p < numParams; p++ {
		if p == ParamHourOverride {
			w.current[p] = w.target[p]
			continue
		}
		w.current[p] += (w.target[p] - w.current[p]) * rate
	}

	// Decay semantic push. Per-call rather than dt-scaled, matching the
	// observed behavior of the source; see DESIGN.md.
	for axis := range w.push {
		if axis == AxisHourShift {
			w.push[axis] *= w.cfg.HourPushDecay
		} else {
			w.push[axis] *= w.cfg.PushDecay
		}
	}

	// Advance time-lapse
	if w.lapse.active {
		w.lapse.progress += dt / w.cfg.TimeLapseMs
		if w.lapse.progress >= 1 {
			// Land on the target hour as an override so the shift sticks.
			w.target[ParamHourOverride] = wrapHour(w.lapse.fromHour + w.lapse.deltaH)
			w.lapse = timeLapse{}
		}
	}

	// Thunder side effect, probability proportional to storm * dt.
	storm := w.current[ParamStorm]
	if storm > w.cfg.ThunderThreshold && w.onThunder != nil {
		if w.rng.Float64() < storm*dt*w.cfg.ThunderRate {
			w.onThunder(storm / 100)
		}
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
