package systems

import (
	"math"
	"math/rand"
	"testing"
)

func newTestWind(t *testing.T, seed int64) (*WindField, *Weather) {
	t.Helper()
	cfg := testConfig(t)
	noise := NewPerlinNoise(seed)
	w := NewWeather(cfg.Weather, rand.New(rand.NewSource(seed)))
	return NewWindField(cfg.Wind, noise), w
}

func TestWindDeterminism(t *testing.T) {
	a, wa := newTestWind(t, 42)
	b, wb := newTestWind(t, 42)

	for i := 0; i < 60; i++ {
		wa.Update(16)
		wb.Update(16)
		a.Update(16, wa)
		b.Update(16, wb)
	}

	for _, p := range [][2]float32{{0, 0}, {320, 240}, {1279, 719}, {-50, 900}} {
		ax, ay := a.ForceAt(p[0], p[1])
		bx, by := b.ForceAt(p[0], p[1])
		if ax != bx || ay != by {
			t.Errorf("same seed diverged at (%f,%f): (%f,%f) vs (%f,%f)", p[0], p[1], ax, ay, bx, by)
		}
	}
}

func TestWindScalesWithIntensity(t *testing.T) {
	calm, wCalm := newTestWind(t, 9)
	strong, wStrong := newTestWind(t, 9)

	wCalm.Set(ParamWind, 0)
	wStrong.Set(ParamWind, 100)
	for i := 0; i < 3000; i++ {
		wCalm.Update(16)
		wStrong.Update(16)
	}
	calm.Update(16, wCalm)
	strong.Update(16, wStrong)

	avgCalm, avgStrong := 0.0, 0.0
	for x := float32(0); x < 1280; x += 160 {
		for y := float32(0); y < 720; y += 90 {
			avgCalm += float64(calm.SpeedAt(x, y))
			avgStrong += float64(strong.SpeedAt(x, y))
		}
	}

	if avgCalm >= avgStrong {
		t.Errorf("speed should grow with intensity: calm %f vs strong %f", avgCalm, avgStrong)
	}
	// Both bias and turbulence scale with intensity, so near-zero wind
	// means near-zero force everywhere.
	if avgCalm > 0.01*avgStrong {
		t.Errorf("calm field should be near zero, got %f (strong %f)", avgCalm, avgStrong)
	}
}

func TestSpeedAtIsForceMagnitude(t *testing.T) {
	w, weather := newTestWind(t, 3)
	weather.Set(ParamWind, 60)
	for i := 0; i < 500; i++ {
		weather.Update(16)
	}
	w.Update(16, weather)

	fx, fy := w.ForceAt(400, 300)
	want := math.Sqrt(float64(fx*fx + fy*fy))
	got := float64(w.SpeedAt(400, 300))
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("SpeedAt %f does not match force magnitude %f", got, want)
	}
}

func TestWindTimeAdvances(t *testing.T) {
	w, weather := newTestWind(t, 1)
	cfg := testConfig(t)

	w.Update(100, weather)
	w.Update(100, weather)
	want := 200 * cfg.Wind.NoiseSpeed
	if math.Abs(w.Time()-want) > 1e-12 {
		t.Errorf("noise time = %f, want %f", w.Time(), want)
	}
}

func TestFBMInUnitRange(t *testing.T) {
	noise := NewPerlinNoise(11)
	cfg := testConfig(t)
	for i := 0; i < 500; i++ {
		v := noise.FBM3(float64(i)*0.13, float64(i)*0.07, float64(i)*0.01,
			cfg.Wind.Octaves, cfg.Wind.Lacunarity, cfg.Wind.Gain)
		if v < -1.001 || v > 1.001 {
			t.Fatalf("FBM3 sample %d out of range: %f", i, v)
		}
	}
}
