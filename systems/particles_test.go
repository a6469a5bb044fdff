package systems

import (
	"math"
	"math/rand"
	"testing"
)

func newTestPool(t *testing.T, capacity int) *ParticlePool {
	t.Helper()
	cfg := testConfig(t).Particles
	if capacity > 0 {
		cfg.Capacity = capacity
	}
	return NewParticlePool(cfg, rand.New(rand.NewSource(5)), 1280, 720)
}

func TestEmitBurstStaysNearOrigin(t *testing.T) {
	pool := newTestPool(t, 0)

	got := pool.Emit(100, 100, 50, DefaultEmitOptions())
	if got != 50 {
		t.Fatalf("emitted %d, want 50", got)
	}
	if pool.ActiveCount() != 50 {
		t.Fatalf("active count %d, want 50", pool.ActiveCount())
	}

	// Jitter is spread*0.3 in each axis.
	maxJitter := float64(DefaultEmitOptions().Spread) * 0.3
	for i := range pool.Particles() {
		p := &pool.Particles()[i]
		if !p.Active() {
			continue
		}
		dx := math.Abs(float64(p.X) - 100)
		dy := math.Abs(float64(p.Y) - 100)
		if dx > maxJitter+1e-3 || dy > maxJitter+1e-3 {
			t.Errorf("particle at (%f,%f) outside jitter box %f", p.X, p.Y, maxJitter)
		}
		if p.Life <= 0 || p.Life > DefaultEmitOptions().Life*1.01 {
			t.Errorf("particle life %f outside 70%%-100%% of base", p.Life)
		}
	}
}

func TestPoolBound(t *testing.T) {
	pool := newTestPool(t, 100)

	got := pool.Emit(50, 50, 300, DefaultEmitOptions())
	if got != 100 {
		t.Errorf("emitted %d, want capacity 100", got)
	}
	if pool.ActiveCount() != 100 {
		t.Errorf("active count %d, want 100", pool.ActiveCount())
	}
	if got := pool.Emit(50, 50, 10, DefaultEmitOptions()); got != 0 {
		t.Errorf("exhausted pool emitted %d, want 0", got)
	}
}

func TestPoolReuse(t *testing.T) {
	pool := newTestPool(t, 64)
	pool.Emit(200, 200, 64, DefaultEmitOptions())

	// Burn through all remaining life.
	for i := 0; i < 10; i++ {
		pool.Update(500, nil)
	}
	if pool.ActiveCount() != 0 {
		t.Fatalf("expected all particles expired, %d still active", pool.ActiveCount())
	}

	if got := pool.Emit(200, 200, 64, DefaultEmitOptions()); got != 64 {
		t.Errorf("released slots not reusable, emitted %d", got)
	}
}

func TestOpacityBounds(t *testing.T) {
	pool := newTestPool(t, 32)
	pool.Emit(300, 300, 32, DefaultEmitOptions())

	for tick := 0; tick < 400; tick++ {
		pool.Update(16, nil)
		for i := range pool.Particles() {
			p := &pool.Particles()[i]
			if !p.Active() {
				continue
			}
			if o := p.Opacity(); o < 0 || o > 1 {
				t.Fatalf("tick %d: opacity %f out of range", tick, o)
			}
		}
	}
}

func TestFreshParticleFullyOpaque(t *testing.T) {
	p := Particle{Life: 900, MaxLife: 900}
	if got := p.Opacity(); got != 1 {
		t.Errorf("full-life opacity = %f, want 1", got)
	}
	p.Life = 100 // under a third of max
	if got := p.Opacity(); got >= 1 || got <= 0 {
		t.Errorf("fading opacity = %f, want in (0,1)", got)
	}
}

func TestOffscreenCull(t *testing.T) {
	cfg := testConfig(t).Particles
	cfg.Capacity = 8
	pool := NewParticlePool(cfg, rand.New(rand.NewSource(1)), 200, 200)

	opts := DefaultEmitOptions()
	opts.Life = 60000
	pool.Emit(100, 100, 8, opts)

	// Gravity alone carries them past the bottom edge well before
	// their life runs out.
	for i := 0; i < 2000 && pool.ActiveCount() > 0; i++ {
		pool.Update(50, nil)
	}
	if pool.ActiveCount() != 0 {
		t.Errorf("%d particles survived off-screen", pool.ActiveCount())
	}
}

func TestClear(t *testing.T) {
	pool := newTestPool(t, 16)
	pool.Emit(10, 10, 16, DefaultEmitOptions())
	pool.Clear()
	if pool.ActiveCount() != 0 {
		t.Errorf("active count %d after Clear", pool.ActiveCount())
	}
	if got := pool.Emit(10, 10, 16, DefaultEmitOptions()); got != 16 {
		t.Errorf("emit after Clear returned %d", got)
	}
}
