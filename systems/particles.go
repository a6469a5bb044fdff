package systems

import (
	"math/rand"

	"github.com/pthm-cable/text2wind/config"
)

// ParticleKind identifies the visual role of a particle. Cosmetic only.
type ParticleKind uint8

const (
	ParticleInk ParticleKind = iota
	ParticlePuff
	ParticleGrass
	ParticleRainSplash
)

// Particle is one pooled fragment. Inactive slots are reused, never
// reallocated.
type Particle struct {
	X, Y       float32
	VelX, VelY float32
	Life       float32 // remaining, ms
	MaxLife    float32
	Size       float32
	R, G, B    uint8
	Kind       ParticleKind
	active     bool
}

// Active reports whether the slot is in use.
func (p *Particle) Active() bool {
	return p.active
}

// Opacity derives the particle's opacity from its life ratio: fully opaque
// for the first two-thirds of life, fading only in the final third.
func (p *Particle) Opacity() float32 {
	if p.MaxLife <= 0 {
		return 0
	}
	o := p.Life / p.MaxLife * 3
	if o > 1 {
		return 1
	}
	if o < 0 {
		return 0
	}
	return o
}

// EmitOptions configures a burst. Zero fields fall back to defaults.
type EmitOptions struct {
	Spread        float32 // Position jitter and velocity range
	VelocityScale float32
	Life          float32 // Base life in ms, randomized ±30%
	SizeMin       float32
	SizeMax       float32
	R, G, B       uint8
	Kind          ParticleKind
}

// DefaultEmitOptions returns the baseline burst configuration.
func DefaultEmitOptions() EmitOptions {
	return EmitOptions{
		Spread:        30,
		VelocityScale: 0.04,
		Life:          1600,
		SizeMin:       1,
		SizeMax:       3,
		R:             40, G: 40, B: 40,
		Kind: ParticleInk,
	}
}

// ParticlePool is a fixed-capacity reusable particle buffer. Emit never
// allocates beyond capacity; free slots are tracked in an index stack so
// emission cost does not scale with pool size.
type ParticlePool struct {
	particles []Particle
	free      []int32
	active    int

	cfg           config.ParticlesConfig
	rng           *rand.Rand
	width, height float32
}

// NewParticlePool pre-allocates all slots inactive.
func NewParticlePool(cfg config.ParticlesConfig, rng *rand.Rand, width, height float32) *ParticlePool {
	pool := &ParticlePool{
		particles: make([]Particle, cfg.Capacity),
		free:      make([]int32, cfg.Capacity),
		cfg:       cfg,
		rng:       rng,
		width:     width,
		height:    height,
	}
	for i := range pool.free {
		pool.free[i] = int32(cfg.Capacity - 1 - i)
	}
	return pool
}

// Emit activates up to count particles around (x, y). Returns the number
// actually emitted; fewer than requested when the pool is exhausted, which
// callers may ignore.
func (pool *ParticlePool) Emit(x, y float32, count int, opts EmitOptions) int {
	def := DefaultEmitOptions()
	if opts.Spread == 0 {
		opts.Spread = def.Spread
	}
	if opts.VelocityScale == 0 {
		opts.VelocityScale = def.VelocityScale
	}
	if opts.Life <= 0 {
		opts.Life = def.Life
	}
	if opts.SizeMax <= 0 {
		opts.SizeMin, opts.SizeMax = def.SizeMin, def.SizeMax
	}
	if opts.SizeMin > opts.SizeMax {
		opts.SizeMin = opts.SizeMax
	}

	emitted := 0
	for emitted < count && len(pool.free) > 0 {
		idx := pool.free[len(pool.free)-1]
		pool.free = pool.free[:len(pool.free)-1]

		p := &pool.particles[idx]
		life := opts.Life * (0.7 + pool.rng.Float32()*0.6)

		*p = Particle{
			X:       x + (pool.rng.Float32()-0.5)*2*opts.Spread*0.3,
			Y:       y + (pool.rng.Float32()-0.5)*2*opts.Spread*0.3,
			VelX:    (pool.rng.Float32() - 0.5) * 2 * opts.Spread * opts.VelocityScale,
			VelY:    (pool.rng.Float32() - 0.5) * 2 * opts.Spread * opts.VelocityScale,
			Life:    life,
			MaxLife: life,
			Size:    opts.SizeMin + pool.rng.Float32()*(opts.SizeMax-opts.SizeMin),
			R:       opts.R, G: opts.G, B: opts.B,
			Kind:   opts.Kind,
			active: true,
		}
		pool.active++
		emitted++
	}
	return emitted
}

// Update ages, moves, and culls active particles. Off-screen particles are
// released here as well, keeping a single deactivation point. dt is in
// milliseconds.
func (pool *ParticlePool) Update(dt float32, wind *WindField) {
	gravity := float32(pool.cfg.Gravity)
	damping := float32(pool.cfg.Damping)
	coupling := float32(pool.cfg.WindCoupling)
	shrink := float32(pool.cfg.ShrinkRate)
	margin := float32(pool.cfg.CullMargin)

	for i := range pool.particles {
		p := &pool.particles[i]
		if !p.active {
			continue
		}

		p.Life -= dt
		if p.Life <= 0 {
			pool.release(int32(i))
			continue
		}

		if wind != nil {
			fx, fy := wind.ForceAt(p.X, p.Y)
			p.VelX += fx * coupling * dt
			p.VelY += fy * coupling * dt
		}

		p.VelY += gravity * dt
		p.VelX *= damping
		p.VelY *= damping

		p.X += p.VelX * dt
		p.Y += p.VelY * dt

		p.Size -= shrink * dt
		if p.Size < 0.2 {
			p.Size = 0.2
		}

		if p.X < -margin || p.X > pool.width+margin || p.Y < -margin || p.Y > pool.height+margin {
			pool.release(int32(i))
		}
	}
}

func (pool *ParticlePool) release(idx int32) {
	pool.particles[idx].active = false
	pool.free = append(pool.free, idx)
	pool.active--
}

// ActiveCount returns the number of active particles.
func (pool *ParticlePool) ActiveCount() int {
	return pool.active
}

// Capacity returns the fixed pool size.
func (pool *ParticlePool) Capacity() int {
	return len(pool.particles)
}

// Particles exposes the raw slot buffer for rendering. Callers must check
// Active and must not retain the slice across ticks.
func (pool *ParticlePool) Particles() []Particle {
	return pool.particles
}

// Clear releases every active particle.
func (pool *ParticlePool) Clear() {
	for i := range pool.particles {
		if pool.particles[i].active {
			pool.release(int32(i))
		}
	}
}
