package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/text2wind/systems"
)

// DrawParticles renders every active pool slot as a fading circle.
func DrawParticles(pool *systems.ParticlePool) {
	particles := pool.Particles()
	for i := range particles {
		p := &particles[i]
		if !p.Active() {
			continue
		}

		alpha := p.Opacity()
		if alpha <= 0 {
			continue
		}

		color := rl.Color{R: p.R, G: p.G, B: p.B, A: uint8(alpha * 255)}
		rl.DrawCircleV(rl.Vector2{X: p.X, Y: p.Y}, p.Size, color)
	}
}
