package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Update handles input and advances the simulation one frame.
func (g *Game) Update() {
	g.handleInput()

	if g.paused {
		return
	}

	dt := float64(rl.GetFrameTime()) * 1000
	if dt > g.cfg.Derived.MaxDT {
		dt = g.cfg.Derived.MaxDT
	}
	g.step(dt)
}

// handleInput feeds typed runes into the letter engine and services the
// control keys. The mouse is the preserving light.
func (g *Game) handleInput() {
	for r := rl.GetCharPressed(); r > 0; r = rl.GetCharPressed() {
		g.letters.Type(r)
	}

	if rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeyKpEnter) {
		g.letters.Type('\n')
	}
	if rl.IsKeyPressed(rl.KeyBackspace) || rl.IsKeyPressedRepeat(rl.KeyBackspace) {
		g.letters.Backspace()
	}

	mouse := rl.GetMousePosition()
	g.letters.SetCursor(mouse.X, mouse.Y)

	if rl.IsKeyPressed(rl.KeyTab) {
		g.panel.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyF9) {
		g.paused = !g.paused
	}
}
