package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/text2wind/memory"
	"github.com/pthm-cable/text2wind/systems"
)

// LetterRenderer draws letters and memory traces, and measures glyph
// advances for the engine's writing position arithmetic.
type LetterRenderer struct {
	font     rl.Font
	fontSize float32
	spacing  float32

	advances map[rune]float32
}

// NewLetterRenderer uses the raylib default font at the given size.
func NewLetterRenderer(fontSize float64) *LetterRenderer {
	return &LetterRenderer{
		font:     rl.GetFontDefault(),
		fontSize: float32(fontSize),
		spacing:  2,
		advances: make(map[rune]float32, 96),
	}
}

// AdvanceWidth measures the pen advance for one rune. Implements the
// engine's TextMeasurer. Measurements are cached; the glyph set is small.
func (r *LetterRenderer) AdvanceWidth(char rune) float32 {
	if w, ok := r.advances[char]; ok {
		return w
	}
	size := rl.MeasureTextEx(r.font, string(char), r.fontSize, r.spacing)
	w := size.X + r.spacing
	r.advances[char] = w
	return w
}

// Draw renders the live letter collection in the current ink color.
// Contemplated letters glow warm regardless of ink.
func (r *LetterRenderer) Draw(letters []systems.Letter, inkR, inkG, inkB uint8) {
	for i := range letters {
		l := &letters[i]
		if l.Char == ' ' || l.Opacity <= 0 {
			continue
		}

		tint := rl.Color{R: inkR, G: inkG, B: inkB, A: uint8(clamp(float64(l.Opacity), 0, 1) * 255)}
		if l.Contemplated {
			tint.R, tint.G, tint.B = 236, 196, 110
		}

		size := r.fontSize * l.Scale
		// Keep the glyph centered while it pulses.
		off := (size - r.fontSize) / 2
		pos := rl.Vector2{
			X: l.X + l.ShakeX - off,
			Y: l.Y + l.ShakeY - off,
		}
		rl.DrawTextEx(r.font, string(l.Char), pos, size, r.spacing, tint)
	}
}

// DrawPen draws the writing position marker, blinking on simulation ticks.
func (r *LetterRenderer) DrawPen(x, y float32, visible bool, inkR, inkG, inkB uint8) {
	if !visible {
		return
	}
	c := rl.Color{R: inkR, G: inkG, B: inkB, A: 160}
	rl.DrawRectangle(int32(x), int32(y), 2, int32(r.fontSize), c)
}

// DrawTraces reveals memory traces near the cursor: the palimpsest of past
// sessions showing through the page.
func (r *LetterRenderer) DrawTraces(mem *memory.Memory, cx, cy, radius float32) {
	mem.RevealNear(cx, cy, radius, func(t memory.Trace, closeness float64) {
		alpha := clamp(closeness*t.Intensity*0.4, 0, 0.4)
		tint := rl.Fade(rl.Beige, float32(alpha))
		rl.DrawTextEx(r.font, t.Char, rl.Vector2{X: t.X, Y: t.Y}, r.fontSize, r.spacing, tint)
	})
}
