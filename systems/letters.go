package systems

import (
	"math"
	"math/rand"
	"unicode"

	"github.com/crazy3lf/colorconv"

	"github.com/pthm-cable/text2wind/config"
	"github.com/pthm-cable/text2wind/semantics"
)

// Phase is a letter's lifecycle stage. Transitions are strictly forward:
// Birth → Life → Erosion → Dead.
type Phase uint8

const (
	PhaseBirth Phase = iota
	PhaseLife
	PhaseErosion
	PhaseDead
)

// String returns the phase name for diagnostics.
func (p Phase) String() string {
	switch p {
	case PhaseBirth:
		return "birth"
	case PhaseLife:
		return "life"
	case PhaseErosion:
		return "erosion"
	case PhaseDead:
		return "dead"
	}
	return "unknown"
}

// Letter is one on-screen glyph instance.
type Letter struct {
	Char rune
	X, Y float32

	Phase Phase

	BirthTimer   float32 // ms since creation
	LifeTimer    float32 // ms spent aging (frozen while protected or contemplated)
	ErosionTimer float32 // ms into erosion; negative = staggered, not yet started

	MaxLife    float32 // randomized per-letter baseline
	MaxErosion float32 // erosion duration; shortened for manual deletion

	Opacity float32
	Scale   float32
	ShakeX  float32
	ShakeY  float32

	VelX, VelY float32 // wind-accumulated drift, erosion only

	Contemplated    bool
	ContemplateTime float32 // ms of protected glow remaining
}

// MemoryRecorder receives letters at the moment of death. Fire-and-forget;
// it must not block the engine.
type MemoryRecorder interface {
	RecordLetter(x, y float32, char rune, contemplated bool)
}

// WordLookup resolves a completed word to its environmental effect, nil when
// the word carries none.
type WordLookup interface {
	Lookup(word string) *semantics.Effect
}

// Notifier receives sound notifications. Calls are never awaited and a
// missing backend is expected; NopNotifier is the null object.
type Notifier interface {
	OnLetterBirth(char rune)
	OnLetterErosion(char rune)
	PlayThunder(intensity float64)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) OnLetterBirth(rune)   {}
func (NopNotifier) OnLetterErosion(rune) {}
func (NopNotifier) PlayThunder(float64)  {}

// TextMeasurer supplies per-rune advance widths from the render surface.
type TextMeasurer interface {
	AdvanceWidth(char rune) float32
}

// Recorder receives lifecycle events for telemetry. NopRecorder is the
// null object.
type Recorder interface {
	RecordLetterBorn()
	RecordLetterEroded(lifetimeMs float64)
	RecordRainDeath()
	RecordWordRecognized(word string)
	RecordParticles(n int)
}

// NopRecorder discards all events.
type NopRecorder struct{}

func (NopRecorder) RecordLetterBorn()           {}
func (NopRecorder) RecordLetterEroded(float64)  {}
func (NopRecorder) RecordRainDeath()            {}
func (NopRecorder) RecordWordRecognized(string) {}
func (NopRecorder) RecordParticles(int)         {}

// LetterEngine owns the ordered collection of on-screen letters and advances
// each through its lifecycle. It is the single writer of letter state.
type LetterEngine struct {
	letters []Letter

	cfg     config.LettersConfig
	rng     *rand.Rand
	weather *Weather
	wind    *WindField
	pool    *ParticlePool

	memory    MemoryRecorder
	lookup    WordLookup
	sound     Notifier
	measure   TextMeasurer
	recorder  Recorder
	onSpecial func(tag string)

	width, height    float32
	penX, penY       float32
	cursorX, cursorY float32

	wordBuf []rune
	simTime float64
}

// NewLetterEngine creates the letter engine. Collaborators default to null
// objects and are injected via the setters.
func NewLetterEngine(cfg config.LettersConfig, rng *rand.Rand, weather *Weather, wind *WindField, pool *ParticlePool, width, height float32) *LetterEngine {
	e := &LetterEngine{
		cfg:      cfg,
		rng:      rng,
		weather:  weather,
		wind:     wind,
		pool:     pool,
		sound:    NopNotifier{},
		recorder: NopRecorder{},
		width:    width,
		height:   height,
		cursorX:  -1e6,
		cursorY:  -1e6,
	}
	e.penX = float32(cfg.Margin)
	e.penY = float32(cfg.Margin) + float32(cfg.LineHeight)
	return e
}

// SetMemory injects the palimpsest recorder.
func (e *LetterEngine) SetMemory(m MemoryRecorder) { e.memory = m }

// SetLookup injects the semantic dictionary.
func (e *LetterEngine) SetLookup(l WordLookup) { e.lookup = l }

// SetNotifier injects the sound collaborator.
func (e *LetterEngine) SetNotifier(n Notifier) {
	if n == nil {
		n = NopNotifier{}
	}
	e.sound = n
}

// SetMeasurer injects the render surface's text measurer.
func (e *LetterEngine) SetMeasurer(m TextMeasurer) { e.measure = m }

// SetRecorder injects the telemetry recorder.
func (e *LetterEngine) SetRecorder(r Recorder) {
	if r == nil {
		r = NopRecorder{}
	}
	e.recorder = r
}

// SetSpecialFunc registers the special-effect dispatcher.
func (e *LetterEngine) SetSpecialFunc(fn func(tag string)) { e.onSpecial = fn }

// SetCursor moves the preserving light. Letters within the light radius do
// not age.
func (e *LetterEngine) SetCursor(x, y float32) {
	e.cursorX = x
	e.cursorY = y
}

// Letters exposes the live collection for rendering. Not to be retained
// across ticks.
func (e *LetterEngine) Letters() []Letter { return e.letters }

// Count returns the number of live letters.
func (e *LetterEngine) Count() int { return len(e.letters) }

// Pen returns the current writing position.
func (e *LetterEngine) Pen() (float32, float32) { return e.penX, e.penY }

// advance returns the pen advance for a rune, falling back to a fixed width
// when no measurer is available or it returns a degenerate value.
func (e *LetterEngine) advance(r rune) float32 {
	if e.measure != nil {
		w := e.measure.AdvanceWidth(r)
		if w > 0 && !math.IsNaN(float64(w)) && !math.IsInf(float64(w), 0) {
			return w
		}
	}
	return float32(e.cfg.FallbackAdvance)
}

// Type places one glyph at the writing position. Newlines commit the current
// line; any non-letter rune completes the pending word.
func (e *LetterEngine) Type(r rune) {
	if r == '\n' || r == '\r' {
		e.CommitLine()
		return
	}
	if !unicode.IsPrint(r) {
		return
	}

	w := e.advance(r)
	if e.penX+w > e.width-float32(e.cfg.Margin) {
		e.newline()
	}

	maxLife := float32(e.cfg.BaseLife) * (1 + (e.rng.Float32()*2-1)*float32(e.cfg.LifeVariance))

	// Recognized words shift how long subsequent letters live.
	lifeMul := 1 + float32(e.weather.Push(AxisLetterLife))*0.5
	if lifeMul < 0.3 {
		lifeMul = 0.3
	}
	if lifeMul > 2.5 {
		lifeMul = 2.5
	}
	maxLife *= lifeMul

	e.letters = append(e.letters, Letter{
		Char:       r,
		X:          e.penX,
		Y:          e.penY,
		Phase:      PhaseBirth,
		MaxLife:    maxLife,
		MaxErosion: float32(e.cfg.ErosionDuration),
		Scale:      1,
	})
	e.penX += w

	e.sound.OnLetterBirth(r)
	e.recorder.RecordLetterBorn()

	if unicode.IsLetter(r) {
		e.wordBuf = append(e.wordBuf, r)
	} else {
		e.completeWord()
	}
}

// Paste types a whole string.
func (e *LetterEngine) Paste(s string) {
	for _, r := range s {
		e.Type(r)
	}
}

// CommitLine completes the pending word, cascades erosion across the current
// line, and moves the pen to a fresh line.
func (e *LetterEngine) CommitLine() {
	e.completeWord()

	k := 0
	for i := range e.letters {
		l := &e.letters[i]
		if l.Y != e.penY {
			continue
		}
		if l.Phase == PhaseBirth || l.Phase == PhaseLife {
			e.beginErosion(i, float32(k)*float32(e.cfg.CascadeStagger), 1)
			k++
		}
	}

	e.newline()
}

// Backspace erodes the most recent living letter with an abbreviated
// duration, restoring the pen to its position.
func (e *LetterEngine) Backspace() {
	if n := len(e.wordBuf); n > 0 {
		e.wordBuf = e.wordBuf[:n-1]
	}

	for i := len(e.letters) - 1; i >= 0; i-- {
		l := &e.letters[i]
		if l.Phase == PhaseErosion || l.Phase == PhaseDead {
			continue
		}
		e.beginErosion(i, 0, float32(e.cfg.DeleteErosionFrac))
		if l.Y == e.penY && l.X < e.penX {
			e.penX = l.X
		}
		return
	}
}

// ErodeAll cascades erosion over every living letter, rippling by index.
func (e *LetterEngine) ErodeAll() {
	k := 0
	for i := range e.letters {
		if e.letters[i].Phase == PhaseBirth || e.letters[i].Phase == PhaseLife {
			e.beginErosion(i, float32(k)*float32(e.cfg.CascadeStagger), 1)
			k++
		}
	}
}

// beginErosion transitions a letter into erosion. A positive stagger delays
// the visible start via a negative timer; durFactor shortens the erosion for
// manual deletion.
func (e *LetterEngine) beginErosion(i int, stagger, durFactor float32) {
	l := &e.letters[i]
	l.Phase = PhaseErosion
	l.ErosionTimer = -stagger
	l.MaxErosion = float32(e.cfg.ErosionDuration) * durFactor
	l.Contemplated = false
	l.ContemplateTime = 0
}

// completeWord looks up the buffered word; on recognition it applies the
// weather effects, contemplates the word's letters, and dispatches any
// special effect tag.
func (e *LetterEngine) completeWord() {
	if len(e.wordBuf) == 0 {
		return
	}
	word := string(e.wordBuf)
	e.wordBuf = e.wordBuf[:0]

	if len(word) < 2 || e.lookup == nil {
		return
	}
	eff := e.lookup.Lookup(word)
	if eff == nil {
		return
	}

	e.recorder.RecordWordRecognized(word)
	e.weather.ApplySemanticEffects(eff.Effects, word)
	e.contemplate(len(word) + 1)

	if eff.Special != "" && e.onSpecial != nil {
		e.onSpecial(eff.Special)
	}
}

// contemplate flags the most recent n letters, scanning backward and
// skipping dead letters and spaces. Contemplated letters glow and stop
// aging for the countdown.
func (e *LetterEngine) contemplate(n int) {
	for i := len(e.letters) - 1; i >= 0 && n > 0; i-- {
		l := &e.letters[i]
		if l.Phase == PhaseDead || l.Char == ' ' {
			continue
		}
		l.Contemplated = true
		l.ContemplateTime = float32(e.cfg.ContemplationTime)
		n--
	}
}

// newline moves the pen to the next line. When a new line would leave the
// viewport, the whole collection shifts up one line height instead.
func (e *LetterEngine) newline() {
	margin := float32(e.cfg.Margin)
	lineH := float32(e.cfg.LineHeight)

	e.penX = margin
	e.penY += lineH

	if e.penY > e.height-margin {
		for i := range e.letters {
			e.letters[i].Y -= lineH
		}
		e.penY -= lineH
	}
}

// nearCursor reports whether a letter sits inside the preserving light.
func (e *LetterEngine) nearCursor(l *Letter) bool {
	dx := float64(l.X - e.cursorX)
	dy := float64(l.Y - e.cursorY)
	r := e.cfg.LightRadius
	return dx*dx+dy*dy < r*r
}

// Update advances every letter one tick. dt is in milliseconds, already
// clamped by the caller.
func (e *LetterEngine) Update(dt float32) {
	windIntensity := e.weather.Get(ParamWind)
	rain := e.weather.Get(ParamRain)

	for i := range e.letters {
		l := &e.letters[i]

		switch l.Phase {
		case PhaseBirth:
			e.updateBirth(l, dt)
		case PhaseLife:
			e.updateLife(i, l, dt, windIntensity, rain)
		case PhaseErosion:
			e.updateErosion(l, dt)
		case PhaseDead:
			// Removed below, same tick it was discovered.
		}
	}

	// Compact, recording each dead letter to memory exactly once.
	alive := 0
	for i := range e.letters {
		l := &e.letters[i]
		if l.Phase == PhaseDead {
			if e.memory != nil {
				e.memory.RecordLetter(l.X, l.Y, l.Char, l.Contemplated)
			}
			continue
		}
		e.letters[alive] = e.letters[i]
		alive++
	}
	e.letters = e.letters[:alive]

	e.simTime += float64(dt)
}

func (e *LetterEngine) updateBirth(l *Letter, dt float32) {
	l.BirthTimer += dt
	t := l.BirthTimer / float32(e.cfg.BirthDuration)
	if t >= 1 {
		l.Phase = PhaseLife
		l.Opacity = 1
		return
	}
	l.Opacity = cubicOut(t)
}

func (e *LetterEngine) updateLife(i int, l *Letter, dt float32, windIntensity, rain float64) {
	if l.Contemplated {
		// Aging pauses; a small pulse animates on simulation time, not
		// wall clock, so replays stay deterministic.
		l.ContemplateTime -= dt
		if l.ContemplateTime <= 0 {
			l.Contemplated = false
			l.Scale = 1
		} else {
			l.Scale = 1 + 0.06*float32(math.Sin(e.simTime*0.008))
		}
		return
	}

	if e.nearCursor(l) {
		// The cursor acts as a preserving light: zero aging this tick.
		l.Scale = 1
		l.ShakeX, l.ShakeY = 0, 0
		return
	}

	// Wind accelerates aging, shortening the effective lifetime.
	effLife := l.MaxLife * (1 - float32(e.cfg.WindAgingMax*windIntensity/100))
	l.LifeTimer += dt

	l.Scale = 1 + 0.02*float32(math.Sin(e.simTime*0.003+float64(l.X)*0.05))

	ratio := l.LifeTimer / effLife
	if ratio > 0.75 {
		j := (ratio - 0.75) * 4
		l.ShakeX = (e.rng.Float32() - 0.5) * 2 * j * 1.6
		l.ShakeY = (e.rng.Float32() - 0.5) * 2 * j * 1.6
	} else {
		l.ShakeX, l.ShakeY = 0, 0
	}

	// Rain washes letters downward and thins the ink. A fully washed letter
	// dies without ever eroding.
	if rain > e.cfg.RainThreshold {
		k := float32((rain - e.cfg.RainThreshold) / (100 - e.cfg.RainThreshold))
		l.Y += float32(e.cfg.RainDrift) * dt * k
		l.Opacity -= float32(e.cfg.RainFade) * dt * k
		if l.Opacity < float32(e.cfg.MinOpacity) {
			l.Phase = PhaseDead
			e.recorder.RecordRainDeath()
			return
		}
	}

	if l.LifeTimer >= effLife {
		e.beginErosion(i, 0, 1)
	}
}

func (e *LetterEngine) updateErosion(l *Letter, dt float32) {
	l.ErosionTimer += dt
	if l.ErosionTimer < 0 {
		// Staggered cascade: in erosion, visually not yet started.
		return
	}

	ratio := l.ErosionTimer / l.MaxErosion
	if ratio >= 1 {
		r, g, b := e.InkColor()
		opts := DefaultEmitOptions()
		opts.R, opts.G, opts.B = r, g, b
		opts.Spread = 26
		opts.Life = 2000
		n := e.pool.Emit(l.X, l.Y, e.cfg.ParticlesPerBurst, opts)
		e.recorder.RecordParticles(n)
		e.recorder.RecordLetterEroded(float64(l.LifeTimer))
		e.sound.OnLetterErosion(l.Char)
		l.Phase = PhaseDead
		return
	}

	l.Opacity = 1 - ratio

	fx, fy := e.wind.ForceAt(l.X, l.Y)
	fx, fy = finite32(fx), finite32(fy)
	coupling := float32(e.cfg.WindCoupling)
	l.VelX += fx * coupling * dt
	l.VelY += fy * coupling * dt
	l.VelX *= 0.995
	l.VelY *= 0.995
	l.X += l.VelX * dt
	l.Y += l.VelY * dt

	l.ShakeX = (e.rng.Float32() - 0.5) * 2 * ratio * 2.4
	l.ShakeY = (e.rng.Float32() - 0.5) * 2 * ratio * 2.4

	// Small puffs precede the terminal burst once erosion is visible.
	if ratio > 0.2 && e.rng.Float64() < e.cfg.PuffChance {
		r, g, b := e.InkColor()
		opts := DefaultEmitOptions()
		opts.R, opts.G, opts.B = r, g, b
		opts.Spread = 8
		opts.Life = 900
		opts.SizeMin, opts.SizeMax = 0.8, 1.8
		opts.Kind = ParticlePuff
		n := e.pool.Emit(l.X, l.Y, 2, opts)
		e.recorder.RecordParticles(n)
	}
}

// InkColor derives the particle ink color from the weather and time of day:
// sepia by day, blue-gray by night, colder and paler in rain and snow.
func (e *LetterEngine) InkColor() (uint8, uint8, uint8) {
	hour := e.weather.CurrentHour()
	rain := e.weather.Get(ParamRain) / 100
	snow := e.weather.Get(ParamSnow) / 100
	lum := e.weather.Push(AxisLuminosity)

	// Daylight factor: 0 at night, 1 at midday.
	day := math.Sin((hour - 6) / 12 * math.Pi)
	if day < 0 {
		day = 0
	}

	hue := 220 - 185*day // night blue → day sepia
	hue = hue*(1-rain) + 215*rain

	sat := 0.30*(1-day) + 0.22*day
	sat *= 1 - snow*0.8

	val := 0.18 + 0.30*day + 0.15*lum
	val = clamp(val+snow*0.45, 0.05, 0.95)
	sat = clamp(sat, 0, 1)

	r, g, b, err := colorconv.HSVToRGB(clamp(hue, 0, 359.9), sat, val)
	if err != nil {
		return 60, 60, 60
	}
	return r, g, b
}

func cubicOut(t float32) float32 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	u := 1 - t
	return 1 - u*u*u
}

func finite32(v float32) float32 {
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return v
}
