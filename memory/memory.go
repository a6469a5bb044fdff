// Package memory keeps the palimpsest: positions of dead letters, persisted
// across sessions and revealed near the cursor.
package memory

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"
)

// Trace is one recorded letter death.
type Trace struct {
	X         float32 `json:"x"`
	Y         float32 `json:"y"`
	Char      string  `json:"char"`
	Intensity float64 `json:"intensity"`
	Timestamp int64   `json:"timestamp"`
}

// state is the persisted record.
type state struct {
	AgingLevel float64 `json:"agingLevel"`
	Traces     []Trace `json:"traces"`
}

// Memory records letter deaths and persists them as JSON. Recording never
// blocks and never fails; only Load and Save touch the filesystem.
type Memory struct {
	traces     []Trace
	agingLevel float64

	path    string
	saveCap int
	loadCap int
	now     func() time.Time
}

// New creates an empty memory persisting to path.
func New(path string, saveCap, loadCap int) *Memory {
	return &Memory{
		path:    path,
		saveCap: saveCap,
		loadCap: loadCap,
		now:     time.Now,
	}
}

// SetClock replaces the timestamp source. Used by tests.
func (m *Memory) SetClock(now func() time.Time) {
	m.now = now
}

// Load reads persisted traces, keeping only the most recent loadCap entries.
// A missing file is a fresh start, not an error.
func (m *Memory) Load() error {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading memory file: %w", err)
	}

	var s state
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("parsing memory file: %w", err)
	}

	if len(s.Traces) > m.loadCap {
		s.Traces = s.Traces[len(s.Traces)-m.loadCap:]
	}
	m.traces = s.Traces
	m.agingLevel = s.AgingLevel
	return nil
}

// Save writes the most recent saveCap traces.
func (m *Memory) Save() error {
	if m.path == "" {
		return nil
	}

	s := state{AgingLevel: m.agingLevel, Traces: m.traces}
	if len(s.Traces) > m.saveCap {
		s.Traces = s.Traces[len(s.Traces)-m.saveCap:]
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling memory: %w", err)
	}
	if err := os.WriteFile(m.path, data, 0644); err != nil {
		return fmt.Errorf("writing memory file: %w", err)
	}
	return nil
}

// RecordLetter records a dead letter. Contemplated letters leave a stronger
// trace. Implements the engine's MemoryRecorder.
func (m *Memory) RecordLetter(x, y float32, char rune, contemplated bool) {
	intensity := 0.4
	if contemplated {
		intensity = 1.0
	}
	m.traces = append(m.traces, Trace{
		X:         x,
		Y:         y,
		Char:      string(char),
		Intensity: intensity,
		Timestamp: m.now().UnixMilli(),
	})
	m.agingLevel += 0.001
}

// Traces returns all held traces, oldest first.
func (m *Memory) Traces() []Trace {
	return m.traces
}

// AgingLevel returns the accumulated aging of the palimpsest.
func (m *Memory) AgingLevel() float64 {
	return m.agingLevel
}

// RevealNear calls fn for each trace within radius of (x, y), passing a
// 0..1 closeness factor for render fading.
func (m *Memory) RevealNear(x, y, radius float32, fn func(t Trace, closeness float64)) {
	if radius <= 0 {
		return
	}
	r2 := float64(radius) * float64(radius)
	for i := range m.traces {
		dx := float64(m.traces[i].X - x)
		dy := float64(m.traces[i].Y - y)
		d2 := dx*dx + dy*dy
		if d2 < r2 {
			fn(m.traces[i], 1-math.Sqrt(d2)/float64(radius))
		}
	}
}
