package memory

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func fixedClock() time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func TestRecordLetter(t *testing.T) {
	m := New("", 200, 500)
	m.SetClock(fixedClock)

	m.RecordLetter(10, 20, 'a', false)
	m.RecordLetter(30, 40, 'ñ', true)

	traces := m.Traces()
	if len(traces) != 2 {
		t.Fatalf("traces = %d, want 2", len(traces))
	}
	if traces[0].Intensity != 0.4 {
		t.Errorf("plain trace intensity %f, want 0.4", traces[0].Intensity)
	}
	if traces[1].Intensity != 1.0 {
		t.Errorf("contemplated trace intensity %f, want 1.0", traces[1].Intensity)
	}
	if traces[1].Char != "ñ" {
		t.Errorf("trace char %q, want ñ", traces[1].Char)
	}
	if traces[0].Timestamp != fixedClock().UnixMilli() {
		t.Errorf("timestamp %d, want %d", traces[0].Timestamp, fixedClock().UnixMilli())
	}
	if got := m.AgingLevel(); got != 0.002 {
		t.Errorf("aging level %f, want 0.002", got)
	}
}

func TestSaveCapsTraces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memory.json")
	m := New(path, 200, 500)
	m.SetClock(fixedClock)

	for i := 0; i < 250; i++ {
		m.RecordLetter(float32(i), 0, 'x', false)
	}
	if err := m.Save(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var s struct {
		Traces []Trace `json:"traces"`
	}
	if err := json.Unmarshal(data, &s); err != nil {
		t.Fatal(err)
	}
	if len(s.Traces) != 200 {
		t.Fatalf("saved %d traces, want save cap 200", len(s.Traces))
	}
	// The retained traces are the most recent ones.
	if s.Traces[0].X != 50 {
		t.Errorf("oldest saved trace X = %f, want 50", s.Traces[0].X)
	}
	if s.Traces[199].X != 249 {
		t.Errorf("newest saved trace X = %f, want 249", s.Traces[199].X)
	}
}

func TestLoadCapsTraces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memory.json")

	big := struct {
		AgingLevel float64 `json:"agingLevel"`
		Traces     []Trace `json:"traces"`
	}{AgingLevel: 0.6}
	for i := 0; i < 600; i++ {
		big.Traces = append(big.Traces, Trace{X: float32(i), Char: "x", Intensity: 0.4})
	}
	data, err := json.Marshal(big)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	m := New(path, 200, 500)
	if err := m.Load(); err != nil {
		t.Fatal(err)
	}
	if got := len(m.Traces()); got != 500 {
		t.Fatalf("loaded %d traces, want load cap 500", got)
	}
	if m.Traces()[0].X != 100 {
		t.Errorf("oldest loaded trace X = %f, want 100", m.Traces()[0].X)
	}
	if got := m.AgingLevel(); got != 0.6 {
		t.Errorf("aging level %f, want 0.6", got)
	}
}

func TestLoadMissingFileIsFreshStart(t *testing.T) {
	m := New(filepath.Join(t.TempDir(), "absent.json"), 200, 500)
	if err := m.Load(); err != nil {
		t.Errorf("missing file should not error: %v", err)
	}
	if len(m.Traces()) != 0 {
		t.Errorf("fresh start has %d traces", len(m.Traces()))
	}
}

func TestLoadCorruptFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memory.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	m := New(path, 200, 500)
	if err := m.Load(); err == nil {
		t.Error("expected error for corrupt memory file")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memory.json")
	m := New(path, 200, 500)
	m.SetClock(fixedClock)
	m.RecordLetter(12, 34, 'q', true)
	if err := m.Save(); err != nil {
		t.Fatal(err)
	}

	m2 := New(path, 200, 500)
	if err := m2.Load(); err != nil {
		t.Fatal(err)
	}
	traces := m2.Traces()
	if len(traces) != 1 {
		t.Fatalf("traces = %d, want 1", len(traces))
	}
	got := traces[0]
	if got.X != 12 || got.Y != 34 || got.Char != "q" || got.Intensity != 1.0 {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestRevealNear(t *testing.T) {
	m := New("", 200, 500)
	m.SetClock(fixedClock)
	m.RecordLetter(100, 100, 'a', false)
	m.RecordLetter(100, 150, 'b', false)
	m.RecordLetter(500, 500, 'c', false)

	var seen []string
	var closeness []float64
	m.RevealNear(100, 100, 140, func(tr Trace, c float64) {
		seen = append(seen, tr.Char)
		closeness = append(closeness, c)
	})

	if len(seen) != 2 {
		t.Fatalf("revealed %d traces, want 2", len(seen))
	}
	if closeness[0] != 1 {
		t.Errorf("exact-position closeness %f, want 1", closeness[0])
	}
	if closeness[1] <= 0 || closeness[1] >= 1 {
		t.Errorf("nearby closeness %f, want in (0,1)", closeness[1])
	}

	m.RevealNear(100, 100, 0, func(Trace, float64) {
		t.Error("zero radius revealed a trace")
	})
}
