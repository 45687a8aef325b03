// Package observ collects phase timings for `--timings`.
package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Phase records the duration and metadata of a pipeline phase.
type Phase struct {
	Name string
	Dur  time.Duration
	Note string
}

// Timer accumulates phase durations. Phases with the same name are summed
// and counted, so a directory check reports one line per phase. Safe for
// concurrent use.
type Timer struct {
	mu     sync.Mutex
	order  []string
	phases map[string]*entry
}

type entry struct {
	dur   time.Duration
	count int
	note  string
}

// NewTimer creates a new empty Timer.
func NewTimer() *Timer { return &Timer{phases: make(map[string]*entry, 8)} }

// Begin starts timing name; call the returned func to stop.
func (t *Timer) Begin(name string) func(note string) {
	start := time.Now()
	return func(note string) { t.Record(name, time.Since(start), note) }
}

// Record adds a measured duration under name. A nil Timer ignores it.
func (t *Timer) Record(name string, d time.Duration, note string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.phases[name]
	if !ok {
		e = &entry{}
		t.phases[name] = e
		t.order = append(t.order, name)
	}
	e.dur += d
	e.count++
	if note != "" {
		e.note = note
	}
}

// PhaseReport представляет сжатую информацию о фазе таймера для сериализации.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Count      int     `json:"count"`
	Note       string  `json:"note,omitempty"`
}

// Report описывает агрегированные данные таймера.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report формирует срез фаз в порядке первого появления и общую длительность.
func (t *Timer) Report() Report {
	t.mu.Lock()
	defer t.mu.Unlock()
	var report Report
	var total time.Duration
	for _, name := range t.order {
		e := t.phases[name]
		total += e.dur
		report.Phases = append(report.Phases, PhaseReport{
			Name:       name,
			DurationMS: durationToMillis(e.dur),
			Count:      e.count,
			Note:       e.note,
		})
	}
	report.TotalMS = durationToMillis(total)
	return report
}

// Summary returns a human-readable table of all tracked phases.
func (t *Timer) Summary() string {
	report := t.Report()
	var sb strings.Builder
	sb.WriteString("timings:\n")
	for _, p := range report.Phases {
		fmt.Fprintf(&sb, "  %-14s %8.2f ms", p.Name, p.DurationMS)
		if p.Count > 1 {
			fmt.Fprintf(&sb, "  x%d", p.Count)
		}
		if p.Note != "" {
			sb.WriteString("  // " + p.Note)
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "  %-14s %8.2f ms\n", "total", report.TotalMS)
	return sb.String()
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
