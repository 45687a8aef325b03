package observ

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestTimerAggregatesByName(t *testing.T) {
	tm := NewTimer()
	tm.Record("parse", 2*time.Millisecond, "")
	tm.Record("resolve", time.Millisecond, "3 names")
	tm.Record("parse", 3*time.Millisecond, "")

	r := tm.Report()
	if len(r.Phases) != 2 || r.Phases[0].Name != "parse" || r.Phases[0].Count != 2 {
		t.Fatalf("phases = %+v", r.Phases)
	}
	if r.Phases[0].DurationMS != 5 || r.TotalMS != 6 {
		t.Fatalf("durations = %+v total %v", r.Phases, r.TotalMS)
	}
	sum := tm.Summary()
	if !strings.Contains(sum, "x2") || !strings.Contains(sum, "// 3 names") || !strings.Contains(sum, "total") {
		t.Fatalf("summary:\n%s", sum)
	}
}

func TestTimerConcurrent(t *testing.T) {
	tm := NewTimer()
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tm.Begin("compile")("")
		}()
	}
	wg.Wait()
	if r := tm.Report(); r.Phases[0].Count != 16 {
		t.Fatalf("count = %d", r.Phases[0].Count)
	}
}

func TestNilTimerIgnoresRecords(t *testing.T) {
	var tm *Timer
	tm.Record("x", time.Second, "")
}
