package observ

import (
	"strings"
	"sync"
	"testing"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	i := tm.Begin("parse")
	tm.End(i, "3 documents")
	j := tm.Begin("lint")
	tm.End(j, "")
	tm.End(42, "ignored")

	r := tm.Report()
	if len(r.Phases) != 2 {
		t.Fatalf("phases = %d", len(r.Phases))
	}
	if r.Phases[0].Name != "parse" || r.Phases[0].Note != "3 documents" {
		t.Fatalf("phase 0 = %+v", r.Phases[0])
	}
	if r.TotalMS < r.Phases[0].DurationMS {
		t.Fatalf("total %.3f < phase %.3f", r.TotalMS, r.Phases[0].DurationMS)
	}
	s := tm.Summary()
	for _, want := range []string{"timings:", "parse", "// 3 documents", "total"} {
		if !strings.Contains(s, want) {
			t.Errorf("summary missing %q:\n%s", want, s)
		}
	}
}

func TestNilTimer(t *testing.T) {
	var tm *Timer
	tm.End(tm.Begin("x"), "")
	if tm.Len() != 0 || len(tm.Report().Phases) != 0 {
		t.Fatal("nil timer recorded phases")
	}
}

func TestTimerConcurrent(t *testing.T) {
	tm := NewTimer()
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tm.End(tm.Begin("doc"), "")
		}()
	}
	wg.Wait()
	if tm.Len() != 16 {
		t.Fatalf("Len = %d", tm.Len())
	}
}
