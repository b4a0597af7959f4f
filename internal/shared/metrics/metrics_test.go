package metrics

import (
	"strings"
	"testing"
)

func TestHistogramBucketsAreCumulative(t *testing.T) {
	h := newHistogram([]float64{10, 100})
	h.Observe(5)
	h.Observe(50)
	h.Observe(500)

	snap := h.Snapshot()
	if snap.count != 3 {
		t.Fatalf("count = %d, want 3", snap.count)
	}
	if snap.counts[0] != 1 || snap.counts[1] != 1 {
		t.Fatalf("counts = %v, want [1 1]", snap.counts)
	}

	out := Render()
	for _, want := range []string{
		"# TYPE salary_batch_runs_total counter",
		"salary_inference_duration_ms_bucket{le=\"+Inf\"}",
		"salary_market_fallback_total",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("render missing %q", want)
		}
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{in: 10, want: "10"},
		{in: 2.5, want: "2.5"},
	}
	for _, tt := range tests {
		if got := formatFloat(tt.in); got != tt.want {
			t.Fatalf("formatFloat(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
