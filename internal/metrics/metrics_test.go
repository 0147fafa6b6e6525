package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// counterValue returns the value of the named metric whose labels match.
func counterValue(t *testing.T, r *Recorder, name string, labels map[string]string) float64 {
	t.Helper()

	families, err := r.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	metric:
		for _, m := range mf.GetMetric() {
			got := make(map[string]string)
			for _, lp := range m.GetLabel() {
				got[lp.GetName()] = lp.GetValue()
			}
			for k, v := range labels {
				if got[k] != v {
					continue metric
				}
			}
			if c := m.GetCounter(); c != nil {
				return c.GetValue()
			}
			return m.GetGauge().GetValue()
		}
	}
	return 0
}

func TestRecorder(t *testing.T) {
	t.Parallel()

	r := New()
	r.PageFetched("board", nil)
	r.PageFetched("board", nil)
	r.PageFetched("board", errors.New("boom"))
	r.PageFetched("archive", nil)
	r.Thread(OutcomeOK)
	r.Thread(OutcomeExcluded)
	r.Thread(OutcomeNotFound)
	r.MediaSaved(100)
	r.MediaSaved(23)
	r.MediaFailed(errors.New("gone"))
	r.ObserveRun(1500 * time.Millisecond)

	tests := []struct {
		name   string
		metric string
		labels map[string]string
		want   float64
	}{
		{name: "board ok", metric: "chancrawl_pages_fetched_total", labels: map[string]string{"kind": "board", "outcome": "ok"}, want: 2},
		{name: "board error", metric: "chancrawl_pages_fetched_total", labels: map[string]string{"kind": "board", "outcome": "error"}, want: 1},
		{name: "archive ok", metric: "chancrawl_pages_fetched_total", labels: map[string]string{"kind": "archive", "outcome": "ok"}, want: 1},
		{name: "threads excluded", metric: "chancrawl_threads_total", labels: map[string]string{"outcome": "excluded"}, want: 1},
		{name: "threads not found", metric: "chancrawl_threads_total", labels: map[string]string{"outcome": "not_found"}, want: 1},
		{name: "media ok", metric: "chancrawl_media_total", labels: map[string]string{"outcome": "ok"}, want: 2},
		{name: "media error", metric: "chancrawl_media_total", labels: map[string]string{"outcome": "error"}, want: 1},
		{name: "bytes", metric: "chancrawl_media_bytes_total", want: 123},
		{name: "duration", metric: "chancrawl_run_duration_seconds", want: 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := counterValue(t, r, tt.metric, tt.labels); got != tt.want {
				t.Errorf("%s%v = %v, want %v", tt.metric, tt.labels, got, tt.want)
			}
		})
	}
}

func TestNilRecorder(t *testing.T) {
	t.Parallel()

	var r *Recorder
	r.PageFetched("board", nil)
	r.Thread(OutcomeOK)
	r.MediaSaved(1)
	r.MediaFailed(nil)
	r.ObserveRun(time.Second)
	if r.Registry() != nil {
		t.Error("Registry() on nil recorder should be nil")
	}
	if err := r.WriteTextfile(filepath.Join(t.TempDir(), "x.prom")); err != nil {
		t.Errorf("WriteTextfile() error = %v", err)
	}
}

func TestWriteTextfile(t *testing.T) {
	t.Parallel()

	r := New()
	r.MediaSaved(42)

	path := filepath.Join(t.TempDir(), "chancrawl.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "chancrawl_media_bytes_total 42") {
		t.Errorf("textfile missing bytes counter:\n%s", data)
	}

	if err := r.WriteTextfile(filepath.Join(t.TempDir(), "missing", "x.prom")); err == nil {
		t.Error("expected error for missing directory")
	}
}
