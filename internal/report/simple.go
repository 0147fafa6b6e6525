package report

import (
	"fmt"
	"io"
	"time"

	"github.com/nao1215/chancrawl/internal/model"
)

// SimpleWriter prints the one-line run summary.
type SimpleWriter struct {
	baseWriter
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer) *SimpleWriter {
	return &SimpleWriter{baseWriter: newBaseWriter(output)}
}

// Write prints Summary(report) followed by a newline.
func (w *SimpleWriter) Write(report *model.RunReport) (int, error) {
	return fmt.Fprintln(w.output, Summary(report))
}

// Summary returns the final line of a run, e.g.
// "Finished downloading 12 image(s) from 3 thread(s) in 00:01:05!".
func Summary(report *model.RunReport) string {
	return fmt.Sprintf("Finished downloading %d image(s) from %d thread(s) in %s!",
		report.TotalImages, report.TotalThreads, FormatElapsed(report.Elapsed()))
}

// FormatElapsed formats d as zero-padded HH:MM:SS, truncating fractions
// of a second. Hours are not wrapped at 24.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}
