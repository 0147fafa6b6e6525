package report

import (
	"fmt"
	"io"

	"github.com/nao1215/chancrawl/internal/config"
	"github.com/nao1215/chancrawl/internal/model"
)

// Writer outputs a run report.
type Writer interface {
	// Write outputs the report and returns the number of bytes written.
	Write(report *model.RunReport) (int, error)
}

// New returns the Writer for format, writing to output.
func New(format config.ReportFormat, output io.Writer) (Writer, error) {
	switch format {
	case config.ReportSimple, "":
		return NewSimpleWriter(output), nil
	case config.ReportJSON:
		return NewJSONWriter(output, WithPrettyPrint()), nil
	case config.ReportYAML:
		return NewYAMLWriter(output), nil
	case config.ReportMarkdown:
		return NewMarkdownWriter(output), nil
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}

// baseWriter holds the output destination shared by all writers.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
