package report

import (
	"bytes"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/nao1215/chancrawl/internal/model"
)

// yamlIndent is the number of spaces per nesting level.
const yamlIndent = 2

// YAMLWriter outputs reports in YAML format.
type YAMLWriter struct {
	baseWriter
}

// NewYAMLWriter creates a YAMLWriter that outputs to the given writer.
func NewYAMLWriter(output io.Writer) *YAMLWriter {
	return &YAMLWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the report as a single YAML document.
func (w *YAMLWriter) Write(report *model.RunReport) (int, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(yamlIndent)
	if err := enc.Encode(report); err != nil {
		return 0, err
	}
	if err := enc.Close(); err != nil {
		return 0, err
	}
	return w.output.Write(buf.Bytes())
}
