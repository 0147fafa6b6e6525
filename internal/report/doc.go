// Package report renders a model.RunReport.
//
// The package contains writers for different output formats:
//   - SimpleWriter: the one-line summary printed at the end of every run
//   - JSONWriter: structured JSON for tool integration
//   - YAMLWriter: structured YAML
//   - MarkdownWriter: GitHub Flavored Markdown with tables
//
// New picks the Writer for a configured report format.
package report
