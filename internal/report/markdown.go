package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/nao1215/chancrawl/internal/model"
)

// timeLayout is used for timestamps in the Markdown report.
const timeLayout = "2006-01-02 15:04:05 MST"

// MarkdownWriter outputs reports in GitHub Flavored Markdown.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.RunReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeTotals(md, report)
	w.writeThreads(md, report)
	w.writeSkipped(md, report)
	w.writeFooter(md, report)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.RunReport) {
	md.H1("chancrawl Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Run ID", "`" + report.RunID + "`"},
			{"Start URL", report.StartURL},
			{"Mode", string(report.Mode)},
			{"Started", report.StartedAt.Format(timeLayout)},
			{"Elapsed", FormatElapsed(report.Elapsed())},
		},
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeTotals(md *markdown.Markdown, report *model.RunReport) {
	md.H2("Totals")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Count"},
		Rows: [][]string{
			{"Threads", strconv.Itoa(report.TotalThreads)},
			{"Skipped threads", strconv.Itoa(report.SkippedThreads())},
			{"Images downloaded", strconv.Itoa(report.TotalImages)},
			{"Images failed", strconv.Itoa(report.FailedMedia())},
		},
	})
	md.PlainText("")

	if n := report.FailedMedia(); n > 0 {
		md.Warningf("%d image(s) could not be downloaded.", n)
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeThreads(md *markdown.Markdown, report *model.RunReport) {
	md.H2("Threads")
	md.PlainText("")

	if len(report.Threads) == 0 {
		md.PlainText("No threads found.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(report.Threads))
	for i, t := range report.Threads {
		status := "downloaded"
		switch {
		case t.Excluded:
			status = "skipped"
		case t.Error != "":
			status = "error"
		}
		rows[i] = []string{
			t.URL,
			status,
			valueOrDash(t.Directory),
			strconv.Itoa(t.MediaFound),
			strconv.Itoa(t.Downloaded),
			strconv.Itoa(t.Failed),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Thread", "Status", "Directory", "Found", "Downloaded", "Failed"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeSkipped(md *markdown.Markdown, report *model.RunReport) {
	var skipped []string
	for _, t := range report.Threads {
		if t.Excluded {
			skipped = append(skipped, t.URL+" (rule `"+t.MatchedRule+"`)")
		}
	}
	if len(skipped) == 0 {
		return
	}

	md.H2("Skipped Threads")
	md.PlainText("")
	md.BulletList(skipped...)
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown, report *model.RunReport) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*" + Summary(report) + "*")
}

func valueOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
