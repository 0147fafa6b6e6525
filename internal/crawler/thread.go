package crawler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/nao1215/chancrawl/internal/fetch"
	"github.com/nao1215/chancrawl/internal/filter"
	"github.com/nao1215/chancrawl/internal/model"
)

// ExtractOptions controls how a thread is read.
type ExtractOptions struct {
	// Small selects thumbnail images instead of full-size files.
	Small bool

	// Rules excludes threads whose subject or first post contains a term.
	Rules filter.Rules

	// OutputDir is the base directory for downloads.
	OutputDir string

	// Subdirectories places each thread's media in OutputDir/<thread id>.
	Subdirectories bool
}

// ParseThread reads the filter text and media candidates of a thread page.
// Media URLs are resolved against ref, so protocol-relative links take
// the thread page's scheme, and are filtered by the built-in chrome and
// format rules. Directory and exclusion are left to the caller.
func ParseThread(body []byte, ref model.ThreadRef, small bool) (*model.Thread, error) {
	base, err := url.Parse(ref.String())
	if err != nil {
		return nil, fmt.Errorf("invalid thread URL %q: %w", ref, err)
	}

	doc, err := parseDocument(body)
	if err != nil {
		return nil, err
	}

	thread := &model.Thread{
		Ref: ref,
		Text: model.FilterText{
			Subject:   firstText(doc, selectorSubject),
			FirstPost: firstText(doc, selectorPostMessage),
		},
	}

	candidates := mediaCandidates(doc, base, small)
	thread.Media = filter.Media(candidates)
	return thread, nil
}

// firstText returns the text of the first element matching selector, or
// nil when there is none. Line breaks become newlines so words on
// adjacent lines are not joined.
func firstText(doc *goquery.Document, selector string) *string {
	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return nil
	}

	var sb strings.Builder
	for _, n := range sel.Nodes {
		writeText(&sb, n)
	}
	text := strings.TrimSpace(sb.String())
	return &text
}

// writeText appends the text content of n, rendering <br> as a newline.
func writeText(sb *strings.Builder, n *html.Node) {
	switch {
	case n.Type == html.TextNode:
		sb.WriteString(n.Data)
	case n.Type == html.ElementNode && n.Data == "br":
		sb.WriteString("\n")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(sb, c)
	}
}

// mediaCandidates returns absolute media URLs in document order.
func mediaCandidates(doc *goquery.Document, base *url.URL, small bool) []string {
	selector, attr := selectorFullImage, "href"
	if small {
		selector, attr = selectorThumbnail, "src"
	}

	candidates := make([]string, 0)
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		v, ok := s.Attr(attr)
		if !ok {
			return
		}
		if u := resolveURL(base, v); u != "" {
			candidates = append(candidates, u)
		}
	})
	return candidates
}

// ThreadDirectory returns where media from ref is written.
func ThreadDirectory(outputDir string, ref model.ThreadRef, subdirectories bool) string {
	if !subdirectories {
		return outputDir
	}
	id := ThreadID(ref.String())
	if id == "" {
		return outputDir
	}
	return filepath.Join(outputDir, id)
}

// Extractor fetches thread pages and applies exclusion rules.
type Extractor struct {
	// fetcher retrieves thread pages.
	fetcher fetch.Fetcher

	// logger receives diagnostics.
	logger *slog.Logger

	// progress receives the human-readable crawl log.
	progress io.Writer
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithExtractorLogger sets the logger.
func WithExtractorLogger(logger *slog.Logger) ExtractorOption {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// WithExtractorProgress sets where progress lines are printed.
func WithExtractorProgress(w io.Writer) ExtractorOption {
	return func(e *Extractor) {
		e.progress = w
	}
}

// NewExtractor creates an Extractor that fetches through f.
func NewExtractor(f fetch.Fetcher, opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		fetcher:  f,
		progress: io.Discard,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = slog.Default()
	}

	return e
}

// Extract fetches and parses the thread at ref. A page answering 404
// yields an error wrapping ErrThreadNotFound.
//
// When a rule matches, the returned thread has Excluded set, no media and
// no directory; the caller must not create anything for it. Otherwise
// Directory is resolved from opts.
func (e *Extractor) Extract(ctx context.Context, ref model.ThreadRef, opts ExtractOptions) (*model.Thread, error) {
	body, err := e.fetcher.Fetch(ctx, ref.String())
	if err != nil {
		if fetch.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %w", ErrThreadNotFound, err)
		}
		return nil, fmt.Errorf("failed to fetch thread: %w", err)
	}

	thread, err := ParseThread(body, ref, opts.Small)
	if err != nil {
		return nil, err
	}

	if rule, excluded := opts.Rules.Excluded(thread.Text); excluded {
		e.logger.Debug("thread excluded", "thread", ref, "rule", rule)
		return &model.Thread{
			Ref:         ref,
			Text:        thread.Text,
			Excluded:    true,
			MatchedRule: rule,
		}, nil
	}

	thread.Directory = ThreadDirectory(opts.OutputDir, ref, opts.Subdirectories)
	for _, m := range thread.Media {
		fmt.Fprintf(e.progress, "Found image %s\n", m)
	}
	return thread, nil
}
