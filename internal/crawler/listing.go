package crawler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/nao1215/chancrawl/internal/fetch"
	"github.com/nao1215/chancrawl/internal/model"
)

const (
	// DefaultOrigin is the imageboard the CLI crawls.
	DefaultOrigin = "https://boards.4chan.org"

	// BoardPageCount is the number of index pages fetched in board mode.
	// All pages are always requested, even when later ones are empty.
	BoardPageCount = 10

	// archivePath is appended to the board URL for the archive listing.
	archivePath = "archive"
)

// BoardURL returns the index URL of board on origin, with a trailing slash.
func BoardURL(origin, board string) string {
	return strings.TrimSuffix(origin, "/") + "/" + strings.Trim(board, "/") + "/"
}

// ArchiveURL returns the archive listing URL of board on origin.
func ArchiveURL(origin, board string) string {
	return BoardURL(origin, board) + archivePath
}

// BoardPageURLs returns the index page URLs of a board in order.
// Page 1 is the board URL itself; page n (n >= 2) appends n.
func BoardPageURLs(boardURL string) []string {
	pages := make([]string, 0, BoardPageCount)
	pages = append(pages, boardURL)
	for i := 2; i <= BoardPageCount; i++ {
		pages = append(pages, boardURL+strconv.Itoa(i))
	}
	return pages
}

// ParseBoardPage extracts one thread reference per post-number element,
// in document order. Each reference is the first anchor's href resolved
// against boardURL with its fragment removed. Duplicates are kept.
func ParseBoardPage(body []byte, boardURL string) ([]model.ThreadRef, error) {
	base, err := url.Parse(boardURL)
	if err != nil {
		return nil, fmt.Errorf("invalid board URL %q: %w", boardURL, err)
	}

	doc, err := parseDocument(body)
	if err != nil {
		return nil, err
	}

	threads := make([]model.ThreadRef, 0)
	doc.Find(selectorPostNumber).Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Find("a").First().Attr("href")
		if !ok {
			return
		}
		if ref := resolveURL(base, href); ref != "" {
			threads = append(threads, model.ThreadRef(ref))
		}
	})
	return threads, nil
}

// ParseArchive extracts every anchor inside the archive list container.
// Each href is prefixed with the origin of archiveURL and reduced to the
// canonical thread URL. ErrArchiveListMissing is returned when the page
// has no archive list.
func ParseArchive(body []byte, archiveURL string) ([]model.ThreadRef, error) {
	base, err := url.Parse(archiveURL)
	if err != nil {
		return nil, fmt.Errorf("invalid archive URL %q: %w", archiveURL, err)
	}
	origin := originOf(base)

	doc, err := parseDocument(body)
	if err != nil {
		return nil, err
	}

	list := doc.Find(selectorArchiveList)
	if list.Length() == 0 {
		return nil, fmt.Errorf("%s: %w", archiveURL, ErrArchiveListMissing)
	}

	threads := make([]model.ThreadRef, 0)
	list.Find("a").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}
		resolved := resolveURL(origin, href)
		if resolved == "" {
			return
		}
		u, err := url.Parse(resolved)
		if err != nil {
			return
		}
		u.Path = canonicalThreadPath(u.Path)
		u.RawPath = ""
		u.RawQuery = ""
		threads = append(threads, model.ThreadRef(u.String()))
	})
	return threads, nil
}

// Discoverer fetches listing pages and turns them into thread references.
type Discoverer struct {
	// fetcher retrieves listing pages.
	fetcher fetch.Fetcher

	// logger receives per-page diagnostics.
	logger *slog.Logger

	// progress receives the human-readable crawl log.
	progress io.Writer

	// continueOnError skips pages that fail to fetch instead of aborting.
	continueOnError bool

	// onPage is called after every listing fetch attempt.
	onPage func(kind string, err error)
}

// DiscovererOption configures a Discoverer.
type DiscovererOption func(*Discoverer)

// WithDiscovererLogger sets the logger.
func WithDiscovererLogger(logger *slog.Logger) DiscovererOption {
	return func(d *Discoverer) {
		d.logger = logger
	}
}

// WithDiscovererProgress sets where progress lines are printed.
func WithDiscovererProgress(w io.Writer) DiscovererOption {
	return func(d *Discoverer) {
		d.progress = w
	}
}

// WithDiscovererContinueOnError makes page fetch failures non-fatal.
func WithDiscovererContinueOnError(continueOnError bool) DiscovererOption {
	return func(d *Discoverer) {
		d.continueOnError = continueOnError
	}
}

// WithPageHook registers a callback invoked after each listing fetch
// with the page kind ("board" or "archive") and the fetch error, if any.
func WithPageHook(hook func(kind string, err error)) DiscovererOption {
	return func(d *Discoverer) {
		d.onPage = hook
	}
}

// NewDiscoverer creates a Discoverer that fetches through f.
func NewDiscoverer(f fetch.Fetcher, opts ...DiscovererOption) *Discoverer {
	d := &Discoverer{
		fetcher:  f,
		progress: io.Discard,
		onPage:   func(string, error) {},
	}

	for _, opt := range opts {
		opt(d)
	}

	if d.logger == nil {
		d.logger = slog.Default()
	}

	return d
}

// Discover returns the thread references for mode starting from startURL.
// In thread mode startURL itself is the only reference.
func (d *Discoverer) Discover(ctx context.Context, mode model.Mode, startURL string) ([]model.ThreadRef, error) {
	var (
		threads []model.ThreadRef
		err     error
	)

	switch mode {
	case model.ModeThread:
		return []model.ThreadRef{model.ThreadRef(startURL)}, nil
	case model.ModeBoard:
		fmt.Fprintln(d.progress, "Getting all threads from the board ...")
		threads, err = d.Board(ctx, startURL)
	case model.ModeArchive:
		fmt.Fprintln(d.progress, "Getting all threads from the archive page ...")
		threads, err = d.Archive(ctx, startURL)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(d.progress, "Found the following %d threads:\n", len(threads))
	for _, t := range threads {
		fmt.Fprintln(d.progress, t)
	}
	return threads, nil
}

// Board fetches all BoardPageCount index pages of boardURL and
// concatenates their thread references in page order.
//
// A page answering 404 counts as a page without threads. Any other fetch
// error aborts discovery unless the Discoverer continues on error.
func (d *Discoverer) Board(ctx context.Context, boardURL string) ([]model.ThreadRef, error) {
	threads := make([]model.ThreadRef, 0)

	for _, page := range BoardPageURLs(boardURL) {
		if err := ctx.Err(); err != nil {
			return threads, err
		}

		body, err := d.fetcher.Fetch(ctx, page)
		d.onPage(string(model.ModeBoard), err)
		if err != nil {
			if fetch.IsNotFound(err) {
				d.logger.Warn("board page not found, treating as empty", "page", page)
				continue
			}
			if d.continueOnError {
				d.logger.Error("failed to fetch board page, skipping", "page", page, "error", err)
				continue
			}
			return nil, fmt.Errorf("failed to fetch board page: %w", err)
		}

		refs, err := ParseBoardPage(body, boardURL)
		if err != nil {
			return nil, err
		}
		d.logger.Debug("parsed board page", "page", page, "threads", len(refs))
		threads = append(threads, refs...)
	}

	return threads, nil
}

// Archive fetches the archive listing at archiveURL.
func (d *Discoverer) Archive(ctx context.Context, archiveURL string) ([]model.ThreadRef, error) {
	body, err := d.fetcher.Fetch(ctx, archiveURL)
	d.onPage(string(model.ModeArchive), err)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch archive page: %w", err)
	}

	threads, err := ParseArchive(body, archiveURL)
	if err != nil {
		return nil, err
	}
	d.logger.Debug("parsed archive page", "page", archiveURL, "threads", len(threads))
	return threads, nil
}
