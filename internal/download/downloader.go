package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/nao1215/chancrawl/internal/fetch"
)

const (
	// dirPerm is the permission used for created directories.
	dirPerm = 0o755

	// filePerm is the permission used for written media files.
	filePerm = 0o644
)

// ErrNoFileName is returned when a media URL has no final path segment
// to use as a file name.
var ErrNoFileName = errors.New("media URL has no file name")

// Result summarizes one Save call.
type Result struct {
	// Written is the number of files successfully written.
	Written int

	// Failed is the number of URLs that could not be fetched or written.
	// It is only non-zero when the Downloader continues on error.
	Failed int

	// Bytes is the total size of the written files.
	Bytes int64
}

// EnsureDir creates dir and any missing parents. An existing directory is
// not an error.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// FileName returns the final path segment of mediaURL.
func FileName(mediaURL string) (string, error) {
	p := mediaURL
	if u, err := url.Parse(mediaURL); err == nil {
		p = u.Path
	}
	if p == "" || strings.HasSuffix(p, "/") {
		return "", fmt.Errorf("%w: %s", ErrNoFileName, mediaURL)
	}
	name := path.Base(p)
	if name == "." || name == "/" {
		return "", fmt.Errorf("%w: %s", ErrNoFileName, mediaURL)
	}
	return name, nil
}

// Downloader fetches media URLs and writes them to disk.
type Downloader struct {
	// fetcher retrieves media bodies.
	fetcher fetch.Fetcher

	// logger receives diagnostics.
	logger *slog.Logger

	// progress receives the human-readable crawl log.
	progress io.Writer

	// continueOnError logs and counts failures instead of aborting.
	continueOnError bool

	// onSaved is called with the size of every written file.
	onSaved func(size int)

	// onFailed is called for every URL that could not be saved.
	onFailed func(err error)
}

// Option configures a Downloader.
type Option func(*Downloader)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Downloader) {
		d.logger = logger
	}
}

// WithProgress sets where progress lines are printed.
func WithProgress(w io.Writer) Option {
	return func(d *Downloader) {
		d.progress = w
	}
}

// WithContinueOnError keeps downloading after a fetch or write failure.
func WithContinueOnError(continueOnError bool) Option {
	return func(d *Downloader) {
		d.continueOnError = continueOnError
	}
}

// WithHooks registers callbacks for saved and failed files.
func WithHooks(onSaved func(size int), onFailed func(err error)) Option {
	return func(d *Downloader) {
		if onSaved != nil {
			d.onSaved = onSaved
		}
		if onFailed != nil {
			d.onFailed = onFailed
		}
	}
}

// New creates a Downloader that fetches through f.
func New(f fetch.Fetcher, opts ...Option) *Downloader {
	d := &Downloader{
		fetcher:  f,
		progress: io.Discard,
		onSaved:  func(int) {},
		onFailed: func(error) {},
	}

	for _, opt := range opts {
		opt(d)
	}

	if d.logger == nil {
		d.logger = slog.Default()
	}

	return d
}

// Save ensures dir exists and writes every URL in urls to dir under its
// original file name, overwriting existing files. URLs are downloaded one
// at a time in order.
//
// A directory creation failure is always returned. Fetch and write
// failures are returned unless the Downloader continues on error, in
// which case they are counted in Result.Failed.
func (d *Downloader) Save(ctx context.Context, urls []string, dir string) (Result, error) {
	var result Result

	if err := EnsureDir(dir); err != nil {
		return result, err
	}

	for _, mediaURL := range urls {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		size, err := d.saveOne(ctx, mediaURL, dir)
		if err != nil {
			d.onFailed(err)
			if !d.continueOnError {
				return result, err
			}
			d.logger.Error("failed to download media, skipping", "url", mediaURL, "error", err)
			result.Failed++
			continue
		}

		d.onSaved(size)
		result.Written++
		result.Bytes += int64(size)
	}

	return result, nil
}

// saveOne downloads a single URL into dir and returns the written size.
func (d *Downloader) saveOne(ctx context.Context, mediaURL, dir string) (int, error) {
	name, err := FileName(mediaURL)
	if err != nil {
		return 0, err
	}

	d.printf("Downloading image %s\n", mediaURL)
	data, err := d.fetcher.Fetch(ctx, mediaURL)
	if err != nil {
		return 0, fmt.Errorf("failed to download %s: %w", mediaURL, err)
	}

	target := filepath.Join(dir, name)
	d.printf("Writing image to %s\n", target)
	if err := os.WriteFile(target, data, filePerm); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", target, err)
	}
	return len(data), nil
}

// printf writes a progress line.
func (d *Downloader) printf(format string, args ...any) {
	fmt.Fprintf(d.progress, format, args...)
}
