package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/nao1215/chancrawl/internal/crawler"
	"github.com/nao1215/chancrawl/internal/fetch"
	"github.com/nao1215/chancrawl/internal/filter"
	"github.com/nao1215/chancrawl/internal/model"
)

// Default configuration values.
const (
	// DefaultTimeout bounds a single HTTP request, media downloads included.
	DefaultTimeout = 60 * time.Second

	// DefaultMaxBodySize limits a single response body.
	DefaultMaxBodySize = fetch.DefaultMaxBodySize
)

// ReportFormat selects how the run report is printed.
type ReportFormat string

// Report formats.
const (
	ReportSimple   ReportFormat = "simple"
	ReportJSON     ReportFormat = "json"
	ReportYAML     ReportFormat = "yaml"
	ReportMarkdown ReportFormat = "markdown"
)

// Config holds everything one crawl run needs. It is built from CLI flags
// and not changed once the run starts.
type Config struct {
	// Target is the board name ("g") or, in thread mode, the thread URL.
	Target string

	// Mode selects board, archive or thread discovery.
	Mode model.Mode

	// Origin is the site the board and archive URLs are built on.
	Origin string

	// OutputDir is where media is written.
	OutputDir string

	// Small downloads thumbnails instead of full-size media.
	Small bool

	// Subdirectories writes each thread into OutputDir/<thread id>.
	Subdirectories bool

	// Exclude skips threads whose subject or first post contains any rule.
	Exclude filter.Rules

	// KeepGoing logs and skips failed fetches and writes instead of aborting.
	KeepGoing bool

	// ProxyAddress is an optional SOCKS5 proxy in "host:port" form.
	ProxyAddress string

	// UserAgent is sent with every request.
	UserAgent string

	// Timeout bounds a single HTTP request.
	Timeout time.Duration

	// MaxBodySize limits a single response body. Zero means the default.
	MaxBodySize int64

	// JSONReport, YAMLReport and MarkdownReport select the report format.
	// At most one may be set.
	JSONReport     bool
	YAMLReport     bool
	MarkdownReport bool

	// ReportFile receives the report instead of stdout.
	ReportFile string

	// MetricsFile receives Prometheus metrics in textfile format.
	MetricsFile string

	// LogFile receives a copy of the log records, rotated by size.
	LogFile string

	// Verbose enables debug logging.
	Verbose bool
}

// NewConfig returns a Config with default values for board mode.
func NewConfig() *Config {
	return &Config{
		Mode:        model.ModeBoard,
		Origin:      crawler.DefaultOrigin,
		OutputDir:   ".",
		UserAgent:   fetch.DefaultUserAgent,
		Timeout:     DefaultTimeout,
		MaxBodySize: DefaultMaxBodySize,
	}
}

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Target) == "" {
		return ErrNoTarget
	}

	switch c.Mode {
	case model.ModeBoard, model.ModeArchive:
		if name := boardName(c.Target); name == "" || strings.ContainsAny(name, "/?# \t") {
			return fmt.Errorf("%w: %q", ErrInvalidBoard, c.Target)
		}
	case model.ModeThread:
		u, err := url.Parse(c.Target)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: %q", ErrInvalidThreadURL, c.Target)
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidMode, c.Mode)
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	formats := 0
	for _, set := range []bool{c.JSONReport, c.YAMLReport, c.MarkdownReport} {
		if set {
			formats++
		}
	}
	if formats > 1 {
		return ErrConflictingReportFormats
	}

	return nil
}

// StartURL returns the first URL the run fetches: the board index, the
// archive page or the thread itself.
func (c *Config) StartURL() string {
	switch c.Mode {
	case model.ModeArchive:
		return crawler.ArchiveURL(c.origin(), boardName(c.Target))
	case model.ModeThread:
		return strings.TrimSpace(c.Target)
	default:
		return crawler.BoardURL(c.origin(), boardName(c.Target))
	}
}

// ReportFormat returns the selected report format.
func (c *Config) ReportFormat() ReportFormat {
	switch {
	case c.JSONReport:
		return ReportJSON
	case c.YAMLReport:
		return ReportYAML
	case c.MarkdownReport:
		return ReportMarkdown
	default:
		return ReportSimple
	}
}

func (c *Config) origin() string {
	if c.Origin == "" {
		return crawler.DefaultOrigin
	}
	return c.Origin
}

// boardName accepts "g", "/g/" and " g " alike.
func boardName(target string) string {
	return strings.Trim(strings.TrimSpace(target), "/")
}
