package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/nao1215/chancrawl/internal/config"
	"github.com/nao1215/chancrawl/internal/crawler"
	"github.com/nao1215/chancrawl/internal/download"
	"github.com/nao1215/chancrawl/internal/fetch"
	"github.com/nao1215/chancrawl/internal/metrics"
	"github.com/nao1215/chancrawl/internal/model"
)

// Job carries the state of one thread through the steps.
type Job struct {
	// Ref is the thread being processed.
	Ref model.ThreadRef

	// Thread is set by the extract step.
	Thread *model.Thread

	// Result is reported once all steps ran or one failed.
	Result model.ThreadResult
}

// Step is one stage of thread processing.
type Step interface {
	// Do executes the step. Returning an error stops the thread.
	Do(ctx context.Context, job *Job) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates a crawl run.
type Pipeline struct {
	// fetcher retrieves every page and media file.
	fetcher fetch.Fetcher

	// logger is used for structured logging during execution.
	logger *slog.Logger

	// progress receives the human-readable crawl log.
	progress io.Writer

	// metrics records run counters. Nil records nothing.
	metrics *metrics.Recorder
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithProgress sets where progress lines are printed.
func WithProgress(w io.Writer) Option {
	return func(p *Pipeline) {
		p.progress = w
	}
}

// WithMetrics records run counters in r.
func WithMetrics(r *metrics.Recorder) Option {
	return func(p *Pipeline) {
		p.metrics = r
	}
}

// New creates a Pipeline that fetches through f.
func New(f fetch.Fetcher, opts ...Option) *Pipeline {
	p := &Pipeline{
		fetcher:  f,
		progress: io.Discard,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// Run crawls according to cfg and returns the run report.
//
// The report is returned even when Run fails, holding the threads
// processed so far. A thread answering 404 is recorded and skipped in
// either policy. Without cfg.KeepGoing any other fetch or write error
// ends the run; with it, failed threads are recorded and skipped.
func (p *Pipeline) Run(ctx context.Context, cfg *config.Config) (*model.RunReport, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	startURL := cfg.StartURL()
	report := model.NewRunReport(startURL, cfg.Mode)
	logger := p.logger.With("run", report.RunID)
	defer func() {
		report.Finish()
		p.metrics.ObserveRun(report.Elapsed())
	}()

	fmt.Fprintf(p.progress, "Crawling %s ...\n", startURL)

	discoverer := crawler.NewDiscoverer(p.fetcher,
		crawler.WithDiscovererLogger(logger),
		crawler.WithDiscovererProgress(p.progress),
		crawler.WithDiscovererContinueOnError(cfg.KeepGoing),
		crawler.WithPageHook(p.metrics.PageFetched),
	)
	refs, err := discoverer.Discover(ctx, cfg.Mode, startURL)
	if err != nil {
		return report, err
	}

	steps := p.steps(cfg, logger)
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			logger.Warn("run cancelled", "thread", ref, "reason", err)
			return report, err
		}

		job := &Job{
			Ref:    ref,
			Result: model.ThreadResult{URL: ref.String()},
		}
		err := p.execute(ctx, steps, job, logger)
		report.AddThread(job.Result)

		switch {
		case errors.Is(err, crawler.ErrThreadNotFound):
			p.metrics.Thread(metrics.OutcomeNotFound)
			logger.Warn("thread not found, skipping", "thread", ref)
			fmt.Fprintf(p.progress, "Skipping thread %s: not found\n", ref)
			continue
		case err != nil:
			p.metrics.Thread(metrics.OutcomeError)
		case job.Result.Excluded:
			p.metrics.Thread(metrics.OutcomeExcluded)
		default:
			p.metrics.Thread(metrics.OutcomeOK)
		}

		if err != nil {
			if !cfg.KeepGoing {
				return report, err
			}
			logger.Error("thread failed, skipping", "thread", ref, "error", err)
		}
	}

	return report, nil
}

// steps builds the per-thread steps for cfg.
func (p *Pipeline) steps(cfg *config.Config, logger *slog.Logger) []Step {
	extractor := crawler.NewExtractor(p.fetcher,
		crawler.WithExtractorLogger(logger),
		crawler.WithExtractorProgress(p.progress),
	)
	downloader := download.New(p.fetcher,
		download.WithLogger(logger),
		download.WithProgress(p.progress),
		download.WithContinueOnError(cfg.KeepGoing),
		download.WithHooks(p.metrics.MediaSaved, p.metrics.MediaFailed),
	)

	return []Step{
		NewExtractStep(extractor, crawler.ExtractOptions{
			Small:          cfg.Small,
			Rules:          cfg.Exclude,
			OutputDir:      cfg.OutputDir,
			Subdirectories: cfg.Subdirectories,
		}, p.progress),
		NewDownloadStep(downloader, p.progress),
	}
}

// execute runs steps on job in order. An excluded job stops after the
// step that excluded it.
func (p *Pipeline) execute(ctx context.Context, steps []Step, job *Job, logger *slog.Logger) error {
	for _, step := range steps {
		logger.Debug("executing step", "step", step.Name(), "thread", job.Ref)

		if err := step.Do(ctx, job); err != nil {
			job.Result.Error = err.Error()
			return fmt.Errorf("%s %s: %w", step.Name(), job.Ref, err)
		}

		if job.Result.Excluded {
			return nil
		}
	}
	return nil
}
