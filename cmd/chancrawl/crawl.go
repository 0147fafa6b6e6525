package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/chancrawl/internal/config"
	"github.com/nao1215/chancrawl/internal/fetch"
	"github.com/nao1215/chancrawl/internal/filter"
	"github.com/nao1215/chancrawl/internal/log"
	"github.com/nao1215/chancrawl/internal/metrics"
	"github.com/nao1215/chancrawl/internal/model"
	"github.com/nao1215/chancrawl/internal/pipeline"
	"github.com/nao1215/chancrawl/internal/report"
)

// runCrawlCmd executes the crawl.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger, closer, err := log.New(log.Options{
		Stderr:  cmd.ErrOrStderr(),
		File:    cfg.LogFile,
		Verbose: cfg.Verbose,
	})
	if err != nil {
		return err
	}
	defer closer.Close()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runCrawl(ctx, cfg, logger, cmd.OutOrStdout())
}

// buildConfig translates flags and the positional argument into a Config.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	archive, err := flags.GetBool("archive")
	if err != nil {
		return nil, err
	}
	thread, err := flags.GetBool("thread")
	if err != nil {
		return nil, err
	}
	switch {
	case thread:
		cfg.Mode = model.ModeThread
	case archive:
		cfg.Mode = model.ModeArchive
	default:
		cfg.Mode = model.ModeBoard
	}

	if cfg.OutputDir, err = flags.GetString("directory"); err != nil {
		return nil, err
	}
	if cfg.Small, err = flags.GetBool("small"); err != nil {
		return nil, err
	}
	exclude, err := flags.GetString("exclude")
	if err != nil {
		return nil, err
	}
	cfg.Exclude = filter.ParseRules(exclude)
	if cfg.Subdirectories, err = flags.GetBool("subdirectories"); err != nil {
		return nil, err
	}
	if cfg.KeepGoing, err = flags.GetBool("keep-going"); err != nil {
		return nil, err
	}

	if cfg.ProxyAddress, err = flags.GetString("proxy"); err != nil {
		return nil, err
	}
	userAgent, err := flags.GetString("user-agent")
	if err != nil {
		return nil, err
	}
	if userAgent != "" {
		cfg.UserAgent = userAgent
	}
	if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
		return nil, err
	}

	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.YAMLReport, err = flags.GetBool("yaml"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("report-file"); err != nil {
		return nil, err
	}
	if cfg.MetricsFile, err = flags.GetString("metrics-file"); err != nil {
		return nil, err
	}
	if cfg.LogFile, err = flags.GetString("log-file"); err != nil {
		return nil, err
	}
	if cfg.Verbose, err = flags.GetBool("verbose"); err != nil {
		return nil, err
	}

	if len(args) > 0 {
		cfg.Target = args[0]
	}
	return cfg, nil
}

// newFetcher builds the HTTP client described by cfg.
func newFetcher(cfg *config.Config, logger *slog.Logger) (*fetch.Client, error) {
	client, err := fetch.NewClient(
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithTimeout(cfg.Timeout),
		fetch.WithMaxBodySize(cfg.MaxBodySize),
		fetch.WithProxy(cfg.ProxyAddress),
	)
	if err != nil {
		return nil, err
	}

	if addr := client.ProxyAddress(); addr != "" {
		logger.Info("routing requests through SOCKS5 proxy", "proxy", addr)
	} else {
		logger.Debug("connecting directly")
	}
	return client, nil
}

// runCrawl runs the pipeline with a real HTTP client and prints the
// summary and the report.
func runCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger, stdout io.Writer) error {
	client, err := newFetcher(cfg, logger)
	if err != nil {
		return err
	}
	return crawl(ctx, cfg, client, logger, stdout)
}

// crawl runs the pipeline through f. The metrics file is written even
// when the run fails.
func crawl(ctx context.Context, cfg *config.Config, f fetch.Fetcher, logger *slog.Logger, stdout io.Writer) error {
	var rec *metrics.Recorder
	if cfg.MetricsFile != "" {
		rec = metrics.New()
	}

	p := pipeline.New(f,
		pipeline.WithLogger(logger),
		pipeline.WithProgress(stdout),
		pipeline.WithMetrics(rec),
	)

	runReport, runErr := p.Run(ctx, cfg)

	var errs []error
	if runErr != nil {
		errs = append(errs, runErr)
	}
	if err := rec.WriteTextfile(cfg.MetricsFile); err != nil {
		errs = append(errs, err)
	}
	if runErr != nil {
		return errors.Join(errs...)
	}

	fmt.Fprintln(stdout)
	if _, err := report.NewSimpleWriter(stdout).Write(runReport); err != nil {
		errs = append(errs, err)
	}
	if err := outputReport(cfg, runReport, stdout); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// outputReport writes the structured report selected by cfg to the report
// file, or to stdout when no file is set. The plain summary has already
// been printed, so nothing is written for the simple format unless a
// report file was requested.
func outputReport(cfg *config.Config, runReport *model.RunReport, stdout io.Writer) error {
	format := cfg.ReportFormat()
	if format == config.ReportSimple && cfg.ReportFile == "" {
		return nil
	}

	output := stdout
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return fmt.Errorf("failed to create report directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close()
		output = f
	}

	w, err := report.New(format, output)
	if err != nil {
		return err
	}
	_, err = w.Write(runReport)
	return err
}
