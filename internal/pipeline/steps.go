package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/nao1215/chancrawl/internal/crawler"
	"github.com/nao1215/chancrawl/internal/download"
)

// ExtractStep fetches the thread page and decides whether it is excluded.
type ExtractStep struct {
	extractor *crawler.Extractor
	opts      crawler.ExtractOptions
	progress  io.Writer
}

// NewExtractStep creates an ExtractStep.
func NewExtractStep(extractor *crawler.Extractor, opts crawler.ExtractOptions, progress io.Writer) *ExtractStep {
	return &ExtractStep{extractor: extractor, opts: opts, progress: progress}
}

// Name implements Step.
func (s *ExtractStep) Name() string {
	return "extract"
}

// Do implements Step.
func (s *ExtractStep) Do(ctx context.Context, job *Job) error {
	fmt.Fprintf(s.progress, "Getting all links from thread %s\n", job.Ref)

	thread, err := s.extractor.Extract(ctx, job.Ref, s.opts)
	if err != nil {
		return err
	}

	job.Thread = thread
	if thread.Excluded {
		job.Result.Excluded = true
		job.Result.MatchedRule = thread.MatchedRule
		fmt.Fprintf(s.progress, "Skipping thread %s: contains excluded term %q\n", job.Ref, thread.MatchedRule)
		return nil
	}

	job.Result.Directory = thread.Directory
	job.Result.MediaFound = len(thread.Media)
	return nil
}

// DownloadStep saves the media of an extracted thread.
type DownloadStep struct {
	downloader *download.Downloader
	progress   io.Writer
}

// NewDownloadStep creates a DownloadStep.
func NewDownloadStep(downloader *download.Downloader, progress io.Writer) *DownloadStep {
	return &DownloadStep{downloader: downloader, progress: progress}
}

// Name implements Step.
func (s *DownloadStep) Name() string {
	return "download"
}

// Do implements Step.
func (s *DownloadStep) Do(ctx context.Context, job *Job) error {
	if job.Thread == nil || job.Thread.Excluded {
		return nil
	}

	fmt.Fprintf(s.progress, "Downloading all images from thread %s\n", job.Ref)

	res, err := s.downloader.Save(ctx, job.Thread.Media, job.Thread.Directory)
	job.Result.Downloaded = res.Written
	job.Result.Failed = res.Failed
	return err
}
