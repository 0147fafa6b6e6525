package model

import (
	"time"

	"github.com/google/uuid"
)

// Mode is the way thread references are discovered.
type Mode string

const (
	// ModeBoard walks the paginated board index.
	ModeBoard Mode = "board"

	// ModeArchive reads the board archive listing.
	ModeArchive Mode = "archive"

	// ModeThread uses a single operator-supplied thread URL.
	ModeThread Mode = "thread"
)

// ThreadResult records what happened to one thread during a run.
type ThreadResult struct {
	URL         string `json:"url" yaml:"url"`
	Directory   string `json:"directory,omitempty" yaml:"directory,omitempty"`
	Excluded    bool   `json:"excluded" yaml:"excluded"`
	MatchedRule string `json:"matchedRule,omitempty" yaml:"matchedRule,omitempty"`
	MediaFound  int    `json:"mediaFound" yaml:"mediaFound"`
	Downloaded  int    `json:"downloaded" yaml:"downloaded"`
	Failed      int    `json:"failed" yaml:"failed"`
	Error       string `json:"error,omitempty" yaml:"error,omitempty"`
}

// RunReport aggregates the outcome of one invocation.
type RunReport struct {
	// RunID identifies the run in logs and reports.
	RunID string `json:"runId" yaml:"runId"`

	// StartURL is the board, archive or thread URL the run started from.
	StartURL string `json:"startUrl" yaml:"startUrl"`

	// Mode is the discovery mode.
	Mode Mode `json:"mode" yaml:"mode"`

	// StartedAt and FinishedAt bound the run's wall-clock time.
	StartedAt  time.Time `json:"startedAt" yaml:"startedAt"`
	FinishedAt time.Time `json:"finishedAt" yaml:"finishedAt"`

	// Threads holds one entry per thread reference, in processing order.
	Threads []ThreadResult `json:"threads" yaml:"threads"`

	// TotalImages is the number of media files successfully written.
	TotalImages int `json:"totalImages" yaml:"totalImages"`

	// TotalThreads is the number of thread references iterated,
	// including excluded ones.
	TotalThreads int `json:"totalThreads" yaml:"totalThreads"`
}

// NewRunReport creates an empty report stamped with a fresh run ID.
func NewRunReport(startURL string, mode Mode) *RunReport {
	return &RunReport{
		RunID:     uuid.NewString(),
		StartURL:  startURL,
		Mode:      mode,
		StartedAt: time.Now(),
		Threads:   make([]ThreadResult, 0),
	}
}

// AddThread appends a thread result and updates the totals.
func (r *RunReport) AddThread(result ThreadResult) {
	r.Threads = append(r.Threads, result)
	r.TotalThreads++
	r.TotalImages += result.Downloaded
}

// Finish stamps the finish time.
func (r *RunReport) Finish() {
	r.FinishedAt = time.Now()
}

// Elapsed returns the run duration. It is zero until Finish is called.
func (r *RunReport) Elapsed() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// SkippedThreads returns the number of excluded threads.
func (r *RunReport) SkippedThreads() int {
	n := 0
	for _, t := range r.Threads {
		if t.Excluded {
			n++
		}
	}
	return n
}

// FailedMedia returns the number of media files that could not be saved.
func (r *RunReport) FailedMedia() int {
	n := 0
	for _, t := range r.Threads {
		n += t.Failed
	}
	return n
}
