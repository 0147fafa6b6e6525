package crawler

import "errors"

var (
	// ErrArchiveListMissing is returned when an archive page has no
	// archive list container, which usually means the board has no
	// archive or the page layout changed.
	ErrArchiveListMissing = errors.New("archive list container not found")

	// ErrUnknownMode is returned when discovery is asked for a mode it
	// does not implement.
	ErrUnknownMode = errors.New("unknown discovery mode")

	// ErrThreadNotFound is returned when a thread page answers 404,
	// usually because it was pruned after discovery listed it.
	ErrThreadNotFound = errors.New("thread not found")
)
