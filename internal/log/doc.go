// Package log builds the slog loggers used by chancrawl.
//
// Loggers write text records to stderr and, optionally, to a size-rotated
// log file. Every record passes through a RedactHandler, which masks
// credential-like attributes and strips user information from URLs so that
// proxy passwords and session cookies never reach a log file.
//
// # Usage
//
//	logger, closer, err := log.New(log.Options{
//	    Stderr:  os.Stderr,
//	    File:    "chancrawl.log",
//	    Verbose: true,
//	})
//	if err != nil {
//	    return err
//	}
//	defer closer.Close()
//	slog.SetDefault(logger)
package log
