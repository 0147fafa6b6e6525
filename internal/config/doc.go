// Package config provides the run configuration for chancrawl: what to
// crawl, where to write media, and how the run reports its results.
package config
