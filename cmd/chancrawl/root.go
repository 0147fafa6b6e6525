package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/chancrawl/internal/config"
)

// NewRootCmd creates the root command for chancrawl.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chancrawl [flags] <board|thread-url>",
		Short: "Download all images from an imageboard board or thread",
		Long: `chancrawl crawls a board, its archive, or a single thread and downloads
every image and video posted there.

By default all ten index pages of the board are read. Use --archive to read
the archive listing instead, or --thread to download one thread by URL.

Examples:
  # Download every image currently on /g/
  chancrawl g

  # Read the archive, skip threads mentioning foo or bar,
  # one directory per thread
  chancrawl -a -e foo,bar -S -d out g

  # Download the thumbnails of a single thread
  chancrawl -s -t https://boards.4chan.org/g/thread/123

  # Write a Markdown report next to the downloads
  chancrawl -m -o out/report.md -d out g`,
		Version:       currentBuild().Version,
		Args:          cobra.ExactArgs(1),
		RunE:          runCrawlCmd,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Discovery flags
	cmd.Flags().BoolP("archive", "a", false,
		"Crawl the archive page instead of the board index")
	cmd.Flags().BoolP("thread", "t", false,
		"Treat the argument as a thread URL and skip discovery")
	cmd.MarkFlagsMutuallyExclusive("archive", "thread")

	// Download flags
	cmd.Flags().StringP("directory", "d", ".",
		"Directory to download into")
	cmd.Flags().BoolP("small", "s", false,
		"Download thumbnails instead of full-size files")
	cmd.Flags().StringP("exclude", "e", "",
		"Skip threads whose subject or first post contains a term (comma separated)")
	cmd.Flags().BoolP("subdirectories", "S", false,
		"Create one subdirectory per thread")
	cmd.Flags().BoolP("keep-going", "k", false,
		"Log and skip failed pages, threads and images instead of aborting")

	// Network flags
	cmd.Flags().String("proxy", "",
		"SOCKS5 proxy address (e.g., 127.0.0.1:9050)")
	cmd.Flags().String("user-agent", "",
		"User-Agent header sent with every request")
	cmd.Flags().Duration("timeout", config.DefaultTimeout,
		"Timeout for each request")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output a JSON run report")
	cmd.Flags().BoolP("yaml", "y", false,
		"Output a YAML run report")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output a Markdown run report")
	cmd.MarkFlagsMutuallyExclusive("json", "yaml", "markdown")
	cmd.Flags().StringP("report-file", "o", "",
		"Write the report to a file instead of stdout (creates directories if needed)")
	cmd.Flags().String("metrics-file", "",
		"Write Prometheus metrics in textfile format to this path")

	// Logging flags
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.Flags().String("log-file", "",
		"Also write logs to this file, rotated by size")

	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
