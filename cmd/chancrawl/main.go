// Package main provides the entry point for the chancrawl CLI.
//
// chancrawl downloads the images and videos posted to an imageboard board,
// its archive, or a single thread.
//
// Usage:
//
//	chancrawl g
//	chancrawl -a -e foo,bar -S -d out g
//	chancrawl -t https://boards.4chan.org/g/thread/123
//
// See --help for all available options.
package main

func main() {
	Execute()
}
