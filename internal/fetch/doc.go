// Package fetch issues HTTP GET requests and returns response bodies.
//
// Every other stage depends on the Fetcher interface rather than on
// net/http directly, so tests can substitute a FetcherFunc double. The
// Client implementation optionally routes through a SOCKS5 proxy.
package fetch
