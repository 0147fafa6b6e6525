// Package crawler discovers threads on an imageboard and extracts the
// media they contain.
//
// # Components
//
//   - Discoverer: turns a board index or archive listing into thread references
//   - Extractor: reads a thread page into filter text and media URLs
//
// Parsing is split from fetching: ParseBoardPage, ParseArchive and
// ParseThread operate on bytes already in memory, while the Discoverer and
// Extractor drive a fetch.Fetcher and apply the fetch-failure policy.
//
// # Page structure
//
// The selectors below describe the layout the parsers expect:
//
//	board index    span.postNum > a[href]      (first anchor per post number)
//	archive        #arc-list a[href]
//	thread         span.subject, blockquote.postMessage
//	full-size      a.fileThumb[href]
//	thumbnails     img[src]
package crawler
