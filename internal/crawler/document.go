package crawler

import (
	"bytes"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Selectors for the page structure the parsers understand.
const (
	selectorPostNumber  = "span.postNum"
	selectorArchiveList = "#arc-list"
	selectorSubject     = "span.subject"
	selectorPostMessage = "blockquote.postMessage"
	selectorFullImage   = "a.fileThumb"
	selectorThumbnail   = "img"
)

// threadSegment is the path segment that precedes a thread ID.
const threadSegment = "thread"

// parseDocument parses an HTML page into a queryable document.
func parseDocument(body []byte) (*goquery.Document, error) {
	root, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return goquery.NewDocumentFromNode(root), nil
}

// resolveURL resolves href against base and drops the fragment.
// It returns "" for empty or unparsable hrefs.
func resolveURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || href == "#" {
		return ""
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}

	resolved := base.ResolveReference(u)
	resolved.Fragment = ""
	resolved.RawFragment = ""
	return resolved.String()
}

// originOf returns the scheme and host of u with no path.
func originOf(u *url.URL) *url.URL {
	return &url.URL{Scheme: u.Scheme, Host: u.Host}
}

// canonicalThreadPath removes the trailing segments that archive links
// append after the thread ID, e.g. "/g/thread/123/some-title" becomes
// "/g/thread/123". Paths without a thread segment lose their last segment.
func canonicalThreadPath(p string) string {
	trimmed := strings.TrimSuffix(p, "/")
	segments := strings.Split(trimmed, "/")

	for i, s := range segments {
		if s == threadSegment && i+1 < len(segments) {
			return strings.Join(segments[:i+2], "/")
		}
	}

	dir := path.Dir(trimmed)
	if dir == "." {
		return "/"
	}
	return dir
}

// lastSegment returns the final path segment of rawURL, ignoring any
// trailing slash, query or fragment.
func lastSegment(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}
	p = strings.TrimSuffix(p, "/")
	if p == "" {
		return ""
	}
	return path.Base(p)
}

// ThreadID returns the last path segment of a thread URL, used as the
// per-thread subdirectory name.
func ThreadID(rawURL string) string {
	return lastSegment(rawURL)
}
