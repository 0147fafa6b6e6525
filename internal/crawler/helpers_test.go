package crawler

import (
	"context"
	"sync"

	"github.com/nao1215/chancrawl/internal/fetch"
)

// fakeFetcher serves canned bodies and records requested URLs.
type fakeFetcher struct {
	mu       sync.Mutex
	pages    map[string]string
	errs     map[string]error
	requests []string
}

func newFakeFetcher(pages map[string]string) *fakeFetcher {
	return &fakeFetcher{pages: pages, errs: make(map[string]error)}
}

// Fetch implements fetch.Fetcher. Unknown URLs answer 404.
func (f *fakeFetcher) Fetch(_ context.Context, rawURL string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, rawURL)
	if err, ok := f.errs[rawURL]; ok {
		return nil, err
	}
	body, ok := f.pages[rawURL]
	if !ok {
		return nil, &fetch.HTTPError{StatusCode: 404, URL: rawURL}
	}
	return []byte(body), nil
}

func (f *fakeFetcher) requested() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

// boardPage renders a board index page with one post-number element per id.
func boardPage(ids ...string) string {
	html := `<html><body><div class="board">`
	for _, id := range ids {
		html += `<div class="thread"><div class="postInfo">` +
			`<span class="postNum desktop"><a href="thread/` + id + `#p` + id + `" title="Link to this post">No.</a>` +
			`<a href="thread/` + id + `#q` + id + `" title="Reply to this post">` + id + `</a></span>` +
			`</div></div>`
	}
	return html + `</div></body></html>`
}
