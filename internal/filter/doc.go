// Package filter holds the string-matching rules applied during a crawl.
//
// Everything here is a pure function of its inputs so the rules can be
// tested without network access or HTML fixtures:
//   - Rules: operator-supplied exclusion terms matched against thread text
//   - ExcludedChrome: built-in substrings marking site UI images
//   - MediaFormats: file-extension allow-list for media URLs
package filter
