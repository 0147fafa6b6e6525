package filter

import (
	"net/url"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/nao1215/chancrawl/internal/model"
)

// ExcludedChrome lists substrings that identify site chrome (banners,
// status icons, staff badges) rather than posted media. A media URL
// containing any of them is dropped regardless of operator rules.
var ExcludedChrome = []string{
	"contest_banner",
	"archived",
	"closed",
	"sticky",
	"modicon",
	"adminicon",
}

// MediaFormats lists the file-extension suffixes kept as media.
var MediaFormats = []string{
	".jpg",
	".png",
	".gif",
	".webm",
}

// ruleSeparator splits the --exclude value into individual terms.
const ruleSeparator = ","

// Rules is an ordered set of case-sensitive exclusion terms.
type Rules []string

// ParseRules splits a comma-separated list of terms.
// Surrounding whitespace is trimmed and empty terms are dropped, so
// "foo, bar," yields ["foo" "bar"]. An empty input yields no rules.
func ParseRules(value string) Rules {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	parts := strings.Split(value, ruleSeparator)
	rules := make(Rules, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		rules = append(rules, p)
	}
	if len(rules) == 0 {
		return nil
	}
	return rules
}

// Empty reports whether there are no rules.
func (r Rules) Empty() bool {
	return len(r) == 0
}

// Match returns the first rule contained in text.
// A nil text never matches; absence of an element is not a match.
// Both sides are compared in Unicode NFC form.
func (r Rules) Match(text *string) (string, bool) {
	if text == nil || r.Empty() {
		return "", false
	}

	normalized := norm.NFC.String(*text)
	for _, rule := range r {
		if strings.Contains(normalized, norm.NFC.String(rule)) {
			return rule, true
		}
	}
	return "", false
}

// Excluded checks the subject and first post independently and returns
// the rule that matched either of them.
func (r Rules) Excluded(text model.FilterText) (string, bool) {
	if rule, ok := r.Match(text.Subject); ok {
		return rule, true
	}
	return r.Match(text.FirstPost)
}

// IsChrome reports whether mediaURL contains a built-in chrome substring.
func IsChrome(mediaURL string) bool {
	for _, s := range ExcludedChrome {
		if strings.Contains(mediaURL, s) {
			return true
		}
	}
	return false
}

// HasMediaFormat reports whether the path of mediaURL ends in one of
// MediaFormats. Query strings and fragments are ignored.
func HasMediaFormat(mediaURL string) bool {
	p := mediaURL
	if u, err := url.Parse(mediaURL); err == nil {
		p = u.Path
	}

	for _, ext := range MediaFormats {
		if strings.HasSuffix(p, ext) {
			return true
		}
	}
	return false
}

// KeepMedia reports whether mediaURL survives both built-in checks.
func KeepMedia(mediaURL string) bool {
	return !IsChrome(mediaURL) && HasMediaFormat(mediaURL)
}

// Media returns the candidates that pass KeepMedia, preserving order.
func Media(candidates []string) []string {
	kept := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if KeepMedia(c) {
			kept = append(kept, c)
		}
	}
	return kept
}
