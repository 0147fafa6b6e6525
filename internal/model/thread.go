package model

// ThreadRef is the absolute URL of a single discussion thread.
type ThreadRef string

// String returns the URL form of the reference.
func (r ThreadRef) String() string {
	return string(r)
}

// FilterText holds the text used to decide whether a thread is excluded.
//
// A nil field means the element was not present on the page, which is
// different from an element that exists but has no text.
type FilterText struct {
	// Subject is the subject line of the opening post.
	Subject *string

	// FirstPost is the body text of the opening post.
	FirstPost *string
}

// Text returns a pointer to s. It is a convenience for building FilterText.
func Text(s string) *string {
	return &s
}

// Thread is the extracted content of one thread page.
type Thread struct {
	// Ref is the thread this content was read from.
	Ref ThreadRef

	// Text is the subject and first post used for exclusion filtering.
	Text FilterText

	// Media holds absolute media URLs in document order, already
	// filtered by the built-in chrome exclusions and format allow-list.
	Media []string

	// Directory is where media from this thread is written.
	Directory string

	// Excluded reports that an operator rule matched the filter text.
	// Media is empty and Directory is unset when Excluded is true.
	Excluded bool

	// MatchedRule is the rule that caused the exclusion.
	MatchedRule string
}
