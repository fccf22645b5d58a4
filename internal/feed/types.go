package feed

import "context"

// SourceKind identifies which rule set applies to a source's posts
type SourceKind string

const (
	// KindPrimary is the deal-listing feed with price-gated category rules
	KindPrimary SourceKind = "primary"
	// KindSecondary is the marketplace feed with keyword-only GPU rules
	KindSecondary SourceKind = "secondary"
)

// Post represents one entry from a polled feed
type Post struct {
	ID      string
	Title   string
	Link    string
	Excerpt string
	Source  SourceKind
}

// Source defines the contract for all feed source implementations
type Source interface {
	// Fetch retrieves the current posts from the source
	Fetch(ctx context.Context) ([]Post, error)

	// Name returns the source's name for logging and identification
	Name() string

	// Kind returns which rule set applies to the source's posts
	Kind() SourceKind
}
