package bookid

import "strings"

// Provider tags the metadata source a candidate record came from. The ordered
// list below is the single priority hierarchy consumed by both the ranker
// tie-break and the provider preference resolver.
type Provider string

const (
	ProviderAudnexus    Provider = "audnexus"
	ProviderISBNdb      Provider = "isbndb"
	ProviderGoogleBooks Provider = "google"
	ProviderOpenLibrary Provider = "openlibrary"
)

// unknownProviderPriority ranks unrecognized provider tags below every known
// source instead of failing the pair (stale candidate provenance degrades,
// never errors).
const unknownProviderPriority = 99

// providerOrder lists known providers from most to least authoritative.
var providerOrder = []Provider{
	ProviderAudnexus,
	ProviderISBNdb,
	ProviderGoogleBooks,
	ProviderOpenLibrary,
}

var providerPriority = func() map[Provider]int {
	m := make(map[Provider]int, len(providerOrder))
	for i, p := range providerOrder {
		m[p] = i
	}
	return m
}()

// ParseProvider normalizes a provider tag. Unknown tags are preserved
// verbatim so they can still be displayed, but rank last.
func ParseProvider(tag string) Provider {
	normalized := Provider(strings.ToLower(strings.TrimSpace(tag)))
	if _, ok := providerPriority[normalized]; ok {
		return normalized
	}
	return Provider(strings.TrimSpace(tag))
}

// Priority returns the provider's position in the authority order; lower is
// more authoritative.
func (p Provider) Priority() int {
	if priority, ok := providerPriority[p]; ok {
		return priority
	}
	return unknownProviderPriority
}

// Known reports whether the provider is part of the recognized hierarchy.
func (p Provider) Known() bool {
	_, ok := providerPriority[p]
	return ok
}
