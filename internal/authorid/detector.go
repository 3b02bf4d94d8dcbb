package authorid

import (
	"sort"
	"strings"

	"shelfarr/internal/bookid"
)

// Identity is the engine's view of one canonical author row.
type Identity struct {
	ID            string
	Name          string
	OpenLibraryID string
	AudibleID     string
	GoodreadsID   string
	Active        bool
}

// BookRef carries the book fields duplicate detection and merge planning
// need; the catalog store owns the full record.
type BookRef struct {
	ID       string
	AuthorID string
	Title    string
	ISBN10   string
	ISBN13   string
	ASIN     string
}

// CandidatePair proposes that two identities denote the same real author,
// with the evidence that qualified it. Pairs are ordered strongest first.
type CandidatePair struct {
	A                 Identity
	B                 Identity
	NameScore         int
	SharedBooks       int
	SharedIdentifiers []string
}

// partialNameThreshold is the minimum author-name similarity that qualifies a
// pair on names alone.
const partialNameThreshold = 10

// FindDuplicates examines every pair of active identities and returns the
// ones that qualify as likely duplicates: name similarity at partial match or
// better, or at least one book shared by identifier. Output order is
// deterministic regardless of input order.
func FindDuplicates(identities []Identity, books []BookRef) []CandidatePair {
	active := make([]Identity, 0, len(identities))
	for _, identity := range identities {
		if identity.Active {
			active = append(active, identity)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].ID < active[j].ID })

	byAuthor := make(map[string][]BookRef, len(active))
	for _, book := range books {
		byAuthor[book.AuthorID] = append(byAuthor[book.AuthorID], book)
	}

	var pairs []CandidatePair
	for i := 0; i < len(active); i++ {
		for j := i + 1; j < len(active); j++ {
			a, b := active[i], active[j]
			nameScore := bookid.AuthorSimilarity(a.Name, b.Name)
			shared := sharedIdentifiers(byAuthor[a.ID], byAuthor[b.ID])
			if nameScore < partialNameThreshold && len(shared) == 0 {
				continue
			}
			pairs = append(pairs, CandidatePair{
				A:                 a,
				B:                 b,
				NameScore:         nameScore,
				SharedBooks:       len(shared),
				SharedIdentifiers: shared,
			})
		}
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		if pairs[i].SharedBooks != pairs[j].SharedBooks {
			return pairs[i].SharedBooks > pairs[j].SharedBooks
		}
		if pairs[i].NameScore != pairs[j].NameScore {
			return pairs[i].NameScore > pairs[j].NameScore
		}
		if pairs[i].A.ID != pairs[j].A.ID {
			return pairs[i].A.ID < pairs[j].A.ID
		}
		return pairs[i].B.ID < pairs[j].B.ID
	})
	return pairs
}

// identifierKeys lists every comparable identifier a book carries, with ISBNs
// reduced to their 13-digit form.
func identifierKeys(book BookRef) []string {
	var keys []string
	if asin := strings.ToUpper(strings.TrimSpace(book.ASIN)); asin != "" {
		keys = append(keys, "asin:"+asin)
	}
	seen := map[string]struct{}{}
	for _, raw := range []string{book.ISBN10, book.ISBN13} {
		if canonical := bookid.CanonicalISBN13(raw); canonical != "" {
			if _, ok := seen[canonical]; !ok {
				seen[canonical] = struct{}{}
				keys = append(keys, "isbn:"+canonical)
			}
		}
	}
	return keys
}

// sharedIdentifiers returns the identifier keys present under both identities,
// sorted for stable output.
func sharedIdentifiers(a, b []BookRef) []string {
	left := map[string]struct{}{}
	for _, book := range a {
		for _, key := range identifierKeys(book) {
			left[key] = struct{}{}
		}
	}
	if len(left) == 0 {
		return nil
	}
	shared := map[string]struct{}{}
	for _, book := range b {
		for _, key := range identifierKeys(book) {
			if _, ok := left[key]; ok {
				shared[key] = struct{}{}
			}
		}
	}
	if len(shared) == 0 {
		return nil
	}
	keys := make([]string, 0, len(shared))
	for key := range shared {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
