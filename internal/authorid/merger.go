package authorid

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"shelfarr/internal/bookid"
)

// ErrConflictingIdentifierMerge aborts a merge that would gather two books
// with different present identifiers under one canonical record. The pair
// needs human resolution; no partial state is ever committed.
var ErrConflictingIdentifierMerge = errors.New("merge would collide books with conflicting identifiers")

// ErrSelfMerge rejects merging an identity into itself.
var ErrSelfMerge = errors.New("cannot merge an identity into itself")

// MergeSpec describes the atomic consolidation of duplicate into primary.
// The catalog store commits the whole spec in one transaction or not at all.
type MergeSpec struct {
	PrimaryID   string
	DuplicateID string
	// RepointBookIDs are the duplicate's books whose author edge moves to the
	// primary, sorted for determinism.
	RepointBookIDs []string
	// Provider id links the primary gains from the duplicate. Only links the
	// primary lacks appear here; existing links are never overwritten.
	OpenLibraryID string
	AudibleID     string
	GoodreadsID   string
	// NoOp marks a merge that has already happened; committing it changes
	// nothing. Planning the same merge twice yields a NoOp the second time.
	NoOp bool
}

// PlanMerge computes the merge of duplicate into primary over the supplied
// book state. It fails with ErrConflictingIdentifierMerge when a duplicate
// book and a primary book share a title key but disagree on a present
// identifier, since re-pointing would corrupt the catalog's one-record-per-
// book invariant.
func PlanMerge(primary, duplicate Identity, books []BookRef) (MergeSpec, error) {
	if primary.ID == duplicate.ID {
		return MergeSpec{}, ErrSelfMerge
	}
	spec := MergeSpec{PrimaryID: primary.ID, DuplicateID: duplicate.ID}
	if !duplicate.Active {
		spec.NoOp = true
		return spec, nil
	}

	var primaryBooks, duplicateBooks []BookRef
	for _, book := range books {
		switch book.AuthorID {
		case primary.ID:
			primaryBooks = append(primaryBooks, book)
		case duplicate.ID:
			duplicateBooks = append(duplicateBooks, book)
		}
	}

	if err := checkIdentifierConflicts(primaryBooks, duplicateBooks); err != nil {
		return MergeSpec{}, err
	}

	for _, book := range duplicateBooks {
		spec.RepointBookIDs = append(spec.RepointBookIDs, book.ID)
	}
	sort.Strings(spec.RepointBookIDs)

	if primary.OpenLibraryID == "" && duplicate.OpenLibraryID != "" {
		spec.OpenLibraryID = duplicate.OpenLibraryID
	}
	if primary.AudibleID == "" && duplicate.AudibleID != "" {
		spec.AudibleID = duplicate.AudibleID
	}
	if primary.GoodreadsID == "" && duplicate.GoodreadsID != "" {
		spec.GoodreadsID = duplicate.GoodreadsID
	}
	return spec, nil
}

// checkIdentifierConflicts looks for a primary/duplicate book pair that
// denotes the same title but carries different present identifiers.
func checkIdentifierConflicts(primaryBooks, duplicateBooks []BookRef) error {
	byTitle := make(map[string][]BookRef, len(primaryBooks))
	for _, book := range primaryBooks {
		key := bookid.NormalizeTitle(book.Title)
		if key == "" {
			continue
		}
		byTitle[key] = append(byTitle[key], book)
	}
	for _, book := range duplicateBooks {
		key := bookid.NormalizeTitle(book.Title)
		if key == "" {
			continue
		}
		for _, other := range byTitle[key] {
			if identifiersConflict(book, other) {
				return fmt.Errorf("%w: %q (%s) vs %q (%s)",
					ErrConflictingIdentifierMerge, book.Title, book.ID, other.Title, other.ID)
			}
		}
	}
	return nil
}

// identifiersConflict reports whether both books present a value for the same
// identifier class with different values.
func identifiersConflict(a, b BookRef) bool {
	if a.ASIN != "" && b.ASIN != "" && !strings.EqualFold(a.ASIN, b.ASIN) {
		return true
	}
	isbnA := canonicalAny(a)
	isbnB := canonicalAny(b)
	return isbnA != "" && isbnB != "" && isbnA != isbnB
}

func canonicalAny(book BookRef) string {
	if canonical := bookid.CanonicalISBN13(book.ISBN13); canonical != "" {
		return canonical
	}
	return bookid.CanonicalISBN13(book.ISBN10)
}
