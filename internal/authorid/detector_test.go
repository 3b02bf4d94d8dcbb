package authorid_test

import (
	"testing"

	"shelfarr/internal/authorid"
)

func TestFindDuplicatesByName(t *testing.T) {
	identities := []authorid.Identity{
		{ID: "a1", Name: "J.N. Chaney", Active: true},
		{ID: "a2", Name: "John Nicholas Chaney", Active: true},
		{ID: "a3", Name: "Andy Weir", Active: true},
	}

	pairs := authorid.FindDuplicates(identities, nil)
	if len(pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d: %+v", len(pairs), pairs)
	}
	pair := pairs[0]
	if pair.A.ID != "a1" || pair.B.ID != "a2" {
		t.Fatalf("unexpected pair: %+v", pair)
	}
	if pair.NameScore != 20 {
		t.Fatalf("name score = %d, want 20", pair.NameScore)
	}
}

func TestFindDuplicatesPartialNameQualifies(t *testing.T) {
	identities := []authorid.Identity{
		{ID: "a1", Name: "James Moeller", Active: true},
		{ID: "a2", Name: "Jonathan Moeller", Active: true},
	}
	pairs := authorid.FindDuplicates(identities, nil)
	if len(pairs) != 1 || pairs[0].NameScore != 10 {
		t.Fatalf("expected a partial-name pair, got %+v", pairs)
	}
}

func TestFindDuplicatesBySharedBookIdentifier(t *testing.T) {
	identities := []authorid.Identity{
		{ID: "a1", Name: "Pen Name", Active: true},
		{ID: "a2", Name: "Wholly Different", Active: true},
	}
	books := []authorid.BookRef{
		{ID: "b1", AuthorID: "a1", Title: "Frostborn", ASIN: "B00XYZ"},
		{ID: "b2", AuthorID: "a2", Title: "Frostborn Omnibus", ASIN: "b00xyz"},
	}
	pairs := authorid.FindDuplicates(identities, books)
	if len(pairs) != 1 {
		t.Fatalf("expected identifier overlap to qualify the pair, got %+v", pairs)
	}
	if pairs[0].SharedBooks != 1 || pairs[0].SharedIdentifiers[0] != "asin:B00XYZ" {
		t.Fatalf("unexpected evidence: %+v", pairs[0])
	}
}

func TestFindDuplicatesISBNCrossForm(t *testing.T) {
	identities := []authorid.Identity{
		{ID: "a1", Name: "Writer One", Active: true},
		{ID: "a2", Name: "Completely Other", Active: true},
	}
	books := []authorid.BookRef{
		{ID: "b1", AuthorID: "a1", Title: "Some Book", ISBN10: "0306406152"},
		{ID: "b2", AuthorID: "a2", Title: "Some Book", ISBN13: "9780306406157"},
	}
	pairs := authorid.FindDuplicates(identities, books)
	if len(pairs) != 1 {
		t.Fatalf("expected ISBN-10/13 equivalence to link the pair, got %+v", pairs)
	}
	if pairs[0].SharedIdentifiers[0] != "isbn:9780306406157" {
		t.Fatalf("unexpected identifiers: %+v", pairs[0].SharedIdentifiers)
	}
}

func TestFindDuplicatesSkipsInactive(t *testing.T) {
	identities := []authorid.Identity{
		{ID: "a1", Name: "Jonathan Moeller", Active: true},
		{ID: "a2", Name: "Jonathan Moeller", Active: false},
	}
	if pairs := authorid.FindDuplicates(identities, nil); len(pairs) != 0 {
		t.Fatalf("inactive identities must not pair, got %+v", pairs)
	}
}

func TestFindDuplicatesDeterministicOrder(t *testing.T) {
	identities := []authorid.Identity{
		{ID: "a3", Name: "Jon Moeller", Active: true},
		{ID: "a1", Name: "Jonathan Moeller", Active: true},
		{ID: "a2", Name: "J Moeller", Active: true},
	}
	first := authorid.FindDuplicates(identities, nil)
	reversed := authorid.FindDuplicates([]authorid.Identity{identities[2], identities[1], identities[0]}, nil)
	if len(first) != len(reversed) {
		t.Fatalf("pair count differs by input order: %d vs %d", len(first), len(reversed))
	}
	for i := range first {
		if first[i].A.ID != reversed[i].A.ID || first[i].B.ID != reversed[i].B.ID {
			t.Fatalf("pair order differs by input order at %d: %+v vs %+v", i, first[i], reversed[i])
		}
	}
}
