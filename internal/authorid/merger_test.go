package authorid_test

import (
	"errors"
	"testing"

	"shelfarr/internal/authorid"
)

func TestPlanMergeRepointsAndUnionsLinks(t *testing.T) {
	primary := authorid.Identity{ID: "a1", Name: "J.N. Chaney", AudibleID: "AUD1", Active: true}
	duplicate := authorid.Identity{ID: "a2", Name: "John Nicholas Chaney", OpenLibraryID: "OL99A", GoodreadsID: "GR5", Active: true}
	books := []authorid.BookRef{
		{ID: "b1", AuthorID: "a1", Title: "Renegade Star", ASIN: "B001"},
		{ID: "b3", AuthorID: "a2", Title: "Orion Colony", ASIN: "B003"},
		{ID: "b2", AuthorID: "a2", Title: "Renegade Moon", ASIN: "B002"},
	}

	spec, err := authorid.PlanMerge(primary, duplicate, books)
	if err != nil {
		t.Fatalf("PlanMerge returned error: %v", err)
	}
	if spec.NoOp {
		t.Fatal("unexpected no-op")
	}
	if len(spec.RepointBookIDs) != 2 || spec.RepointBookIDs[0] != "b2" || spec.RepointBookIDs[1] != "b3" {
		t.Fatalf("repoint ids = %v, want [b2 b3]", spec.RepointBookIDs)
	}
	if spec.OpenLibraryID != "OL99A" || spec.GoodreadsID != "GR5" {
		t.Fatalf("expected provider link union, got %+v", spec)
	}
	if spec.AudibleID != "" {
		t.Fatal("primary's existing audible link must not be overwritten")
	}
}

func TestPlanMergeIdempotent(t *testing.T) {
	primary := authorid.Identity{ID: "a1", Name: "J.N. Chaney", Active: true}
	duplicate := authorid.Identity{ID: "a2", Name: "John Nicholas Chaney", Active: true}

	first, err := authorid.PlanMerge(primary, duplicate, nil)
	if err != nil || first.NoOp {
		t.Fatalf("first plan: spec=%+v err=%v", first, err)
	}

	// After the store commits, the duplicate is inactive; planning again must
	// be a no-op rather than an error.
	duplicate.Active = false
	second, err := authorid.PlanMerge(primary, duplicate, nil)
	if err != nil {
		t.Fatalf("second plan returned error: %v", err)
	}
	if !second.NoOp {
		t.Fatal("expected no-op when duplicate is already inactive")
	}
}

func TestPlanMergeConflictingIdentifiersAborts(t *testing.T) {
	primary := authorid.Identity{ID: "a1", Name: "Jonathan Moeller", Active: true}
	duplicate := authorid.Identity{ID: "a2", Name: "Jonathan Moeller", Active: true}
	books := []authorid.BookRef{
		{ID: "b1", AuthorID: "a1", Title: "Frostborn", ASIN: "B00AAA"},
		{ID: "b2", AuthorID: "a2", Title: "Frostborn", ASIN: "B00BBB"},
	}

	if _, err := authorid.PlanMerge(primary, duplicate, books); !errors.Is(err, authorid.ErrConflictingIdentifierMerge) {
		t.Fatalf("expected ErrConflictingIdentifierMerge, got %v", err)
	}
}

func TestPlanMergeSameIdentifierNoConflict(t *testing.T) {
	primary := authorid.Identity{ID: "a1", Name: "Jonathan Moeller", Active: true}
	duplicate := authorid.Identity{ID: "a2", Name: "Jonathan Moeller", Active: true}
	books := []authorid.BookRef{
		{ID: "b1", AuthorID: "a1", Title: "Frostborn", ASIN: "B00AAA"},
		{ID: "b2", AuthorID: "a2", Title: "Frostborn", ASIN: "b00aaa"},
	}

	spec, err := authorid.PlanMerge(primary, duplicate, books)
	if err != nil {
		t.Fatalf("same identifier should merge cleanly, got %v", err)
	}
	if len(spec.RepointBookIDs) != 1 || spec.RepointBookIDs[0] != "b2" {
		t.Fatalf("repoint ids = %v", spec.RepointBookIDs)
	}
}

func TestPlanMergeSelfRejected(t *testing.T) {
	identity := authorid.Identity{ID: "a1", Name: "Jonathan Moeller", Active: true}
	if _, err := authorid.PlanMerge(identity, identity, nil); !errors.Is(err, authorid.ErrSelfMerge) {
		t.Fatalf("expected ErrSelfMerge, got %v", err)
	}
}
