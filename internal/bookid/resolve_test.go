package bookid_test

import (
	"reflect"
	"testing"

	"shelfarr/internal/bookid"
)

func TestResolvePreferredTakesHighestPriorityPerField(t *testing.T) {
	audnexus := bookid.CandidateRecord{
		Provider:        bookid.ProviderAudnexus,
		RecordID:        "AX1",
		Title:           "Frostborn",
		ASIN:            "B00XYZ",
		DurationMinutes: 419,
	}
	google := bookid.CandidateRecord{
		Provider:    bookid.ProviderGoogleBooks,
		RecordID:    "G1",
		Title:       "Frostborn: The Gray Knight",
		Subtitle:    "The Gray Knight",
		ISBN13:      "9780306406157",
		Description: "A knight against the Frostborn.",
	}
	openlibrary := bookid.CandidateRecord{
		Provider:    bookid.ProviderOpenLibrary,
		RecordID:    "OL1",
		Title:       "frostborn",
		ISBN10:      "0306406152",
		ReleaseDate: "2014",
		CoverURL:    "https://covers.openlibrary.org/b/id/1-M.jpg",
	}

	merged := bookid.ResolvePreferred([]bookid.CandidateRecord{openlibrary, google, audnexus})

	if merged.Provider != bookid.ProviderAudnexus {
		t.Fatalf("merged provider = %s, want audnexus", merged.Provider)
	}
	if merged.Title != "Frostborn" {
		t.Fatalf("title = %q, want audnexus value", merged.Title)
	}
	if merged.ASIN != "B00XYZ" || merged.DurationMinutes != 419 {
		t.Fatalf("lost audnexus fields: %+v", merged)
	}
	if merged.Subtitle != "The Gray Knight" || merged.ISBN13 != "9780306406157" {
		t.Fatalf("google fields did not fill holes: %+v", merged)
	}
	if merged.ISBN10 != "0306406152" || merged.ReleaseDate != "2014" || merged.CoverURL == "" {
		t.Fatalf("openlibrary fields did not fill holes: %+v", merged)
	}
}

func TestResolvePreferredOrderInsensitive(t *testing.T) {
	a := bookid.CandidateRecord{Provider: bookid.ProviderAudnexus, RecordID: "AX1", Title: "Frostborn"}
	b := bookid.CandidateRecord{Provider: bookid.ProviderGoogleBooks, RecordID: "G1", Title: "Other", Description: "desc"}

	forward := bookid.ResolvePreferred([]bookid.CandidateRecord{a, b})
	backward := bookid.ResolvePreferred([]bookid.CandidateRecord{b, a})
	if !reflect.DeepEqual(forward, backward) {
		t.Fatalf("reduction depends on input order:\n%+v\n%+v", forward, backward)
	}
}

func TestResolvePreferredUnknownProviderRanksLast(t *testing.T) {
	stale := bookid.CandidateRecord{Provider: bookid.Provider("librivox"), RecordID: "LV1", Title: "Stale Title"}
	known := bookid.CandidateRecord{Provider: bookid.ProviderOpenLibrary, RecordID: "OL1", Title: "Known Title"}

	merged := bookid.ResolvePreferred([]bookid.CandidateRecord{stale, known})
	if merged.Title != "Known Title" {
		t.Fatalf("title = %q, want lowest known provider to outrank unknown tag", merged.Title)
	}
}

func TestResolvePreferredEmpty(t *testing.T) {
	merged := bookid.ResolvePreferred(nil)
	if !reflect.DeepEqual(merged, bookid.CandidateRecord{}) {
		t.Fatalf("expected zero record, got %+v", merged)
	}
}
