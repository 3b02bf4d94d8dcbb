package bookid_test

import (
	"errors"
	"testing"

	"shelfarr/internal/bookid"
)

func TestRankOrdersByScoreThenTieBreaks(t *testing.T) {
	observed := frostbornObserved()
	strong := frostbornCandidate()

	weaker := bookid.CandidateRecord{
		Provider: bookid.ProviderOpenLibrary,
		RecordID: "OL1",
		Title:    "Frostborn",
		Authors:  []string{"Jonathan Moeller"},
	}
	unrelated := bookid.CandidateRecord{
		Provider: bookid.ProviderGoogleBooks,
		RecordID: "G1",
		Title:    "Some Other Story",
		Authors:  []string{"Someone Else"},
	}

	ranking, err := bookid.Rank(observed, []bookid.CandidateRecord{unrelated, weaker, strong})
	if err != nil {
		t.Fatalf("Rank returned error: %v", err)
	}
	if len(ranking.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(ranking.Results))
	}
	if ranking.Results[0].Candidate.RecordID != strong.RecordID {
		t.Fatalf("expected strong candidate first, got %q", ranking.Results[0].Candidate.RecordID)
	}
	if ranking.Results[1].Candidate.RecordID != "OL1" {
		t.Fatalf("expected weaker Frostborn second, got %q", ranking.Results[1].Candidate.RecordID)
	}
	if ranking.AmbiguousTie {
		t.Fatal("unexpected ambiguous tie")
	}
	if ranking.Decision() != bookid.TierAutoAccept {
		t.Fatalf("decision = %s, want auto-accept", ranking.Decision())
	}
}

func TestRankProviderPriorityBreaksEqualScores(t *testing.T) {
	observed := bookid.ObservedItem{
		Title:   "Frostborn",
		Authors: []string{"Jonathan Moeller"},
	}
	fromOpenLibrary := bookid.CandidateRecord{
		Provider: bookid.ProviderOpenLibrary,
		RecordID: "OL1",
		Title:    "Frostborn",
		Authors:  []string{"Jonathan Moeller"},
	}
	fromAudnexus := bookid.CandidateRecord{
		Provider: bookid.ProviderAudnexus,
		RecordID: "AX1",
		Title:    "Frostborn",
		Authors:  []string{"Jonathan Moeller"},
	}

	// Same evidence from both providers: priority decides, not input order.
	for _, order := range [][]bookid.CandidateRecord{
		{fromOpenLibrary, fromAudnexus},
		{fromAudnexus, fromOpenLibrary},
	} {
		ranking, err := bookid.Rank(observed, order)
		if err != nil {
			t.Fatalf("Rank returned error: %v", err)
		}
		if ranking.Results[0].Candidate.Provider != bookid.ProviderAudnexus {
			t.Fatalf("expected audnexus first, got %s", ranking.Results[0].Candidate.Provider)
		}
		if ranking.AmbiguousTie {
			t.Fatal("provider priority resolves this tie; should not be ambiguous")
		}
	}
}

func TestRankFlagsExactTieForManualReview(t *testing.T) {
	observed := bookid.ObservedItem{
		Title:   "Frostborn",
		Authors: []string{"Jonathan Moeller"},
	}
	first := bookid.CandidateRecord{
		Provider: bookid.ProviderGoogleBooks,
		RecordID: "G1",
		Title:    "Frostborn",
		Authors:  []string{"Jonathan Moeller"},
	}
	second := first
	second.RecordID = "G2"

	ranking, err := bookid.Rank(observed, []bookid.CandidateRecord{first, second})
	if err != nil {
		t.Fatalf("Rank returned error: %v", err)
	}
	if !ranking.AmbiguousTie {
		t.Fatal("expected ambiguous tie for identical candidates from one provider")
	}
	if ranking.Decision() != bookid.TierManualReview {
		t.Fatalf("decision = %s, want manual-review on ambiguous tie", ranking.Decision())
	}
}

func TestRankUnknownProviderRanksLast(t *testing.T) {
	observed := bookid.ObservedItem{
		Title:   "Frostborn",
		Authors: []string{"Jonathan Moeller"},
	}
	known := bookid.CandidateRecord{
		Provider: bookid.ProviderOpenLibrary,
		RecordID: "OL1",
		Title:    "Frostborn",
		Authors:  []string{"Jonathan Moeller"},
	}
	stale := bookid.CandidateRecord{
		Provider: bookid.Provider("librivox"),
		RecordID: "LV1",
		Title:    "Frostborn",
		Authors:  []string{"Jonathan Moeller"},
	}

	ranking, err := bookid.Rank(observed, []bookid.CandidateRecord{stale, known})
	if err != nil {
		t.Fatalf("Rank returned error: %v", err)
	}
	if ranking.Results[0].Candidate.RecordID != "OL1" {
		t.Fatalf("expected known provider first, got %q", ranking.Results[0].Candidate.RecordID)
	}
}

func TestRankTruncatesToTopThree(t *testing.T) {
	observed := bookid.ObservedItem{Title: "Frostborn"}
	candidates := make([]bookid.CandidateRecord, 0, 5)
	for _, id := range []string{"A", "B", "C", "D", "E"} {
		candidates = append(candidates, bookid.CandidateRecord{
			Provider: bookid.ProviderOpenLibrary,
			RecordID: id,
			Title:    "Frostborn",
		})
	}
	ranking, err := bookid.Rank(observed, candidates)
	if err != nil {
		t.Fatalf("Rank returned error: %v", err)
	}
	if len(ranking.Results) != 3 {
		t.Fatalf("expected top 3, got %d", len(ranking.Results))
	}
}

func TestRankEmptyCandidates(t *testing.T) {
	ranking, err := bookid.Rank(bookid.ObservedItem{Title: "Frostborn"}, nil)
	if err != nil {
		t.Fatalf("Rank returned error: %v", err)
	}
	if ranking.Best() != nil {
		t.Fatal("expected no best result")
	}
	if ranking.Decision() != bookid.TierManualReview {
		t.Fatalf("decision = %s, want manual-review with no candidates", ranking.Decision())
	}
}

func TestRankRejectsMissingTitle(t *testing.T) {
	_, err := bookid.Rank(bookid.ObservedItem{Title: "  !? "}, nil)
	if !errors.Is(err, bookid.ErrMissingTitle) {
		t.Fatalf("expected ErrMissingTitle, got %v", err)
	}
}
