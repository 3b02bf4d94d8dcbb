package bookid

import (
	"errors"
	"sort"
)

// ErrMissingTitle rejects observed items that cannot be matched at all. The
// batch driver filters these out before scoring; Rank returns the error so
// direct callers get the same guarantee.
var ErrMissingTitle = errors.New("observed item has no title")

// maxRankedResults caps how many candidates are surfaced for review.
const maxRankedResults = 3

// Ranking is the ordered outcome of evaluating one observed item against a
// candidate set.
type Ranking struct {
	// Results holds at most the top three matches, best first.
	Results []MatchResult
	// AmbiguousTie is set when the two best candidates are indistinguishable
	// through every tie-break criterion. The decision then falls to manual
	// review instead of silently picking one.
	AmbiguousTie bool
}

// Best returns the top match, or nil when no candidates were supplied.
func (r Ranking) Best() *MatchResult {
	if len(r.Results) == 0 {
		return nil
	}
	return &r.Results[0]
}

// Decision is the workflow tier the ranking proposes. Empty candidate sets
// and ambiguous ties both land in manual review.
func (r Ranking) Decision() Tier {
	best := r.Best()
	if best == nil {
		return TierManualReview
	}
	if r.AmbiguousTie {
		return TierManualReview
	}
	return best.Tier
}

// Rank scores every candidate for one observed item and orders the results by
// total score, breaking ties by identifier-bonus presence, then author
// sub-score, then provider priority. Ordering is fully deterministic given
// the same inputs: the provider record id is the final sort key, so input
// order never leaks into the output.
func Rank(observed ObservedItem, candidates []CandidateRecord) (Ranking, error) {
	if NormalizeTitle(observed.Title) == "" {
		return Ranking{}, ErrMissingTitle
	}

	results := make([]MatchResult, 0, len(candidates))
	for _, candidate := range candidates {
		results = append(results, Score(observed, candidate))
	}

	sort.SliceStable(results, func(i, j int) bool {
		return compareResults(results[i], results[j]) < 0
	})

	ranking := Ranking{}
	if len(results) >= 2 && tiedThroughCriteria(results[0], results[1]) {
		ranking.AmbiguousTie = true
	}
	if len(results) > maxRankedResults {
		results = results[:maxRankedResults]
	}
	ranking.Results = results
	return ranking, nil
}

// compareResults orders two scored candidates; negative means i ranks first.
func compareResults(a, b MatchResult) int {
	if a.Total != b.Total {
		return b.Total - a.Total
	}
	aID := boolToInt(a.Breakdown.Identifier > 0)
	bID := boolToInt(b.Breakdown.Identifier > 0)
	if aID != bID {
		return bID - aID
	}
	if a.Breakdown.Author != b.Breakdown.Author {
		return b.Breakdown.Author - a.Breakdown.Author
	}
	if pa, pb := a.Candidate.Provider.Priority(), b.Candidate.Provider.Priority(); pa != pb {
		return pa - pb
	}
	// Exhausted the policy chain; fall back to record identity purely for
	// output stability. Ties at this depth are flagged as ambiguous.
	switch {
	case a.Candidate.RecordID < b.Candidate.RecordID:
		return -1
	case a.Candidate.RecordID > b.Candidate.RecordID:
		return 1
	default:
		return 0
	}
}

// tiedThroughCriteria reports whether two results are equal through every
// policy tie-break criterion (score, identifier bonus, author score, provider
// priority).
func tiedThroughCriteria(a, b MatchResult) bool {
	return a.Total == b.Total &&
		(a.Breakdown.Identifier > 0) == (b.Breakdown.Identifier > 0) &&
		a.Breakdown.Author == b.Breakdown.Author &&
		a.Candidate.Provider.Priority() == b.Candidate.Provider.Priority()
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
