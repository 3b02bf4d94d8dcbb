package bookid

import (
	"fmt"
	"strings"
)

// Tier buckets a total score into the workflow decision it drives.
type Tier string

const (
	TierAutoAccept   Tier = "auto-accept"
	TierSuggest      Tier = "suggest"
	TierManualReview Tier = "manual-review"
	TierReject       Tier = "reject"
)

// Tier thresholds; boundaries are inclusive.
const (
	autoAcceptThreshold   = 90
	suggestThreshold      = 70
	manualReviewThreshold = 50
)

// TierFor buckets a total score.
func TierFor(total int) Tier {
	switch {
	case total >= autoAcceptThreshold:
		return TierAutoAccept
	case total >= suggestThreshold:
		return TierSuggest
	case total >= manualReviewThreshold:
		return TierManualReview
	default:
		return TierReject
	}
}

// Breakdown records which criteria contributed to a total so the review UI
// can explain a score instead of presenting a bare number.
type Breakdown struct {
	Identifier     int
	IdentifierKind string
	Title          int
	Author         int
	Duration       int
	DurationScored bool
	Series         int
}

// Explain renders the breakdown as human-readable evidence lines.
func (b Breakdown) Explain() []string {
	lines := make([]string, 0, 5)
	if b.Identifier > 0 {
		lines = append(lines, fmt.Sprintf("%s match (+%d)", strings.ToUpper(b.IdentifierKind), b.Identifier))
	}
	lines = append(lines, fmt.Sprintf("title similarity %d/%d", b.Title, titleWeight))
	lines = append(lines, fmt.Sprintf("author similarity %d/%d", b.Author, authorWeight))
	if b.DurationScored {
		switch b.Duration {
		case durationWeight:
			lines = append(lines, "duration within 5 min (+20)")
		case durationWeight / 2:
			lines = append(lines, "duration within 15 min (+10)")
		default:
			lines = append(lines, "duration differs by more than 15 min (+0)")
		}
	} else {
		lines = append(lines, "duration unknown (not scored)")
	}
	if b.Series > 0 {
		lines = append(lines, fmt.Sprintf("series and position match (+%d)", b.Series))
	}
	return lines
}

// MatchResult is the scored outcome for one (observed, candidate) pair.
// Results are produced fresh on every scoring pass and never mutated.
type MatchResult struct {
	Candidate CandidateRecord
	Total     int
	Breakdown Breakdown
	Tier      Tier
}

// Score computes the confidence score for one pair. It never fails: missing
// evidence lowers the total instead of raising an error, and the result is
// symmetric in everything except provider identity, which only matters later
// during ranking.
func Score(observed ObservedItem, candidate CandidateRecord) MatchResult {
	var breakdown Breakdown

	breakdown.Identifier, breakdown.IdentifierKind = IdentifierMatch(observed, candidate)
	breakdown.Title = TitleSimilarity(observed.Title, candidate.Title)
	breakdown.Author = bestAuthorSimilarity(observed.Authors, candidate.Authors)
	breakdown.Duration, breakdown.DurationScored = DurationSimilarity(observed.DurationSeconds, candidate.DurationMinutes)
	breakdown.Series = SeriesSimilarity(observed.Series, observed.SeriesPosition, candidate.Series, candidate.SeriesPosition)

	total := breakdown.Identifier + breakdown.Title + breakdown.Author + breakdown.Series
	if breakdown.DurationScored {
		total += breakdown.Duration
	}
	if total < 0 {
		total = 0
	}
	if total > MaxScore {
		total = MaxScore
	}

	return MatchResult{
		Candidate: candidate,
		Total:     total,
		Breakdown: breakdown,
		Tier:      TierFor(total),
	}
}
