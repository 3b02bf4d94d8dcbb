package bookid

import (
	"math"
	"strings"

	"github.com/hbollon/go-edlib"
)

// Sub-score weights. Identifier dominance is deliberate: a shared ASIN or
// ISBN outweighs any single fuzzy signal.
const (
	identifierWeight = 40
	titleWeight      = 30
	authorWeight     = 20
	durationWeight   = 20
	seriesWeight     = 10

	// MaxScore is the documented upper bound a total is clamped to. The
	// achievable maximum from the sub-score weights is 120; the clamp leaves
	// headroom so the bound survives weight tuning.
	MaxScore = 130

	authorPartialWeight = 10
	subtitleBonus       = 2

	// Duration tolerance in seconds: within 5 minutes scores full, within 15
	// scores half, beyond that nothing.
	durationCloseSeconds = 5 * 60
	durationFarSeconds   = 15 * 60
)

// TitleSimilarity scores two raw titles on [0,30] using a normalized
// edit-distance ratio over the main titles. Matching subtitles nudge a
// near-miss upward; mismatched subtitles never pull the score below what the
// main titles earn on their own.
func TitleSimilarity(a, b string) int {
	mainA, subA := SplitSubtitle(a)
	mainB, subB := SplitSubtitle(b)

	keyA := NormalizeTitle(mainA)
	keyB := NormalizeTitle(mainB)
	score := scaledEditSimilarity(keyA, keyB, titleWeight)

	if subA != "" && subB != "" && NormalizeTitle(subA) == NormalizeTitle(subB) {
		score += subtitleBonus
		if score > titleWeight {
			score = titleWeight
		}
	}
	return score
}

// scaledEditSimilarity maps Levenshtein distance between two comparison keys
// onto [0,scale].
func scaledEditSimilarity(a, b string, scale int) int {
	if a == "" || b == "" {
		if a == b {
			return scale
		}
		return 0
	}
	if a == b {
		return scale
	}
	longest := len([]rune(a))
	if n := len([]rune(b)); n > longest {
		longest = n
	}
	distance := edlib.LevenshteinDistance(a, b)
	if distance >= longest {
		return 0
	}
	ratio := 1 - float64(distance)/float64(longest)
	return int(math.Round(ratio * float64(scale)))
}

// AuthorSimilarity scores two raw author names: 20 for an exact or fully
// initials-compatible match, 10 for a shared surname with mismatched given
// names, 0 otherwise.
func AuthorSimilarity(a, b string) int {
	keyA := NormalizeAuthor(a)
	keyB := NormalizeAuthor(b)
	if keyA == "" || keyB == "" {
		return 0
	}
	if keyA == keyB {
		return authorWeight
	}

	partsA := strings.Fields(keyA)
	partsB := strings.Fields(keyB)
	if initialsCompatible(partsA, partsB) {
		return authorWeight
	}
	if partsA[len(partsA)-1] == partsB[len(partsB)-1] {
		return authorPartialWeight
	}
	return 0
}

// SameAuthor reports whether two raw author names denote the same person
// under full-match scoring (exact or initials-compatible).
func SameAuthor(a, b string) bool {
	return AuthorSimilarity(a, b) == authorWeight
}

// initialsCompatible reports whether every name component pairs up
// positionally, where a single-letter component matches any full component
// sharing its first letter. Leftover components on either side disqualify the
// full match.
func initialsCompatible(a, b []string) bool {
	if len(a) != len(b) || len(a) == 0 {
		return false
	}
	for i := range a {
		if !componentCompatible(a[i], b[i]) {
			return false
		}
	}
	return true
}

func componentCompatible(a, b string) bool {
	if a == b {
		return true
	}
	if len(a) == 1 || len(b) == 1 {
		return a[0] == b[0]
	}
	return false
}

// bestAuthorSimilarity takes the strongest pairing across two author lists.
func bestAuthorSimilarity(observed, candidate []string) int {
	best := 0
	for _, a := range observed {
		for _, b := range candidate {
			if score := AuthorSimilarity(a, b); score > best {
				best = score
				if best == authorWeight {
					return best
				}
			}
		}
	}
	return best
}

// DurationSimilarity compares a file runtime in seconds against a provider
// runtime in minutes. The second return is false when either side lacks a
// duration; an unscored duration is excluded from the total rather than
// counted as zero.
func DurationSimilarity(fileSeconds, providerMinutes int) (int, bool) {
	if fileSeconds <= 0 || providerMinutes <= 0 {
		return 0, false
	}
	diff := fileSeconds - providerMinutes*60
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff <= durationCloseSeconds:
		return durationWeight, true
	case diff <= durationFarSeconds:
		return durationWeight / 2, true
	default:
		return 0, true
	}
}

// SeriesSimilarity scores 10 when both sides name the same series and the
// exact same position, 0 in every other case including missing series data.
func SeriesSimilarity(seriesA, positionA, seriesB, positionB string) int {
	if strings.TrimSpace(seriesA) == "" || strings.TrimSpace(seriesB) == "" {
		return 0
	}
	if NormalizeTitle(seriesA) != NormalizeTitle(seriesB) {
		return 0
	}
	posA := NormalizeSeriesPosition(positionA)
	posB := NormalizeSeriesPosition(positionB)
	if posA == "" || posA != posB {
		return 0
	}
	return seriesWeight
}

// IdentifierMatch awards the single 40-point identifier bonus: ASIN equality
// first, ISBN equality (with 10/13 cross-checking) otherwise. At most one
// bonus applies even when both identifiers agree.
func IdentifierMatch(a ObservedItem, b CandidateRecord) (score int, kind string) {
	asinA := strings.ToUpper(strings.TrimSpace(a.ASIN))
	asinB := strings.ToUpper(strings.TrimSpace(b.ASIN))
	if asinA != "" && asinA == asinB {
		return identifierWeight, "asin"
	}
	if isbnMatch(a, b) {
		return identifierWeight, "isbn"
	}
	return 0, ""
}
