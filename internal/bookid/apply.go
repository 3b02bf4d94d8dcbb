package bookid

import "strings"

// FieldChange is one merge-preserving write against a persisted book record.
type FieldChange struct {
	Field string
	Value string
}

// Mutation describes everything the catalog store should commit for an
// accepted match. Fields lists only the descriptive columns that are empty on
// the persisted record and non-empty on the candidate; match confidence and
// method refresh unconditionally. Applying the same mutation input twice
// yields the same record state.
type Mutation struct {
	BookID          string
	Fields          []FieldChange
	MatchConfidence int
	MatchMethod     MatchMethod
}

// Empty reports whether the mutation would change nothing beyond the match
// bookkeeping columns.
func (m Mutation) Empty() bool {
	return len(m.Fields) == 0
}

// ApplyMatch computes the mutation spec for committing a chosen candidate to
// an existing book record. Descriptive fields follow "keep existing non-empty
// value" semantics; identifiers in particular are never blanked or replaced,
// only filled. The result's confidence is the supplied match score and the
// method derives from the observed item's provenance, superseding whatever
// method produced the record's previous confidence.
func ApplyMatch(observed ObservedItem, chosen MatchResult, existing BookView) Mutation {
	mutation := Mutation{
		BookID:          existing.ID,
		MatchConfidence: chosen.Total,
		MatchMethod:     MethodForProvenance(observed.Provenance),
	}

	candidate := chosen.Candidate
	title, series, position := ExtractSeries(candidate.Title)
	subtitle := candidate.Subtitle
	if subtitle == "" {
		if main, sub := SplitSubtitle(title); sub != "" {
			title, subtitle = main, sub
		}
	}
	if candidate.Series != "" {
		series, position = candidate.Series, candidate.SeriesPosition
	}

	appendFill(&mutation, "title", existing.Title, title)
	appendFill(&mutation, "subtitle", existing.Subtitle, subtitle)
	appendFill(&mutation, "series", existing.Series, series)
	appendFill(&mutation, "series_position", existing.SeriesPosition, position)
	appendFill(&mutation, "isbn", existing.ISBN10, NormalizeISBN(candidate.ISBN10))
	appendFill(&mutation, "isbn13", existing.ISBN13, NormalizeISBN(candidate.ISBN13))
	appendFill(&mutation, "asin", existing.ASIN, strings.ToUpper(strings.TrimSpace(candidate.ASIN)))
	appendFill(&mutation, "release_date", existing.ReleaseDate, candidate.ReleaseDate)
	appendFill(&mutation, "description", existing.Description, candidate.Description)
	appendFill(&mutation, "cover_url", existing.CoverURL, candidate.CoverURL)

	return mutation
}

func appendFill(mutation *Mutation, field, existing, value string) {
	if strings.TrimSpace(existing) != "" {
		return
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	mutation.Fields = append(mutation.Fields, FieldChange{Field: field, Value: value})
}
