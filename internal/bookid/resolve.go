package bookid

import "sort"

// ResolvePreferred merges candidate records that denote the same logical book
// across providers into one record, field by field. For every field the value
// comes from the highest-priority provider that supplied one; lower-priority
// values only ever fill holes. The reduction is pure and order-insensitive:
// the input is sorted by provider priority before folding.
func ResolvePreferred(records []CandidateRecord) CandidateRecord {
	if len(records) == 0 {
		return CandidateRecord{}
	}

	ordered := make([]CandidateRecord, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool {
		if pi, pj := ordered[i].Provider.Priority(), ordered[j].Provider.Priority(); pi != pj {
			return pi < pj
		}
		return ordered[i].RecordID < ordered[j].RecordID
	})

	merged := ordered[0]
	for _, record := range ordered[1:] {
		fillCandidate(&merged, record)
	}
	return merged
}

// fillCandidate copies values from donor into fields dst has left empty.
func fillCandidate(dst *CandidateRecord, donor CandidateRecord) {
	fillString(&dst.Title, donor.Title)
	fillString(&dst.Subtitle, donor.Subtitle)
	fillString(&dst.Series, donor.Series)
	fillString(&dst.SeriesPosition, donor.SeriesPosition)
	fillString(&dst.ISBN10, donor.ISBN10)
	fillString(&dst.ISBN13, donor.ISBN13)
	fillString(&dst.ASIN, donor.ASIN)
	fillString(&dst.ReleaseDate, donor.ReleaseDate)
	fillString(&dst.Description, donor.Description)
	fillString(&dst.CoverURL, donor.CoverURL)
	fillString(&dst.Language, donor.Language)
	if len(dst.Authors) == 0 {
		dst.Authors = append([]string(nil), donor.Authors...)
	}
	if dst.DurationMinutes <= 0 {
		dst.DurationMinutes = donor.DurationMinutes
	}
}

func fillString(dst *string, value string) {
	if *dst == "" && value != "" {
		*dst = value
	}
}
