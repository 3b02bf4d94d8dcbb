package bookid

import "strings"

// Provenance identifies where an observed item was captured.
type Provenance string

const (
	ProvenanceFilesystem     Provenance = "filesystem"
	ProvenanceLibraryManager Provenance = "library-manager"
	ProvenanceManual         Provenance = "manual"
)

// MatchMethod records which pathway produced the current accepted match for a
// persisted book.
type MatchMethod string

const (
	MatchMethodAudiobookshelf MatchMethod = "audiobookshelf"
	MatchMethodFilesystem     MatchMethod = "filesystem"
	MatchMethodManual         MatchMethod = "manual"
)

// MethodForProvenance maps an observed item's provenance to the match method
// persisted alongside an accepted match.
func MethodForProvenance(p Provenance) MatchMethod {
	switch p {
	case ProvenanceLibraryManager:
		return MatchMethodAudiobookshelf
	case ProvenanceFilesystem:
		return MatchMethodFilesystem
	default:
		return MatchMethodManual
	}
}

// ObservedItem is one locally known audiobook instance, captured from a file
// scan, the library manager, or manual entry. Optional fields are zero when
// the source did not supply them; the engine tolerates any of them missing
// except Title.
type ObservedItem struct {
	Title           string
	Subtitle        string
	Authors         []string
	Series          string
	SeriesPosition  string
	DurationSeconds int
	ISBN10          string
	ISBN13          string
	ASIN            string
	Year            int
	Provenance      Provenance
	SourcePath      string
}

// HasDuration reports whether the item carries a usable runtime.
func (o ObservedItem) HasDuration() bool {
	return o.DurationSeconds > 0
}

// PrimaryAuthor returns the first non-empty author name.
func (o ObservedItem) PrimaryAuthor() string {
	for _, name := range o.Authors {
		if strings.TrimSpace(name) != "" {
			return name
		}
	}
	return ""
}

// CandidateRecord is one catalog entry returned by a metadata provider for a
// query. Candidates are ephemeral: only the chosen match's fields survive, as
// a mutation spec against a persisted book.
type CandidateRecord struct {
	Provider        Provider
	RecordID        string
	Title           string
	Subtitle        string
	Authors         []string
	Series          string
	SeriesPosition  string
	DurationMinutes int
	ISBN10          string
	ISBN13          string
	ASIN            string
	ReleaseDate     string
	Description     string
	CoverURL        string
	Language        string
}

// HasDuration reports whether the provider supplied a runtime.
func (c CandidateRecord) HasDuration() bool {
	return c.DurationMinutes > 0
}

// PrimaryAuthor returns the first non-empty author name.
func (c CandidateRecord) PrimaryAuthor() string {
	for _, name := range c.Authors {
		if strings.TrimSpace(name) != "" {
			return name
		}
	}
	return ""
}

// BookView is the engine's read-only view of a persisted book record. It
// carries exactly the fields ApplyMatch needs to compute merge-preserving
// writes; the catalog store owns everything else.
type BookView struct {
	ID             string
	Title          string
	Subtitle       string
	Series         string
	SeriesPosition string
	ISBN10         string
	ISBN13         string
	ASIN           string
	ReleaseDate    string
	Description    string
	CoverURL       string
}
