package catalog

import (
	"time"

	"shelfarr/internal/authorid"
	"shelfarr/internal/bookid"
)

// Author is a tracked author row.
type Author struct {
	ID            string
	Name          string
	OpenLibraryID string
	AudibleID     string
	GoodreadsID   string
	LastScanned   time.Time
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Identity converts the row into the duplicate detector's input form.
func (a Author) Identity() authorid.Identity {
	return authorid.Identity{
		ID:            a.ID,
		Name:          a.Name,
		OpenLibraryID: a.OpenLibraryID,
		AudibleID:     a.AudibleID,
		GoodreadsID:   a.GoodreadsID,
		Active:        a.Active,
	}
}

// Book is a catalog book row.
type Book struct {
	ID              string
	AuthorID        string
	Title           string
	Subtitle        string
	Series          string
	SeriesPosition  string
	ISBN            string
	ISBN13          string
	ASIN            string
	ReleaseDate     string
	Description     string
	CoverURL        string
	MatchConfidence int
	MatchMethod     string
	MatchReviewed   bool
	HaveIt          bool
	Deleted         bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// View exposes the fields merge-preserving updates consult.
func (b Book) View() bookid.BookView {
	return bookid.BookView{
		ID:             b.ID,
		Title:          b.Title,
		Subtitle:       b.Subtitle,
		Series:         b.Series,
		SeriesPosition: b.SeriesPosition,
		ISBN10:         b.ISBN,
		ISBN13:         b.ISBN13,
		ASIN:           b.ASIN,
		ReleaseDate:    b.ReleaseDate,
		Description:    b.Description,
		CoverURL:       b.CoverURL,
	}
}

// Ref converts the row into the duplicate detector's book form.
func (b Book) Ref() authorid.BookRef {
	return authorid.BookRef{
		ID:       b.ID,
		AuthorID: b.AuthorID,
		Title:    b.Title,
		ISBN10:   b.ISBN,
		ISBN13:   b.ISBN13,
		ASIN:     b.ASIN,
	}
}

// ScanRecord is one row of per-author scan history.
type ScanRecord struct {
	ID         int64
	AuthorID   string
	SessionID  string
	ScanDate   time.Time
	BooksFound int
	NewBooks   int
}
