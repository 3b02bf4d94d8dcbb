package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"shelfarr/internal/authorid"
	"shelfarr/internal/bookid"
)

// mutableBookColumns is the whitelist of descriptive columns a match mutation
// may fill. Anything outside this set is rejected before SQL is built.
var mutableBookColumns = map[string]struct{}{
	"title":           {},
	"subtitle":        {},
	"series":          {},
	"series_position": {},
	"isbn":            {},
	"isbn13":          {},
	"asin":            {},
	"release_date":    {},
	"description":     {},
	"cover_url":       {},
}

// ErrUnknownBook indicates a mutation or update referenced a book id that
// does not exist.
var ErrUnknownBook = errors.New("unknown book")

// CreateBook inserts a new book for an author and returns the stored row.
func (s *Store) CreateBook(ctx context.Context, authorID, title string) (*Book, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.New("book title is empty")
	}

	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)
	id := uuid.NewString()

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO books (id, author_id, title, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		id,
		authorID,
		title,
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert book: %w", err)
	}

	return s.GetBook(ctx, id)
}

// GetBook fetches a book by identifier. Returns nil when no row matches.
func (s *Store) GetBook(ctx context.Context, id string) (*Book, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+bookColumns+` FROM books WHERE id = ?`, id)
	book, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}
	return book, nil
}

// ListBooks returns an author's books ordered by series then title. Soft
// deleted rows are included only when includeDeleted is set.
func (s *Store) ListBooks(ctx context.Context, authorID string, includeDeleted bool) ([]*Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE author_id = ?`
	if !includeDeleted {
		query += ` AND deleted = 0`
	}
	query += ` ORDER BY series COLLATE NOCASE, series_position, title COLLATE NOCASE, id`

	rows, err := s.db.QueryContext(ctx, query, authorID)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	return collectBooks(rows)
}

// FindBookByIdentifier returns the author's first book carrying the given
// ASIN or ISBN, or nil when none matches. Soft-deleted rows are included so
// callers can recognize a book the user removed instead of recreating it.
func (s *Store) FindBookByIdentifier(ctx context.Context, authorID, asin, isbn10, isbn13 string) (*Book, error) {
	asin = strings.ToUpper(strings.TrimSpace(asin))
	isbn10 = bookid.NormalizeISBN(isbn10)
	isbn13 = bookid.NormalizeISBN(isbn13)
	if asin == "" && isbn10 == "" && isbn13 == "" {
		return nil, nil
	}

	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+bookColumns+` FROM books
         WHERE author_id = ?
           AND ((? != '' AND asin = ?) OR (? != '' AND isbn = ?) OR (? != '' AND isbn13 = ?))
         ORDER BY deleted, id LIMIT 1`,
		authorID,
		asin, asin,
		isbn10, isbn10,
		isbn13, isbn13,
	)
	book, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find book by identifier: %w", err)
	}
	return book, nil
}

// FindBookByTitle returns the author's first book whose normalized title
// matches, or nil when none does. Soft-deleted rows are included, preferring
// a live row when both exist. Normalization happens in Go, so this walks the
// author's books rather than pushing the predicate into SQL.
func (s *Store) FindBookByTitle(ctx context.Context, authorID, title string) (*Book, error) {
	normalized := bookid.NormalizeTitle(title)
	if normalized == "" {
		return nil, nil
	}
	books, err := s.ListBooks(ctx, authorID, true)
	if err != nil {
		return nil, err
	}
	var deletedMatch *Book
	for _, book := range books {
		if bookid.NormalizeTitle(book.Title) != normalized {
			continue
		}
		if !book.Deleted {
			return book, nil
		}
		if deletedMatch == nil {
			deletedMatch = book
		}
	}
	return deletedMatch, nil
}

// ApplyMutation commits a match mutation in a single transaction. Descriptive
// fields only fill empty columns so the write stays merge-preserving even if
// the record changed since the mutation was computed; match bookkeeping always
// refreshes.
func (s *Store) ApplyMutation(ctx context.Context, mutation bookid.Mutation) error {
	if mutation.BookID == "" {
		return errors.New("mutation has no book id")
	}
	for _, change := range mutation.Fields {
		if _, ok := mutableBookColumns[change.Field]; !ok {
			return fmt.Errorf("mutation field %q is not a mutable book column", change.Field)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin mutation tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := tx.ExecContext(
		ctx,
		`UPDATE books SET match_confidence = ?, match_method = ?, updated_at = ? WHERE id = ?`,
		mutation.MatchConfidence,
		string(mutation.MatchMethod),
		timestamp,
		mutation.BookID,
	)
	if err != nil {
		return fmt.Errorf("update match bookkeeping: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrUnknownBook, mutation.BookID)
	}

	for _, change := range mutation.Fields {
		query := `UPDATE books SET ` + change.Field + ` = ? WHERE id = ? AND ` + change.Field + ` = ''`
		if _, err := tx.ExecContext(ctx, query, change.Value, mutation.BookID); err != nil {
			return fmt.Errorf("fill %s: %w", change.Field, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit mutation: %w", err)
	}
	return nil
}

// SetBookOwned flips the ownership flag on a book.
func (s *Store) SetBookOwned(ctx context.Context, id string, owned bool) error {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE books SET have_it = ?, updated_at = ? WHERE id = ?`,
		boolToInt(owned),
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	)
	if err != nil {
		return fmt.Errorf("set book owned: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrUnknownBook, id)
	}
	return nil
}

// MarkBookReviewed records that a human confirmed or corrected the match.
func (s *Store) MarkBookReviewed(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE books SET match_reviewed = 1, updated_at = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	)
	if err != nil {
		return fmt.Errorf("mark book reviewed: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrUnknownBook, id)
	}
	return nil
}

// SoftDeleteBook flags a book deleted. The row stays so re-scans recognize it
// and do not resurrect the book.
func (s *Store) SoftDeleteBook(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE books SET deleted = 1, updated_at = ? WHERE id = ? AND deleted = 0`,
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	)
	if err != nil {
		return false, fmt.Errorf("soft delete book: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// ListBookRefs returns every non-deleted book in the duplicate detector's
// input form.
func (s *Store) ListBookRefs(ctx context.Context) ([]authorid.BookRef, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+bookColumns+` FROM books WHERE deleted = 0 ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list book refs: %w", err)
	}
	defer rows.Close()

	books, err := collectBooks(rows)
	if err != nil {
		return nil, err
	}
	refs := make([]authorid.BookRef, 0, len(books))
	for _, book := range books {
		refs = append(refs, book.Ref())
	}
	return refs, nil
}

const bookColumns = "id, author_id, title, subtitle, series, series_position, isbn, isbn13, asin, release_date, description, cover_url, match_confidence, match_method, match_reviewed, have_it, deleted, created_at, updated_at"

func scanBook(scanner interface{ Scan(dest ...any) error }) (*Book, error) {
	var (
		book       Book
		reviewed   int64
		haveIt     int64
		deleted    int64
		createdRaw string
		updatedRaw string
	)
	if err := scanner.Scan(
		&book.ID,
		&book.AuthorID,
		&book.Title,
		&book.Subtitle,
		&book.Series,
		&book.SeriesPosition,
		&book.ISBN,
		&book.ISBN13,
		&book.ASIN,
		&book.ReleaseDate,
		&book.Description,
		&book.CoverURL,
		&book.MatchConfidence,
		&book.MatchMethod,
		&reviewed,
		&haveIt,
		&deleted,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	book.MatchReviewed = reviewed != 0
	book.HaveIt = haveIt != 0
	book.Deleted = deleted != 0
	if ts, err := parseTimeString(createdRaw); err == nil {
		book.CreatedAt = ts
	}
	if ts, err := parseTimeString(updatedRaw); err == nil {
		book.UpdatedAt = ts
	}
	return &book, nil
}

func collectBooks(rows *sql.Rows) ([]*Book, error) {
	var books []*Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	return books, rows.Err()
}
