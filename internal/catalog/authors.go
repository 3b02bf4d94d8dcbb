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
)

// ErrAuthorExists indicates an active author with the same name is already tracked.
var ErrAuthorExists = errors.New("author already tracked")

// CreateAuthor inserts a new tracked author and returns the stored row.
func (s *Store) CreateAuthor(ctx context.Context, name string) (*Author, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("author name is empty")
	}

	existing, err := s.GetAuthorByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrAuthorExists, name)
	}

	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)
	id := uuid.NewString()

	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO authors (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		id,
		name,
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert author: %w", err)
	}

	return s.GetAuthor(ctx, id)
}

// GetAuthor fetches an author by identifier. Returns nil when no row matches.
func (s *Store) GetAuthor(ctx context.Context, id string) (*Author, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+authorColumns+` FROM authors WHERE id = ?`, id)
	author, err := scanAuthor(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get author: %w", err)
	}
	return author, nil
}

// GetAuthorByName fetches an active author by exact name, case-insensitively.
func (s *Store) GetAuthorByName(ctx context.Context, name string) (*Author, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+authorColumns+` FROM authors WHERE name = ? COLLATE NOCASE AND active = 1 LIMIT 1`,
		strings.TrimSpace(name),
	)
	author, err := scanAuthor(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get author by name: %w", err)
	}
	return author, nil
}

// ListAuthors returns authors ordered by name. Inactive authors are included
// only when includeInactive is set.
func (s *Store) ListAuthors(ctx context.Context, includeInactive bool) ([]*Author, error) {
	query := `SELECT ` + authorColumns + ` FROM authors`
	if !includeInactive {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY name COLLATE NOCASE, id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	defer rows.Close()

	var authors []*Author
	for rows.Next() {
		author, err := scanAuthor(rows)
		if err != nil {
			return nil, err
		}
		authors = append(authors, author)
	}
	return authors, rows.Err()
}

// UpdateAuthorLinks fills empty provider identifiers on an author. Populated
// identifiers are never overwritten.
func (s *Store) UpdateAuthorLinks(ctx context.Context, id, openLibraryID, audibleID, goodreadsID string) error {
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE authors
         SET openlibrary_id = CASE WHEN openlibrary_id = '' THEN ? ELSE openlibrary_id END,
             audible_id = CASE WHEN audible_id = '' THEN ? ELSE audible_id END,
             goodreads_id = CASE WHEN goodreads_id = '' THEN ? ELSE goodreads_id END,
             updated_at = ?
         WHERE id = ?`,
		strings.TrimSpace(openLibraryID),
		strings.TrimSpace(audibleID),
		strings.TrimSpace(goodreadsID),
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	)
	if err != nil {
		return fmt.Errorf("update author links: %w", err)
	}
	return nil
}

// TouchAuthorScanned records the completion time of an author scan.
func (s *Store) TouchAuthorScanned(ctx context.Context, id string, at time.Time) error {
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE authors SET last_scanned = ?, updated_at = ? WHERE id = ?`,
		at.UTC().Format(time.RFC3339Nano),
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	)
	if err != nil {
		return fmt.Errorf("touch author scanned: %w", err)
	}
	return nil
}

// DeactivateAuthor marks an author inactive without deleting its books.
func (s *Store) DeactivateAuthor(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE authors SET active = 0, updated_at = ? WHERE id = ? AND active = 1`,
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	)
	if err != nil {
		return false, fmt.Errorf("deactivate author: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// ListIdentities returns every author in the duplicate detector's input form.
func (s *Store) ListIdentities(ctx context.Context) ([]authorid.Identity, error) {
	authors, err := s.ListAuthors(ctx, true)
	if err != nil {
		return nil, err
	}
	identities := make([]authorid.Identity, 0, len(authors))
	for _, author := range authors {
		identities = append(identities, author.Identity())
	}
	return identities, nil
}

const authorColumns = "id, name, openlibrary_id, audible_id, goodreads_id, last_scanned, active, created_at, updated_at"

func scanAuthor(scanner interface{ Scan(dest ...any) error }) (*Author, error) {
	var (
		author         Author
		lastScannedRaw string
		active         int64
		createdRaw     string
		updatedRaw     string
	)
	if err := scanner.Scan(
		&author.ID,
		&author.Name,
		&author.OpenLibraryID,
		&author.AudibleID,
		&author.GoodreadsID,
		&lastScannedRaw,
		&active,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	author.Active = active != 0
	if ts, err := parseTimeString(lastScannedRaw); err == nil {
		author.LastScanned = ts
	}
	if ts, err := parseTimeString(createdRaw); err == nil {
		author.CreatedAt = ts
	}
	if ts, err := parseTimeString(updatedRaw); err == nil {
		author.UpdatedAt = ts
	}
	return &author, nil
}
