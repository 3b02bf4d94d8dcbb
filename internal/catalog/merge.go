package catalog

import (
	"context"
	"fmt"
	"time"

	"shelfarr/internal/authorid"
)

// ApplyAuthorMerge commits a planned author merge in a single transaction:
// books re-point to the primary, the primary's empty provider links fill from
// the duplicate, and the duplicate goes inactive. A no-op spec returns
// immediately, which is what makes replaying a merge safe.
func (s *Store) ApplyAuthorMerge(ctx context.Context, spec authorid.MergeSpec) error {
	if spec.NoOp {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin merge tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	timestamp := time.Now().UTC().Format(time.RFC3339Nano)

	for _, bookID := range spec.RepointBookIDs {
		if _, err := tx.ExecContext(
			ctx,
			`UPDATE books SET author_id = ?, updated_at = ? WHERE id = ?`,
			spec.PrimaryID,
			timestamp,
			bookID,
		); err != nil {
			return fmt.Errorf("repoint book %s: %w", bookID, err)
		}
	}

	if _, err := tx.ExecContext(
		ctx,
		`UPDATE authors
         SET openlibrary_id = CASE WHEN openlibrary_id = '' THEN ? ELSE openlibrary_id END,
             audible_id = CASE WHEN audible_id = '' THEN ? ELSE audible_id END,
             goodreads_id = CASE WHEN goodreads_id = '' THEN ? ELSE goodreads_id END,
             updated_at = ?
         WHERE id = ?`,
		spec.OpenLibraryID,
		spec.AudibleID,
		spec.GoodreadsID,
		timestamp,
		spec.PrimaryID,
	); err != nil {
		return fmt.Errorf("fill primary author links: %w", err)
	}

	if _, err := tx.ExecContext(
		ctx,
		`UPDATE authors SET active = 0, updated_at = ? WHERE id = ?`,
		timestamp,
		spec.DuplicateID,
	); err != nil {
		return fmt.Errorf("deactivate duplicate author: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit merge: %w", err)
	}
	return nil
}
