package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// RecordScan appends one row of scan history for an author.
func (s *Store) RecordScan(ctx context.Context, record ScanRecord) error {
	if record.AuthorID == "" {
		return errors.New("scan record has no author id")
	}
	scanDate := record.ScanDate
	if scanDate.IsZero() {
		scanDate = time.Now().UTC()
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO scan_history (author_id, session_id, scan_date, books_found, new_books)
         VALUES (?, ?, ?, ?, ?)`,
		record.AuthorID,
		record.SessionID,
		scanDate.UTC().Format(time.RFC3339Nano),
		record.BooksFound,
		record.NewBooks,
	)
	if err != nil {
		return fmt.Errorf("record scan: %w", err)
	}
	return nil
}

// ScanHistory returns an author's scan history, newest first.
func (s *Store) ScanHistory(ctx context.Context, authorID string, limit int) ([]ScanRecord, error) {
	query := `SELECT id, author_id, session_id, scan_date, books_found, new_books
        FROM scan_history WHERE author_id = ? ORDER BY scan_date DESC, id DESC`
	args := []any{authorID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("scan history: %w", err)
	}
	defer rows.Close()

	var records []ScanRecord
	for rows.Next() {
		var (
			record  ScanRecord
			dateRaw string
		)
		if err := rows.Scan(&record.ID, &record.AuthorID, &record.SessionID, &dateRaw, &record.BooksFound, &record.NewBooks); err != nil {
			return nil, err
		}
		if ts, err := parseTimeString(dateRaw); err == nil {
			record.ScanDate = ts
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
