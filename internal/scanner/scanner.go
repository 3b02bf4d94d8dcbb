package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"go.senan.xyz/taglib"

	"shelfarr/internal/bookid"
	"shelfarr/internal/config"
	"shelfarr/internal/logging"
)

// Scanner walks the configured roots and turns audio files into observed
// items with filesystem provenance.
type Scanner struct {
	roots      []string
	extensions map[string]struct{}
	logger     *slog.Logger
}

// New creates a Scanner from configuration.
func New(cfg *config.Config, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = logging.NewNop()
	}
	extensions := make(map[string]struct{}, len(cfg.Scanner.Extensions))
	for _, ext := range cfg.Scanner.Extensions {
		extensions[strings.ToLower(ext)] = struct{}{}
	}
	return &Scanner{
		roots:      append([]string(nil), cfg.Scanner.Roots...),
		extensions: extensions,
		logger:     logger,
	}
}

// Scan walks every root and returns one observed item per audio file. A root
// that does not exist is skipped with a warning rather than failing the whole
// scan.
func (s *Scanner) Scan(ctx context.Context) ([]bookid.ObservedItem, error) {
	var items []bookid.ObservedItem
	for _, root := range s.roots {
		err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				if path == root {
					s.logger.Warn("skipping scan root", logging.String("root", root), logging.Error(walkErr))
					return filepath.SkipDir
				}
				return walkErr
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if entry.IsDir() {
				return nil
			}
			if _, ok := s.extensions[strings.ToLower(filepath.Ext(path))]; !ok {
				return nil
			}
			items = append(items, s.observe(path))
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}
	return items, nil
}

// observe builds the observed item for one audio file: embedded tags first,
// filename parse when the file carries none.
func (s *Scanner) observe(path string) bookid.ObservedItem {
	item := bookid.ObservedItem{
		Provenance: bookid.ProvenanceFilesystem,
		SourcePath: path,
	}

	tags, err := taglib.ReadTags(path)
	if err != nil {
		s.logger.Debug("tag read failed, falling back to filename",
			logging.String("path", path), logging.Error(err))
	} else {
		item.Title = firstTag(tags, taglib.Title)
		if author := firstTag(tags, taglib.AlbumArtist); author != "" {
			item.Authors = []string{author}
		} else if author := firstTag(tags, taglib.Artist); author != "" {
			item.Authors = []string{author}
		}
		// Audiobook rips commonly store the book title in the album tag and
		// chapter names in the title tag.
		if album := firstTag(tags, taglib.Album); album != "" && item.Title == "" {
			item.Title = album
		}
	}

	if props, err := taglib.ReadProperties(path); err == nil {
		item.DurationSeconds = int(props.Length.Seconds())
	}

	if item.Title == "" {
		title, author := parseFilename(path)
		item.Title = title
		if author != "" && len(item.Authors) == 0 {
			item.Authors = []string{author}
		}
	}

	title, series, position := bookid.ExtractSeries(item.Title)
	item.Title = title
	if series != "" {
		item.Series = series
		item.SeriesPosition = position
	}
	return item
}

// parseFilename recovers title and author from an untagged file. Files named
// with the "Author - Title" convention yield both; anything else becomes a
// bare title.
func parseFilename(path string) (title, author string) {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	base = strings.TrimSpace(base)
	if base == "" {
		return "", ""
	}
	if parts := strings.SplitN(base, " - ", 2); len(parts) == 2 {
		author = strings.TrimSpace(parts[0])
		title = strings.TrimSpace(parts[1])
		if title != "" {
			return title, author
		}
	}
	return base, ""
}

func firstTag(tags map[string][]string, key string) string {
	if values, ok := tags[key]; ok && len(values) > 0 {
		return strings.TrimSpace(values[0])
	}
	return ""
}
