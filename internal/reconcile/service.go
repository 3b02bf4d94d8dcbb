package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"shelfarr/internal/bookid"
	"shelfarr/internal/catalog"
	"shelfarr/internal/config"
	"shelfarr/internal/logging"
)

// Source is one metadata provider queried during a scan.
type Source interface {
	Provider() bookid.Provider
	SearchAuthor(ctx context.Context, name, languageFilter string) ([]bookid.CandidateRecord, error)
}

// ItemOutcome records how one observed item fared against the candidate set.
type ItemOutcome struct {
	Observed bookid.ObservedItem
	Ranking  bookid.Ranking
	Tier     bookid.Tier
	// BookID is set when the outcome committed a mutation.
	BookID string
	Err    error
}

// Summary reports one author batch.
type Summary struct {
	AuthorID   string
	AuthorName string
	SessionID  string
	// BooksFound counts the consolidated provider candidates.
	BooksFound int
	// NewBooks counts catalog rows created during this batch.
	NewBooks int
	// Accepted counts observed items committed automatically.
	Accepted int
	// Suggested counts observed items in the suggest tier.
	Suggested int
	// Review counts observed items landing in manual review.
	Review int
	// Rejected counts observed items whose best candidate scored below the
	// review floor.
	Rejected int
	Outcomes []ItemOutcome
}

// Service coordinates provider queries, candidate consolidation, and match
// commits against the catalog store.
type Service struct {
	store          *catalog.Store
	sources        []Source
	languageFilter string
	parallelism    int
	logger         *slog.Logger
}

// New creates a scan service.
func New(store *catalog.Store, sources []Source, cfg *config.Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	parallelism := cfg.Scan.Parallelism
	if parallelism < 1 {
		parallelism = 1
	}
	return &Service{
		store:          store,
		sources:        sources,
		languageFilter: cfg.Providers.LanguageFilter,
		parallelism:    parallelism,
		logger:         logger,
	}
}

// ScanAuthor runs one author batch: provider search, candidate consolidation,
// catalog sync, then scoring of the supplied observed items. Provider
// failures degrade the batch rather than aborting it; the batch errors only
// when every source fails.
func (s *Service) ScanAuthor(ctx context.Context, author *catalog.Author, observed []bookid.ObservedItem) (*Summary, error) {
	if author == nil {
		return nil, errors.New("author is nil")
	}
	summary := &Summary{
		AuthorID:   author.ID,
		AuthorName: author.Name,
		SessionID:  uuid.NewString(),
	}
	logger := s.logger.With(
		logging.String("author", author.Name),
		logging.String("session_id", summary.SessionID),
	)

	candidates, err := s.gatherCandidates(ctx, logger, author.Name)
	if err != nil {
		return nil, err
	}
	consolidated := ConsolidateCandidates(candidates)
	summary.BooksFound = len(consolidated)
	logger.Info("provider candidates gathered",
		logging.Int("raw", len(candidates)),
		logging.Int("consolidated", len(consolidated)))

	created, err := s.syncBooks(ctx, author.ID, consolidated)
	if err != nil {
		return nil, err
	}
	summary.NewBooks = created

	summary.Outcomes = s.scoreObserved(ctx, observed, consolidated)
	for i := range summary.Outcomes {
		outcome := &summary.Outcomes[i]
		if outcome.Err != nil {
			continue
		}
		switch outcome.Tier {
		case bookid.TierAutoAccept:
			if err := s.commitMatch(ctx, author.ID, outcome); err != nil {
				outcome.Err = err
				logger.Warn("match commit failed",
					logging.String("title", outcome.Observed.Title), logging.Error(err))
				continue
			}
			summary.Accepted++
		case bookid.TierSuggest:
			summary.Suggested++
		case bookid.TierManualReview:
			summary.Review++
		default:
			summary.Rejected++
		}
	}

	now := time.Now().UTC()
	if err := s.store.RecordScan(ctx, catalog.ScanRecord{
		AuthorID:   author.ID,
		SessionID:  summary.SessionID,
		ScanDate:   now,
		BooksFound: summary.BooksFound,
		NewBooks:   summary.NewBooks,
	}); err != nil {
		return nil, err
	}
	if err := s.store.TouchAuthorScanned(ctx, author.ID, now); err != nil {
		return nil, err
	}

	logger.Info("author batch complete",
		logging.Int("books_found", summary.BooksFound),
		logging.Int("new_books", summary.NewBooks),
		logging.Int("accepted", summary.Accepted),
		logging.Int("suggested", summary.Suggested),
		logging.Int("review", summary.Review),
		logging.Int("rejected", summary.Rejected))
	return summary, nil
}

// gatherCandidates queries every source. One failing provider is logged and
// skipped; the scan fails only when no provider answered.
func (s *Service) gatherCandidates(ctx context.Context, logger *slog.Logger, name string) ([]bookid.CandidateRecord, error) {
	if len(s.sources) == 0 {
		return nil, errors.New("no metadata sources configured")
	}
	var (
		candidates []bookid.CandidateRecord
		failures   int
		lastErr    error
	)
	for _, source := range s.sources {
		records, err := source.SearchAuthor(ctx, name, s.languageFilter)
		if err != nil {
			failures++
			lastErr = err
			logger.Warn("provider search failed",
				logging.String("provider", string(source.Provider())), logging.Error(err))
			continue
		}
		candidates = append(candidates, records...)
	}
	if failures == len(s.sources) {
		return nil, fmt.Errorf("all metadata sources failed: %w", lastErr)
	}
	return candidates, nil
}

// ConsolidateCandidates groups raw provider records denoting the same logical
// book and folds each group into one preferred record. Grouping keys on the
// canonical identifier when present, else the normalized title.
func ConsolidateCandidates(records []bookid.CandidateRecord) []bookid.CandidateRecord {
	groups := make(map[string][]bookid.CandidateRecord)
	var order []string
	for _, record := range records {
		key := candidateKey(record)
		if key == "" {
			continue
		}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], record)
	}
	sort.Strings(order)

	consolidated := make([]bookid.CandidateRecord, 0, len(order))
	for _, key := range order {
		consolidated = append(consolidated, bookid.ResolvePreferred(groups[key]))
	}
	return consolidated
}

func candidateKey(record bookid.CandidateRecord) string {
	title, _, _ := bookid.ExtractSeries(record.Title)
	normalized := bookid.NormalizeTitle(title)
	if normalized == "" {
		return ""
	}
	return normalized
}

// syncBooks makes sure every consolidated candidate has a catalog row, then
// fills empty descriptive fields from the candidate. Rows matched by
// identifier or normalized title are reused; a candidate resolving to a
// soft-deleted row is skipped entirely, so a removed book never comes back.
func (s *Service) syncBooks(ctx context.Context, authorID string, candidates []bookid.CandidateRecord) (int, error) {
	created := 0
	for _, candidate := range candidates {
		book, err := s.findBookForCandidate(ctx, authorID, candidate)
		if err != nil {
			return created, err
		}
		if book != nil && book.Deleted {
			continue
		}
		if book == nil {
			title, _, _ := bookid.ExtractSeries(candidate.Title)
			book, err = s.store.CreateBook(ctx, authorID, title)
			if err != nil {
				return created, fmt.Errorf("create book %q: %w", candidate.Title, err)
			}
			created++
		}
		mutation := fillMutation(candidate, book.View())
		if mutation.Empty() {
			continue
		}
		// Field fill only: keep whatever match bookkeeping the row already has.
		mutation.MatchConfidence = book.MatchConfidence
		mutation.MatchMethod = bookid.MatchMethod(book.MatchMethod)
		if mutation.MatchMethod == "" {
			mutation.MatchMethod = bookid.MatchMethodManual
		}
		if err := s.store.ApplyMutation(ctx, mutation); err != nil {
			return created, fmt.Errorf("sync book %q: %w", candidate.Title, err)
		}
	}
	return created, nil
}

func (s *Service) findBookForCandidate(ctx context.Context, authorID string, candidate bookid.CandidateRecord) (*catalog.Book, error) {
	book, err := s.store.FindBookByIdentifier(ctx, authorID, candidate.ASIN, candidate.ISBN10, candidate.ISBN13)
	if err != nil || book != nil {
		return book, err
	}
	title, _, _ := bookid.ExtractSeries(candidate.Title)
	return s.store.FindBookByTitle(ctx, authorID, title)
}

// fillMutation maps a candidate's descriptive fields onto merge-preserving
// field changes against an existing row.
func fillMutation(candidate bookid.CandidateRecord, view bookid.BookView) bookid.Mutation {
	return bookid.ApplyMatch(
		bookid.ObservedItem{Provenance: bookid.ProvenanceManual},
		bookid.MatchResult{Candidate: candidate},
		view,
	)
}

// scoreObserved ranks every observed item against the candidate set, fanning
// the scoring out over a bounded set of goroutines. Output order matches
// input order regardless of scheduling.
func (s *Service) scoreObserved(ctx context.Context, observed []bookid.ObservedItem, candidates []bookid.CandidateRecord) []ItemOutcome {
	outcomes := make([]ItemOutcome, len(observed))
	if len(observed) == 0 {
		return outcomes
	}

	type job struct {
		index int
		item  bookid.ObservedItem
	}
	jobs := make(chan job)
	done := make(chan struct{})

	workers := s.parallelism
	if workers > len(observed) {
		workers = len(observed)
	}
	for w := 0; w < workers; w++ {
		go func() {
			for j := range jobs {
				outcome := ItemOutcome{Observed: j.item}
				ranking, err := bookid.Rank(j.item, candidates)
				if err != nil {
					outcome.Err = err
				} else {
					outcome.Ranking = ranking
					outcome.Tier = ranking.Decision()
				}
				outcomes[j.index] = outcome
				done <- struct{}{}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i, item := range observed {
			select {
			case jobs <- job{index: i, item: item}:
			case <-ctx.Done():
				return
			}
		}
	}()

	for range observed {
		select {
		case <-done:
		case <-ctx.Done():
			return outcomes
		}
	}
	return outcomes
}

// commitMatch writes an auto-accepted match: the target row is found by
// identifier or title (created when absent), the mutation applied, and the
// book flagged as owned since the item was observed locally. A match landing
// on a soft-deleted row commits nothing; the user removed that book.
func (s *Service) commitMatch(ctx context.Context, authorID string, outcome *ItemOutcome) error {
	best := outcome.Ranking.Best()
	if best == nil {
		return errors.New("no best candidate to commit")
	}
	book, err := s.findBookForCandidate(ctx, authorID, best.Candidate)
	if err != nil {
		return err
	}
	if book != nil && book.Deleted {
		return nil
	}
	if book == nil {
		title, _, _ := bookid.ExtractSeries(best.Candidate.Title)
		book, err = s.store.CreateBook(ctx, authorID, title)
		if err != nil {
			return err
		}
	}
	mutation := bookid.ApplyMatch(outcome.Observed, *best, book.View())
	if err := s.store.ApplyMutation(ctx, mutation); err != nil {
		return err
	}
	if err := s.store.SetBookOwned(ctx, book.ID, true); err != nil {
		return err
	}
	outcome.BookID = book.ID
	return nil
}

// FilterObservedByAuthor keeps the observed items credited to the named
// author, compared through author normalization so initials and diacritics
// do not split the batch.
func FilterObservedByAuthor(items []bookid.ObservedItem, authorName string) []bookid.ObservedItem {
	var filtered []bookid.ObservedItem
	for _, item := range items {
		for _, credit := range item.Authors {
			if bookid.SameAuthor(credit, authorName) {
				filtered = append(filtered, item)
				break
			}
		}
	}
	return filtered
}
