package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"shelfarr/internal/bookid"
	"shelfarr/internal/config"
	"shelfarr/internal/reconcile"
)

func newMatchCommand(ctx *commandContext) *cobra.Command {
	var (
		title      string
		authors    []string
		asin       string
		isbn       string
		duration   int
		series     string
		position   string
		jsonOutput bool
	)
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Evaluate one audiobook against the metadata providers",
		Long: "Builds an observed item from the flags, queries every configured\n" +
			"provider for the author's catalog, and prints the ranked matches\n" +
			"with their scoring evidence.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if strings.TrimSpace(title) == "" {
				return fmt.Errorf("--title is required")
			}
			if len(authors) == 0 {
				return fmt.Errorf("--author is required")
			}

			observed := bookid.ObservedItem{
				Title:           title,
				Authors:         authors,
				ASIN:            asin,
				DurationSeconds: duration * 60,
				Series:          series,
				SeriesPosition:  position,
				Provenance:      bookid.ProvenanceManual,
			}
			if normalized := bookid.NormalizeISBN(isbn); normalized != "" {
				if len(normalized) == 13 {
					observed.ISBN13 = normalized
				} else {
					observed.ISBN10 = normalized
				}
			}
			if observed.Series == "" {
				cleaned, extractedSeries, extractedPosition := bookid.ExtractSeries(observed.Title)
				observed.Title = cleaned
				observed.Series = extractedSeries
				observed.SeriesPosition = extractedPosition
			}

			sources, err := buildSources(cfg)
			if err != nil {
				return err
			}
			candidates, err := searchSources(cmd, cfg, sources, authors[0])
			if err != nil {
				return err
			}
			consolidated := reconcile.ConsolidateCandidates(candidates)

			ranking, err := bookid.Rank(observed, consolidated)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, matchPayload(ranking))
			}
			renderRanking(cmd, ranking)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Title of the audiobook to match")
	cmd.Flags().StringArrayVar(&authors, "author", nil, "Author name (repeatable)")
	cmd.Flags().StringVar(&asin, "asin", "", "Audible ASIN, if known")
	cmd.Flags().StringVar(&isbn, "isbn", "", "ISBN-10 or ISBN-13, if known")
	cmd.Flags().IntVar(&duration, "duration", 0, "Runtime in minutes, if known")
	cmd.Flags().StringVar(&series, "series", "", "Series name")
	cmd.Flags().StringVar(&position, "position", "", "Position within the series")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of a table")
	return cmd
}

// searchSources queries every provider for the author's catalog. A provider
// failure is reported and skipped; the command fails only when nothing
// answered.
func searchSources(cmd *cobra.Command, cfg *config.Config, sources []reconcile.Source, authorName string) ([]bookid.CandidateRecord, error) {
	var (
		candidates []bookid.CandidateRecord
		failures   int
		lastErr    error
	)
	for _, source := range sources {
		records, err := source.SearchAuthor(cmd.Context(), authorName, cfg.Providers.LanguageFilter)
		if err != nil {
			failures++
			lastErr = err
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: %v\n", source.Provider(), err)
			continue
		}
		candidates = append(candidates, records...)
	}
	if failures == len(sources) {
		return nil, fmt.Errorf("all metadata sources failed: %w", lastErr)
	}
	return candidates, nil
}

func renderRanking(cmd *cobra.Command, ranking bookid.Ranking) {
	out := cmd.OutOrStdout()
	if len(ranking.Results) == 0 {
		fmt.Fprintln(out, "No candidates found.")
		return
	}

	rows := make([][]string, 0, len(ranking.Results))
	for i, result := range ranking.Results {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			result.Candidate.Title,
			string(result.Candidate.Provider),
			strconv.Itoa(result.Total),
			string(result.Tier),
			strings.Join(result.Breakdown.Explain(), "; "),
		})
	}
	printTable(cmd, []string{"#", "Title", "Provider", "Score", "Tier", "Evidence"}, rows, 0, 3)

	decision := ranking.Decision()
	if ranking.AmbiguousTie {
		fmt.Fprintln(out, "Top candidates are indistinguishable; decision deferred to manual review.")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Decision: %s\n", colorizeTier(decision))
}

func colorizeTier(tier bookid.Tier) string {
	if !shouldColorize() {
		return string(tier)
	}
	switch tier {
	case bookid.TierAutoAccept:
		return text.FgGreen.Sprint(string(tier))
	case bookid.TierSuggest:
		return text.FgCyan.Sprint(string(tier))
	case bookid.TierManualReview:
		return text.FgYellow.Sprint(string(tier))
	default:
		return text.FgRed.Sprint(string(tier))
	}
}

type matchCandidatePayload struct {
	Rank     int      `json:"rank"`
	Title    string   `json:"title"`
	Provider string   `json:"provider"`
	RecordID string   `json:"record_id"`
	Score    int      `json:"score"`
	Tier     string   `json:"tier"`
	Evidence []string `json:"evidence"`
}

type matchResultPayload struct {
	Decision     string                  `json:"decision"`
	AmbiguousTie bool                    `json:"ambiguous_tie"`
	Candidates   []matchCandidatePayload `json:"candidates"`
}

func matchPayload(ranking bookid.Ranking) matchResultPayload {
	payload := matchResultPayload{
		Decision:     string(ranking.Decision()),
		AmbiguousTie: ranking.AmbiguousTie,
		Candidates:   make([]matchCandidatePayload, 0, len(ranking.Results)),
	}
	for i, result := range ranking.Results {
		payload.Candidates = append(payload.Candidates, matchCandidatePayload{
			Rank:     i + 1,
			Title:    result.Candidate.Title,
			Provider: string(result.Candidate.Provider),
			RecordID: result.Candidate.RecordID,
			Score:    result.Total,
			Tier:     string(result.Tier),
			Evidence: result.Breakdown.Explain(),
		})
	}
	return payload
}
