package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"shelfarr/internal/authorid"
	"shelfarr/internal/catalog"
	"shelfarr/internal/config"
	"shelfarr/internal/notifications"
	"shelfarr/internal/reconcile"
)

func newDupesCommand(ctx *commandContext) *cobra.Command {
	var (
		jsonOutput   bool
		authorFilter string
	)
	dupesCmd := &cobra.Command{
		Use:   "dupes",
		Short: "Find and merge duplicate author entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(cfg *config.Config, _ *catalog.Store, service *reconcile.Service) error {
				pairs, err := service.FindDuplicateAuthors(cmd.Context())
				if err != nil {
					return err
				}
				pairs = filterPairs(pairs, authorFilter)
				if len(pairs) > 0 {
					notify(cmd, notifications.NewService(cfg).NotifyDuplicatesFound(cmd.Context(), len(pairs)))
				}
				if jsonOutput {
					return writeJSON(cmd, dupesPayload(pairs))
				}
				if len(pairs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No duplicate authors found.")
					return nil
				}

				rows := make([][]string, 0, len(pairs))
				for _, pair := range pairs {
					rows = append(rows, []string{
						fmt.Sprintf("%s (%s)", pair.A.Name, pair.A.ID),
						fmt.Sprintf("%s (%s)", pair.B.Name, pair.B.ID),
						strconv.Itoa(pair.NameScore),
						strconv.Itoa(pair.SharedBooks),
						strings.Join(pair.SharedIdentifiers, ", "),
					})
				}
				printTable(cmd,
					[]string{"Author", "Possible Duplicate", "Name Score", "Shared Books", "Shared Identifiers"},
					rows, 2, 3)
				fmt.Fprintln(cmd.OutOrStdout(), "Merge a pair with: shelfarr dupes merge <primary> <duplicate>")
				return nil
			})
		},
	}
	dupesCmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of a table")
	dupesCmd.Flags().StringVar(&authorFilter, "author", "", "Only show pairs involving this author name")
	dupesCmd.AddCommand(newDupesMergeCommand(ctx))
	return dupesCmd
}

// filterPairs keeps pairs where either side's name contains the filter,
// compared case-insensitively.
func filterPairs(pairs []authorid.CandidatePair, filter string) []authorid.CandidatePair {
	filter = strings.ToLower(strings.TrimSpace(filter))
	if filter == "" {
		return pairs
	}
	var kept []authorid.CandidatePair
	for _, pair := range pairs {
		if strings.Contains(strings.ToLower(pair.A.Name), filter) ||
			strings.Contains(strings.ToLower(pair.B.Name), filter) {
			kept = append(kept, pair)
		}
	}
	return kept
}

func newDupesMergeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "merge <primary> <duplicate>",
		Short: "Merge a duplicate author into the primary entry",
		Long: "Re-points the duplicate's books to the primary author, carries over\n" +
			"provider links the primary lacks, and deactivates the duplicate. The\n" +
			"merge is atomic and refuses pairs whose books disagree on identifiers.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(_ *config.Config, store *catalog.Store, service *reconcile.Service) error {
				primary, err := resolveAuthor(cmd, store, args[0])
				if err != nil {
					return err
				}
				duplicate, err := resolveAuthor(cmd, store, args[1])
				if err != nil {
					return err
				}

				spec, err := service.MergeAuthors(cmd.Context(), primary.ID, duplicate.ID)
				if err != nil {
					return err
				}
				if spec.NoOp {
					fmt.Fprintf(cmd.OutOrStdout(), "%s is already merged into %s; nothing to do.\n",
						duplicate.Name, primary.Name)
					return nil
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Merged %s into %s: %d books re-pointed",
					duplicate.Name, primary.Name, len(spec.RepointBookIDs))
				if links := gainedLinks(spec); len(links) > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), ", gained %s", strings.Join(links, ", "))
				}
				fmt.Fprintln(cmd.OutOrStdout())
				return nil
			})
		},
	}
}

func gainedLinks(spec authorid.MergeSpec) []string {
	var links []string
	if spec.OpenLibraryID != "" {
		links = append(links, "openlibrary id")
	}
	if spec.AudibleID != "" {
		links = append(links, "audible id")
	}
	if spec.GoodreadsID != "" {
		links = append(links, "goodreads id")
	}
	return links
}

type dupePairPayload struct {
	AuthorID          string   `json:"a_id"`
	AuthorName        string   `json:"a_name"`
	OtherID           string   `json:"b_id"`
	OtherName         string   `json:"b_name"`
	NameScore         int      `json:"name_score"`
	SharedBooks       int      `json:"shared_books"`
	SharedIdentifiers []string `json:"shared_identifiers,omitempty"`
}

func dupesPayload(pairs []authorid.CandidatePair) []dupePairPayload {
	payload := make([]dupePairPayload, 0, len(pairs))
	for _, pair := range pairs {
		payload = append(payload, dupePairPayload{
			AuthorID:          pair.A.ID,
			AuthorName:        pair.A.Name,
			OtherID:           pair.B.ID,
			OtherName:         pair.B.Name,
			NameScore:         pair.NameScore,
			SharedBooks:       pair.SharedBooks,
			SharedIdentifiers: pair.SharedIdentifiers,
		})
	}
	return payload
}
