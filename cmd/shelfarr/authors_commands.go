package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"shelfarr/internal/catalog"
	"shelfarr/internal/config"
)

func newAuthorsCommand(ctx *commandContext) *cobra.Command {
	authorsCmd := &cobra.Command{
		Use:   "authors",
		Short: "Manage tracked authors",
	}
	authorsCmd.AddCommand(newAuthorsAddCommand(ctx))
	authorsCmd.AddCommand(newAuthorsListCommand(ctx))
	authorsCmd.AddCommand(newAuthorsRemoveCommand(ctx))
	return authorsCmd
}

func newAuthorsAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Start tracking an author",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(strings.Join(args, " "))
			return ctx.withStore(func(_ *config.Config, store *catalog.Store) error {
				author, err := store.CreateAuthor(cmd.Context(), name)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Tracking %s (%s)\n", author.Name, author.ID)
				return nil
			})
		},
	}
}

func newAuthorsListCommand(ctx *commandContext) *cobra.Command {
	var (
		jsonOutput bool
		includeAll bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tracked authors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, store *catalog.Store) error {
				authors, err := store.ListAuthors(cmd.Context(), includeAll)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, authorsPayload(authors))
				}
				if len(authors) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No authors tracked. Add one with: shelfarr authors add <name>")
					return nil
				}

				rows := make([][]string, 0, len(authors))
				for _, author := range authors {
					books, err := store.ListBooks(cmd.Context(), author.ID, false)
					if err != nil {
						return err
					}
					owned := 0
					for _, book := range books {
						if book.HaveIt {
							owned++
						}
					}
					rows = append(rows, []string{
						author.ID,
						author.Name,
						strconv.Itoa(len(books)),
						strconv.Itoa(owned),
						formatScanTime(author.LastScanned),
					})
				}
				printTable(cmd, []string{"ID", "Name", "Books", "Owned", "Last Scanned"}, rows, 2, 3)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of a table")
	cmd.Flags().BoolVar(&includeAll, "all", false, "Include removed authors")
	return cmd
}

func newAuthorsRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name or id>",
		Short: "Stop tracking an author",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := strings.TrimSpace(strings.Join(args, " "))
			return ctx.withStore(func(_ *config.Config, store *catalog.Store) error {
				author, err := resolveAuthor(cmd, store, ref)
				if err != nil {
					return err
				}
				removed, err := store.DeactivateAuthor(cmd.Context(), author.ID)
				if err != nil {
					return err
				}
				if !removed {
					return fmt.Errorf("author %s is already removed", author.Name)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Stopped tracking %s\n", author.Name)
				return nil
			})
		},
	}
}

// resolveAuthor accepts either an author id or a name.
func resolveAuthor(cmd *cobra.Command, store *catalog.Store, ref string) (*catalog.Author, error) {
	author, err := store.GetAuthor(cmd.Context(), ref)
	if err != nil {
		return nil, err
	}
	if author == nil {
		author, err = store.GetAuthorByName(cmd.Context(), ref)
		if err != nil {
			return nil, err
		}
	}
	if author == nil {
		return nil, fmt.Errorf("unknown author %q", ref)
	}
	return author, nil
}

type authorPayload struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	OpenLibraryID string `json:"openlibrary_id,omitempty"`
	AudibleID     string `json:"audible_id,omitempty"`
	GoodreadsID   string `json:"goodreads_id,omitempty"`
	Active        bool   `json:"active"`
	LastScanned   string `json:"last_scanned,omitempty"`
}

func authorsPayload(authors []*catalog.Author) []authorPayload {
	payload := make([]authorPayload, 0, len(authors))
	for _, author := range authors {
		entry := authorPayload{
			ID:            author.ID,
			Name:          author.Name,
			OpenLibraryID: author.OpenLibraryID,
			AudibleID:     author.AudibleID,
			GoodreadsID:   author.GoodreadsID,
			Active:        author.Active,
		}
		if !author.LastScanned.IsZero() {
			entry.LastScanned = author.LastScanned.UTC().Format(time.RFC3339)
		}
		payload = append(payload, entry)
	}
	return payload
}

func formatScanTime(at time.Time) string {
	if at.IsZero() {
		return "never"
	}
	return at.Local().Format("2006-01-02 15:04")
}
