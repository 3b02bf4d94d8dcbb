package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"shelfarr/internal/catalog"
	"shelfarr/internal/config"
)

func newBooksCommand(ctx *commandContext) *cobra.Command {
	booksCmd := &cobra.Command{
		Use:   "books",
		Short: "Inspect and curate an author's catalog",
	}
	booksCmd.AddCommand(newBooksListCommand(ctx))
	booksCmd.AddCommand(newBooksRemoveCommand(ctx))
	booksCmd.AddCommand(newBooksReviewCommand(ctx))
	return booksCmd
}

func newBooksListCommand(ctx *commandContext) *cobra.Command {
	var (
		jsonOutput bool
		includeAll bool
	)
	cmd := &cobra.Command{
		Use:   "list <author>",
		Short: "List an author's books",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := strings.TrimSpace(strings.Join(args, " "))
			return ctx.withStore(func(_ *config.Config, store *catalog.Store) error {
				author, err := resolveAuthor(cmd, store, ref)
				if err != nil {
					return err
				}
				books, err := store.ListBooks(cmd.Context(), author.ID, includeAll)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, booksPayload(books))
				}
				if len(books) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "No books recorded for %s. Run: shelfarr scan %q\n", author.Name, author.Name)
					return nil
				}

				rows := make([][]string, 0, len(books))
				for _, book := range books {
					rows = append(rows, []string{
						book.ID,
						formatBookTitle(book),
						formatSeries(book),
						bestIdentifier(book),
						strconv.Itoa(book.MatchConfidence),
						yesNo(book.HaveIt),
					})
				}
				printTable(cmd,
					[]string{"ID", "Title", "Series", "Identifier", "Confidence", "Owned"},
					rows, 4)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of a table")
	cmd.Flags().BoolVar(&includeAll, "all", false, "Include removed books")
	return cmd
}

func newBooksRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <book-id>",
		Short: "Remove a book from the catalog",
		Long: "Marks the book removed without deleting its row, so later scans\n" +
			"recognize it and do not bring it back.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, store *catalog.Store) error {
				removed, err := store.SoftDeleteBook(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if !removed {
					return fmt.Errorf("book %s not found or already removed", args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed book %s\n", args[0])
				return nil
			})
		},
	}
}

func newBooksReviewCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "review <book-id>",
		Short: "Mark a book's match as reviewed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, store *catalog.Store) error {
				if err := store.MarkBookReviewed(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Marked book %s reviewed\n", args[0])
				return nil
			})
		},
	}
}

func formatBookTitle(book *catalog.Book) string {
	if book.Subtitle != "" {
		return book.Title + ": " + book.Subtitle
	}
	return book.Title
}

func formatSeries(book *catalog.Book) string {
	if book.Series == "" {
		return ""
	}
	if book.SeriesPosition != "" {
		return fmt.Sprintf("%s #%s", book.Series, book.SeriesPosition)
	}
	return book.Series
}

// bestIdentifier picks the strongest identifier the row carries.
func bestIdentifier(book *catalog.Book) string {
	switch {
	case book.ASIN != "":
		return "asin:" + book.ASIN
	case book.ISBN13 != "":
		return "isbn13:" + book.ISBN13
	case book.ISBN != "":
		return "isbn10:" + book.ISBN
	default:
		return ""
	}
}

type bookPayload struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Subtitle        string `json:"subtitle,omitempty"`
	Series          string `json:"series,omitempty"`
	SeriesPosition  string `json:"series_position,omitempty"`
	ISBN10          string `json:"isbn_10,omitempty"`
	ISBN13          string `json:"isbn_13,omitempty"`
	ASIN            string `json:"asin,omitempty"`
	ReleaseDate     string `json:"release_date,omitempty"`
	MatchConfidence int    `json:"match_confidence"`
	MatchMethod     string `json:"match_method,omitempty"`
	MatchReviewed   bool   `json:"match_reviewed"`
	HaveIt          bool   `json:"have_it"`
	Deleted         bool   `json:"deleted,omitempty"`
}

func booksPayload(books []*catalog.Book) []bookPayload {
	payload := make([]bookPayload, 0, len(books))
	for _, book := range books {
		payload = append(payload, bookPayload{
			ID:              book.ID,
			Title:           book.Title,
			Subtitle:        book.Subtitle,
			Series:          book.Series,
			SeriesPosition:  book.SeriesPosition,
			ISBN10:          book.ISBN,
			ISBN13:          book.ISBN13,
			ASIN:            book.ASIN,
			ReleaseDate:     book.ReleaseDate,
			MatchConfidence: book.MatchConfidence,
			MatchMethod:     book.MatchMethod,
			MatchReviewed:   book.MatchReviewed,
			HaveIt:          book.HaveIt,
			Deleted:         book.Deleted,
		})
	}
	return payload
}
