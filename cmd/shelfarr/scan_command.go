package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"shelfarr/internal/bookid"
	"shelfarr/internal/catalog"
	"shelfarr/internal/config"
	"shelfarr/internal/notifications"
	"shelfarr/internal/reconcile"
	"shelfarr/internal/scanner"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var skipLocal bool
	cmd := &cobra.Command{
		Use:   "scan [author]",
		Short: "Scan providers and local sources for tracked authors",
		Long: "Queries the metadata providers for each tracked author, syncs the\n" +
			"results into the catalog, and matches locally observed audiobooks\n" +
			"(filesystem scan roots plus Audiobookshelf when enabled) against them.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(cfg *config.Config, store *catalog.Store, service *reconcile.Service) error {
				authors, err := scanTargets(cmd, store, strings.TrimSpace(strings.Join(args, " ")))
				if err != nil {
					return err
				}
				if len(authors) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No authors tracked. Add one with: shelfarr authors add <name>")
					return nil
				}

				var observed []bookid.ObservedItem
				if !skipLocal {
					observed, err = gatherObserved(cmd.Context(), ctx, cfg)
					if err != nil {
						return err
					}
				}

				notifier := notifications.NewService(cfg)
				rows := make([][]string, 0, len(authors))
				failures := 0
				for _, author := range authors {
					items := reconcile.FilterObservedByAuthor(observed, author.Name)
					summary, err := service.ScanAuthor(cmd.Context(), author, items)
					if err != nil {
						if cmd.Context().Err() != nil {
							return err
						}
						failures++
						rows = append(rows, []string{author.Name, "-", "-", "-", "-", "-", err.Error()})
						notify(cmd, notifier.NotifyError(cmd.Context(), err, "scan"))
						continue
					}
					if summary.NewBooks > 0 || summary.Accepted > 0 {
						notify(cmd, notifier.NotifyScanCompleted(cmd.Context(), author.Name, summary.NewBooks, summary.Accepted))
					}
					if summary.Review > 0 {
						notify(cmd, notifier.NotifyReviewNeeded(cmd.Context(), author.Name, summary.Review))
					}
					rows = append(rows, []string{
						author.Name,
						strconv.Itoa(summary.BooksFound),
						strconv.Itoa(summary.NewBooks),
						strconv.Itoa(summary.Accepted),
						strconv.Itoa(summary.Suggested),
						strconv.Itoa(summary.Review),
						"",
					})
				}

				printTable(cmd,
					[]string{"Author", "Found", "New", "Accepted", "Suggested", "Review", "Error"},
					rows, 1, 2, 3, 4, 5)
				if failures > 0 {
					return fmt.Errorf("%d of %d author scans failed", failures, len(authors))
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&skipLocal, "no-local", false, "Skip filesystem and Audiobookshelf sources")
	return cmd
}

// notify surfaces a notification delivery failure without failing the scan.
func notify(cmd *cobra.Command, err error) {
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: notification failed: %v\n", err)
	}
}

// scanTargets resolves the author argument, or every active author when the
// argument is empty.
func scanTargets(cmd *cobra.Command, store *catalog.Store, ref string) ([]*catalog.Author, error) {
	if ref != "" {
		author, err := resolveAuthor(cmd, store, ref)
		if err != nil {
			return nil, err
		}
		return []*catalog.Author{author}, nil
	}
	return store.ListAuthors(cmd.Context(), false)
}

// gatherObserved collects locally observed audiobooks from the filesystem
// scan roots and, when enabled, the Audiobookshelf server.
func gatherObserved(cmdCtx context.Context, ctx *commandContext, cfg *config.Config) ([]bookid.ObservedItem, error) {
	logger, err := ctx.ensureLogger()
	if err != nil {
		return nil, err
	}

	var observed []bookid.ObservedItem
	if len(cfg.Scanner.Roots) > 0 {
		items, err := scanner.New(cfg, logger).Scan(cmdCtx)
		if err != nil {
			return nil, fmt.Errorf("filesystem scan: %w", err)
		}
		observed = append(observed, items...)
	}

	shelf, err := libraryClient(cfg)
	if err != nil {
		return nil, err
	}
	if shelf != nil {
		items, err := shelf.AllItems(cmdCtx)
		if err != nil {
			return nil, fmt.Errorf("audiobookshelf: %w", err)
		}
		observed = append(observed, items...)
	}
	return observed, nil
}
