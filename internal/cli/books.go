package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mrlokans/reader/internal/config"
	"github.com/mrlokans/reader/internal/entities"
	"github.com/mrlokans/reader/internal/entrypoint"
)

func newBooksCmd(cfg *config.Config) *cobra.Command {
	var (
		folderID string
		jsonOut  bool
	)

	cmd := &cobra.Command{
		Use:   "books",
		Short: "List books with reading progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, store, err := entrypoint.OpenLibrary(cfg, true)
			if err != nil {
				return err
			}
			defer db.Close()

			books := store.Books()
			if folderID != "" {
				if books, err = store.BooksInFolder(folderID); err != nil {
					return err
				}
			}
			return PrintBooks(cmd.OutOrStdout(), books, jsonOut)
		},
	}

	cmd.Flags().StringVar(&folderID, "folder", "", "Only list books in this folder")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func newSearchCmd(cfg *config.Config) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search books by title, author or tags",
		Long: `Search the library for books whose title, author or tags contain
the query (case-insensitive).

Examples:
  reader search gatsby
  reader search "jane austen" --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, store, err := entrypoint.OpenLibrary(cfg, true)
			if err != nil {
				return err
			}
			defer db.Close()

			books := store.SearchBooks(args[0])
			if len(books) == 0 && !jsonOut {
				warn(cmd.OutOrStdout(), "No books match %q", args[0])
				return nil
			}
			return PrintBooks(cmd.OutOrStdout(), books, jsonOut)
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

// PrintBooks writes one line per book, or book summaries as JSON.
func PrintBooks(w io.Writer, books []entities.Book, jsonOut bool) error {
	if jsonOut {
		out := make([]entities.BookSummary, 0, len(books))
		for _, b := range books {
			out = append(out, b.Summary())
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	header(w, "── %d books", len(books))
	for _, b := range books {
		tags := ""
		if len(b.Tags) > 0 {
			tags = " " + color.CyanString("["+strings.Join(b.Tags, ",")+"]")
		}
		fmt.Fprintf(w, "  %-36s  %s by %s  %s%s\n",
			color.WhiteString(b.ID),
			b.Title,
			b.Author,
			progressLabel(b),
			tags,
		)
	}
	return nil
}

func progressLabel(b entities.Book) string {
	if b.CurrentPage == 0 {
		return color.YellowString("unread")
	}
	return fmt.Sprintf("%d/%d (%.0f%%)", b.CurrentPage, b.TotalPages, b.Progress*100)
}
